package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	apperrors "membergate/errors"
	"membergate/models"
	"membergate/services/logger"
	"membergate/stores"
	"membergate/validator"
)

type CreateMemberInput struct {
	Code        string
	Secret      string
	DisplayName string
}

// MemberPatch carries the fields an admin may change. Nil fields are left
// untouched; code, role and creation time are never patchable.
type MemberPatch struct {
	DisplayName *string
	Comment     *string
	Secret      *string
}

type DirectoryServiceOptions struct {
	Auth    *AuthService
	Members stores.MemberStore
	Hasher  Hasher
	// Cache is optional; nil disables directory caching.
	Cache  MemberListCache
	Logger *slog.Logger
}

// DirectoryService is the admin-only member directory.
type DirectoryService struct {
	auth    *AuthService
	members stores.MemberStore
	hasher  Hasher
	cache   MemberListCache
	logger  *slog.Logger
}

func NewDirectoryService(opts DirectoryServiceOptions) *DirectoryService {
	return &DirectoryService{
		auth:    opts.Auth,
		members: opts.Members,
		hasher:  opts.Hasher,
		cache:   opts.Cache,
		logger:  logger.OrDiscard(opts.Logger).With("component", "directory"),
	}
}

func (s *DirectoryService) CreateMember(ctx context.Context, caller Principal, input CreateMemberInput) (models.Member, error) {
	if err := s.auth.Require(caller, models.RoleAdmin); err != nil {
		return models.Member{}, err
	}

	code := strings.TrimSpace(input.Code)
	if err := validator.ValidateCode(code); err != nil {
		return models.Member{}, err
	}
	if err := validator.ValidateSecret(input.Secret); err != nil {
		return models.Member{}, err
	}
	displayName := strings.TrimSpace(input.DisplayName)
	if err := validator.ValidateText("display name", displayName); err != nil {
		return models.Member{}, err
	}

	hashed, err := s.hasher.Hash(input.Secret)
	if err != nil {
		return models.Member{}, apperrors.Internal("failed to hash PIN", err)
	}

	member := models.Member{
		Code:        code,
		SecretHash:  hashed,
		Role:        models.RoleMember,
		DisplayName: displayName,
		Comment:     "",
		Active:      true,
	}
	if err := s.members.Create(ctx, &member); err != nil {
		if errors.Is(err, stores.ErrDuplicateCode) {
			return models.Member{}, apperrors.ErrConflict
		}
		s.logger.ErrorContext(ctx, "failed to create member", "code", code, "error", err)
		return models.Member{}, apperrors.Internal("failed to create member", err)
	}

	s.invalidate(ctx)
	s.logger.InfoContext(ctx, "member created", "member_id", member.ID, "code", member.Code, "by", caller.MemberID)
	return member, nil
}

// ListMembers returns every member sorted by code.
func (s *DirectoryService) ListMembers(ctx context.Context, caller Principal) ([]models.MemberSummary, error) {
	if err := s.auth.Require(caller, models.RoleAdmin); err != nil {
		return nil, err
	}
	return s.listAll(ctx)
}

func (s *DirectoryService) SearchMembers(ctx context.Context, caller Principal, query string) (MemberSearchResult, error) {
	if err := s.auth.Require(caller, models.RoleAdmin); err != nil {
		return MemberSearchResult{}, err
	}
	if err := validator.ValidateText("query", query); err != nil {
		return MemberSearchResult{}, err
	}
	members, err := s.listAll(ctx)
	if err != nil {
		return MemberSearchResult{}, err
	}
	return searchMembers(query, members), nil
}

func (s *DirectoryService) UpdateMember(ctx context.Context, caller Principal, id uint, patch MemberPatch) (models.Member, error) {
	if err := s.auth.Require(caller, models.RoleAdmin); err != nil {
		return models.Member{}, err
	}

	var fields models.MemberFields
	if patch.DisplayName != nil {
		displayName := strings.TrimSpace(*patch.DisplayName)
		if err := validator.ValidateText("display name", displayName); err != nil {
			return models.Member{}, err
		}
		fields.DisplayName = &displayName
	}
	if patch.Comment != nil {
		comment := strings.TrimSpace(*patch.Comment)
		if err := validator.ValidateText("comment", comment); err != nil {
			return models.Member{}, err
		}
		fields.Comment = &comment
	}
	if patch.Secret != nil {
		if err := validator.ValidateSecret(*patch.Secret); err != nil {
			return models.Member{}, err
		}
		hashed, err := s.hasher.Hash(*patch.Secret)
		if err != nil {
			return models.Member{}, apperrors.Internal("failed to hash PIN", err)
		}
		fields.SecretHash = &hashed
	}
	if fields.Empty() {
		return models.Member{}, apperrors.InvalidInput("nothing to update")
	}

	member, err := s.members.Update(ctx, id, fields)
	if err != nil {
		return models.Member{}, s.translate(ctx, "update", id, err)
	}

	s.invalidate(ctx)
	s.logger.InfoContext(ctx, "member updated", "member_id", id, "by", caller.MemberID, "secret_changed", fields.SecretHash != nil)
	return member, nil
}

// SetActive toggles the active flag only. Tokens already issued to the
// member stay valid until they expire.
func (s *DirectoryService) SetActive(ctx context.Context, caller Principal, id uint, active bool) (models.Member, error) {
	if err := s.auth.Require(caller, models.RoleAdmin); err != nil {
		return models.Member{}, err
	}

	member, err := s.members.Update(ctx, id, models.MemberFields{Active: &active})
	if err != nil {
		return models.Member{}, s.translate(ctx, "set status of", id, err)
	}

	s.invalidate(ctx)
	s.logger.InfoContext(ctx, "member status changed", "member_id", id, "active", active, "by", caller.MemberID)
	return member, nil
}

// DeleteMember removes the member. Its check-in records are kept.
func (s *DirectoryService) DeleteMember(ctx context.Context, caller Principal, id uint) (models.Member, error) {
	if err := s.auth.Require(caller, models.RoleAdmin); err != nil {
		return models.Member{}, err
	}

	member, err := s.members.Delete(ctx, id)
	if err != nil {
		return models.Member{}, s.translate(ctx, "delete", id, err)
	}

	s.invalidate(ctx)
	s.logger.InfoContext(ctx, "member deleted", "member_id", id, "code", member.Code, "by", caller.MemberID)
	return member, nil
}

func (s *DirectoryService) listAll(ctx context.Context) ([]models.MemberSummary, error) {
	if s.cache != nil {
		cached, found, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "member cache read failed", "error", err)
		} else if found {
			return cached, nil
		}
	}

	members, err := s.members.ListAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list members", "error", err)
		return nil, apperrors.Internal("failed to list members", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, members); err != nil {
			s.logger.WarnContext(ctx, "member cache write failed", "error", err)
		}
	}
	return members, nil
}

func (s *DirectoryService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.WarnContext(ctx, "member cache invalidation failed", "error", err)
	}
}

func (s *DirectoryService) translate(ctx context.Context, action string, id uint, err error) error {
	if errors.Is(err, stores.ErrMemberNotFound) {
		return apperrors.ErrNotFound
	}
	s.logger.ErrorContext(ctx, "failed to "+action+" member", "member_id", id, "error", err)
	return apperrors.Internal("failed to "+action+" member", err)
}
