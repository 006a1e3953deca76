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

type SeedAdminOptions struct {
	Members stores.MemberStore
	Hasher  Hasher
	Code    string
	Secret  string
	Logger  *slog.Logger
}

// SeedAdmin creates the bootstrap administrator when the store holds no
// admin yet. It reports whether a member was created. Running it again, or
// concurrently with another instance, leaves exactly one seeded admin.
func SeedAdmin(ctx context.Context, opts SeedAdminOptions) (bool, error) {
	log := logger.OrDiscard(opts.Logger).With("component", "bootstrap")

	code := strings.TrimSpace(opts.Code)
	if err := validator.ValidateCode(code); err != nil {
		return false, apperrors.Misconfigured("bootstrap admin code is invalid", err)
	}
	if err := validator.ValidateSecret(opts.Secret); err != nil {
		return false, apperrors.Misconfigured("bootstrap admin PIN is invalid", err)
	}

	hasAdmin, err := opts.Members.HasAdmin(ctx)
	if err != nil {
		return false, apperrors.Internal("failed to check for an admin", err)
	}
	if hasAdmin {
		log.DebugContext(ctx, "admin already present, skipping seed")
		return false, nil
	}

	hashed, err := opts.Hasher.Hash(opts.Secret)
	if err != nil {
		return false, apperrors.Internal("failed to hash bootstrap PIN", err)
	}

	admin := models.Member{
		Code:        code,
		SecretHash:  hashed,
		Role:        models.RoleAdmin,
		DisplayName: "Administrator",
		Active:      true,
	}
	if err := opts.Members.Create(ctx, &admin); err != nil {
		if errors.Is(err, stores.ErrDuplicateCode) {
			// Another instance may have seeded concurrently.
			seeded, hasErr := opts.Members.HasAdmin(ctx)
			if hasErr != nil {
				return false, apperrors.Internal("failed to check for an admin", hasErr)
			}
			if !seeded {
				return false, apperrors.Misconfigured("bootstrap code is held by a non-admin member", err)
			}
			log.InfoContext(ctx, "bootstrap admin seeded concurrently", "code", code)
			return false, nil
		}
		return false, apperrors.Internal("failed to create bootstrap admin", err)
	}

	log.WarnContext(ctx, "bootstrap admin created; change its PIN after first login", "code", code, "member_id", admin.ID)
	return true, nil
}
