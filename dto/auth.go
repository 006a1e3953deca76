package dto

import (
	"time"

	"membergate/models"
)

type LoginInput struct {
	Code string `json:"code" binding:"required"`
	Pin  string `json:"pin" binding:"required"`
}

type LoginResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	User      MemberResponse `json:"user"`
}

// MemberResponse is the public view of a member. It never carries the PIN hash.
type MemberResponse struct {
	ID        uint        `json:"id"`
	Code      string      `json:"code"`
	Role      models.Role `json:"role"`
	Active    bool        `json:"active"`
	Name      string      `json:"name"`
	Comment   string      `json:"comment"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

func NewMemberResponse(m models.Member) MemberResponse {
	return MemberResponse{
		ID:        m.ID,
		Code:      m.Code,
		Role:      m.Role,
		Active:    m.Active,
		Name:      m.DisplayName,
		Comment:   m.Comment,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
