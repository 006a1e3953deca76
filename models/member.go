package models

import (
	"time"
)

type Member struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Code        string    `gorm:"uniqueIndex;size:32;not null" json:"code"`
	SecretHash  string    `gorm:"column:secret_hash;not null" json:"-"`
	Role        Role      `gorm:"size:16;not null;index" json:"role"`
	DisplayName string    `gorm:"not null;default:''" json:"displayName"`
	Comment     string    `gorm:"not null;default:''" json:"comment"`
	Active      bool      `gorm:"not null" json:"active"`
	CreatedAt   time.Time `gorm:"autoCreateTime;<-:create" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// MemberSummary is the directory listing projection. It never carries the secret hash.
type MemberSummary struct {
	ID          uint   `json:"id"`
	Code        string `json:"code"`
	DisplayName string `json:"displayName"`
	Comment     string `json:"comment"`
}

// MemberFields lists the mutable columns of a member. Nil pointers are left untouched.
type MemberFields struct {
	DisplayName *string
	Comment     *string
	SecretHash  *string
	Active      *bool
}

func (f MemberFields) Empty() bool {
	return f.DisplayName == nil && f.Comment == nil && f.SecretHash == nil && f.Active == nil
}
