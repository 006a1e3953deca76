package models

import "time"

// CheckinRecord is append-only. MemberID has no foreign key: records outlive
// the member they reference.
type CheckinRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	MemberID  uint      `gorm:"index;not null" json:"memberId"`
	Timestamp time.Time `gorm:"index;not null;<-:create" json:"timestamp"`
}

// CheckinEntry is a check-in joined with the member's code and display name.
type CheckinEntry struct {
	ID          uint      `json:"id"`
	MemberID    uint      `json:"memberId"`
	Code        string    `json:"code"`
	DisplayName string    `json:"displayName"`
	Timestamp   time.Time `json:"timestamp"`
}
