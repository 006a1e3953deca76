package dto

import "time"

type CheckinResponse struct {
	ID        uint      `json:"id"`
	MemberID  uint      `json:"memberId"`
	Timestamp time.Time `json:"timestamp"`
}

type CheckinEntryResponse struct {
	ID        uint      `json:"id"`
	MemberID  uint      `json:"memberId"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
}
