package notification

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/olahol/melody"
)

// SessionRoleKey is the melody session key holding the subscriber's role.
const SessionRoleKey = "role"

const adminRole = "admin"

type CheckinEvent struct {
	Type        string    `json:"type"`
	CheckinID   uint      `json:"checkin_id"`
	MemberID    uint      `json:"member_id"`
	Code        string    `json:"code"`
	DisplayName string    `json:"display_name"`
	Timestamp   time.Time `json:"timestamp"`
}

type Service interface {
	SendMessage(message []byte) error
}

type MelodyService struct {
	m *melody.Melody
}

func NewMelodyService(m *melody.Melody) *MelodyService {
	return &MelodyService{m: m}
}

// SendMessage broadcasts to admin sessions only.
func (s *MelodyService) SendMessage(message []byte) error {
	if s.m == nil {
		return fmt.Errorf("melody instance is nil")
	}
	return s.m.BroadcastFilter(message, func(session *melody.Session) bool {
		role, ok := session.Get(SessionRoleKey)
		return ok && role == adminRole
	})
}

type MessageBuilder struct {
	event CheckinEvent
}

func NewMessageBuilder(event CheckinEvent) *MessageBuilder {
	event.Type = "checkin"
	return &MessageBuilder{event: event}
}

func (b *MessageBuilder) Build() ([]byte, error) {
	return json.Marshal(b.event)
}
