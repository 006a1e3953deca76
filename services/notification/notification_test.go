package notification

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/olahol/melody"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageBuilderEncodesCheckinEvent(t *testing.T) {
	at := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	raw, err := NewMessageBuilder(CheckinEvent{CheckinID: 3, MemberID: 7, Code: "FF10", Timestamp: at}).Build()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "checkin", decoded["type"])
	assert.Equal(t, "FF10", decoded["code"])
	assert.Equal(t, float64(7), decoded["member_id"])
	assert.Equal(t, "2026-03-14T08:00:00Z", decoded["timestamp"])
}

func TestMelodyServiceWithoutSubscribers(t *testing.T) {
	m := melody.New()
	defer m.Close()

	svc := NewMelodyService(m)
	// The hub starts asynchronously; sends fail until it is open.
	require.Eventually(t, func() bool {
		return svc.SendMessage([]byte(`{}`)) == nil
	}, 2*time.Second, 10*time.Millisecond)

	assert.Error(t, NewMelodyService(nil).SendMessage([]byte(`{}`)))
}

func TestMelodyServiceSendsToAdminsOnly(t *testing.T) {
	m := melody.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = m.HandleRequestWithKeys(w, r, map[string]any{
			SessionRoleKey: r.URL.Query().Get("role"),
		})
	}))
	defer srv.Close()
	defer m.Close()

	dial := func(role string) *websocket.Conn {
		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?role=" + role
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		t.Cleanup(func() { _ = conn.Close() })
		return conn
	}
	admin := dial("admin")
	member := dial("member")

	require.Eventually(t, func() bool { return m.Len() == 2 }, 2*time.Second, 10*time.Millisecond)

	event, err := NewMessageBuilder(CheckinEvent{CheckinID: 1, MemberID: 7, Code: "FF10"}).Build()
	require.NoError(t, err)
	require.NoError(t, NewMelodyService(m).SendMessage(event))

	require.NoError(t, admin.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, got, err := admin.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, string(event), string(got))

	require.NoError(t, member.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	_, _, err = member.ReadMessage()
	assert.Error(t, err)
}
