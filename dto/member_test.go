package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateMemberInputSecret(t *testing.T) {
	tests := []struct {
		name string
		body string
		want *string
	}{
		{name: "absent", body: `{"name":"Åsa"}`},
		{name: "pin", body: `{"pin":"1234"}`, want: strPtr("1234")},
		{name: "password alias", body: `{"password":"5678"}`, want: strPtr("5678")},
		{name: "pin wins over password", body: `{"pin":"1234","password":"5678"}`, want: strPtr("1234")},
		{name: "empty pin", body: `{"pin":""}`, want: strPtr("")},
		{name: "empty password", body: `{"password":""}`, want: strPtr("")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in UpdateMemberInput
			require.NoError(t, json.Unmarshal([]byte(tt.body), &in))
			assert.Equal(t, tt.want, in.Secret())
		})
	}
}

func strPtr(s string) *string {
	return &s
}
