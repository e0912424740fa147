package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScreeningStatus_CanTransition(t *testing.T) {
	tests := []struct {
		from, to ScreeningStatus
		want     bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, true},
		{StatusInProgress, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransition(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleNurse.Valid())
	assert.False(t, Role("janitor").Valid())
}

func TestUserLocked(t *testing.T) {
	now := time.Now()
	later := now.Add(time.Minute)
	u := User{LockedUntil: &later}
	assert.True(t, u.Locked(now))
	assert.False(t, u.Locked(later.Add(time.Second)))
	assert.False(t, (&User{}).Locked(now))
}

func TestProvinceJSONCarriesLocalizedName(t *testing.T) {
	out, err := json.Marshal(Province{ID: 1, Code: "10", NameTH: "กรุงเทพมหานคร", NameEN: "Bangkok"})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, map[string]any{"en": "Bangkok", "th": "กรุงเทพมหานคร"}, got["name"])
	assert.Equal(t, "10", got["code"])
	assert.EqualValues(t, 1, got["id"])
}
