package cache

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/internal/domain/user"
)

func TestEncodeDecodeView_KeepsOwnerAndProfileKey(t *testing.T) {
	owner := &user.User{ID: uuid.New(), Name: "Ada", Avatar: "https://avatar"}
	p := &profile.Profile{
		UserID:    owner.ID,
		Status:    "Developer",
		Skills:    []string{"go"},
		Social:    profile.Social{Twitter: "@ada"},
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Experience: profile.Entries[profile.Experience]{
			{ID: uuid.New(), Title: "Engineer", Company: "Acme", From: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
		},
	}

	data, err := encodeView(profile.NewView(p, owner))
	require.NoError(t, err)

	got, err := decodeView(data)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, got.UserID)
	assert.Equal(t, "Ada", got.User.Name)
	assert.Equal(t, "@ada", got.Social.Twitter)
	require.Len(t, got.Experience, 1)
	assert.Equal(t, p.Experience[0].ID, got.Experience[0].ID)
}

func TestDecodeView_RejectsForeignPayload(t *testing.T) {
	_, err := decodeView([]byte(`{"user":{"name":"x"}}`))
	assert.Error(t, err)

	_, err = decodeView([]byte(`not json`))
	assert.Error(t, err)
}

func TestKey(t *testing.T) {
	id := uuid.MustParse("7f1d5a3e-8a55-4c1f-9d0b-2f0b7b8d6c11")
	assert.Equal(t, "profile:view:7f1d5a3e-8a55-4c1f-9d0b-2f0b7b8d6c11", key(id))
}
