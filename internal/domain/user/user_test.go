package user

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGravatarURL(t *testing.T) {
	url := GravatarURL("  A@X.com ")

	assert.Equal(t, GravatarURL("a@x.com"), url)
	assert.Contains(t, url, "https://www.gravatar.com/avatar/")
	assert.Contains(t, url, "s=200")
	assert.Contains(t, url, "r=pg")
	assert.Contains(t, url, "d=mm")
}

func TestUser_Summary(t *testing.T) {
	u := &User{ID: uuid.New(), Name: "Ada", Email: "ada@x.com", Avatar: "https://a", PasswordHash: "secret"}

	s := u.Summary()
	assert.Equal(t, u.ID, s.ID)
	assert.Equal(t, "Ada", s.Name)
	assert.Equal(t, "https://a", s.Avatar)
}
