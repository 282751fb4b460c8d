package profile

import "github.com/khoahotran/devconnector/internal/domain/user"

// View is a profile with its owner's public details in place of the bare id.
type View struct {
	*Profile
	User *user.Summary `json:"user"`
}

func NewView(p *Profile, u *user.User) *View {
	v := &View{Profile: p}
	if u != nil {
		v.User = u.Summary()
	} else {
		v.User = &user.Summary{ID: p.UserID}
	}
	return v
}
