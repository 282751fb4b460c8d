package profile

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/khoahotran/devconnector/pkg/apperror"
)

var (
	ErrProfileNotFound = apperror.NewAppError(apperror.ErrNotFound, "There is no profile for this user", "profile does not exist", nil)
	ErrProfileExists   = apperror.NewAppError(apperror.ErrConflict, "Profile already exists", "profile for this user already exists", nil)
	ErrOwnerNotFound   = apperror.NewAppError(apperror.ErrNotFound, "User not found", "profile owner does not exist", nil)
)

type Social struct {
	YouTube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

func (s *Social) set(name, value string) {
	switch name {
	case SocialYouTube:
		s.YouTube = value
	case SocialTwitter:
		s.Twitter = value
	case SocialFacebook:
		s.Facebook = value
	case SocialLinkedIn:
		s.LinkedIn = value
	case SocialInstagram:
		s.Instagram = value
	}
}

// Profile is the per-user aggregate. UserID is the immutable owner key.
type Profile struct {
	UserID         uuid.UUID           `json:"user"`
	Company        string              `json:"company,omitempty"`
	Website        string              `json:"website,omitempty"`
	Location       string              `json:"location,omitempty"`
	Bio            string              `json:"bio,omitempty"`
	Status         string              `json:"status,omitempty"`
	GitHubUsername string              `json:"githubusername,omitempty"`
	Skills         []string            `json:"skills"`
	Social         Social              `json:"social"`
	Experience     Entries[Experience] `json:"experience"`
	Education      Entries[Education]  `json:"education"`
	CreatedAt      time.Time           `json:"date"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// New seeds a profile from the provided fields; everything else starts empty.
func New(userID uuid.UUID, f Fields, now time.Time) *Profile {
	p := &Profile{
		UserID:     userID,
		Skills:     []string{},
		Experience: Entries[Experience]{},
		Education:  Entries[Education]{},
		CreatedAt:  now,
	}
	p.Apply(f, now)
	return p
}

// Apply merges f into p. Fields not provided in f are left untouched, and the
// sub-collections are never modified here.
func (p *Profile) Apply(f Fields, now time.Time) {
	for name, value := range f.Scalars() {
		p.setScalar(name, value)
	}
	if skills, ok := f.Skills.Get(); ok {
		p.Skills = append([]string(nil), skills...)
	}
	for name, value := range f.Social.Values() {
		p.Social.set(name, value)
	}
	p.UpdatedAt = now
}

func (p *Profile) setScalar(name, value string) {
	switch name {
	case FieldCompany:
		p.Company = value
	case FieldWebsite:
		p.Website = value
	case FieldLocation:
		p.Location = value
	case FieldBio:
		p.Bio = value
	case FieldStatus:
		p.Status = value
	case FieldGitHubUsername:
		p.GitHubUsername = value
	}
}

// Clone returns a deep copy so stores never share slices with callers.
func (p *Profile) Clone() *Profile {
	c := *p
	c.Skills = append([]string{}, p.Skills...)
	c.Experience = append(Entries[Experience]{}, p.Experience...)
	c.Education = append(Entries[Education]{}, p.Education...)
	return &c
}

type Repository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	List(ctx context.Context) ([]*Profile, error)
	// Create fails with ErrProfileExists when the user already owns a profile.
	Create(ctx context.Context, p *Profile) error
	// UpdateFields applies f as a partial merge and returns the stored result.
	UpdateFields(ctx context.Context, userID uuid.UUID, f Fields, now time.Time) (*Profile, error)
	ReplaceExperience(ctx context.Context, userID uuid.UUID, entries Entries[Experience], now time.Time) (*Profile, error)
	ReplaceEducation(ctx context.Context, userID uuid.UUID, entries Entries[Education], now time.Time) (*Profile, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}
