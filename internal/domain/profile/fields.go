package profile

import "strings"

const (
	FieldCompany        = "company"
	FieldWebsite        = "website"
	FieldLocation       = "location"
	FieldBio            = "bio"
	FieldStatus         = "status"
	FieldGitHubUsername = "githubusername"
	FieldSkills         = "skills"
	FieldSocial         = "social"

	SocialYouTube   = "youtube"
	SocialTwitter   = "twitter"
	SocialFacebook  = "facebook"
	SocialLinkedIn  = "linkedin"
	SocialInstagram = "instagram"
)

// Optional distinguishes "not provided" from a provided zero value.
type Optional[T any] struct {
	value T
	set   bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

func (o Optional[T]) IsSet() bool {
	return o.set
}

// Text marks s as provided only when it is non-empty.
func Text(s string) Optional[string] {
	if s == "" {
		return None[string]()
	}
	return Some(s)
}

// ParseSkills splits a comma separated list and trims each element. Elements
// that are empty after trimming are kept.
func ParseSkills(raw string) Optional[[]string] {
	if raw == "" {
		return None[[]string]()
	}
	skills := strings.Split(raw, ",")
	for i, s := range skills {
		skills[i] = strings.TrimSpace(s)
	}
	return Some(skills)
}

type SocialFields struct {
	YouTube   Optional[string]
	Twitter   Optional[string]
	Facebook  Optional[string]
	LinkedIn  Optional[string]
	Instagram Optional[string]
}

// Values returns only the provided links keyed by name.
func (s SocialFields) Values() map[string]string {
	out := make(map[string]string)
	collect(out, SocialYouTube, s.YouTube)
	collect(out, SocialTwitter, s.Twitter)
	collect(out, SocialFacebook, s.Facebook)
	collect(out, SocialLinkedIn, s.LinkedIn)
	collect(out, SocialInstagram, s.Instagram)
	return out
}

// Fields is the write set of a profile upsert.
type Fields struct {
	Company        Optional[string]
	Website        Optional[string]
	Location       Optional[string]
	Bio            Optional[string]
	Status         Optional[string]
	GitHubUsername Optional[string]
	Skills         Optional[[]string]
	Social         SocialFields
}

// Scalars returns only the provided scalar fields keyed by name.
func (f Fields) Scalars() map[string]string {
	out := make(map[string]string)
	collect(out, FieldCompany, f.Company)
	collect(out, FieldWebsite, f.Website)
	collect(out, FieldLocation, f.Location)
	collect(out, FieldBio, f.Bio)
	collect(out, FieldStatus, f.Status)
	collect(out, FieldGitHubUsername, f.GitHubUsername)
	return out
}

func collect(out map[string]string, name string, o Optional[string]) {
	if v, ok := o.Get(); ok {
		out[name] = v
	}
}
