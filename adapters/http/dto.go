package http

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	profileUC "github.com/khoahotran/devconnector/internal/application/usecase/profile"
	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/pkg/apperror"
)

// Auth DTOs

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Profile DTOs

type upsertProfileRequest struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	Status         string `json:"status" binding:"required"`
	GitHubUsername string `json:"githubusername"`
	Skills         string `json:"skills" binding:"required"`
	YouTube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	LinkedIn       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

func (r *upsertProfileRequest) toInput(c *gin.Context) profileUC.UpsertProfileInput {
	userID, _ := GetUserIDFromGinContext(c)
	return profileUC.UpsertProfileInput{
		UserID:         userID,
		Company:        r.Company,
		Website:        r.Website,
		Location:       r.Location,
		Bio:            r.Bio,
		Status:         r.Status,
		GitHubUsername: r.GitHubUsername,
		Skills:         r.Skills,
		YouTube:        r.YouTube,
		Twitter:        r.Twitter,
		Facebook:       r.Facebook,
		LinkedIn:       r.LinkedIn,
		Instagram:      r.Instagram,
	}
}

type experienceRequest struct {
	Title       string `json:"title" binding:"required"`
	Company     string `json:"company" binding:"required"`
	Location    string `json:"location"`
	From        string `json:"from" binding:"required"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

func (r *experienceRequest) toDomain() (profile.Experience, error) {
	from, to, err := parseRange(r.From, r.To)
	if err != nil {
		return profile.Experience{}, err
	}
	return profile.Experience{
		Title:       r.Title,
		Company:     r.Company,
		Location:    r.Location,
		From:        from,
		To:          to,
		Current:     r.Current,
		Description: r.Description,
	}, nil
}

type educationRequest struct {
	School       string `json:"school" binding:"required"`
	Degree       string `json:"degree" binding:"required"`
	FieldOfStudy string `json:"fieldofstudy" binding:"required"`
	From         string `json:"from" binding:"required"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

func (r *educationRequest) toDomain() (profile.Education, error) {
	from, to, err := parseRange(r.From, r.To)
	if err != nil {
		return profile.Education{}, err
	}
	return profile.Education{
		School:       r.School,
		Degree:       r.Degree,
		FieldOfStudy: r.FieldOfStudy,
		From:         from,
		To:           to,
		Current:      r.Current,
		Description:  r.Description,
	}, nil
}

// Validation

var validationMessages = map[string]string{
	"registerRequest.Name.required":          "Name is required",
	"registerRequest.Email.required":         "Please include a valid email",
	"registerRequest.Email.email":            "Please include a valid email",
	"registerRequest.Password.required":      "Please enter a password with 6 or more characters",
	"registerRequest.Password.min":           "Please enter a password with 6 or more characters",
	"loginRequest.Email.required":            "Please include a valid email",
	"loginRequest.Email.email":               "Please include a valid email",
	"loginRequest.Password.required":         "Password is required",
	"upsertProfileRequest.Status.required":   "Status is required",
	"upsertProfileRequest.Skills.required":   "Skills is required",
	"experienceRequest.Title.required":       "Title is required",
	"experienceRequest.Company.required":     "Company is required",
	"experienceRequest.From.required":        "From date is required",
	"educationRequest.School.required":       "School is required",
	"educationRequest.Degree.required":       "Degree is required",
	"educationRequest.FieldOfStudy.required": "Field of study is required",
	"educationRequest.From.required":         "From date is required",
}

// bindJSON decodes the body into req and pushes a validation error listing
// every failed rule. It reports whether the handler may continue.
func bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.Error(apperror.NewValidation([]string{"Invalid JSON body"}))
		return false
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := validationMessages[fe.StructNamespace()+"."+fe.Tag()]
		if !ok {
			msg = fe.Field() + " is invalid"
		}
		msgs = append(msgs, msg)
	}
	c.Error(apperror.NewValidation(msgs))
	return false
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.New("invalid date")
}

func parseRange(fromRaw, toRaw string) (time.Time, *time.Time, error) {
	from, err := parseDate(fromRaw)
	if err != nil {
		return time.Time{}, nil, apperror.NewValidation([]string{"From date must be a valid date"})
	}
	if toRaw == "" {
		return from, nil, nil
	}
	to, err := parseDate(toRaw)
	if err != nil {
		return time.Time{}, nil, apperror.NewValidation([]string{"To date must be a valid date"})
	}
	return from, &to, nil
}
