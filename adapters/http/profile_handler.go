package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	profileUC "github.com/khoahotran/devconnector/internal/application/usecase/profile"
	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/logger"
)

type ProfileHandler struct {
	profileUseCase *profileUC.ProfileUseCase
	githubUseCase  *profileUC.GitHubReposUseCase
	logger         logger.Logger
}

func NewProfileHandler(uc *profileUC.ProfileUseCase, githubUC *profileUC.GitHubReposUseCase, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: uc,
		githubUseCase:  githubUC,
		logger:         log,
	}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("userID not found in context", nil))
	}
	return userID, ok
}

func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	output, err := h.profileUseCase.ExecuteGetMyProfile(c.Request.Context(), profileUC.GetProfileInput{UserID: userID})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, output.Profile)
}

func (h *ProfileHandler) UpsertProfile(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	var req upsertProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	output, err := h.profileUseCase.ExecuteUpsertProfile(c.Request.Context(), req.toInput(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, output.Profile)
}

func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	output, err := h.profileUseCase.ExecuteListProfiles(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, output.Profiles)
}

func (h *ProfileHandler) GetProfileByUserID(c *gin.Context) {
	// a malformed id cannot own a profile
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.Error(profile.ErrProfileNotFound)
		return
	}

	output, err := h.profileUseCase.ExecuteGetByUserID(c.Request.Context(), profileUC.GetProfileInput{UserID: userID})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, output.Profile)
}

func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.profileUseCase.ExecuteDeleteAccount(c.Request.Context(), userID); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "User removed"})
}

func (h *ProfileHandler) AddExperience(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req experienceRequest
	if !bindJSON(c, &req) {
		return
	}
	exp, err := req.toDomain()
	if err != nil {
		c.Error(err)
		return
	}

	output, err := h.profileUseCase.ExecuteAddExperience(c.Request.Context(), profileUC.AddExperienceInput{
		UserID:     userID,
		Experience: exp,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, output.Profile)
}

func (h *ProfileHandler) DeleteExperience(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	output, err := h.profileUseCase.ExecuteDeleteExperience(c.Request.Context(), profileUC.RemoveEntryInput{
		UserID:  userID,
		EntryID: entryIDParam(c, "exp_id"),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, output.Profile)
}

func (h *ProfileHandler) AddEducation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req educationRequest
	if !bindJSON(c, &req) {
		return
	}
	edu, err := req.toDomain()
	if err != nil {
		c.Error(err)
		return
	}

	output, err := h.profileUseCase.ExecuteAddEducation(c.Request.Context(), profileUC.AddEducationInput{
		UserID:    userID,
		Education: edu,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, output.Profile)
}

func (h *ProfileHandler) DeleteEducation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	output, err := h.profileUseCase.ExecuteDeleteEducation(c.Request.Context(), profileUC.RemoveEntryInput{
		UserID:  userID,
		EntryID: entryIDParam(c, "edu_id"),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, output.Profile)
}

func (h *ProfileHandler) GitHubRepos(c *gin.Context) {
	repos, err := h.githubUseCase.Execute(c.Request.Context(), c.Param("username"))
	if err != nil {
		c.Error(err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", repos)
}

// entryIDParam parses an entry id from the path. Malformed ids map to
// uuid.Nil, which never matches a stored entry.
func entryIDParam(c *gin.Context, name string) uuid.UUID {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil
	}
	return id
}

func (h *ProfileHandler) Feed(c *gin.Context) {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	feed, err := h.profileUseCase.ExecuteFeed(c.Request.Context(), profileUC.FeedInput{
		BaseURL: scheme + "://" + c.Request.Host,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	if err := feed.WriteRss(c.Writer); err != nil {
		h.logger.Error("Failed to write profile feed to response", err)
	}
}
