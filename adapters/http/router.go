package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/khoahotran/devconnector/pkg/auth"
	"github.com/khoahotran/devconnector/pkg/logger"
	"github.com/khoahotran/devconnector/pkg/metrics"
)

type RouterConfig struct {
	UserHandler    *UserHandler
	AuthHandler    *AuthHandler
	ProfileHandler *ProfileHandler
	JWTService     *auth.JWTService
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	CORSOrigins    []string
	Logger         logger.Logger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(cfg.Logger))

	// Cors
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", HeaderAuthToken},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.CORSOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	}
	router.Use(cors.New(corsConfig))
	router.Use(ErrorMiddleware(cfg.Logger))

	authMiddleware := AuthMiddleware(cfg.JWTService, cfg.Metrics, cfg.Logger)

	if cfg.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })

		api.POST("/users", cfg.UserHandler.Register)

		api.POST("/auth", cfg.AuthHandler.Login)
		api.GET("/auth", authMiddleware, cfg.AuthHandler.CurrentUser)

		profiles := api.Group("/profile")
		{
			// public
			profiles.GET("", cfg.ProfileHandler.ListProfiles)
			profiles.GET("/user/:user_id", cfg.ProfileHandler.GetProfileByUserID)
			profiles.GET("/github/:username", cfg.ProfileHandler.GitHubRepos)
			profiles.GET("/feed", cfg.ProfileHandler.Feed)

			private := profiles.Group("")
			private.Use(authMiddleware)
			{
				private.GET("/me", cfg.ProfileHandler.GetMyProfile)
				private.POST("", cfg.ProfileHandler.UpsertProfile)
				private.DELETE("", cfg.ProfileHandler.DeleteAccount)
				private.PUT("/experience", cfg.ProfileHandler.AddExperience)
				private.DELETE("/experience/:exp_id", cfg.ProfileHandler.DeleteExperience)
				private.PUT("/education", cfg.ProfileHandler.AddEducation)
				private.DELETE("/education/:edu_id", cfg.ProfileHandler.DeleteEducation)
			}
		}
	}

	return router
}
