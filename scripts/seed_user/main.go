package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/khoahotran/devconnector/adapters/event"
	"github.com/khoahotran/devconnector/adapters/persistence"
	authUC "github.com/khoahotran/devconnector/internal/application/usecase/auth"
	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/pkg/auth"
	"github.com/khoahotran/devconnector/pkg/logger"
	"github.com/khoahotran/devconnector/pkg/metrics"
)

func main() {
	fmt.Println("adding user into database...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	name := os.Getenv("SEED_NAME")
	email := os.Getenv("SEED_EMAIL")
	password := os.Getenv("SEED_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("SEED_EMAIL and SEED_PASSWORD are required")
	}
	if name == "" {
		name = email
	}

	ctx := context.Background()
	appLogger := logger.NewNopLogger()
	pool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		log.Fatalf("cannot connect DB: %v", err)
	}
	defer pool.Close()

	register := authUC.NewRegisterUseCase(
		persistence.NewPostgresUserRepo(pool),
		auth.BcryptHasher{},
		auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan),
		event.NopPublisher{},
		metrics.New(prometheus.NewRegistry()),
		appLogger,
	)

	out, err := register.Execute(ctx, authUC.RegisterInput{Name: name, Email: email, Password: password})
	if errors.Is(err, authUC.ErrUserExists) {
		fmt.Printf("user '%s' already exists, nothing to do\n", email)
		return
	}
	if err != nil {
		log.Fatalf("cannot add user: %v", err)
	}

	fmt.Printf("added user '%s' (%s) successfully!\n", email, out.UserID)
	fmt.Printf("token: %s\n", out.AccessToken)
}
