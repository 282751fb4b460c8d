package persistence

import (
	"context"
	"fmt"

	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/logger"
)

// Store bundles the repositories of one backing database.
type Store struct {
	Users    user.Repository
	Profiles profile.Repository
	Close    func()
}

// OpenStore connects to the database selected by cfg.DB.Driver.
func OpenStore(ctx context.Context, cfg config.Config, log logger.Logger) (*Store, error) {
	switch cfg.DB.Driver {
	case config.DriverMongo:
		db, err := NewMongoDatabase(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return &Store{
			Users:    NewMongoUserRepo(db),
			Profiles: NewMongoProfileRepo(db),
			Close: func() {
				if err := db.Client().Disconnect(context.Background()); err != nil {
					log.Error("Failed to disconnect MongoDB", err)
				}
			},
		}, nil
	case config.DriverMemory:
		log.Warn("Using in-memory store, data is lost on restart")
		return &Store{
			Users:    NewMemoryUserRepo(),
			Profiles: NewMemoryProfileRepo(),
			Close:    func() {},
		}, nil
	case config.DriverPostgres:
		pool, err := NewPostgresPool(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return &Store{
			Users:    NewPostgresUserRepo(pool),
			Profiles: NewPostgresProfileRepo(pool, log),
			Close:    pool.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown db driver %q", cfg.DB.Driver)
	}
}
