package main

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/custodia-labs/sercha-hub/internal/adapters/driven/auth"
	bleveindex "github.com/custodia-labs/sercha-hub/internal/adapters/driven/bleve"
	"github.com/custodia-labs/sercha-hub/internal/adapters/driven/postgres"
	redisstore "github.com/custodia-labs/sercha-hub/internal/adapters/driven/redis"
	"github.com/custodia-labs/sercha-hub/internal/config"
	"github.com/custodia-labs/sercha-hub/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-hub/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-hub/internal/core/services"
	"github.com/custodia-labs/sercha-hub/internal/logger"
)

// app holds the wired adapters and services shared by the commands
type app struct {
	cfg    config.Config
	logger *zap.Logger

	db    *postgres.DB
	redis *goredis.Client // nil when sessions live in PostgreSQL
	files *bleveindex.FileIndex

	pgSessions  *postgres.SessionStore // nil when sessions live in Redis
	users       *postgres.UserStore
	memberships *postgres.MembershipStore
	authAdapter *auth.Adapter

	authService   driving.AuthService
	searchService driving.SearchService
}

func loadApp(ctx context.Context, cfgPath string) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.NewLogger(cfg.Env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	a := &app{cfg: cfg, logger: log}

	dbCfg := postgres.DefaultConfig(cfg.Database.URL)
	dbCfg.MaxOpenConns = cfg.Database.MaxOpenConns
	dbCfg.MaxIdleConns = cfg.Database.MaxIdleConns
	dbCfg.ConnMaxLifetime = secs(cfg.Database.ConnMaxLifetimeSec)
	dbCfg.ConnMaxIdleTime = secs(cfg.Database.ConnMaxIdleSec)

	a.db, err = postgres.Connect(ctx, dbCfg)
	if err != nil {
		return nil, err
	}
	log.Info("connected to PostgreSQL")

	a.files, err = bleveindex.Open(cfg.Files.IndexPath)
	if err != nil {
		a.Close()
		return nil, err
	}
	if cfg.Files.IndexPath == "" {
		log.Warn("file index is in memory; set files.index_path to persist it")
	}
	if n, err := a.files.Count(); err == nil {
		log.Info("opened file index", zap.Uint64("files", n))
	}

	var sessions driven.SessionStore
	if cfg.Redis.URL == "" {
		a.pgSessions = postgres.NewSessionStore(a.db)
		sessions = a.pgSessions
	} else {
		a.redis, err = redisstore.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			a.Close()
			return nil, err
		}
		sessions = redisstore.NewSessionStore(a.redis, cfg.Redis.KeyPrefix)
		log.Info("sessions stored in Redis")
	}

	a.users = postgres.NewUserStore(a.db)
	a.memberships = postgres.NewMembershipStore(a.db)
	a.authAdapter = auth.NewAdapterWithCost(cfg.Auth.JWTSecret, cfg.Auth.BcryptCost)
	a.authService = services.NewAuthService(a.users, sessions, a.authAdapter, cfg.TokenTTL())

	a.searchService = services.NewSearchService(services.SearchSources{
		People:        a.users,
		Channels:      postgres.NewChannelStore(a.db),
		Conversations: postgres.NewConversationStore(a.db),
		Messages:      postgres.NewMessageStore(a.db),
		Documents:     postgres.NewDocumentStore(a.db),
		Memberships:   a.memberships,
		Files:         a.files,
	}, services.SearchConfig{
		Limits:             services.Limits{Default: cfg.Search.DefaultLimit, Max: cfg.Search.MaxLimit},
		Timeout:            cfg.SearchTimeout(),
		StrictSenderFilter: cfg.Search.StrictSenderFilter,
	}, log)

	return a, nil
}

// Close releases every open resource; it is safe on a partially built app
func (a *app) Close() {
	if a.files != nil {
		if err := a.files.Close(); err != nil {
			a.logger.Warn("close file index", zap.Error(err))
		}
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
	_ = a.logger.Sync()
}
