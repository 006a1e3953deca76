package commands

import (
	"context"
	"fmt"
	"log/slog"

	"membergate/config"
	"membergate/jobs"
	"membergate/routes"
	"membergate/services"
	"membergate/services/notification"
	"membergate/services/token"
	"membergate/stores"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

type application struct {
	cfg        *config.Config
	logger     *slog.Logger
	db         *gorm.DB
	redis      *redis.Client
	router     *gin.Engine
	melody     *melody.Melody
	cron       *cron.Cron
	registry   *prometheus.Registry
	members    stores.MemberStore
	hasher     services.Hasher
	auth       *services.AuthService
	attendance *services.AttendanceService
}

func buildApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := config.ConnectDB(cfg, logger)
	if err != nil {
		return nil, err
	}

	rdb, err := config.ConnectRedis(ctx, cfg, logger)
	if err != nil {
		logger.Warn("redis unavailable, directory cache disabled", "error", err)
		rdb = nil
	}

	if cfg.InsecureSecret {
		logger.Warn("JWT_SECRET not set, using the built-in fallback secret; set JWT_SECRET in production")
	}
	tokens, err := token.NewService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}

	router, m, c, err := config.InitApp(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize app: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	members := stores.NewMemberStore(db)
	hasher := services.NewBcryptHasher(cfg.HashCost)

	auth := services.NewAuthService(services.AuthServiceOptions{
		Members:         members,
		Hasher:          hasher,
		Tokens:          tokens,
		Logger:          logger,
		Registerer:      registry,
		LegacyAdminCode: cfg.LegacyAdminCode,
	})

	var cache services.MemberListCache
	if rdb != nil {
		cache = services.NewRedisMemberListCache(rdb)
	}
	directory := services.NewDirectoryService(services.DirectoryServiceOptions{
		Auth:    auth,
		Members: members,
		Hasher:  hasher,
		Cache:   cache,
		Logger:  logger,
	})

	attendance := services.NewAttendanceService(services.AttendanceServiceOptions{
		Auth:       auth,
		Checkins:   stores.NewCheckinStore(db),
		Members:    members,
		Notifier:   notification.NewMelodyService(m),
		Location:   loc,
		Logger:     logger,
		Registerer: registry,
	})

	m.HandleConnect(func(s *melody.Session) {
		memberID, _ := s.Get("member_id")
		logger.Debug("live feed subscriber connected", "member_id", memberID)
	})
	m.HandleDisconnect(func(s *melody.Session) {
		memberID, _ := s.Get("member_id")
		logger.Debug("live feed subscriber disconnected", "member_id", memberID)
	})

	routes.SetupRoutes(router, routes.Dependencies{
		Auth:       auth,
		Directory:  directory,
		Attendance: attendance,
		Melody:     m,
		Gatherer:   registry,
	})

	return &application{
		cfg:        cfg,
		logger:     logger,
		db:         db,
		redis:      rdb,
		router:     router,
		melody:     m,
		cron:       c,
		registry:   registry,
		members:    members,
		hasher:     hasher,
		auth:       auth,
		attendance: attendance,
	}, nil
}

func (a *application) seedAdmin(ctx context.Context) (bool, error) {
	return services.SeedAdmin(ctx, services.SeedAdminOptions{
		Members: a.members,
		Hasher:  a.hasher,
		Code:    a.cfg.BootstrapAdminCode,
		Secret:  a.cfg.BootstrapAdminPIN,
		Logger:  a.logger,
	})
}

func (a *application) startJobs() error {
	return jobs.InitCronJobs(a.cron, a.attendance, a.logger)
}

func (a *application) close() {
	a.cron.Stop()
	if err := a.melody.Close(); err != nil {
		a.logger.Warn("failed to close websocket hub", "error", err)
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
