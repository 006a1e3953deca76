package config

import (
	"log/slog"
	"time"

	"membergate/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	"github.com/robfig/cron/v3"
)

// InitApp builds the router with its global middleware, the websocket hub
// and the scheduler. Nothing is started here.
func InitApp(cfg *Config, logger *slog.Logger) (*gin.Engine, *melody.Melody, *cron.Cron, error) {
	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.ErrorHandler())
	router.Use(cors.New(corsConfig(cfg)))

	if err := router.SetTrustedProxies(nil); err != nil {
		return nil, nil, nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, nil, err
	}

	m := melody.New()
	c := cron.New(cron.WithLocation(loc))

	return router, m, c, nil
}

func corsConfig(cfg *Config) cors.Config {
	configCors := cors.DefaultConfig()
	configCors.AddAllowHeaders("Authorization")
	configCors.AddExposeHeaders(middleware.RequestIDHeader, "Content-Disposition")
	configCors.AllowCredentials = true
	configCors.MaxAge = 12 * time.Hour
	if len(cfg.AllowedOrigins) == 0 {
		configCors.AllowOriginFunc = func(origin string) bool {
			return true
		}
	} else {
		configCors.AllowOrigins = cfg.AllowedOrigins
	}
	return configCors
}
