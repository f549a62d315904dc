package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/pSenciales/urbanspot/internal/auth"
	"github.com/pSenciales/urbanspot/internal/config"
	"github.com/pSenciales/urbanspot/internal/image"
	"github.com/pSenciales/urbanspot/internal/poi"
	"github.com/pSenciales/urbanspot/internal/rank"
	"github.com/pSenciales/urbanspot/internal/rating"
	"github.com/pSenciales/urbanspot/internal/user"
)

type Server struct {
	App   *fiber.App
	Cfg   config.Config
	DB    *pgxpool.Pool
	Redis *redis.Client
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:   app,
		Cfg:   cfg,
		DB:    db,
		Redis: redisClient,
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)
	leaderboardTTL := time.Duration(s.Cfg.LeaderboardTTL) * time.Second

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB))
	user.RegisterRoutes(s.App.Group("/users"), user.NewService(s.DB), jwtMiddleware)
	poi.RegisterRoutes(s.App.Group("/pois"), poi.NewService(s.DB), jwtMiddleware)
	image.RegisterRoutes(s.App.Group("/pois"), image.NewService(s.DB), jwtMiddleware)
	rating.RegisterRoutes(s.App.Group("/ratings"), rating.NewService(s.DB), jwtMiddleware)
	rank.RegisterRoutes(s.App.Group("/leaderboard"), rank.NewService(s.DB, s.Redis, leaderboardTTL))
}
