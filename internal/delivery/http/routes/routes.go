package routes

import (
	"resume-coach/internal/config"
	"resume-coach/internal/database"
	"resume-coach/internal/delivery/http/handler"
	v1 "resume-coach/internal/delivery/http/routes/v1"
	"resume-coach/internal/infrastructure/cache"
	"resume-coach/internal/llm"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	cfg   config.Config
	db    database.DB
	cache *cache.Redis
	model *llm.Client

	health *handler.HealthHandler
}

func NewRegistry(cfg config.Config, db database.DB, redis *cache.Redis, model *llm.Client) *Registry {
	return &Registry{
		cfg:    cfg,
		db:     db,
		cache:  redis,
		model:  model,
		health: handler.NewHealthHandler(db),
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	r.health.RegisterRoutes(app)
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	v1.Register(api.Group("/v1"), r.cfg, r.db, r.cache, r.model)
}
