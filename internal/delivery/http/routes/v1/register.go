package v1

import (
	"resume-coach/internal/coaching"
	"resume-coach/internal/config"
	"resume-coach/internal/database"
	"resume-coach/internal/delivery/http/handler"
	"resume-coach/internal/delivery/http/middleware"
	"resume-coach/internal/extraction"
	"resume-coach/internal/infrastructure/cache"
	"resume-coach/internal/llm"
	"resume-coach/internal/pkg/jwt"
	"resume-coach/internal/repository"
	"resume-coach/internal/textextract"
	"resume-coach/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

func Register(r fiber.Router, cfg config.Config, db database.DB, redis *cache.Redis, model *llm.Client) {
	if r == nil {
		return
	}

	jwtSvc := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)

	authMw := middleware.NewAuthMiddleware(jwtSvc)

	userRepo := repository.NewPostgresUserRepository(db)
	resumeRepo := repository.NewPostgresResumeRepository(db)

	authUC := usecase.NewAuthUsecase(userRepo, jwtSvc)
	resumeUC := usecase.NewResumeUsecase(resumeRepo, textextract.NewService(), redis)
	coachUC := usecase.NewCoachUsecase(
		resumeRepo,
		coaching.NewEngine(model),
		extraction.NewExtractor(model),
		redis,
	)

	authHandler := handler.NewAuthHandler(authUC)
	resumeHandler := handler.NewResumeHandler(resumeUC)
	coachHandler := handler.NewCoachHandler(coachUC)

	authGroup := r.Group("/auth")
	authHandler.RegisterRoutes(authGroup)

	protected := r.Group("", authMw.Middleware())

	resumeHandler.RegisterRoutes(protected.Group("/resumes"))
	coachHandler.RegisterRoutes(protected.Group("/coach"))
}
