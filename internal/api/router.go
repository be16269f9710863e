package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"message_wall/internal/api/handler"
	"message_wall/internal/api/middleware"
	"message_wall/internal/app/service"
	"message_wall/internal/common"
	"message_wall/internal/platform/config"
	"message_wall/internal/platform/logger"
)

func NewRouter(
	cfg *config.Config,
	log logrus.FieldLogger,
	guard *middleware.Guard,
	authService *service.AuthService,
	userService *service.UserService,
	messageService *service.MessageService,
	commentService *service.CommentService,
	adminService *service.AdminService,
	uploadService *service.UploadService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(logger.RequestLogger(log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"WWW-Authenticate"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithJSON(w, http.StatusOK, common.MessageResponse{Message: "Welcome to the message wall API"})
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(api chi.Router) {
		handler.NewAuthHandler(authService).RegisterRoutes(api)
		handler.NewUserHandler(userService, guard).RegisterRoutes(api)
		handler.NewMessageHandler(messageService, guard).RegisterRoutes(api)
		handler.NewCommentHandler(commentService, guard).RegisterRoutes(api)
		handler.NewUploadHandler(uploadService, guard, cfg.MaxUploadBytes).RegisterRoutes(api)
		api.Route("/admin", handler.NewAdminHandler(adminService, guard).RegisterRoutes)
	})

	if cfg.StorageBackend == "" || cfg.StorageBackend == "local" {
		mountDir(r, "/uploads", cfg.UploadDir)
	}
	mountDir(r, "/static", cfg.StaticDir)

	return r
}

func mountDir(r chi.Router, prefix, dir string) {
	if dir == "" {
		return
	}
	fs := http.StripPrefix(prefix+"/", http.FileServer(http.Dir(dir)))
	r.Handle(prefix+"/*", fs)
}
