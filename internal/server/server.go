package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/minhpbb/kanban/internal/config"
	"github.com/minhpbb/kanban/internal/handler"
	"github.com/minhpbb/kanban/internal/middleware"
	"github.com/minhpbb/kanban/internal/repository"
	"github.com/minhpbb/kanban/internal/service"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	// Setup GORM
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	log.Println("✅ Connected to database")

	if cfg.RunMigrations {
		if err := runMigrations(cfg); err != nil {
			return nil, fmt.Errorf("❌ migrations failed: %w", err)
		}
		log.Println("✅ Migrations applied")
	}

	// Setup Gin
	r := gin.Default()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	columnRepo := repository.NewColumnRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Initialize services
	accessService := service.NewAccessService(projectRepo, memberRepo)
	notifier := service.NewNotifier(notificationRepo)
	projectService := service.NewProjectService(db, projectRepo, memberRepo, boardRepo, columnRepo,
		taskRepo, notificationRepo, userRepo, accessService, notifier)
	boardService := service.NewBoardService(db, boardRepo, columnRepo, accessService)
	taskService := service.NewTaskService(db, taskRepo, boardRepo, columnRepo, accessService, notifier)
	userService := service.NewUserService(db, userRepo, roleRepo, tokenRepo, projectRepo, memberRepo,
		taskRepo, notificationRepo, projectService)
	notificationService := service.NewNotificationService(notificationRepo)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userRepo, tokenRepo, userService,
		cfg.JWTSecret, cfg.JWTExpiry, cfg.RefreshTTL)
	projectHandler := handler.NewProjectHandler(projectService)
	boardHandler := handler.NewBoardHandler(boardService)
	taskHandler := handler.NewTaskHandler(taskService)
	notificationHandler := handler.NewNotificationHandler(notificationService)

	// Public routes
	r.POST("/auth/register", userHandler.Register)
	r.POST("/auth/login", userHandler.Login)
	r.POST("/auth/refresh", userHandler.Refresh)
	r.POST("/auth/logout", userHandler.Logout)

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		// User routes
		authorized.GET("/users/me", userHandler.GetMe)
		authorized.PUT("/users/me", userHandler.UpdateMe)
		authorized.PUT("/users/me/password", userHandler.ChangePassword)
		authorized.DELETE("/users/:id", userHandler.SoftDelete)
		authorized.DELETE("/users/:id/hard", userHandler.HardDelete)

		// Project routes
		authorized.POST("/projects", projectHandler.Create)
		authorized.GET("/projects", projectHandler.List)
		authorized.GET("/projects/:id", projectHandler.GetByID)
		authorized.PUT("/projects/:id", projectHandler.Update)
		authorized.DELETE("/projects/:id", projectHandler.Delete)
		authorized.DELETE("/projects/:id/hard", projectHandler.HardDelete)
		authorized.POST("/projects/:id/members", projectHandler.AddMember)
		authorized.DELETE("/projects/:id/members/:user_id", projectHandler.RemoveMember)
		authorized.GET("/projects/:id/members", projectHandler.ListMembers)
		authorized.GET("/projects/:id/tasks", taskHandler.ListByProject)

		// Board routes
		authorized.POST("/projects/:id/boards", boardHandler.Create)
		authorized.GET("/projects/:id/boards", boardHandler.ListByProject)
		authorized.GET("/boards/:id/columns", boardHandler.ListColumns)
		authorized.POST("/boards/:id/columns", boardHandler.AddColumn)
		authorized.POST("/boards/:id/columns/reorder", boardHandler.ReorderColumns)
		authorized.PUT("/columns/:id", boardHandler.RenameColumn)

		// Task routes
		authorized.POST("/tasks", taskHandler.Create)
		authorized.GET("/tasks/:id", taskHandler.GetByID)
		authorized.GET("/columns/:id/tasks", taskHandler.ListByColumn)
		authorized.PUT("/tasks/:id", taskHandler.Update)
		authorized.DELETE("/tasks/:id", taskHandler.Delete)
		authorized.POST("/tasks/:id/move", taskHandler.Move)
		authorized.DELETE("/tasks/:id/assign", taskHandler.Unassign)
		authorized.POST("/columns/:id/tasks/reorder", taskHandler.Reorder)
		authorized.POST("/tasks/:id/comments", taskHandler.AddComment)
		authorized.GET("/tasks/:id/comments", taskHandler.ListComments)

		// Notification routes
		authorized.GET("/notifications", notificationHandler.List)
		authorized.POST("/notifications/:id/read", notificationHandler.MarkRead)
		authorized.POST("/notifications/:id/archive", notificationHandler.Archive)
	}
	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
	}, nil
}

func runMigrations(cfg *config.Config) error {
	url := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
	)
	m, err := migrate.New("file://"+cfg.MigrationsPath, url)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Printf("🚀 Server running on port %s\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	log.Println("✅ Server exited properly")
}
