package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dimitrije/gigmarket-api/internal/config"
	"github.com/dimitrije/gigmarket-api/internal/database"
	"github.com/dimitrije/gigmarket-api/internal/handlers"
	authmw "github.com/dimitrije/gigmarket-api/internal/middleware"
	"github.com/dimitrije/gigmarket-api/internal/scoring"
	"github.com/dimitrije/gigmarket-api/internal/services"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx := context.Background()

	if cfg.MigrateOnStart {
		if err := database.Migrate(cfg.DatabaseURL); err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry)
	userService := services.NewUserService(db)
	reputationService := services.NewReputationService(db, scoring.DefaultWeights(), logger)
	projectService := services.NewProjectService(db, reputationService, logger)
	bidService := services.NewBidService(db, cfg.Bids, cfg.Invitations, logger)
	invitationService := services.NewInvitationService(db, bidService, cfg.Invitations, logger)
	obspService := services.NewOBSPService(db, reputationService, logger)
	feedbackService := services.NewFeedbackService(db, reputationService, logger)
	profileService := services.NewProfileService(db, reputationService, logger)

	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	bidHandler := handlers.NewBidHandler(bidService)
	invitationHandler := handlers.NewInvitationHandler(invitationService)
	obspHandler := handlers.NewOBSPHandler(obspService)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService)
	profileHandler := handlers.NewProfileHandler(profileService)
	reputationHandler := handlers.NewReputationHandler(reputationService, userService)
	adminHandler := handlers.NewAdminHandler(profileService)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	api := app.Group("/api/v1")

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))
	protected.Use(authmw.EnsureUser(userService))

	protected.Get("/users/me", userHandler.GetMe)

	protected.Post("/projects", projectHandler.Create)
	protected.Get("/projects/:projectId", projectHandler.Get)
	protected.Post("/projects/:projectId/complete", projectHandler.Complete)
	protected.Post("/projects/:projectId/bids", bidHandler.Submit)
	protected.Get("/projects/:projectId/bids", bidHandler.ListForProject)

	protected.Get("/bids", bidHandler.ListMine)
	protected.Patch("/bids/:bidId", bidHandler.Edit)
	protected.Post("/bids/:bidId/transitions", bidHandler.Transition)
	protected.Post("/bids/:bidId/withdraw", bidHandler.Withdraw)
	protected.Get("/bids/:bidId/history", bidHandler.History)
	protected.Post("/interview-requests", bidHandler.RequestInterviews)

	protected.Post("/invitations", invitationHandler.Create)
	protected.Get("/invitations", invitationHandler.List)
	protected.Get("/invitations/:invitationId", invitationHandler.Get)
	protected.Post("/invitations/:invitationId/respond", invitationHandler.Respond)

	protected.Post("/obsp/templates/:templateId/assignments", obspHandler.CreateAssignment)
	protected.Post("/obsp/assignments/:assignmentId/complete", obspHandler.CompleteAssignment)

	protected.Post("/feedback", feedbackHandler.CreateFeedback)
	protected.Post("/reviews", feedbackHandler.CreateReview)

	protected.Post("/profile/bank-details", profileHandler.SaveBankDetails)
	protected.Post("/profile/documents", profileHandler.AddDocument)
	protected.Patch("/profile/completion", profileHandler.UpdateCompletion)

	protected.Get("/freelancers/:userId/reputation", reputationHandler.Get)
	protected.Post("/freelancers/:userId/reputation/recalculate", reputationHandler.Recalculate)

	admin := protected.Group("/admin")
	admin.Use(authmw.RequireSuperAdmin(userService))
	admin.Post("/bank-details/:userId/verify", adminHandler.VerifyBankDetails)
	admin.Post("/documents/:documentId/verify", adminHandler.VerifyDocument)

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		logger.Info("server starting", "addr", addr, "env", cfg.Env)
		if err := app.Run(addr); err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
}
