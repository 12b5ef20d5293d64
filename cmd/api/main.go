package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/ovaphlow/pitchfork/service-activity-go-stdlib/internal/activity"
	activityrepo "github.com/ovaphlow/pitchfork/service-activity-go-stdlib/internal/activity/repo"
	"github.com/ovaphlow/pitchfork/service-activity-go-stdlib/internal/auth"
	"github.com/ovaphlow/pitchfork/service-activity-go-stdlib/internal/router"
	"github.com/ovaphlow/pitchfork/service-activity-go-stdlib/internal/user"
	userrepo "github.com/ovaphlow/pitchfork/service-activity-go-stdlib/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-activity-go-stdlib/pkg/database"
	"github.com/ovaphlow/pitchfork/service-activity-go-stdlib/pkg/utilities"
)

func main() {
	// load .env file if present so os.Getenv picks values from it
	// this is best-effort: if no .env exists, continue (use defaults or real env)
	_ = godotenv.Load()

	// init logger
	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Info("starting service-activity-go-stdlib")

	// token config: a missing signing secret aborts startup, never a
	// per-request error
	authCfg, err := auth.ConfigFromEnv()
	if err != nil {
		sugar.Fatalf("auth config: %v", err)
	}
	sessions, err := auth.NewTokenService(authCfg.Secret, authCfg.TTL)
	if err != nil {
		sugar.Fatalf("session tokens: %v", err)
	}
	testSessions, err := auth.NewTokenService(authCfg.TestSecret, authCfg.TTL)
	if err != nil {
		sugar.Fatalf("test tokens: %v", err)
	}

	// init db
	cfg := database.ConfigFromEnv()
	sqlDB, err := database.Connect(cfg)
	if err != nil {
		sugar.Fatalf("db connect: %v", err)
	}
	defer sqlDB.Close()

	// wrap with sqlx for convenience in repos/services
	sqlxDB := sqlx.NewDb(sqlDB, "postgres")
	defer sqlxDB.Close()

	users := userrepo.NewUserRepo(sqlxDB)
	activities := activityrepo.NewActivityRepo(sqlxDB)

	ddlCtx, cancelDDL := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelDDL()
	if err := users.EnsureTable(ddlCtx); err != nil {
		sugar.Fatalf("ensure accounts table: %v", err)
	}
	if err := activities.EnsureTables(ddlCtx); err != nil {
		sugar.Fatalf("ensure activity tables: %v", err)
	}

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sugar.Info("service is running; press Ctrl+C to stop")

	// mount http server
	handler := router.RegisterRoutes(router.Deps{
		Logger:       sugar,
		Users:        user.NewHandler(user.NewUserService(users, nil), sessions, sugar),
		Activities:   activity.NewHandler(activity.NewActivityService(activities), sugar),
		Sessions:     sessions,
		TestSessions: testSessions,
	})
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: handler,
	}

	// run server in background
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()

	<-ctx.Done()

	sugar.Info("shutting down")

	// give a short grace period for cleanup
	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// shutdown http server
	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
}
