package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/config"
	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/router"
	"github.com/ovaphlow/pitchfork/service-healthcare-go/pkg/database"
	"github.com/ovaphlow/pitchfork/service-healthcare-go/pkg/utilities"
)

func main() {
	// best-effort: real environment variables win over .env
	_ = godotenv.Load()

	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Info("starting service-healthcare-go")

	cfg, err := config.Load()
	if err != nil {
		sugar.Fatalf("config: %v", err)
	}
	if err := utilities.SetIDNode(cfg.SnowflakeNode); err != nil {
		sugar.Fatalf("ids: %v", err)
	}

	db, err := database.Connect(cfg.Database())
	if err != nil {
		sugar.Fatalf("db connect: %v", err)
	}
	defer db.Close()
	sugar.Infow("database connected", "driver", db.DriverName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := router.EnsureSchema(ctx, db); err != nil {
		sugar.Fatalf("ensure schema: %v", err)
	}

	handler, err := router.RegisterRoutes(router.Deps{Logger: sugar, DB: db, Config: cfg})
	if err != nil {
		sugar.Fatalf("routes: %v", err)
	}
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		sugar.Infof("server started on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()

	<-ctx.Done()

	sugar.Info("shutting down")

	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}
	if err := db.PingContext(doneCtx); err != nil {
		sugar.Warnf("db ping on shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
}
