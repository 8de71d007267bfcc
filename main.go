package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"taskflow/config"
	"taskflow/gcal"
	"taskflow/handlers"
	"taskflow/logging"
	"taskflow/middleware"
	"taskflow/sweeper"
)

func main() {
	godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	otelShutdown, err := logging.SetupOTelSDK(ctx)
	if err != nil {
		log.Fatalf("failed to setup OTel SDK: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			log.Printf("OTel shutdown error: %v", err)
		}
	}()

	store, err := config.ConnectDB(ctx)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		store.Disconnect(disconnectCtx)
	}()

	calendar, err := gcal.NewFromEnv(ctx)
	if err != nil {
		log.Printf("calendar sync disabled: %v", err)
		calendar = nil
	}

	h := handlers.New(store, calendar)

	mux := http.NewServeMux()
	mux.HandleFunc("/check", check)
	mux.HandleFunc("/register", h.Register)
	mux.HandleFunc("/login", h.Login)
	mux.HandleFunc("/task/create", middleware.AuthMiddleware(h.CreateTask))
	mux.HandleFunc("/task/list", middleware.AuthMiddleware(h.ListAllTask))
	mux.HandleFunc("/task/update", middleware.AuthMiddleware(h.UpdateTask))
	mux.HandleFunc("/task/delete", middleware.AuthMiddleware(h.DeleteTask))
	mux.HandleFunc("/task/analytics", middleware.AuthMiddleware(h.TaskAnalytics))
	mux.HandleFunc("/notifications/list", middleware.AuthMiddleware(h.ListNotifications))
	mux.HandleFunc("/notifications/read", middleware.AuthMiddleware(h.MarkNotificationRead))
	mux.HandleFunc("/notifications/delete", middleware.AuthMiddleware(h.DeleteNotification))

	go sweeper.New(store, sweepInterval()).Run(ctx)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	server := &http.Server{
		Addr:    ":" + port,
		Handler: otelhttp.NewHandler(mux, "taskflow-api"),
	}

	serverErr := make(chan error, 1)
	go func() {
		logging.Log("server starting", slog.LevelInfo, "port", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		log.Fatalf("server startup failed: %v", err)
	case <-ctx.Done():
		logging.Log("shutdown signal received", slog.LevelInfo)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("graceful shutdown failed: %v", err)
		}
	}
}

func sweepInterval() time.Duration {
	if s := os.Getenv("SWEEP_INTERVAL"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			return d
		}
	}
	return 5 * time.Minute
}

func check(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "healthy"}`))
}
