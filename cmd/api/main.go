package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/divvyhq/divvy/internal/config"
	"github.com/divvyhq/divvy/internal/database"
	"github.com/divvyhq/divvy/internal/expense"
	expensesplit "github.com/divvyhq/divvy/internal/expense/split"
	"github.com/divvyhq/divvy/internal/group"
	"github.com/divvyhq/divvy/internal/mirror"
	"github.com/divvyhq/divvy/internal/settlement"
	"github.com/divvyhq/divvy/internal/user"
	"github.com/divvyhq/divvy/pkg/logging"
	mw "github.com/divvyhq/divvy/pkg/middleware"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	logging.Setup()

	cfg := config.Load()

	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Connected to database")

	// Split strategy factory
	splitFactory := expensesplit.NewFactory()

	// User directory
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService)

	// Groups and balances
	groupRepo := group.NewRepository(db)
	groupService := group.NewService(db, groupRepo)
	groupHandler := group.NewHandler(groupService)

	// Personal mirror entries
	mirrorRepo := mirror.NewRepository()
	mirrorHandler := mirror.NewHandler(db, mirrorRepo)

	// Shared expense ledger
	expenseRepo := expense.NewRepository(db)
	expenseService := expense.NewService(db, expenseRepo, groupRepo, mirrorRepo, splitFactory)
	expenseHandler := expense.NewHandler(expenseService)

	// Settlement planning and settle-up
	settlementService := settlement.NewService(db, expenseRepo, groupRepo, mirrorRepo)
	settlementHandler := settlement.NewHandler(settlementService)

	r := chi.NewRouter()

	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RequestID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// API routes; every endpoint acts on behalf of the X-User-ID identity
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.ActorMiddleware)
		r.Mount("/users", userHandler.Routes())
		r.Mount("/groups", groupHandler.Routes())
		r.Mount("/expenses", expenseHandler.Routes())
		r.Mount("/settlements", settlementHandler.Routes())
		r.Mount("/me/expenses", mirrorHandler.Routes())
	})

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	slog.Info("Server starting", "port", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
