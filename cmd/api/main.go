package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/eventstaffhq/crm-backend-go/internal/config"
	appHTTP "github.com/eventstaffhq/crm-backend-go/internal/handler/http"
	"github.com/eventstaffhq/crm-backend-go/internal/pkg/database"
	"github.com/eventstaffhq/crm-backend-go/internal/pkg/jwt"
	"github.com/eventstaffhq/crm-backend-go/internal/pkg/routing"
	"github.com/eventstaffhq/crm-backend-go/internal/repository/postgresql"
	payrollService "github.com/eventstaffhq/crm-backend-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	payrollRepo := postgresql.NewPayrollRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	var distances routing.DistanceResolver
	if cfg.Routing.BaseURL != "" {
		distances = routing.NewClient(cfg.Routing.BaseURL, cfg.Routing.Timeout)
	} else {
		logger.Warn("no routing provider configured, mileage uses straight-line estimates")
		distances = routing.NewHaversineEstimator()
	}

	payrollSvc := payrollService.NewPayrollService(payrollRepo, distances, logger)

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)

	router := appHTTP.NewRouter(
		JWTService,
		payrollHandler,
		cfg.App.AllowedOrigins,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
