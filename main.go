package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"ar-reporter/internal/audit"
	"ar-reporter/internal/auth"
	"ar-reporter/internal/observability/metrics"
	"ar-reporter/internal/receivables/application"
	reportpostgres "ar-reporter/internal/receivables/infrastructure/postgres"
	reporthttp "ar-reporter/internal/receivables/interfaces/http"
	"ar-reporter/internal/receivables/render"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("db ping error: %v", err)
	}

	metrics.Init(logger)
	auditRepo := audit.NewRepository(db)

	theme, err := render.LoadTheme(cfg.ThemeConfigPath)
	if err != nil {
		logger.Fatalf("theme config error: %v", err)
	}

	rowFetcher := reportpostgres.NewRowFetcher(db)
	customerRepo := reportpostgres.NewCustomerRepository(db)

	reportService, err := application.NewReportService(rowFetcher, logger)
	if err != nil {
		logger.Fatalf("report service error: %v", err)
	}

	htmlRenderer, err := render.NewHTMLRenderer(theme)
	if err != nil {
		logger.Fatalf("html renderer error: %v", err)
	}
	renderers := []render.Renderer{
		render.NewExcelRenderer(theme, render.WithLiveFormulas(cfg.ExcelLiveFormulas)),
		render.NewPDFRenderer(theme),
		htmlRenderer,
	}

	reportHandler, err := reporthttp.NewReportHandler(reportService, renderers, auditRepo)
	if err != nil {
		logger.Fatalf("report handler error: %v", err)
	}
	customersHandler, err := reporthttp.NewCustomersHandler(customerRepo)
	if err != nil {
		logger.Fatalf("customers handler error: %v", err)
	}

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/reports/receivables/", reportHandler)
	mux.Handle("/api/v1/filters/customers", customersHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	DatabaseURL       string
	HTTPAddr          string
	JWTSecret         string
	ThemeConfigPath   string
	ExcelLiveFormulas bool
}

func loadConfig() config {
	cfg := config{
		DatabaseURL:       getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:          getenvDefault("HTTP_ADDR", ":8080"),
		JWTSecret:         getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
		ThemeConfigPath:   getenvDefault("REPORT_THEME_CONFIG", ""),
		ExcelLiveFormulas: getenvBoolDefault("REPORT_EXCEL_LIVE_FORMULAS", false),
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL or PG_DSN is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvBoolDefault(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
