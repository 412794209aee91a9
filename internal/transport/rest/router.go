package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"shopcheck/internal/service"
	"shopcheck/internal/transport/rest/handler"
	"shopcheck/internal/transport/rest/middleware"
	"shopcheck/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService      *service.AuthService
	UserService      *service.UserService
	ChecklistService *service.ChecklistService
	SessionService   *service.SessionService
	ReportService    *service.ReportService
	AnalyticsService *service.AnalyticsService
	ExportService    *service.ExportService
	WSHub            *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	sessionHandler := handler.NewSessionHandler(c.SessionService)
	checklistHandler := handler.NewChecklistHandler(c.ChecklistService, c.ReportService, c.UserService)
	reportHandler := handler.NewReportHandler(c.ReportService)
	employeeHandler := handler.NewEmployeeHandler(c.UserService)
	analyticsHandler := handler.NewAnalyticsHandler(c.AnalyticsService)
	exportHandler := handler.NewExportHandler(c.ExportService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.UserService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// WebSocket route (token in query param, validated in the handler)
	v1.HandleFunc("/ws/feed", wsHandler.AdminFeed).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Worker routes (require worker auth)
	workerRoutes := v1.NewRoute().Subrouter()
	workerRoutes.Use(authMW.RequireWorker)

	workerRoutes.HandleFunc("/sessions", sessionHandler.Start).Methods("POST", "OPTIONS")
	workerRoutes.HandleFunc("/sessions/input", sessionHandler.Input).Methods("POST", "OPTIONS")
	workerRoutes.HandleFunc("/sessions/cancel", sessionHandler.Cancel).Methods("POST", "OPTIONS")
	workerRoutes.HandleFunc("/my/checklists", checklistHandler.Available).Methods("GET", "OPTIONS")
	workerRoutes.HandleFunc("/my/reports", reportHandler.Mine).Methods("GET", "OPTIONS")

	// Admin routes (admins and superadmins)
	adminRoutes := v1.NewRoute().Subrouter()
	adminRoutes.Use(authMW.RequireAdmin)

	adminRoutes.HandleFunc("/checklists", checklistHandler.Create).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/checklists", checklistHandler.List).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/checklists/used-today", checklistHandler.UsedToday).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/checklists/{id}", checklistHandler.Get).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/checklists/{id}", checklistHandler.Update).Methods("PUT", "OPTIONS")
	adminRoutes.HandleFunc("/checklists/{id}", checklistHandler.Delete).Methods("DELETE", "OPTIONS")
	adminRoutes.HandleFunc("/checklists/{id}/questions", checklistHandler.AddQuestion).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/checklists/{id}/questions", checklistHandler.ListQuestions).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/checklists/{id}/reports", reportHandler.ByChecklist).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/questions/{id}", checklistHandler.EditQuestion).Methods("PUT", "OPTIONS")
	adminRoutes.HandleFunc("/questions/{id}", checklistHandler.RemoveQuestion).Methods("DELETE", "OPTIONS")

	adminRoutes.HandleFunc("/reports/{id}", reportHandler.Details).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/export/reports", exportHandler.Download).Methods("GET", "OPTIONS")

	adminRoutes.HandleFunc("/employees", employeeHandler.Register).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/employees", employeeHandler.Workers).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/employees/{id}", employeeHandler.Get).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/employees/{id}", employeeHandler.Update).Methods("PUT", "OPTIONS")
	adminRoutes.HandleFunc("/employees/{id}", employeeHandler.Delete).Methods("DELETE", "OPTIONS")
	adminRoutes.HandleFunc("/employees/{id}/reports", reportHandler.ByWorker).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/shops", employeeHandler.Shops).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/shops/{shop}/employees", employeeHandler.ByShop).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/positions", employeeHandler.Positions).Methods("GET", "OPTIONS")

	adminRoutes.HandleFunc("/stats/shops", analyticsHandler.ShopMonthly).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/stats/workers", analyticsHandler.AllWorkers).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/stats/workers/{id}", analyticsHandler.WorkerActivity).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/stats/checklists/{id}", analyticsHandler.ChecklistUsage).Methods("GET", "OPTIONS")

	// Superadmin routes
	superRoutes := v1.NewRoute().Subrouter()
	superRoutes.Use(authMW.RequireSuperadmin)

	superRoutes.HandleFunc("/admins", employeeHandler.Admins).Methods("GET", "OPTIONS")
	superRoutes.HandleFunc("/admins/shops", employeeHandler.AttachShop).Methods("POST", "OPTIONS")
	superRoutes.HandleFunc("/stats/admins", analyticsHandler.AllAdmins).Methods("GET", "OPTIONS")
	superRoutes.HandleFunc("/stats/admins/{chatId}", analyticsHandler.AdminActivity).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
