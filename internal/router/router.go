package router

import (
	"github.com/gin-gonic/gin"

	"dekontrol/internal/domain"
	"dekontrol/internal/handler"
	"dekontrol/internal/middleware"
	"dekontrol/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	authSvc service.AuthService,
	corsOrigins []string,
	authH *handler.AuthHandler,
	receiptH *handler.ReceiptHandler,
	rosterH *handler.RosterHandler,
	reportH *handler.ReportHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.RefreshToken)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	// Receipt routes
	receipts := protected.Group("/receipts")
	receipts.POST("", receiptH.Upload)
	receipts.GET("", receiptH.List)
	receipts.GET("/:id", receiptH.Get)
	receipts.GET("/:id/download", receiptH.DownloadURL)
	receipts.POST("/:id/reanalyze", receiptH.Reanalyze)
	receipts.POST("/:id/review", receiptH.Review)
	receipts.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin), receiptH.Delete)

	// Student roster
	students := protected.Group("/students")
	students.POST("", rosterH.CreateStudent)
	students.GET("", rosterH.ListStudents)
	students.GET("/:id", rosterH.GetStudent)
	students.PUT("/:id", rosterH.UpdateStudent)

	// Company roster
	companies := protected.Group("/companies")
	companies.POST("", rosterH.CreateCompany)
	companies.GET("", rosterH.ListCompanies)
	companies.GET("/:id", rosterH.GetCompany)
	companies.PUT("/:id", rosterH.UpdateCompany)

	// Reports
	reports := protected.Group("/reports")
	reports.GET("/monthly", reportH.MonthlyReport)

	return r
}
