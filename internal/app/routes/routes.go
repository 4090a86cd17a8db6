package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/madrasa/backoffice/internal/app/controllers"
	"github.com/madrasa/backoffice/internal/app/models"
	"github.com/madrasa/backoffice/internal/app/models/dto"
	"github.com/madrasa/backoffice/internal/middleware"
)

// Controllers groups the handlers mounted by SetupRouter.
type Controllers struct {
	Analytics *controllers.AnalyticsController
	Students  *controllers.StudentController
	Incomes   *controllers.LedgerController
	Donations *controllers.LedgerController
	Expenses  *controllers.LedgerController
	Employees *controllers.EmployeeController
	Admins    *controllers.AdminController
}

// HealthCheck reports whether the backing services are reachable.
type HealthCheck func(ctx context.Context) error

// SetupRouter configures all application routes under basePath
func SetupRouter(
	router *gin.Engine,
	basePath string,
	c Controllers,
	authMiddleware *middleware.AuthMiddleware,
	health HealthCheck,
) {
	api := router.Group(basePath)

	// Health check endpoint (public)
	api.GET("/health", func(ctx *gin.Context) {
		if health != nil {
			checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
			defer cancel()
			if err := health(checkCtx); err != nil {
				ctx.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(http.StatusServiceUnavailable,
					dto.ErrorCodeInternalServer, "Service unavailable", "database unreachable"))
				return
			}
		}
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse("OK", gin.H{"status": "ok"}))
	})

	// --- Authenticated Routes Group ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	analytics := authenticated.Group("/analytics")
	{
		analytics.GET("/overview-stats", c.Analytics.GetOverviewStats)
		analytics.GET("/report-overview", c.Analytics.GetReportOverview)
		analytics.GET("/income-expense-comparison", c.Analytics.GetIncomeExpenseComparison)
		analytics.GET("/donations-by-month", c.Analytics.GetDonationsByMonth)
		analytics.GET("/monthly-report/export", c.Analytics.ExportMonthlyReport)
	}

	students := authenticated.Group("/students")
	{
		students.POST("/create-student", c.Students.CreateStudent)
		students.GET("", c.Students.ListStudents)
		students.GET("/:id", c.Students.GetStudent)
		students.PUT("/:id", c.Students.UpdateStudent)
		students.DELETE("/:id", c.Students.DisableStudent)
	}

	mountLedger(authenticated.Group("/incomes"), c.Incomes)
	mountLedger(authenticated.Group("/donations"), c.Donations)
	mountLedger(authenticated.Group("/expenses"), c.Expenses)

	employees := authenticated.Group("/employees")
	{
		employees.POST("", c.Employees.CreateEmployee)
		employees.GET("", c.Employees.ListEmployees)
		employees.GET("/:id", c.Employees.GetEmployee)
		employees.PUT("/:id", c.Employees.UpdateEmployee)
		employees.DELETE("/:id", c.Employees.DeleteEmployee)
	}

	admins := authenticated.Group("/admins")
	admins.Use(authMiddleware.RoleRequired(models.RoleSuperAdmin))
	{
		admins.POST("", c.Admins.CreateAdmin)
		admins.GET("", c.Admins.ListAdmins)
		admins.GET("/:id", c.Admins.GetAdmin)
		admins.PUT("/:id", c.Admins.UpdateAdmin)
		admins.DELETE("/:id", c.Admins.DeleteAdmin)
	}
}

func mountLedger(g *gin.RouterGroup, lc *controllers.LedgerController) {
	g.POST("", lc.CreateEntry)
	g.GET("", lc.ListEntries)
	g.GET("/:id", lc.GetEntry)
	g.PUT("/:id", lc.UpdateEntry)
	g.DELETE("/:id", lc.DeleteEntry)
}
