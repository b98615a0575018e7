package api

import (
	httpSwagger "github.com/swaggo/http-swagger"

	"go-track-report/internal/api/handler"
	"go-track-report/pkg/router"
)

// RegisterRoutes attaches the report-history endpoints.
func RegisterRoutes(r *router.Router) {
	r.GET("/api/v1/reports", handler.ListReports)
	// More specific routes first
	r.GET("/api/v1/reports/*/errors", handler.GetReportErrors)
	r.GET("/api/v1/reports/*/progress", handler.GetReportProgress)
	r.GET("/api/v1/reports/*/logs", handler.GetReportLogs)
	// Generic report route last
	r.GET("/api/v1/reports/*", handler.GetReport)

	r.GET("/swagger/*", router.HandlerFunc(httpSwagger.WrapHandler))
}
