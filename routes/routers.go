package routes

import (
	"net/http"

	"membergate/controllers"
	middlewares "membergate/middleware"
	"membergate/models"
	"membergate/services"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Dependencies struct {
	Auth       *services.AuthService
	Directory  *services.DirectoryService
	Attendance *services.AttendanceService
	Melody     *melody.Melody
	// Gatherer backs /metrics; nil leaves the endpoint out.
	Gatherer prometheus.Gatherer
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	authController := controllers.NewAuthController(deps.Auth)
	memberController := controllers.NewMemberController(deps.Directory)
	checkinController := controllers.NewCheckinController(deps.Attendance)

	requireMember := middlewares.AuthMiddleware(deps.Auth, models.RoleMember)
	requireAdmin := middlewares.AuthMiddleware(deps.Auth, models.RoleAdmin)

	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api")

	api.POST("/auth/login", authController.Login)
	api.GET("/auth/me", requireMember, authController.Me)

	api.POST("/checkins", requireMember, checkinController.RecordCheckin)
	api.GET("/checkins", requireAdmin, checkinController.ListCheckins)

	admin := api.Group("/admin")
	admin.GET("/checkins/export", requireAdmin, checkinController.ExportCheckins)

	admin.GET("/members", requireAdmin, memberController.ListMembers)
	admin.GET("/members/search", requireAdmin, memberController.SearchMembers)
	admin.POST("/members", requireAdmin, memberController.CreateMember)
	admin.PUT("/members/:id", requireAdmin, memberController.UpdateMember)
	admin.PUT("/members/:id/status", requireAdmin, memberController.SetStatus)
	admin.DELETE("/members/:id", requireAdmin, memberController.DeleteMember)

	if deps.Melody != nil {
		wsController := controllers.NewWSController(deps.Melody)
		admin.GET("/ws", middlewares.QueryAuthMiddleware(deps.Auth, models.RoleAdmin, "token"), wsController.Subscribe)
	}
}
