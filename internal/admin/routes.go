package admin

import (
	"ward-calendar-api/internal/logs"
	"ward-calendar-api/internal/middlewares"
	"ward-calendar-api/internal/ward"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the console endpoints on r (normally the /admin
// group). Every route requires an admin session.
func RegisterRoutes(r gin.IRouter, adminService *AdminService, wardService *ward.WardService, logService *logs.LogService, secret string) {
	adminController := &AdminController{AdminService: adminService, Meetings: wardService, LS: logService}

	adminGroup := r.Group("")
	adminGroup.Use(middlewares.AuthMiddleware(secret))
	{
		adminGroup.GET("", adminController.Index)
		adminGroup.GET("/", adminController.Index)
		adminGroup.GET("/wards/export", adminController.ExportWards)

		adminGroup.GET("/meetings", adminController.ListMeetings)
		adminGroup.POST("/meetings", adminController.CreateMeeting)
		adminGroup.GET("/meetings/:id", adminController.GetMeeting)
		adminGroup.PUT("/meetings/:id", adminController.UpdateMeeting)
		adminGroup.PATCH("/meetings/:id", adminController.UpdateMeeting)
		adminGroup.DELETE("/meetings/:id", adminController.DeleteMeeting)

		logs.RegisterRoutes(adminGroup, logService)
	}
}
