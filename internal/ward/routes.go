package ward

import (
	"net/http"

	"ward-calendar-api/internal/logs"

	"github.com/gin-gonic/gin"
)

const (
	APIName    = "Akinyele Ward Meeting Calendar API"
	APIVersion = "1.0.0"
)

func APIRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        APIName,
		"version":     APIVersion,
		"description": "REST API for managing PDP ward meetings",
		"endpoints": gin.H{
			"wards":          "/api/wards/",
			"ward_detail":    "/api/wards/{id}/",
			"ward_meetings":  "/api/wards/{id}/meetings/",
			"update_details": "/api/wards/{id}/update_details/",
			"admin":          "/admin/",
		},
	})
}

// handle registers the route with and without a trailing slash.
func handle(g gin.IRouter, method, path string, h gin.HandlerFunc) {
	g.Handle(method, path, h)
	g.Handle(method, path+"/", h)
}

func RegisterRoutes(r gin.IRouter, wardService *WardService, logService *logs.LogService) {
	wardController := &WardController{WardService: wardService, LS: logService}

	api := r.Group("/api")
	api.GET("", APIRoot)
	api.GET("/", APIRoot)

	wards := api.Group("/wards")
	{
		handle(wards, http.MethodGet, "", wardController.ListWards)
		handle(wards, http.MethodPost, "", wardController.CreateWard)

		handle(wards, http.MethodGet, "/:id", wardController.GetWard)
		handle(wards, http.MethodPatch, "/:id", wardController.UpdateWard)
		handle(wards, http.MethodPut, "/:id", wardController.ReplaceWard)
		handle(wards, http.MethodDelete, "/:id", wardController.DeleteWard)

		handle(wards, http.MethodPost, "/:id/update_details", wardController.UpdateWard)
		handle(wards, http.MethodGet, "/:id/meetings", wardController.GetWardMeetings)
	}
}
