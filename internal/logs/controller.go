package logs

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type LogController struct {
	LogService *LogService
}

// GET /admin/logs?service=&action=&admin_id=&limit=
func (lc *LogController) GetLogs(c *gin.Context) {
	var input LogFilterInput
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logs, err := lc.LogService.Recent(input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  logs,
		"count": len(logs),
	})
}

func RegisterRoutes(r gin.IRouter, logService *LogService) {
	logController := &LogController{LogService: logService}
	r.GET("/logs", logController.GetLogs)
}
