package controller

import (
	"grade_predictor/internal/service"
	"grade_predictor/internal/util"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	Client   *service.PredictionClient
	Sessions *service.SessionStore
}

func NewHealthController(client *service.PredictionClient, sessions *service.SessionStore) *HealthController {
	return &HealthController{Client: client, Sessions: sessions}
}

// @Summary 健康检查
// @Description Reports service status. The prediction service is not probed.
// @Tags system
// @Produce json
// @Success 200 {object} util.Response
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	util.Success(ctx, gin.H{
		"status": "ok",
		"components": gin.H{
			"prediction_endpoint": c.Client.Endpoint(),
			"active_sessions":     c.Sessions.Len(),
		},
	})
}
