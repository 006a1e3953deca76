package controllers

import (
	"membergate/middleware"
	"membergate/models"
	"membergate/response"
	"membergate/services/notification"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
)

type WSController struct {
	Melody *melody.Melody
}

func NewWSController(m *melody.Melody) WSController {
	return WSController{Melody: m}
}

// Subscribe upgrades an admin connection to the live check-in feed.
func (w WSController) Subscribe(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	// The route is admin gated, so legacy admin codes subscribe as admin too.
	keys := map[string]interface{}{
		notification.SessionRoleKey: models.RoleAdmin.String(),
		"member_id":                 principal.MemberID,
	}
	if err := w.Melody.HandleRequestWithKeys(c.Writer, c.Request, keys); err != nil {
		_ = c.Error(err)
	}
}
