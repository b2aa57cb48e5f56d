package controllers

import (
	"net/http"

	"fittrack/services"

	"github.com/gin-gonic/gin"
)

type RecordController struct {
	Records *services.RecordService
}

func NewRecordController(records *services.RecordService) *RecordController {
	return &RecordController{Records: records}
}

func (rc *RecordController) List(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	records, err := rc.Records.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// Recalculate replays the ratchet over the user's full history.
func (rc *RecordController) Recalculate(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if err := rc.Records.Reconcile(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	records, err := rc.Records.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
