package controllers

import (
	"net/http"
	"time"

	"github.com/7void/nutricam/services"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	Progress *services.ProgressService
}

func NewProgressController(progress *services.ProgressService) *ProgressController {
	return &ProgressController{Progress: progress}
}

func (pc *ProgressController) GetProgress(c *gin.Context) {
	uid := c.GetUint("userID")

	dateStr := c.Query("date")
	if dateStr == "" {
		dateStr = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", dateStr); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format. Use YYYY-MM-DD"})
		return
	}

	c.JSON(http.StatusOK, pc.Progress.ProgressForDate(uid, dateStr))
}
