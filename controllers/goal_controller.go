// controllers/goal_controller.go
package controllers

import (
	"net/http"
	"time"

	"github.com/7void/nutricam/models"
	"github.com/7void/nutricam/services"

	"github.com/gin-gonic/gin"
)

type GoalController struct {
	Sync     *services.SyncService
	Progress *services.ProgressService
}

func NewGoalController(sync *services.SyncService, progress *services.ProgressService) *GoalController {
	return &GoalController{Sync: sync, Progress: progress}
}

func (gc *GoalController) GetGoals(c *gin.Context) {
	uid := c.GetUint("userID")
	today := time.Now().Format("2006-01-02")
	c.JSON(http.StatusOK, gin.H{
		"goals":    gc.Sync.Goals(uid),
		"progress": gc.Progress.ProgressForDate(uid, today),
	})
}

// UpdateGoals rejects missing or non-positive targets before anything is
// written; goals are local-only.
func (gc *GoalController) UpdateGoals(c *gin.Context) {
	uid := c.GetUint("userID")

	var req struct {
		Calories *float64 `json:"calories" binding:"required"`
		Protein  *float64 `json:"protein" binding:"required"`
		Carbs    *float64 `json:"carbs" binding:"required"`
		Fat      *float64 `json:"fat" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "all goal fields are required"})
		return
	}
	if *req.Calories <= 0 || *req.Protein <= 0 || *req.Carbs <= 0 || *req.Fat <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "goal values must be positive"})
		return
	}

	gc.Sync.UpdateGoals(uid, models.Goals{
		Calories: *req.Calories,
		Protein:  *req.Protein,
		Carbs:    *req.Carbs,
		Fat:      *req.Fat,
	})
	c.Status(http.StatusNoContent)
}
