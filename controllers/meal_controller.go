package controllers

import (
	"net/http"
	"time"

	"github.com/7void/nutricam/models"
	"github.com/7void/nutricam/services"

	"github.com/gin-gonic/gin"
)

type MealController struct {
	Sync     *services.SyncService
	Progress *services.ProgressService
	Hub      *services.RealtimeHub
}

func NewMealController(sync *services.SyncService, progress *services.ProgressService, hub *services.RealtimeHub) *MealController {
	return &MealController{Sync: sync, Progress: progress, Hub: hub}
}

func (mc *MealController) broadcast(userID uint, date string) {
	if mc.Hub == nil {
		return
	}
	mc.Hub.BroadcastProgress(userID, mc.Progress.ProgressForDate(userID, date))
}

func (mc *MealController) ListMeals(c *gin.Context) {
	uid := c.GetUint("userID")
	c.JSON(http.StatusOK, mc.Sync.Meals(uid))
}

type mealInput struct {
	Name  string            `json:"name"`
	Date  string            `json:"date"`
	Time  string            `json:"time"`
	Items []models.FoodItem `json:"items"`
}

func (mc *MealController) AddMeal(c *gin.Context) {
	uid := c.GetUint("userID")
	var body mealInput
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if body.Date == "" {
		body.Date = time.Now().Format("2006-01-02")
	}
	meal := models.Meal{Name: body.Name, Date: body.Date, Time: body.Time}
	meal.SetFoodItems(body.Items)

	saved := mc.Sync.AddMeal(uid, meal)
	mc.broadcast(uid, saved.Date)
	c.JSON(http.StatusCreated, saved)
}

func (mc *MealController) UpdateMeal(c *gin.Context) {
	uid := c.GetUint("userID")
	id := c.Param("id")

	existing, ok := mc.Sync.Meal(uid, id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "meal not found"})
		return
	}

	var body mealInput
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meal := existing
	if body.Name != "" {
		meal.Name = body.Name
	}
	if body.Date != "" {
		meal.Date = body.Date
	}
	if body.Time != "" {
		meal.Time = body.Time
	}
	if body.Items != nil {
		meal.SetFoodItems(body.Items)
	}

	mc.Sync.UpdateMeal(uid, meal)
	mc.broadcast(uid, meal.Date)
	c.JSON(http.StatusOK, meal)
}

func (mc *MealController) DeleteMeal(c *gin.Context) {
	uid := c.GetUint("userID")
	id := c.Param("id")

	meal, ok := mc.Sync.Meal(uid, id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "meal not found"})
		return
	}

	mc.Sync.RemoveMeal(uid, id)
	mc.broadcast(uid, meal.Date)
	c.Status(http.StatusNoContent)
}
