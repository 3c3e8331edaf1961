package routes

import (
	"github.com/7void/nutricam/controllers"
	"github.com/7void/nutricam/middlewares"

	"github.com/gin-gonic/gin"
)

type Controllers struct {
	Meals    *controllers.MealController
	Goals    *controllers.GoalController
	Capture  *controllers.CaptureController
	Progress *controllers.ProgressController
	Realtime *controllers.RealtimeController
}

func SetupRouter(ctrl Controllers) *gin.Engine {
	r := gin.Default()

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
	}

	api := r.Group("/")
	api.Use(middlewares.AuthMiddleware())
	{
		api.GET("/meals", ctrl.Meals.ListMeals)
		api.POST("/meals", ctrl.Meals.AddMeal)
		api.PUT("/meals/:id", ctrl.Meals.UpdateMeal)
		api.DELETE("/meals/:id", ctrl.Meals.DeleteMeal)

		api.GET("/goals", ctrl.Goals.GetGoals)
		api.PUT("/goals", ctrl.Goals.UpdateGoals)

		api.GET("/progress", ctrl.Progress.GetProgress)

		api.POST("/capture", ctrl.Capture.StartCapture)
		api.GET("/capture/:id", ctrl.Capture.GetSession)
		api.POST("/capture/:id/photo", ctrl.Capture.AttachPhoto)
		api.POST("/capture/:id/classify", ctrl.Capture.Classify)
		api.POST("/capture/:id/portion", ctrl.Capture.AdjustPortion)
		api.POST("/capture/:id/items", ctrl.Capture.AddItem)
		api.POST("/capture/:id/commit", ctrl.Capture.CommitMeal)
		api.DELETE("/capture/:id", ctrl.Capture.CancelCapture)

		api.GET("/ws/progress", ctrl.Realtime.ProgressWS)
	}

	return r
}
