package main

import (
	"log"
	"os"

	"github.com/7void/nutricam/cache"
	"github.com/7void/nutricam/config"
	"github.com/7void/nutricam/controllers"
	"github.com/7void/nutricam/routes"
	"github.com/7void/nutricam/services"
	"github.com/7void/nutricam/utils"
)

func main() {
	config.InitDB()
	utils.InitS3()

	cachePath := os.Getenv("CACHE_PATH")
	if cachePath == "" {
		cachePath = "nutricam-cache.db"
	}
	localCache, err := cache.Open(cachePath)
	if err != nil {
		log.Fatalf("Failed to open local cache: %v", err)
	}
	defer localCache.Close()

	store := services.NewGormMealStore(config.DB)
	syncSvc := services.NewSyncService(store, localCache)
	progressSvc := services.NewProgressService(syncSvc)
	hub := services.NewRealtimeHub()

	var classifier services.Classifier
	if os.Getenv("CLASSIFIER_PROVIDER") == "rekognition" {
		rek, err := services.NewRekognitionService()
		if err != nil {
			log.Fatalf("Failed to init Rekognition classifier: %v", err)
		}
		classifier = rek
	} else {
		classifier = services.NewClarifaiService()
	}

	captureSvc := services.NewCaptureService(classifier, services.NewNutritionixService(), syncSvc)
	captureSvc.SetPhotoUploader(utils.UploadFoodPhoto)

	r := routes.SetupRouter(routes.Controllers{
		Meals:    controllers.NewMealController(syncSvc, progressSvc, hub),
		Goals:    controllers.NewGoalController(syncSvc, progressSvc),
		Capture:  controllers.NewCaptureController(captureSvc, progressSvc, hub),
		Progress: controllers.NewProgressController(progressSvc),
		Realtime: controllers.NewRealtimeController(hub),
	})
	r.Run(":8080")
}
