// services/meal_store.go
package services

import (
	"errors"
	"time"

	"github.com/7void/nutricam/models"

	"gorm.io/gorm"
)

// ErrNotAuthenticated is returned for any store call without a user.
var ErrNotAuthenticated = errors.New("user not authenticated")

// MealStore is the remote document store for meals: a per-user collection
// queryable newest-first, with create, merge-update and delete by id.
type MealStore interface {
	List(userID uint) ([]models.Meal, error)
	Create(userID uint, meal models.Meal) error
	Update(userID uint, meal models.Meal) error
	Delete(userID uint, mealID string) error
}

type GormMealStore struct {
	db *gorm.DB
}

func NewGormMealStore(db *gorm.DB) *GormMealStore {
	return &GormMealStore{db: db}
}

func (s *GormMealStore) List(userID uint) ([]models.Meal, error) {
	if userID == 0 {
		return nil, ErrNotAuthenticated
	}
	var meals []models.Meal
	err := s.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("user_id = ?", userID).
		Order("logged_at DESC").
		Find(&meals).Error
	return meals, err
}

func (s *GormMealStore) Create(userID uint, meal models.Meal) error {
	if userID == 0 {
		return ErrNotAuthenticated
	}
	meal.UserID = userID
	if meal.LoggedAt.IsZero() {
		meal.LoggedAt = time.Now()
	}
	return s.db.Create(&meal).Error
}

// Update overwrites the supplied meal fields and re-creates the item rows.
// Only fields carried by the meal are touched (merge semantics).
func (s *GormMealStore) Update(userID uint, meal models.Meal) error {
	if userID == 0 {
		return ErrNotAuthenticated
	}

	var existing models.Meal
	if err := s.db.
		Where("id = ? AND user_id = ?", meal.ID, userID).
		First(&existing).Error; err != nil {
		return err
	}

	updates := map[string]interface{}{
		"name": meal.Name,
		"date": meal.Date,
		"time": meal.Time,
	}
	if err := s.db.Model(&existing).Updates(updates).Error; err != nil {
		return err
	}

	// replace items wholesale, keeping insertion order via position
	if err := s.db.
		Where("meal_id = ?", meal.ID).
		Delete(&models.MealItem{}).Error; err != nil {
		return err
	}
	for i := range meal.Items {
		row := meal.Items[i]
		row.ID = 0
		row.MealID = meal.ID
		row.Position = i
		if err := s.db.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *GormMealStore) Delete(userID uint, mealID string) error {
	if userID == 0 {
		return ErrNotAuthenticated
	}
	// resolve through the owner so item rows of another user's meal are
	// untouchable even when called with a foreign meal id
	var existing models.Meal
	if err := s.db.
		Where("id = ? AND user_id = ?", mealID, userID).
		First(&existing).Error; err != nil {
		return err
	}
	if err := s.db.
		Where("meal_id = ?", existing.ID).
		Delete(&models.MealItem{}).Error; err != nil {
		return err
	}
	return s.db.Delete(&existing).Error
}
