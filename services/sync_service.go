// services/sync_service.go
package services

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/7void/nutricam/cache"
	"github.com/7void/nutricam/models"
)

// SyncService owns the authoritative in-memory meal list and goals for each
// user, mirrored to the remote store and local cache. Remote writes are
// best-effort: a failure is logged and swallowed, the local commit is the
// commit of record for the running session. The next cold load reconciles
// from the remote store when it is reachable.
//
// All operations are serialized behind one mutex (single-writer discipline).
type SyncService struct {
	mu    sync.Mutex
	store MealStore
	cache *cache.Cache
	users map[uint]*userState
}

type userState struct {
	meals []models.Meal
	goals models.Goals
}

func NewSyncService(store MealStore, c *cache.Cache) *SyncService {
	return &SyncService{
		store: store,
		cache: c,
		users: make(map[uint]*userState),
	}
}

func mealsKey(userID uint) string { return fmt.Sprintf("meals:%d", userID) }
func goalsKey(userID uint) string { return fmt.Sprintf("goals:%d", userID) }

// state loads a user's meals and goals on first access: remote list first,
// local mirror on failure, empty list as the last resort. Goals come from the
// cache regardless of the remote outcome. Never fails.
func (s *SyncService) state(userID uint) *userState {
	if st, ok := s.users[userID]; ok {
		return st
	}

	st := &userState{goals: models.DefaultGoals()}

	remote, err := s.store.List(userID)
	if err == nil {
		st.meals = remote
		s.writeMealsMirror(userID, remote)
	} else {
		log.Printf("failed to load meals from remote store, falling back to local: %v", err)
		if raw, ok, cerr := s.cache.Get(mealsKey(userID)); cerr != nil {
			log.Printf("failed to read local meals mirror: %v", cerr)
		} else if ok {
			var cached []models.Meal
			if jerr := json.Unmarshal([]byte(raw), &cached); jerr != nil {
				log.Printf("corrupt local meals mirror, ignoring: %v", jerr)
			} else {
				st.meals = cached
			}
		}
	}

	if raw, ok, cerr := s.cache.Get(goalsKey(userID)); cerr != nil {
		log.Printf("failed to read goals from cache: %v", cerr)
	} else if ok {
		var g models.Goals
		if jerr := json.Unmarshal([]byte(raw), &g); jerr != nil {
			log.Printf("corrupt goals cache entry, ignoring: %v", jerr)
		} else {
			st.goals = g
		}
	}

	s.users[userID] = st
	return st
}

func (s *SyncService) writeMealsMirror(userID uint, meals []models.Meal) {
	raw, err := json.Marshal(meals)
	if err != nil {
		log.Printf("failed to serialize meals for cache: %v", err)
		return
	}
	if err := s.cache.Set(mealsKey(userID), string(raw)); err != nil {
		log.Printf("failed to save meals locally: %v", err)
	}
}

// Meals returns a copy of the user's meal list, newest first.
func (s *SyncService) Meals(userID uint) []models.Meal {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(userID)
	out := make([]models.Meal, len(st.meals))
	copy(out, st.meals)
	return out
}

// Meal looks up a single meal by id.
func (s *SyncService) Meal(userID uint, mealID string) (models.Meal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.state(userID).meals {
		if m.ID == mealID {
			return m, true
		}
	}
	return models.Meal{}, false
}

func (s *SyncService) Goals(userID uint) models.Goals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state(userID).goals
}

// AddMeal prepends the meal (newest-first by convention) and mirrors the full
// list to the cache. The meal id is generated here when absent and is kept
// stable end-to-end, remote store included. Always succeeds locally.
func (s *SyncService) AddMeal(userID uint, meal models.Meal) models.Meal {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(userID)

	if meal.ID == "" {
		meal.ID = strconv.FormatInt(time.Now().UnixNano(), 10)
	}
	if meal.LoggedAt.IsZero() {
		meal.LoggedAt = time.Now()
	}
	for i := range meal.Items {
		meal.Items[i].MealID = meal.ID
		meal.Items[i].Position = i
	}

	if err := s.store.Create(userID, meal); err != nil {
		log.Printf("failed to save meal remotely: %v", err)
	}

	st.meals = append([]models.Meal{meal}, st.meals...)
	s.writeMealsMirror(userID, st.meals)
	return meal
}

// UpdateMeal replaces the matching entry with the full new value. Missing ids
// are a no-op, matching the read-modify-write contract.
func (s *SyncService) UpdateMeal(userID uint, meal models.Meal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(userID)

	if err := s.store.Update(userID, meal); err != nil {
		log.Printf("failed to update meal remotely: %v", err)
	}

	for i := range st.meals {
		if st.meals[i].ID == meal.ID {
			st.meals[i] = meal
		}
	}
	s.writeMealsMirror(userID, st.meals)
}

// RemoveMeal filters the entry out of the list.
func (s *SyncService) RemoveMeal(userID uint, mealID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(userID)

	if err := s.store.Delete(userID, mealID); err != nil {
		log.Printf("failed to delete meal remotely: %v", err)
	}

	filtered := st.meals[:0]
	for _, m := range st.meals {
		if m.ID != mealID {
			filtered = append(filtered, m)
		}
	}
	st.meals = filtered
	s.writeMealsMirror(userID, st.meals)
}

// UpdateGoals replaces the in-memory goals and persists them to the cache.
// Goals never sync remotely.
func (s *SyncService) UpdateGoals(userID uint, goals models.Goals) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(userID)

	st.goals = goals
	raw, err := json.Marshal(goals)
	if err != nil {
		log.Printf("failed to serialize goals: %v", err)
		return
	}
	if err := s.cache.Set(goalsKey(userID), string(raw)); err != nil {
		log.Printf("failed to save goals locally: %v", err)
	}
}
