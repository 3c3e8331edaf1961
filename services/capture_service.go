// services/capture_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/7void/nutricam/models"
)

// CaptureState is the lifecycle of one food-item candidate.
type CaptureState string

const (
	StateIdle        CaptureState = "idle"
	StatePhotoChosen CaptureState = "photo_chosen"
	StateClassifying CaptureState = "classifying"
	StateClassified  CaptureState = "classified"
)

var (
	ErrSessionNotFound = errors.New("capture session not found")
	ErrNoPhoto         = errors.New("no photo chosen")
	ErrClassifyBusy    = errors.New("classification already in flight")
	ErrNotClassified   = errors.New("no classified candidate")
)

// CaptureSession drives the classify → fetch-nutrition → adjust-portion →
// commit sequence for one food item at a time, plus the draft item list a new
// meal accumulates. TargetMealID, when set, means items are appended to an
// existing meal instead of the draft.
type CaptureSession struct {
	ID           string
	UserID       uint
	TargetMealID string

	mu         sync.Mutex
	gen        int // bumped on reset; in-flight responses from older generations are dropped
	state      CaptureState
	photo      string // base64 data URI
	photoURL   string // best-effort S3 copy
	result     *models.Concept
	nutrition  *models.Nutrition
	grams      float64
	baseWeight float64
	draft      []models.FoodItem
}

// Snapshot is the read view of a session handed to the presentation layer.
type Snapshot struct {
	ID           string            `json:"id"`
	TargetMealID string            `json:"target_meal_id,omitempty"`
	State        CaptureState      `json:"state"`
	PhotoURL     string            `json:"photo_url,omitempty"`
	Result       *models.Concept   `json:"result,omitempty"`
	Nutrition    *models.Nutrition `json:"nutrition,omitempty"`
	Grams        float64           `json:"grams"`
	MaxGrams     float64           `json:"max_grams"`
	Draft        []models.FoodItem `json:"draft"`
}

// CaptureService owns the live capture sessions.
type CaptureService struct {
	mu       sync.Mutex
	sessions map[string]*CaptureSession

	classifier Classifier
	nutrition  NutritionLookup
	meals      *SyncService

	// photo persistence hook, best-effort only
	uploadPhoto func(base64Data, prefix string) (string, error)
}

func NewCaptureService(cls Classifier, nut NutritionLookup, meals *SyncService) *CaptureService {
	return &CaptureService{
		sessions:   make(map[string]*CaptureSession),
		classifier: cls,
		nutrition:  nut,
		meals:      meals,
	}
}

// SetPhotoUploader installs the photo persistence hook (S3 in production).
func (s *CaptureService) SetPhotoUploader(fn func(base64Data, prefix string) (string, error)) {
	s.uploadPhoto = fn
}

// Start opens a new session. targetMealID is empty when building a new draft.
func (s *CaptureService) Start(userID uint, targetMealID string) *CaptureSession {
	sess := &CaptureSession{
		ID:           uuid.NewString(),
		UserID:       userID,
		TargetMealID: targetMealID,
		state:        StateIdle,
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Session resolves a session id for its owning user.
func (s *CaptureService) Session(userID uint, id string) (*CaptureSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok || sess.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// End removes a finished session.
func (s *CaptureService) End(sess *CaptureSession) {
	s.mu.Lock()
	delete(s.sessions, sess.ID)
	s.mu.Unlock()
}

// AttachPhoto clears any prior candidate and adopts the new image. The draft
// item list is untouched.
func (s *CaptureService) AttachPhoto(sess *CaptureSession, base64Data string) {
	var photoURL string
	if s.uploadPhoto != nil {
		url, err := s.uploadPhoto(base64Data, fmt.Sprintf("u%d", sess.UserID))
		if err != nil {
			log.Printf("failed to persist food photo: %v", err)
		} else {
			photoURL = url
		}
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.resetCandidateLocked()
	sess.photo = base64Data
	sess.photoURL = photoURL
	sess.state = StatePhotoChosen
}

// Classify sends the chosen photo to the classifier, takes the single
// highest-confidence concept (stable sort, ties resolve to provider order)
// and immediately looks up nutrition for one serving of it. Either call
// failing leaves the photo in place so the user can retry; a cancellation
// racing the calls makes their results no-ops.
func (s *CaptureService) Classify(sess *CaptureSession) (*Snapshot, error) {
	sess.mu.Lock()
	if sess.photo == "" {
		sess.mu.Unlock()
		return nil, ErrNoPhoto
	}
	if sess.state == StateClassifying {
		sess.mu.Unlock()
		return nil, ErrClassifyBusy
	}
	gen := sess.gen
	photo := sess.photo
	// a re-classify replaces the candidate, never coexists with it
	sess.result = nil
	sess.nutrition = nil
	sess.grams = 0
	sess.baseWeight = 0
	sess.state = StateClassifying
	sess.mu.Unlock()

	top, nutri, err := s.classifyAndLookup(photo)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.gen != gen {
		// canceled while in flight; the session no longer expects this result
		return nil, nil
	}
	if err != nil {
		sess.state = StatePhotoChosen
		return nil, err
	}
	sess.result = top
	sess.nutrition = nutri
	sess.baseWeight = nutri.ServingWeight
	sess.grams = nutri.ServingWeight
	sess.state = StateClassified
	snap := sess.snapshotLocked()
	return &snap, nil
}

func (s *CaptureService) classifyAndLookup(photo string) (*models.Concept, *models.Nutrition, error) {
	concepts, err := s.classifier.Classify(photo)
	if err != nil {
		return nil, nil, err
	}
	if len(concepts) == 0 {
		return nil, nil, errors.New("no concepts returned")
	}
	sort.SliceStable(concepts, func(i, j int) bool {
		return concepts[i].Confidence > concepts[j].Confidence
	})
	top := concepts[0]

	nutri, err := s.nutrition.Lookup(fmt.Sprintf("1 serving %s", top.Name))
	if err != nil {
		return nil, nil, err
	}
	return &top, nutri, nil
}

// AdjustPortion re-queries nutrition for the new gram value and replaces the
// snapshot wholesale. Permitted range is [1, baseServingWeight*5], integral.
func (s *CaptureService) AdjustPortion(sess *CaptureSession, grams int) (*Snapshot, error) {
	sess.mu.Lock()
	if sess.state != StateClassified || sess.result == nil {
		sess.mu.Unlock()
		return nil, ErrNotClassified
	}
	max := sess.baseWeight * 5
	if float64(grams) < 1 || float64(grams) > max {
		sess.mu.Unlock()
		return nil, fmt.Errorf("grams must be between 1 and %.0f", max)
	}
	gen := sess.gen
	name := sess.result.Name
	sess.mu.Unlock()

	nutri, err := s.nutrition.Lookup(fmt.Sprintf("%d g %s", grams, name))

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.gen != gen {
		return nil, nil
	}
	if err != nil {
		// candidate unchanged, user may retry
		return nil, err
	}
	sess.nutrition = nutri
	sess.grams = float64(grams)
	snap := sess.snapshotLocked()
	return &snap, nil
}

// AddItem commits the classified candidate. With a target meal it appends the
// item to that meal via the sync layer and the workflow is done; otherwise
// the item joins the session draft and the candidate resets for another
// capture. Returns whether the workflow ended.
func (s *CaptureService) AddItem(sess *CaptureSession) (bool, error) {
	sess.mu.Lock()
	if sess.result == nil || sess.nutrition == nil {
		sess.mu.Unlock()
		return false, ErrNotClassified
	}
	item := models.FoodItem{
		Name:     sess.result.Name,
		Grams:    sess.grams,
		Calories: sess.nutrition.Calories,
		Protein:  sess.nutrition.Protein,
		Carbs:    sess.nutrition.Carbs,
		Fat:      sess.nutrition.Fat,
	}
	target := sess.TargetMealID
	userID := sess.UserID
	if target == "" {
		sess.draft = append(sess.draft, item)
		sess.resetCandidateLocked()
		sess.mu.Unlock()
		return false, nil
	}
	sess.mu.Unlock()

	meal, ok := s.meals.Meal(userID, target)
	if !ok {
		// candidate stays armed so the user can retry without reclassifying
		return false, fmt.Errorf("meal %s not found", target)
	}
	meal.AppendFoodItem(item)
	s.meals.UpdateMeal(userID, meal)

	sess.mu.Lock()
	sess.resetCandidateLocked()
	sess.mu.Unlock()
	return true, nil
}

// CommitMeal turns the accumulated draft into a meal. The date is always the
// calendar date at commit time. With a target meal the draft items are
// appended to it instead.
func (s *CaptureService) CommitMeal(sess *CaptureSession, name, timeLabel string) (models.Meal, error) {
	sess.mu.Lock()
	draft := sess.draft
	sess.draft = nil
	sess.resetCandidateLocked()
	target := sess.TargetMealID
	userID := sess.UserID
	sess.mu.Unlock()

	if name == "" {
		name = "Meal"
	}
	if timeLabel == "" {
		timeLabel = time.Now().Format("3:04 PM")
	}

	if target != "" {
		meal, ok := s.meals.Meal(userID, target)
		if !ok {
			return models.Meal{}, fmt.Errorf("meal %s not found", target)
		}
		for _, it := range draft {
			meal.AppendFoodItem(it)
		}
		s.meals.UpdateMeal(userID, meal)
		return meal, nil
	}

	meal := models.Meal{
		Name: name,
		Time: timeLabel,
		Date: time.Now().Format("2006-01-02"),
	}
	meal.SetFoodItems(draft)
	return s.meals.AddMeal(userID, meal), nil
}

// Cancel discards the candidate from any state without touching meals. The
// generation bump makes any in-flight classify or lookup result a no-op.
func (s *CaptureService) Cancel(sess *CaptureSession) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.resetCandidateLocked()
}

// Snapshot returns the current read view of the session.
func (s *CaptureService) Snapshot(sess *CaptureSession) Snapshot {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.snapshotLocked()
}

func (sess *CaptureSession) resetCandidateLocked() {
	sess.gen++
	sess.photo = ""
	sess.photoURL = ""
	sess.result = nil
	sess.nutrition = nil
	sess.grams = 0
	sess.baseWeight = 0
	sess.state = StateIdle
}

func (sess *CaptureSession) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:           sess.ID,
		TargetMealID: sess.TargetMealID,
		State:        sess.state,
		PhotoURL:     sess.photoURL,
		Grams:        sess.grams,
		MaxGrams:     sess.baseWeight * 5,
		Draft:        append([]models.FoodItem(nil), sess.draft...),
	}
	if sess.result != nil {
		r := *sess.result
		snap.Result = &r
	}
	if sess.nutrition != nil {
		n := *sess.nutrition
		snap.Nutrition = &n
	}
	return snap
}
