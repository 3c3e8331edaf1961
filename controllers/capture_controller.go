package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/7void/nutricam/services"

	"github.com/gin-gonic/gin"
)

type CaptureController struct {
	Capture  *services.CaptureService
	Progress *services.ProgressService
	Hub      *services.RealtimeHub
}

func NewCaptureController(capture *services.CaptureService, progress *services.ProgressService, hub *services.RealtimeHub) *CaptureController {
	return &CaptureController{Capture: capture, Progress: progress, Hub: hub}
}

func (cc *CaptureController) session(c *gin.Context) (*services.CaptureSession, bool) {
	uid := c.GetUint("userID")
	sess, err := cc.Capture.Session(uid, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, false
	}
	return sess, true
}

func (cc *CaptureController) broadcast(userID uint, date string) {
	if cc.Hub == nil {
		return
	}
	cc.Hub.BroadcastProgress(userID, cc.Progress.ProgressForDate(userID, date))
}

// StartCapture opens a capture session, optionally targeting an existing meal.
func (cc *CaptureController) StartCapture(c *gin.Context) {
	uid := c.GetUint("userID")
	var body struct {
		MealID string `json:"meal_id"`
	}
	// empty body is fine, a new draft is the default
	_ = c.ShouldBindJSON(&body)

	sess := cc.Capture.Start(uid, body.MealID)
	c.JSON(http.StatusCreated, cc.Capture.Snapshot(sess))
}

func (cc *CaptureController) GetSession(c *gin.Context) {
	sess, ok := cc.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, cc.Capture.Snapshot(sess))
}

// AttachPhoto adopts a new image, discarding any prior candidate.
func (cc *CaptureController) AttachPhoto(c *gin.Context) {
	sess, ok := cc.session(c)
	if !ok {
		return
	}
	var body struct {
		ImageBase64 string `json:"image_base64" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image_base64 is required"})
		return
	}
	cc.Capture.AttachPhoto(sess, body.ImageBase64)
	c.JSON(http.StatusOK, cc.Capture.Snapshot(sess))
}

// Classify runs classification plus the one-serving nutrition lookup. Provider
// failures surface to the caller; the photo survives for a retry.
func (cc *CaptureController) Classify(c *gin.Context) {
	sess, ok := cc.session(c)
	if !ok {
		return
	}
	snap, err := cc.Capture.Classify(sess)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, services.ErrNoPhoto) || errors.Is(err, services.ErrClassifyBusy) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	if snap == nil {
		// canceled while in flight
		c.JSON(http.StatusOK, cc.Capture.Snapshot(sess))
		return
	}
	c.JSON(http.StatusOK, snap)
}

// AdjustPortion re-queries nutrition for the released slider value.
func (cc *CaptureController) AdjustPortion(c *gin.Context) {
	sess, ok := cc.session(c)
	if !ok {
		return
	}
	var body struct {
		Grams *int `json:"grams" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "grams is required"})
		return
	}
	snap, err := cc.Capture.AdjustPortion(sess, *body.Grams)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, services.ErrNotClassified) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	if snap == nil {
		c.JSON(http.StatusOK, cc.Capture.Snapshot(sess))
		return
	}
	c.JSON(http.StatusOK, snap)
}

// AddItem commits the candidate to the target meal or to the session draft.
func (cc *CaptureController) AddItem(c *gin.Context) {
	sess, ok := cc.session(c)
	if !ok {
		return
	}
	done, err := cc.Capture.AddItem(sess)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if done {
		uid := c.GetUint("userID")
		cc.broadcast(uid, time.Now().Format("2006-01-02"))
		cc.Capture.End(sess)
		c.JSON(http.StatusOK, gin.H{"done": true})
		return
	}
	c.JSON(http.StatusOK, cc.Capture.Snapshot(sess))
}

// CommitMeal turns the draft into a meal (or appends it to the target meal).
func (cc *CaptureController) CommitMeal(c *gin.Context) {
	sess, ok := cc.session(c)
	if !ok {
		return
	}
	var body struct {
		Name string `json:"name"`
		Time string `json:"time"`
	}
	_ = c.ShouldBindJSON(&body)

	meal, err := cc.Capture.CommitMeal(sess, body.Name, body.Time)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	uid := c.GetUint("userID")
	cc.broadcast(uid, meal.Date)
	cc.Capture.End(sess)
	c.JSON(http.StatusCreated, meal)
}

// CancelCapture discards the candidate and closes the session.
func (cc *CaptureController) CancelCapture(c *gin.Context) {
	sess, ok := cc.session(c)
	if !ok {
		return
	}
	cc.Capture.Cancel(sess)
	cc.Capture.End(sess)
	c.Status(http.StatusNoContent)
}
