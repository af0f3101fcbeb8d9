package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pantrylens/backend/internal/domain"
	"github.com/pantrylens/backend/internal/session"
	"github.com/pantrylens/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	dates     *usecase.DateService
	nutrition *usecase.NutritionService
	shopping  *usecase.ShoppingService
	sessions  *session.Manager
}

// NewHandler creates a new HTTP handler
func NewHandler(
	dates *usecase.DateService,
	nutrition *usecase.NutritionService,
	shopping *usecase.ShoppingService,
	sessions *session.Manager,
) *Handler {
	return &Handler{
		dates:     dates,
		nutrition: nutrition,
		shopping:  shopping,
		sessions:  sessions,
	}
}

// textRequest is the shared request body for one-shot extraction endpoints
type textRequest struct {
	Text string `json:"text" binding:"required"`
}

// selectRequest identifies the candidate the caller confirms, by calendar day
type selectRequest struct {
	Date string `json:"date" binding:"required"` // "2006-01-02"
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "pantrylens-backend",
		"version": "1.0.0",
	})
}

// ExtractDate returns the single best expiration-date candidate for a text
func (h *Handler) ExtractDate(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidRequest.Error()})
		return
	}

	candidate, err := h.dates.ExtractDate(req.Text)
	if err != nil {
		if errors.Is(err, domain.ErrNoCandidates) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, candidate)
}

// FindAllDates returns every plausible date candidate in a text
func (h *Handler) FindAllDates(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidRequest.Error()})
		return
	}

	candidates, err := h.dates.FindAllDates(req.Text)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"candidates": candidates,
		"count":      len(candidates),
	})
}

// ParseNutrition parses and validates a nutrition panel text
func (h *Handler) ParseNutrition(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidRequest.Error()})
		return
	}

	facts, err := h.nutrition.ParseLabel(req.Text)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.nutrition.Validate(facts)

	c.JSON(http.StatusOK, facts)
}

// ParseShopping parses a spoken/typed shopping utterance into items
func (h *Handler) ParseShopping(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidRequest.Error()})
		return
	}

	items, err := h.shopping.ParseUtterance(req.Text)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// OpenSession creates a new live scanning session
func (h *Handler) OpenSession(c *gin.Context) {
	s := h.sessions.Open()
	c.JSON(http.StatusCreated, gin.H{"sessionId": s.ID})
}

// GetSession returns a snapshot of a session
func (h *Handler) GetSession(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// ObserveSession feeds one OCR text observation into a session. The
// extraction itself is debounced, so the response snapshot reflects the
// session state before this observation settles.
func (h *Handler) ObserveSession(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidRequest.Error()})
		return
	}

	if err := s.Observe(req.Text); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, s.Snapshot())
}

// SelectSession confirms a candidate on behalf of the caller
func (h *Handler) SelectSession(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidRequest.Error()})
		return
	}

	candidate, ok := findCandidateByDay(s.Snapshot(), req.Date)
	if !ok {
		// The caller confirmed a date the engine never proposed; an
		// explicit selection is authoritative regardless.
		date, parseErr := time.Parse("2006-01-02", req.Date)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidRequest.Error()})
			return
		}
		candidate = domain.DateCandidate{
			Date:       date,
			Confidence: 1.0,
			RuleID:     "manual",
			FormatUsed: "yyyy-MM-dd",
		}
	}

	if err := s.Select(candidate); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// ResetSession clears a session back to listening
func (h *Handler) ResetSession(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	if err := s.Reset(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// CloseSession destroys a session
func (h *Handler) CloseSession(c *gin.Context) {
	if err := h.sessions.Close(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func findCandidateByDay(snap session.Snapshot, day string) (domain.DateCandidate, bool) {
	if snap.BestGuess != nil && snap.BestGuess.DayKey() == day {
		return *snap.BestGuess, true
	}
	for _, candidate := range snap.Candidates {
		if candidate.DayKey() == day {
			return candidate, true
		}
	}
	return domain.DateCandidate{}, false
}
