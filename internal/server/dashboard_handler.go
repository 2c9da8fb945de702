// Package server provides the HTTP JSON API for the dashboard.
package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mrdaiking/lingrow/internal/config"
	"github.com/mrdaiking/lingrow/internal/dashboard"
	"github.com/mrdaiking/lingrow/internal/history"
)

// DashboardHandler serves progress analytics and review scheduling over HTTP.
type DashboardHandler struct {
	store     history.RecordStore
	streak    *dashboard.StreakCalculator
	calendar  *dashboard.CalendarAggregator
	scheduler *dashboard.ReviewScheduler
	focus     *dashboard.FocusAnalyzer
	level     *dashboard.LevelEngine

	// Deployment defaults, overridable per request via query params.
	calendarWindowDays int
	reviewBatchSize    int
	focusWindowSize    int
	historyPageSize    int
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(store history.RecordStore, clock dashboard.Clock, cfg config.DashboardConfig) *DashboardHandler {
	pageSize := cfg.HistoryPageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	return &DashboardHandler{
		store:              store,
		streak:             dashboard.NewStreakCalculator(store, clock),
		calendar:           dashboard.NewCalendarAggregator(store, clock),
		scheduler:          dashboard.NewReviewScheduler(store, clock),
		focus:              dashboard.NewFocusAnalyzer(store),
		level:              dashboard.NewLevelEngine(store),
		calendarWindowDays: cfg.CalendarWindowDays,
		reviewBatchSize:    cfg.ReviewBatchSize,
		focusWindowSize:    cfg.FocusWindowSize,
		historyPageSize:    pageSize,
	}
}

// Register mounts all dashboard routes under /api/v1.
func (h *DashboardHandler) Register(e *echo.Echo) {
	g := e.Group("/api/v1")
	g.GET("/users/:userID/streak", h.GetStreak)
	g.GET("/users/:userID/calendar", h.GetCalendar)
	g.GET("/users/:userID/level", h.GetLevel)
	g.GET("/users/:userID/focus-areas", h.GetFocusAreas)
	g.GET("/users/:userID/reviews/due", h.GetDueReviews)
	g.GET("/users/:userID/history", h.GetHistory)
	g.GET("/users/:userID/scores/recent", h.GetRecentScores)
	g.POST("/users/:userID/records", h.CreateRecord)
	g.POST("/reviews/:id", h.MarkReviewed)
}

// GetStreak returns the consecutive-day practice streak.
// GET /api/v1/users/:userID/streak
func (h *DashboardHandler) GetStreak(c echo.Context) error {
	streak, err := h.streak.Compute(c.Request().Context(), c.Param("userID"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]int{"streak": streak})
}

// GetCalendar returns the per-day session counts of the trailing window.
// GET /api/v1/users/:userID/calendar?days=30
func (h *DashboardHandler) GetCalendar(c echo.Context) error {
	days, err := intQueryParam(c, "days", h.calendarWindowDays)
	if err != nil {
		return err
	}
	calendar, err := h.calendar.Build(c.Request().Context(), c.Param("userID"), days)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]map[string]int{"days": calendar})
}

// GetLevel returns the user's level descriptor.
// GET /api/v1/users/:userID/level
func (h *DashboardHandler) GetLevel(c echo.Context) error {
	info, err := h.level.Compute(c.Request().Context(), c.Param("userID"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, info)
}

// GetFocusAreas returns the ranked focus areas and category averages.
// GET /api/v1/users/:userID/focus-areas?window=20
func (h *DashboardHandler) GetFocusAreas(c echo.Context) error {
	window, err := intQueryParam(c, "window", h.focusWindowSize)
	if err != nil {
		return err
	}
	report, err := h.focus.Analyze(c.Request().Context(), c.Param("userID"), window)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, report)
}

// GetDueReviews returns the spaced repetition queue.
// GET /api/v1/users/:userID/reviews/due?limit=5
func (h *DashboardHandler) GetDueReviews(c echo.Context) error {
	limit, err := intQueryParam(c, "limit", h.reviewBatchSize)
	if err != nil {
		return err
	}
	records, err := h.scheduler.DueForReview(c.Request().Context(), c.Param("userID"), limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string][]history.PracticeRecord{"items": records})
}

type markReviewedRequest struct {
	ReviewCount int `json:"reviewCount"`
}

type markReviewedResponse struct {
	NextReview string `json:"nextReview"`
}

// MarkReviewed records a completed review and returns the next due instant.
// POST /api/v1/reviews/:id
func (h *DashboardHandler) MarkReviewed(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "record id must be an integer")
	}

	var req markReviewedRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	next, err := h.scheduler.MarkReviewed(c.Request().Context(), id, req.ReviewCount)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, markReviewedResponse{NextReview: next.Format(time.RFC3339)})
}

type historyResponse struct {
	Items   []history.PracticeRecord `json:"items"`
	HasMore bool                     `json:"hasMore"`
}

// GetHistory returns a page of practice history, newest first.
// GET /api/v1/users/:userID/history?pageSize=10&page=0&language=
func (h *DashboardHandler) GetHistory(c echo.Context) error {
	userID := c.Param("userID")
	pageSize, err := intQueryParam(c, "pageSize", h.historyPageSize)
	if err != nil {
		return err
	}
	if pageSize <= 0 {
		pageSize = h.historyPageSize
	}
	page, err := intQueryParam(c, "page", 0)
	if err != nil {
		return err
	}
	if page < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "page must not be negative")
	}

	// One extra row answers "is there another page" without a second count
	// query.
	items, err := h.store.ListRecords(c.Request().Context(), userID, history.Filter{
		Language: c.QueryParam("language"),
		Order:    history.OrderCreatedDesc,
		Limit:    pageSize + 1,
		Offset:   page * pageSize,
	})
	if err != nil {
		return httpError(err)
	}

	hasMore := len(items) > pageSize
	if hasMore {
		items = items[:pageSize]
	}
	if items == nil {
		items = []history.PracticeRecord{}
	}
	return c.JSON(http.StatusOK, historyResponse{Items: items, HasMore: hasMore})
}

// GetRecentScores returns the score projection of the newest records.
// GET /api/v1/users/:userID/scores/recent?limit=10
func (h *DashboardHandler) GetRecentScores(c echo.Context) error {
	limit, err := intQueryParam(c, "limit", 10)
	if err != nil {
		return err
	}
	if limit <= 0 {
		limit = 10
	}

	records, err := h.store.ListRecords(c.Request().Context(), c.Param("userID"), history.Filter{
		Order: history.OrderCreatedDesc,
		Limit: limit,
	})
	if err != nil {
		return httpError(err)
	}

	entries := make([]history.ScoreEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, history.ScoreEntryOf(record))
	}
	return c.JSON(http.StatusOK, map[string][]history.ScoreEntry{"items": entries})
}

type createRecordRequest struct {
	OriginalSentence string           `json:"originalSentence"`
	UserSentence     string           `json:"userSentence"`
	SuggestedVersion string           `json:"suggestedVersion"`
	Feedback         history.Feedback `json:"feedback"`
	LearningTips     string           `json:"learningTips"`
	Score            *float64         `json:"score"`
	Language         string           `json:"language"`
	Reaction         *string          `json:"reaction"`
}

// CreateRecord persists a new practice submission. The scoring result is
// produced upstream; this endpoint only stores it.
// POST /api/v1/users/:userID/records
func (h *DashboardHandler) CreateRecord(c echo.Context) error {
	userID := c.Param("userID")

	var req createRecordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.UserSentence == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "userSentence is required")
	}
	if req.Score != nil && (*req.Score < 1 || *req.Score > 10) {
		return echo.NewHTTPError(http.StatusBadRequest, "score must be between 1 and 10")
	}

	record := &history.PracticeRecord{
		UserID:           userID,
		OriginalSentence: req.OriginalSentence,
		UserSentence:     req.UserSentence,
		SuggestedVersion: req.SuggestedVersion,
		Feedback:         req.Feedback,
		LearningTips:     req.LearningTips,
		Score:            req.Score,
		Language:         req.Language,
		Reaction:         req.Reaction,
	}
	if err := h.store.CreateRecord(c.Request().Context(), record); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, record)
}

func intQueryParam(c echo.Context, name string, fallback int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be an integer")
	}
	return value, nil
}

func httpError(err error) error {
	switch {
	case errors.Is(err, dashboard.ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, history.ErrRecordNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
