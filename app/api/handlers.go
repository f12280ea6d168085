package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"wallboard/app/calendar"
	"wallboard/app/cfg"
	"wallboard/app/config"
	"wallboard/app/news"
	"wallboard/app/status"
	"wallboard/app/wallpaper"
	"wallboard/app/weather"
)

type Handler struct {
	dashboardConfig *config.Config
	headlines       *news.Aggregator
	calendarStream  *calendar.Stream
	weatherStream   *weather.Stream
	wallpaperPool   *wallpaper.Pool
	board           *status.Board
}

func NewHandler(dashboardConfig *config.Config, headlines *news.Aggregator,
	calendarStream *calendar.Stream, weatherStream *weather.Stream,
	wallpaperPool *wallpaper.Pool, board *status.Board) *Handler {
	return &Handler{
		dashboardConfig: dashboardConfig,
		headlines:       headlines,
		calendarStream:  calendarStream,
		weatherStream:   weatherStream,
		wallpaperPool:   wallpaperPool,
		board:           board,
	}
}

// GetConfig serves the client configuration with secrets stripped.
func (h *Handler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboardConfig.Sanitized())
}

func (h *Handler) GetHeadlines(c *gin.Context) {
	headlines, err := h.headlines.Headlines(c.Request.Context())
	if err != nil {
		slog.Error("Headline aggregation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch headlines"})
		return
	}

	c.JSON(http.StatusOK, headlines)
}

// GetCalendarMonth serves events for one calendar month. The month query
// parameter is zero-based, matching what the client's date object produces.
func (h *Handler) GetCalendarMonth(c *gin.Context) {
	now := time.Now()

	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year parameter"})
		return
	}

	monthIdx, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month())-1)))
	if err != nil || monthIdx < 0 || monthIdx > 11 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month parameter"})
		return
	}

	events, err := h.calendarStream.EventsForMonth(c.Request.Context(), year, time.Month(monthIdx+1))
	if err != nil {
		slog.Error("Calendar fetch failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch calendar"})
		return
	}

	c.JSON(http.StatusOK, events)
}

func (h *Handler) GetCalendarUpcoming(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", strconv.Itoa(calendar.DefaultUpcomingDays)))
	if err != nil || days < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid days parameter"})
		return
	}

	events, err := h.calendarStream.UpcomingEvents(c.Request.Context(), days)
	if err != nil {
		slog.Error("Calendar fetch failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch calendar"})
		return
	}

	c.JSON(http.StatusOK, events)
}

func (h *Handler) GetWeather(c *gin.Context) {
	snapshot, err := h.weatherStream.Snapshot(c.Request.Context())
	if err != nil {
		slog.Error("Weather fetch failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Weather unavailable"})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

func (h *Handler) GetNextWallpaper(c *gin.Context) {
	img, err := h.wallpaperPool.Next(c.Request.Context())
	if err != nil {
		slog.Error("Wallpaper pool fetch failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wallpaper"})
		return
	}
	if img == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Wallpaper pool is empty"})
		return
	}

	c.JSON(http.StatusOK, img)
}

func (h *Handler) GetRandomWallpaper(c *gin.Context) {
	img, err := h.wallpaperPool.Random(c.Request.Context())
	if err != nil {
		slog.Error("Wallpaper pool fetch failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wallpaper"})
		return
	}

	c.JSON(http.StatusOK, img)
}

func (h *Handler) ResetWallpaperRotation(c *gin.Context) {
	h.wallpaperPool.ResetCursor()
	c.Status(http.StatusNoContent)
}

// GetStatus reports the fatal-state signal the display overlay watches.
func (h *Handler) GetStatus(c *gin.Context) {
	message, fatal := h.board.Message()

	out := gin.H{"fatal": fatal}
	if fatal {
		out["message"] = message
	}

	c.JSON(http.StatusOK, out)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	health := gin.H{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   cfg.Get().Version,
	}

	if message, fatal := h.board.Message(); fatal {
		health["fatal"] = message
	}

	c.JSON(http.StatusOK, health)
}
