package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"garden_panel/internal/models"
	"garden_panel/internal/service"

	"github.com/gin-gonic/gin"
)

var acceptedTimeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", time.DateOnly}

var errReversedRange = errors.New("'from' must be <= 'to'")

// logQuery is the raw query string of GET /api/v1/logs.
type logQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
	Type string `form:"type"`
}

// LogsResponse is the body of GET /api/v1/logs.
type LogsResponse struct {
	Count  int                 `json:"count"`
	Events []models.PanelEvent `json:"events"`
}

// filter converts the query into a service filter. A date-only "to" covers
// the whole day.
func (q logQuery) filter() (service.LogFilter, error) {
	var (
		f   = service.LogFilter{Type: strings.ToUpper(strings.TrimSpace(q.Type))}
		err error
	)
	if q.From != "" {
		if f.From, err = parseQueryTime(q.From); err != nil {
			return f, fmt.Errorf("from: %w", err)
		}
	}
	if q.To != "" {
		if f.To, err = parseQueryTime(q.To); err != nil {
			return f, fmt.Errorf("to: %w", err)
		}
		if !strings.ContainsAny(q.To, "T ") {
			f.To = f.To.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return f, errReversedRange
	}
	return f, nil
}

// @Summary      List panel audit events
// @Description  Range bounds accept RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'. A date-only 'to' includes the whole day.
// @Tags         logs
// @Produce      json
// @Param        from  query   string  false  "Start of range"  example(2025-08-01)
// @Param        to    query   string  false  "End of range"    example(2025-08-31)
// @Param        type  query   string  false  "Event type"  Enums(SOLENOID_TRIGGER,SIMULATION_START,SIMULATION_STOP)
// @Success      200   {object}  LogsResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/logs [get]
// @Security     BearerAuth
func (h *Handler) getLogs(c *gin.Context) {
	var q logQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	filter, err := q.filter()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	events, err := h.services.EventLog.List(c.Request.Context(), filter)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("logs_list_failed", "err", err, "filter", filter)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load logs"})
		return
	}
	if events == nil {
		events = []models.PanelEvent{}
	}
	c.JSON(http.StatusOK, LogsResponse{Count: len(events), Events: events})
}

// parseQueryTime tries each accepted layout and returns UTC.
func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range acceptedTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q; use RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'", s)
}
