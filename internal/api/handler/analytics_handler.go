package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/service"
)

type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

type commentsInRangeResponse struct {
	From  time.Time `json:"from"`
	To    time.Time `json:"to"`
	Count int64     `json:"count"`
}

// PostsPerUser returns the most prolific authors. Admin only.
//
// @Summary      Posts per user
// @Tags         analytics
// @Produce      json
// @Param        limit  query  int  false  "Maximum rows (default 20)"
// @Success      200  {array}  ports.PostsPerUserRow
// @Failure      403  {object}  map[string]string
// @Router       /analytics/posts-per-user [get]
func (h *AnalyticsHandler) PostsPerUser(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	rows, err := h.analytics.PostsPerUser(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}

// CommentsPerPost returns the most commented posts. Admin only.
//
// @Summary      Comments per post
// @Tags         analytics
// @Produce      json
// @Param        limit  query  int  false  "Maximum rows (default 20)"
// @Success      200  {array}  ports.CommentsPerPostRow
// @Failure      403  {object}  map[string]string
// @Router       /analytics/comments-per-post [get]
func (h *AnalyticsHandler) CommentsPerPost(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	rows, err := h.analytics.CommentsPerPost(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}

// CommentsInRange counts comments created inside a date window. Admin only.
//
// @Summary      Comments in a date range
// @Tags         analytics
// @Produce      json
// @Param        from  query  string  true  "Range start (YYYY-MM-DD)"
// @Param        to    query  string  true  "Range end (YYYY-MM-DD)"
// @Success      200  {object}  commentsInRangeResponse
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /analytics/comments-in-range [get]
func (h *AnalyticsHandler) CommentsInRange(c echo.Context) error {
	from, err := time.Parse("2006-01-02", c.QueryParam("from"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "from must be a YYYY-MM-DD date")
	}
	to, err := time.Parse("2006-01-02", c.QueryParam("to"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "to must be a YYYY-MM-DD date")
	}
	if to.Before(from) {
		return echo.NewHTTPError(http.StatusBadRequest, "to must not precede from")
	}

	// Include the whole final day.
	to = to.Add(24*time.Hour - time.Nanosecond)

	count, err := h.analytics.CommentsInRange(c.Request().Context(), from, to)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, commentsInRangeResponse{From: from, To: to, Count: count})
}
