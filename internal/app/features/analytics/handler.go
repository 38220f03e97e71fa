// internal/app/features/analytics/handler.go
package analytics

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	memberstore "github.com/dalemusser/gatehouse/internal/app/store/members"
	visitorstore "github.com/dalemusser/gatehouse/internal/app/store/visitors"
	"github.com/dalemusser/gatehouse/internal/app/system/respond"
	"github.com/dalemusser/gatehouse/internal/app/system/timeouts"
)

// Handler serves the /api/analytics endpoints. Everything here is recomputed
// per request straight from the collections; there is no rollup state.
type Handler struct {
	Log      *zap.Logger
	Visitors *visitorstore.Store
	Members  *memberstore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Log:      logger,
		Visitors: visitorstore.New(db),
		Members:  memberstore.New(db),
	}
}

// startOfDay truncates t to local midnight.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// startOfMonth truncates t to the first of its month.
func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// monthsBack returns the first of the month n-1 months before t's month, so
// the window spans n calendar months including the current one.
func monthsBack(t time.Time, n int) time.Time {
	return startOfMonth(t).AddDate(0, -(n - 1), 0)
}

// HandleDashboard returns the headline counters. The day boundary is local
// midnight; the week and month counters are rolling windows, not calendar
// ones.
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	now := time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	today, err := h.Visitors.CountSince(ctx, startOfDay(now))
	if err != nil {
		respond.ServerError(w, h.Log, "analytics: today count failed", err, "Could not compute the dashboard.")
		return
	}
	inside, err := h.Visitors.CountInside(ctx)
	if err != nil {
		respond.ServerError(w, h.Log, "analytics: inside count failed", err, "Could not compute the dashboard.")
		return
	}
	weekly, err := h.Visitors.CountSince(ctx, now.AddDate(0, 0, -7))
	if err != nil {
		respond.ServerError(w, h.Log, "analytics: weekly count failed", err, "Could not compute the dashboard.")
		return
	}
	monthly, err := h.Visitors.CountSince(ctx, now.AddDate(0, 0, -30))
	if err != nil {
		respond.ServerError(w, h.Log, "analytics: monthly count failed", err, "Could not compute the dashboard.")
		return
	}
	total, err := h.Visitors.CountAll(ctx)
	if err != nil {
		respond.ServerError(w, h.Log, "analytics: total count failed", err, "Could not compute the dashboard.")
		return
	}

	respond.OK(w, respond.Payload{
		"visitorsToday":   today,
		"currentlyInside": inside,
		"weeklyVisitors":  weekly,
		"monthlyVisitors": monthly,
		"totalVisitors":   total,
	})
}

// HandleWeekly returns the last seven days of check-ins bucketed by calendar
// day.
func (h *Handler) HandleWeekly(w http.ResponseWriter, r *http.Request) {
	since := startOfDay(time.Now()).AddDate(0, 0, -6)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	buckets, err := h.Visitors.CountByDay(ctx, since)
	if err != nil {
		respond.ServerError(w, h.Log, "analytics: weekly buckets failed", err, "Could not compute the weekly chart.")
		return
	}
	respond.OK(w, respond.Payload{"data": buckets})
}

// HandleMonthly returns the last six calendar months of check-ins bucketed by
// month.
func (h *Handler) HandleMonthly(w http.ResponseWriter, r *http.Request) {
	since := monthsBack(time.Now(), 6)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	buckets, err := h.Visitors.CountByMonth(ctx, since)
	if err != nil {
		respond.ServerError(w, h.Log, "analytics: monthly buckets failed", err, "Could not compute the monthly chart.")
		return
	}
	respond.OK(w, respond.Payload{"data": buckets})
}

// HandleDepartments returns per-department visit tallies, busiest first.
func (h *Handler) HandleDepartments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	buckets, err := h.Visitors.CountByDepartment(ctx)
	if err != nil {
		respond.ServerError(w, h.Log, "analytics: department buckets failed", err, "Could not compute the department chart.")
		return
	}
	respond.OK(w, respond.Payload{"data": buckets})
}

// HandleMembers returns the roster rollup: totals, new members this calendar
// month, the top ten by visit count, and the six-month trend.
func (h *Handler) HandleMembers(w http.ResponseWriter, r *http.Request) {
	now := time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	total, err := h.Members.CountAll(ctx)
	if err != nil {
		respond.ServerError(w, h.Log, "analytics: member total failed", err, "Could not compute the member analytics.")
		return
	}
	newThisMonth, err := h.Members.CountSince(ctx, startOfMonth(now))
	if err != nil {
		respond.ServerError(w, h.Log, "analytics: new member count failed", err, "Could not compute the member analytics.")
		return
	}
	top, err := h.Members.TopByVisits(ctx, 10)
	if err != nil {
		respond.ServerError(w, h.Log, "analytics: top members failed", err, "Could not compute the member analytics.")
		return
	}
	trend, err := h.Members.Trend(ctx, monthsBack(now, 6))
	if err != nil {
		respond.ServerError(w, h.Log, "analytics: member trend failed", err, "Could not compute the member analytics.")
		return
	}

	respond.OK(w, respond.Payload{
		"totalMembers": total,
		"newThisMonth": newThisMonth,
		"topMembers":   top,
		"trend":        trend,
	})
}
