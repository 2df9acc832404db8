// Package services – HistoryService
//
// This file implements the HistoryService, the read surface over the reply
// history log: paginated, status-filtered listings for the dashboard and the
// aggregate stats snapshot.
package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-threads-autoreply/internal/domain"
	"github.com/tbourn/go-threads-autoreply/internal/repo"
)

// HistoryService provides read access to a user's reply history.
type HistoryService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Now returns the current time; nil means time.Now. The stats "today"
	// boundary is local midnight of this clock.
	Now func() time.Time
}

func (s *HistoryService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ListPage returns a page of the user's history rows, newest first. status
// filters to one of pending/sent/failed; "" or "all" disables the filter.
func (s *HistoryService) ListPage(ctx context.Context, userID, status string, page, pageSize int) ([]domain.ReplyHistory, int64, error) {
	switch status {
	case "", "all":
		status = ""
	case domain.StatusPending, domain.StatusSent, domain.StatusFailed:
	default:
		return nil, 0, ErrInvalidStatus
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountHistory(ctx, s.DB, userID, status)
	if err != nil {
		return nil, 0, err
	}
	rows, err := repo.ListHistoryPage(ctx, s.DB, userID, status, offset, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Stats returns the user's dashboard aggregate snapshot. The "today" boundary
// is local midnight of the service clock, converted to UTC to match how rows
// are stored.
func (s *HistoryService) Stats(ctx context.Context, userID string) (*repo.DashboardStats, error) {
	return repo.UserStats(ctx, s.DB, userID, localMidnight(s.now()).UTC())
}

// localMidnight returns 00:00:00 of t's calendar day in t's location.
// Daily quota windows and "sent today" counts share this boundary.
func localMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
