package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"packaging_cell/internal/logger"
	"packaging_cell/internal/models"
	"packaging_cell/internal/repository"
)

type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

var (
	ErrInvalidTimeRange = errors.New("invalid time range: from must be <= to")
	ErrUnknownEventType = errors.New("unknown event type")
)

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the time range and type.
func normalizeAndValidateFilter(f LogFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", ErrInvalidTimeRange
	}
	typ := normalizeEventType(f.Type)
	if typ != "" && !models.IsEventType(typ) {
		return time.Time{}, time.Time{}, "", fmt.Errorf("%w %q", ErrUnknownEventType, typ)
	}

	return from, to, typ, nil
}

func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.CellEvent, error) {
	from, to, typ, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, from, to, typ)
}

// recorder appends cell events for the operator log. A failed append is
// logged and never fails the operation being recorded.
type recorder struct {
	events repository.EventRepo
	log    *logger.Logger
}

func (r recorder) record(ctx context.Context, typ, description string, meta map[string]any) {
	if r.events == nil {
		return
	}
	ev := models.CellEvent{
		OccurredAt:  time.Now().UTC(),
		Type:        typ,
		Description: description,
	}
	if len(meta) > 0 {
		ev.Metadata = meta
	}
	if err := r.events.Append(ctx, ev); err != nil {
		r.log.Warnw("cell_event_append_failed", "type", typ, "err", err)
	}
}

// recordError logs err and appends an ERROR event naming the failed action.
func (r recorder) recordError(ctx context.Context, action string, err error, meta map[string]any) {
	r.log.Errorw(action+"_failed", "err", err)
	if meta == nil {
		meta = map[string]any{}
	}
	meta["action"] = action
	meta["error"] = err.Error()
	r.record(ctx, models.EventError, strings.ReplaceAll(action, "_", " ")+" failed", meta)
}
