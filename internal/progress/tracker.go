// AngelaMos | 2026
// tracker.go

package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/arcana-vip/internal/calendar"
	"github.com/carterperez-dev/arcana-vip/internal/core"
)

const defaultWriteTimeout = 5 * time.Second

type Tracker struct {
	repo         Repository
	clock        calendar.Clock
	logger       *slog.Logger
	writeTimeout time.Duration

	// mu orders inflight.Add against Wait; closed is set once draining starts.
	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
}

func NewTracker(
	repo Repository,
	clock calendar.Clock,
	logger *slog.Logger,
	writeTimeout time.Duration,
) *Tracker {
	if clock == nil {
		clock = calendar.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	return &Tracker{
		repo:         repo,
		clock:        clock,
		logger:       logger,
		writeTimeout: writeTimeout,
	}
}

// RecordFirstView marks the item completed for the user unless a record
// already exists. Repeat and concurrent calls leave exactly one record and
// never touch its payload. A nil payload stores the view time.
func (t *Tracker) RecordFirstView(
	ctx context.Context,
	userID, itemID string,
	kind Kind,
	payload any,
) error {
	if err := validateItem(userID, itemID, kind); err != nil {
		return err
	}

	if payload == nil {
		payload = ViewPayload{ViewedAt: t.clock.Now().UTC()}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode progress payload: %w", err)
	}

	inserted, err := t.repo.InsertIfAbsent(ctx, &Record{
		ID:        uuid.NewString(),
		UserID:    userID,
		ItemID:    itemID,
		ItemKind:  kind,
		Completed: true,
		Data:      data,
	})
	if err != nil {
		return err
	}

	core.AddSpanEvent(ctx, "progress.recorded",
		attribute.String("item_kind", string(kind)),
		attribute.Bool("inserted", inserted),
	)

	if inserted {
		t.logger.DebugContext(ctx, "first view recorded",
			"user_id", userID,
			"item_id", itemID,
			"item_kind", kind,
		)
	}

	return nil
}

// RecordFirstViewAsync detaches the write from the request so the response
// is not held up by it. Failures are logged and dropped, as are calls made
// after Wait has started.
func (t *Tracker) RecordFirstViewAsync(
	ctx context.Context,
	userID, itemID string,
	kind Kind,
) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		t.logger.WarnContext(ctx, "progress write dropped, tracker draining",
			"user_id", userID,
			"item_id", itemID,
			"item_kind", kind,
		)
		return
	}
	t.inflight.Add(1)
	t.mu.Unlock()

	go func() {
		defer t.inflight.Done()

		writeCtx, cancel := context.WithTimeout(
			context.WithoutCancel(ctx),
			t.writeTimeout,
		)
		defer cancel()

		if err := t.RecordFirstView(writeCtx, userID, itemID, kind, nil); err != nil {
			t.logger.WarnContext(writeCtx, "progress write failed",
				"user_id", userID,
				"item_id", itemID,
				"item_kind", kind,
				"error", err,
			)
		}
	}()
}

// Wait stops accepting async writes, then blocks until the in-flight ones
// finish or ctx is done.
func (t *Tracker) Wait(ctx context.Context) error {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()

	done := make(chan struct{})
	go func() {
		t.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("drain progress writes: %w", ctx.Err())
	}
}

// GetProgress returns nil without error when the user has no record.
func (t *Tracker) GetProgress(
	ctx context.Context,
	userID, itemID string,
	kind Kind,
) (*Record, error) {
	if err := validateItem(userID, itemID, kind); err != nil {
		return nil, err
	}

	rec, err := t.repo.Get(ctx, userID, itemID, kind)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return rec, nil
}

func (t *Tracker) Status(
	ctx context.Context,
	userID, itemID string,
	kind Kind,
) (Status, error) {
	rec, err := t.GetProgress(ctx, userID, itemID, kind)
	if err != nil {
		return Status{}, err
	}
	return rec.Status(), nil
}

// StatusByItem keys the user's records of one kind by item id.
func (t *Tracker) StatusByItem(
	ctx context.Context,
	userID string,
	kind Kind,
) (map[string]Status, error) {
	if !kind.Valid() {
		return nil, core.ValidationError("unknown item kind")
	}

	records, err := t.repo.ListByUser(ctx, userID, kind)
	if err != nil {
		return nil, err
	}

	out := make(map[string]Status, len(records))
	for i := range records {
		out[records[i].ItemID] = records[i].Status()
	}
	return out, nil
}

func validateItem(userID, itemID string, kind Kind) error {
	if strings.TrimSpace(userID) == "" {
		return core.ValidationError("user id is required")
	}
	if strings.TrimSpace(itemID) == "" {
		return core.ValidationError("item id is required")
	}
	if !kind.Valid() {
		return core.ValidationError("unknown item kind")
	}
	return nil
}
