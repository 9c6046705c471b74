package bookings

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"shareit/internal/platform/apierr"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

type Service struct {
	store *Store
	clock Clock
}

func NewService(db *sql.DB) *Service {
	return &Service{store: NewStore(db), clock: realClock{}}
}

func (s *Service) AddBooking(ctx context.Context, bookerID int64, req CreateBookingRequest) (*BookingResponse, error) {
	if req.Start == nil || req.End == nil || !req.Start.Before(*req.End) {
		return nil, apierr.InvalidArgument("time error")
	}

	item, err := s.store.GetItem(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if !item.Available {
		return nil, apierr.InvalidArgument("item is not available")
	}
	// Ownership violations surface as not-found so callers cannot probe
	// other users' items.
	if item.OwnerID == bookerID {
		return nil, apierr.NotFound("booking not allowed")
	}

	ok, err := s.store.UserExists(ctx, bookerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apierr.NotFound("user not found")
	}

	// TODO: nothing rejects a second booking with an overlapping time range
	// on the same item; an exclusion check belongs here.
	b := &Booking{
		ItemID:   req.ItemID,
		BookerID: bookerID,
		Start:    req.Start.UTC(),
		End:      req.End.UTC(),
		Status:   StatusWaiting,
	}
	if err := s.store.Insert(ctx, b); err != nil {
		return nil, err
	}

	resp := toBookingResponse(&bookingRow{Booking: *b, ItemName: item.Name, OwnerID: item.OwnerID})
	return &resp, nil
}

// Approve moves a WAITING booking to APPROVED or REJECTED. Only the item's
// owner may decide, and only once.
func (s *Service) Approve(ctx context.Context, ownerID, bookingID int64, approved bool) (*BookingResponse, error) {
	row, err := s.store.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if row.OwnerID != ownerID {
		return nil, apierr.NotFound("booking not found")
	}
	if row.Status != StatusWaiting {
		return nil, apierr.InvalidArgument("status already set")
	}

	status := StatusRejected
	if approved {
		status = StatusApproved
	}
	if err := s.store.UpdateStatus(ctx, bookingID, status); err != nil {
		return nil, err
	}

	row.Status = status
	resp := toBookingResponse(row)
	return &resp, nil
}

// GetBooking returns a single booking, visible only to its booker or the
// item's owner.
func (s *Service) GetBooking(ctx context.Context, callerID, id int64) (*BookingResponse, error) {
	row, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row.BookerID != callerID && row.OwnerID != callerID {
		return nil, apierr.NotFound("booking not found")
	}
	resp := toBookingResponse(row)
	return &resp, nil
}

// ListForBooker classifies the caller's own bookings.
func (s *Service) ListForBooker(ctx context.Context, userID int64, state string, from, size int) ([]BookingResponse, error) {
	return s.list(ctx, userID, state, from, size, false)
}

// ListForOwner classifies bookings made on items the caller owns.
func (s *Service) ListForOwner(ctx context.Context, userID int64, state string, from, size int) ([]BookingResponse, error) {
	return s.list(ctx, userID, state, from, size, true)
}

func (s *Service) list(ctx context.Context, userID int64, state string, from, size int, ownerView bool) ([]BookingResponse, error) {
	if from < 0 || size <= 0 {
		return nil, apierr.InvalidArgument("invalid pagination parameters")
	}
	if state == "" {
		state = StateAll
	}
	if err := validateState(state); err != nil {
		return nil, err
	}

	ok, err := s.store.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apierr.NotFound("user not found")
	}

	// Page index truncates: from=3, size=2 lands on page 1 (offset 2).
	offset := (from / size) * size
	rows, err := s.store.List(ctx, Query{
		OwnerView: ownerView,
		UserID:    userID,
		State:     state,
		Now:       s.clock.Now(),
		Limit:     size,
		Offset:    offset,
	})
	if err != nil {
		return nil, err
	}

	out := make([]BookingResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toBookingResponse(&rows[i]))
	}
	return out, nil
}

func validateState(state string) error {
	switch state {
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return nil
	}
	return apierr.InvalidArgument(fmt.Sprintf("Unknown state: %s", state))
}
