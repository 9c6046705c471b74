package requests

import (
	"context"
	"database/sql"
	"strings"
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

func (s *Service) Create(ctx context.Context, userID int64, req CreateRequestRequest) (*RequestResponse, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, apierr.InvalidArgument("description must not be blank")
	}
	ok, err := s.store.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apierr.NotFound("user not found")
	}

	r := &Request{
		Description: req.Description,
		RequestorID: userID,
		Created:     s.clock.Now(),
	}
	if err := s.store.Insert(ctx, r); err != nil {
		return nil, err
	}
	resp := toRequestResponse(r)
	return &resp, nil
}

func (s *Service) GetByID(ctx context.Context, userID, id int64) (*RequestResponse, error) {
	ok, err := s.store.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apierr.NotFound("user not found")
	}

	r, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toRequestResponse(r)
	if err := s.attachItems(ctx, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListOwn returns the caller's requests sorted by creation time, each with
// the items offered against it.
func (s *Service) ListOwn(ctx context.Context, userID int64) ([]RequestResponse, error) {
	ok, err := s.store.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apierr.NotFound("user not found")
	}

	list, err := s.store.ListByRequestor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, list)
}

// ListOthers pages through requests by other users, newest first.
func (s *Service) ListOthers(ctx context.Context, userID int64, from, size int) ([]RequestResponse, error) {
	if from < 0 || size <= 0 {
		return nil, apierr.InvalidArgument("invalid pagination parameters")
	}
	ok, err := s.store.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apierr.NotFound("user not found")
	}

	offset := (from / size) * size
	list, err := s.store.ListOthers(ctx, userID, size, offset)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, list)
}

func (s *Service) enrich(ctx context.Context, list []Request) ([]RequestResponse, error) {
	out := make([]RequestResponse, 0, len(list))
	for i := range list {
		resp := toRequestResponse(&list[i])
		if err := s.attachItems(ctx, &resp); err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

func (s *Service) attachItems(ctx context.Context, resp *RequestResponse) error {
	items, err := s.store.ItemsByRequest(ctx, resp.ID)
	if err != nil {
		return err
	}
	for i := range items {
		resp.Items = append(resp.Items, toOfferedItemResponse(&items[i]))
	}
	return nil
}
