package items

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/search"

	"shareit/internal/platform/apierr"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

type Service struct {
	store   *Store
	clock   Clock
	matcher *search.Matcher
}

func NewService(db *sql.DB) *Service {
	return &Service{
		store:   NewStore(db),
		clock:   realClock{},
		matcher: search.New(language.Und, search.IgnoreCase),
	}
}

func (s *Service) AddItem(ctx context.Context, ownerID int64, req CreateItemRequest) (*ItemResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apierr.InvalidArgument("name must not be blank")
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, apierr.InvalidArgument("description must not be blank")
	}
	if req.Available == nil {
		return nil, apierr.InvalidArgument("available must not be null")
	}

	ok, err := s.store.UserExists(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apierr.NotFound("user not found")
	}

	it := &Item{
		Name:        req.Name,
		Description: req.Description,
		Available:   *req.Available,
		OwnerID:     ownerID,
	}
	if req.RequestID != nil {
		it.RequestID = sql.NullInt64{Int64: *req.RequestID, Valid: true}
	}
	if err := s.store.Insert(ctx, it); err != nil {
		return nil, err
	}
	resp := toItemResponse(it)
	return &resp, nil
}

// UpdateItem applies a partial patch. Only the owner may update; anyone
// else gets not-found, never forbidden.
func (s *Service) UpdateItem(ctx context.Context, ownerID, itemID int64, req UpdateItemRequest) (*ItemResponse, error) {
	it, err := s.store.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it.OwnerID != ownerID {
		return nil, apierr.NotFound("item not found")
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		it.Name = *req.Name
	}
	if req.Description != nil && strings.TrimSpace(*req.Description) != "" {
		it.Description = *req.Description
	}
	if req.Available != nil {
		it.Available = *req.Available
	}
	if req.RequestID != nil {
		it.RequestID = sql.NullInt64{Int64: *req.RequestID, Valid: true}
	}

	if err := s.store.Update(ctx, it); err != nil {
		return nil, err
	}
	resp := toItemResponse(it)
	return &resp, nil
}

// GetItem returns the item with its comments. The owner additionally sees
// the closest past and future approved bookings.
func (s *Service) GetItem(ctx context.Context, callerID, itemID int64) (*ItemDetailResponse, error) {
	it, err := s.store.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	detail, err := s.buildDetail(ctx, it, callerID == it.OwnerID)
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// GetItems lists the caller's own items with booking info and comments.
func (s *Service) GetItems(ctx context.Context, ownerID int64, from, size int) ([]ItemDetailResponse, error) {
	if from < 0 || size <= 0 {
		return nil, apierr.InvalidArgument("invalid pagination parameters")
	}
	ok, err := s.store.UserExists(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apierr.NotFound("user not found")
	}

	offset := (from / size) * size
	list, err := s.store.ListByOwner(ctx, ownerID, size, offset)
	if err != nil {
		return nil, err
	}

	out := make([]ItemDetailResponse, 0, len(list))
	for i := range list {
		detail, err := s.buildDetail(ctx, &list[i], true)
		if err != nil {
			return nil, err
		}
		out = append(out, *detail)
	}
	return out, nil
}

// Search matches text case-insensitively against name or description of
// available items. Blank text returns an empty list, not everything.
func (s *Service) Search(ctx context.Context, text string, from, size int) ([]ItemResponse, error) {
	if from < 0 || size <= 0 {
		return nil, apierr.InvalidArgument("invalid pagination parameters")
	}
	if strings.TrimSpace(text) == "" {
		return []ItemResponse{}, nil
	}

	list, err := s.store.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]ItemResponse, 0)
	for i := range list {
		if s.matches(list[i].Name, text) || s.matches(list[i].Description, text) {
			matched = append(matched, toItemResponse(&list[i]))
		}
	}

	offset := (from / size) * size
	if offset >= len(matched) {
		return []ItemResponse{}, nil
	}
	end := offset + size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (s *Service) matches(haystack, needle string) bool {
	start, _ := s.matcher.IndexString(haystack, needle)
	return start >= 0
}

// AddComment stores a review. Only users who finished an approved booking
// of the item may comment.
func (s *Service) AddComment(ctx context.Context, authorID, itemID int64, req CreateCommentRequest) (*CommentResponse, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, apierr.InvalidArgument("text must not be blank")
	}

	authorName, err := s.store.UserName(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetByID(ctx, itemID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	eligible, err := s.store.HasFinishedBooking(ctx, itemID, authorID, now)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, apierr.InvalidArgument("commenting requires a finished booking of the item")
	}

	cm := &Comment{
		Text:     req.Text,
		ItemID:   itemID,
		AuthorID: authorID,
		Created:  now,
	}
	if err := s.store.InsertComment(ctx, cm); err != nil {
		return nil, err
	}

	resp := toCommentResponse(&commentRow{Comment: *cm, AuthorName: authorName})
	return &resp, nil
}

func (s *Service) buildDetail(ctx context.Context, it *Item, ownerView bool) (*ItemDetailResponse, error) {
	detail := &ItemDetailResponse{
		ItemResponse: toItemResponse(it),
		Comments:     []CommentResponse{},
	}

	comments, err := s.store.CommentsByItem(ctx, it.ID)
	if err != nil {
		return nil, err
	}
	for i := range comments {
		detail.Comments = append(detail.Comments, toCommentResponse(&comments[i]))
	}

	if ownerView {
		now := s.clock.Now()
		if detail.LastBooking, err = s.store.LastBooking(ctx, it.ID, now); err != nil {
			return nil, err
		}
		if detail.NextBooking, err = s.store.NextBooking(ctx, it.ID, now); err != nil {
			return nil, err
		}
	}
	return detail, nil
}
