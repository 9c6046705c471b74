package items

import "time"

type CreateItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
	RequestID   *int64 `json:"requestId"`
}

// UpdateItemRequest carries a partial patch: absent fields keep the stored
// value.
type UpdateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
	RequestID   *int64  `json:"requestId"`
}

type ItemResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	RequestID   *int64 `json:"requestId,omitempty"`
}

// BookingInfo is the short booking reference attached to an owner's item
// view.
type BookingInfo struct {
	ID       int64 `json:"id"`
	BookerID int64 `json:"bookerId"`
}

type CreateCommentRequest struct {
	Text string `json:"text"`
}

type CommentResponse struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

// ItemDetailResponse is the item view with comments and, for the owner,
// the surrounding approved bookings.
type ItemDetailResponse struct {
	ItemResponse
	LastBooking *BookingInfo      `json:"lastBooking,omitempty"`
	NextBooking *BookingInfo      `json:"nextBooking,omitempty"`
	Comments    []CommentResponse `json:"comments"`
}

func toItemResponse(it *Item) ItemResponse {
	resp := ItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
	}
	if it.RequestID.Valid {
		v := it.RequestID.Int64
		resp.RequestID = &v
	}
	return resp
}

func toCommentResponse(r *commentRow) CommentResponse {
	return CommentResponse{
		ID:         r.ID,
		Text:       r.Text,
		AuthorName: r.AuthorName,
		Created:    r.Created,
	}
}
