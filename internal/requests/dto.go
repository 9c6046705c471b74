package requests

import "time"

type CreateRequestRequest struct {
	Description string `json:"description"`
}

type OfferedItemResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	RequestID   *int64 `json:"requestId,omitempty"`
}

type RequestResponse struct {
	ID          int64                 `json:"id"`
	Description string                `json:"description"`
	Created     time.Time             `json:"created"`
	Items       []OfferedItemResponse `json:"items"`
}

func toRequestResponse(r *Request) RequestResponse {
	return RequestResponse{
		ID:          r.ID,
		Description: r.Description,
		Created:     r.Created,
		Items:       []OfferedItemResponse{},
	}
}

func toOfferedItemResponse(it *offeredItem) OfferedItemResponse {
	resp := OfferedItemResponse{
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
