package bookings

import "time"

type CreateBookingRequest struct {
	ItemID int64      `json:"itemId"`
	Start  *time.Time `json:"start"`
	End    *time.Time `json:"end"`
}

type BookerRef struct {
	ID int64 `json:"id"`
}

type ItemRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type BookingResponse struct {
	ID     int64     `json:"id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Status string    `json:"status"`
	Booker BookerRef `json:"booker"`
	Item   ItemRef   `json:"item"`
}

func toBookingResponse(r *bookingRow) BookingResponse {
	return BookingResponse{
		ID:     r.ID,
		Start:  r.Start,
		End:    r.End,
		Status: r.Status,
		Booker: BookerRef{ID: r.BookerID},
		Item:   ItemRef{ID: r.ItemID, Name: r.ItemName},
	}
}
