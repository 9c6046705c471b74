package requests

import (
	"database/sql"
	"time"
)

// Request is one row of the requests table: a user's ask for an item not
// currently listed.
type Request struct {
	ID          int64
	Description string
	RequestorID int64
	Created     time.Time
}

// offeredItem is an item listed in answer to a request.
type offeredItem struct {
	ID          int64
	Name        string
	Description string
	Available   bool
	RequestID   sql.NullInt64
}
