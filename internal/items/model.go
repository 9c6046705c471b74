package items

import (
	"database/sql"
	"time"
)

// Item is one row of the items table. Relations are plain foreign-key ids,
// looked up on demand.
type Item struct {
	ID          int64
	Name        string
	Description string
	Available   bool
	OwnerID     int64
	RequestID   sql.NullInt64
}

// Comment is one row of the comments table.
type Comment struct {
	ID       int64
	Text     string
	ItemID   int64
	AuthorID int64
	Created  time.Time
}

// commentRow is a comment joined with its author's display name.
type commentRow struct {
	Comment
	AuthorName string
}
