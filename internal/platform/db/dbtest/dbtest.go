// Package dbtest provides an in-memory SQLite database with the ShareIt
// schema for store and service tests. The stores stick to the portable SQL
// subset, so the same queries run against MySQL in production and SQLite
// here.
package dbtest

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE
);

CREATE TABLE items (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	description TEXT NOT NULL,
	available BOOLEAN NOT NULL,
	owner_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	request_id INTEGER
);

CREATE TABLE bookings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	item_id INTEGER NOT NULL REFERENCES items(id) ON DELETE CASCADE,
	booker_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	start_time DATETIME NOT NULL,
	end_time DATETIME NOT NULL,
	status TEXT NOT NULL
);

CREATE TABLE requests (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	description TEXT NOT NULL,
	requestor_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	created DATETIME NOT NULL
);

CREATE TABLE comments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	text TEXT NOT NULL,
	item_id INTEGER NOT NULL REFERENCES items(id) ON DELETE CASCADE,
	author_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	created DATETIME NOT NULL
);
`

// New opens a fresh in-memory database with the full schema applied.
func New(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// A second pool connection would see an empty in-memory database.
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		t.Fatalf("apply schema: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}
