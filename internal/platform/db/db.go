package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"shareit/internal/platform/config"
)

const driverName = "mysql"

// Connect opens the MySQL pool. parseTime makes DATETIME columns scan into
// time.Time; everything is stored and compared in UTC.
func Connect(c config.DBConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&tls=false&timeout=3s&readTimeout=5s&writeTimeout=5s&loc=UTC",
		c.Username, c.Password, c.Host, c.Port, c.DBName)

	conn, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Keep the pool below MySQL's max_connections when server and gateway
	// environments share one instance.
	conn.SetMaxOpenConns(80)
	conn.SetMaxIdleConns(20)
	conn.SetConnMaxLifetime(30 * time.Minute)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	return conn, nil
}

// TimeLayout is the format all timestamp parameters are bound with. Plain
// DATETIME strings compare correctly on both MySQL and the SQLite test
// databases.
const TimeLayout = "2006-01-02 15:04:05"

// FormatTime renders t for binding as a query parameter.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}
