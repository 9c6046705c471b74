// Package httpx holds the gin plumbing shared by the server and the
// gateway: request ids, access logging, metrics and the identity header.
package httpx

import (
	"crypto/rand"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"shareit/internal/platform/apierr"
	"shareit/internal/platform/metrics"
)

// HeaderUserID carries the caller's identity. It is trusted as-is; real
// authentication is out of scope of this system.
const HeaderUserID = "X-Sharer-User-Id"

const headerRequestID = "X-Request-Id"

const ctxRequestID = "request_id"

// UserID extracts and validates the identity header.
func UserID(c *gin.Context) (int64, error) {
	raw := c.GetHeader(HeaderUserID)
	if raw == "" {
		return 0, apierr.InvalidArgument(HeaderUserID + " header is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apierr.InvalidArgument(HeaderUserID + " header must be a positive integer")
	}
	return id, nil
}

// Error writes the uniform {"message": ...} error body.
func Error(c *gin.Context, err error) {
	c.JSON(apierr.HTTPStatus(err), apierr.BodyFrom(err))
}

// RequestID assigns a ULID to each request and echoes it in the response.
func RequestID() gin.HandlerFunc {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			if generated, err := ulid.New(ulid.Timestamp(time.Now().UTC()), entropy); err == nil {
				id = generated.String()
			}
		}
		c.Set(ctxRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

// AccessLog emits one structured log line per request.
func AccessLog(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", c.GetString(ctxRequestID)).
			Msg("http request")
	}
}

// Metrics records the prometheus counter and latency histogram. Routes are
// labeled by pattern, not raw path, to keep cardinality bounded.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
