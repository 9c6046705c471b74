package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"shareit/internal/platform/httpx"
)

// Client forwards validated requests to the server and hands back its
// response untouched.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zerolog.Logger
}

func NewClient(baseURL string, logger *zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

// Do performs the forwarded call. A zero userID omits the identity header;
// a nil body sends none. The server's status and raw body come back as-is.
func (c *Client) Do(ctx context.Context, method, path string, userID int64, query url.Values, body any) (int, []byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID > 0 {
		req.Header.Set(httpx.HeaderUserID, strconv.FormatInt(userID, 10))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("method", method).Str("path", path).Msg("server call failed")
		return 0, nil, fmt.Errorf("call server: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read server response: %w", err)
	}
	return resp.StatusCode, payload, nil
}
