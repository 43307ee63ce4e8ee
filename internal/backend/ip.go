package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

// DefaultIPEchoURL is the public IP echo service used to annotate chat
// requests with the caller's address.
const DefaultIPEchoURL = "https://api.ipify.org?format=json"

// ipEchoTimeout keeps the best-effort lookup from delaying a chat send
// for the full request timeout.
const ipEchoTimeout = 3 * time.Second

type ipEchoResponse struct {
	IP string `json:"ip"`
}

// userIP resolves the caller's public IP via the configured echo
// service. Every failure is swallowed: the annotation is best-effort
// and an empty result simply omits the field from the payload.
func (c *Client) userIP(ctx context.Context) string {
	if c.ipEchoURL == "" {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, ipEchoTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ipEchoURL, nil)
	if err != nil {
		c.logger.Debug("ip lookup skipped", "error", err)
		return ""
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("ip lookup failed", "error", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("ip lookup failed", "status", resp.StatusCode)
		return ""
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Debug("ip lookup failed", "error", err)
		return ""
	}

	var echo ipEchoResponse
	if err := json.Unmarshal(data, &echo); err != nil {
		c.logger.Debug("ip lookup returned malformed body", "error", err)
		return ""
	}
	return echo.IP
}
