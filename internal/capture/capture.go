package capture

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
	"github.com/pfrederiksen/luma-events/internal/config"
	"github.com/pfrederiksen/luma-events/internal/logger"
)

const calendarItemsPath = "/calendar/get-items"

// Response is one captured calendar API response. The body is kept raw so a
// capture file preserves exactly what the API returned.
type Response struct {
	URL    string          `json:"url"`
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// Capturer fetches a Luma calendar page and records the paginated calendar
// API responses behind it
type Capturer struct {
	client *http.Client
	cfg    config.Capture
}

// New creates a new Capturer instance
func New(cfg config.Capture) *Capturer {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &Capturer{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: tr,
		},
		cfg: cfg,
	}
}

// itemsPage is the pagination envelope of a calendar items response.
// Everything else in the body is left to the extractor.
type itemsPage struct {
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

// Capture fetches the calendar page at pageURL, discovers its calendar API
// identifier, and pages through the calendar items API until the API reports
// no more entries or the configured page cap is hit. Every API response is
// returned in request order.
func (c *Capturer) Capture(pageURL string) ([]*Response, error) {
	html, _, err := c.get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}

	calID, err := DiscoverCalendarID(html)
	if err != nil {
		return nil, fmt.Errorf("discovering calendar: %w", err)
	}

	logger.Debug("Discovered calendar", logger.Fields{
		"page_url":    pageURL,
		"calendar_id": calID,
	})

	responses := make([]*Response, 0)
	cursor := ""

	for page := 0; page < c.cfg.MaxPages; page++ {
		reqURL := c.itemsURL(calID, cursor)

		body, status, err := c.get(reqURL)
		if err != nil {
			return nil, fmt.Errorf("fetching calendar items (page %d): %w", page+1, err)
		}

		responses = append(responses, &Response{
			URL:    reqURL,
			Status: status,
			Body:   json.RawMessage(body),
		})
		logger.IncrCounter("capture.pages")

		var pg itemsPage
		if err := json.Unmarshal(body, &pg); err != nil {
			// Body isn't the expected envelope; keep the capture but stop paging.
			logger.Warn("Unexpected calendar items body, stopping pagination", logger.Fields{
				"url":    reqURL,
				"status": status,
			})
			break
		}
		if !pg.HasMore || pg.NextCursor == "" {
			break
		}
		cursor = pg.NextCursor
	}

	return responses, nil
}

// itemsURL builds the calendar items request for one page
func (c *Capturer) itemsURL(calID, cursor string) string {
	q := url.Values{}
	q.Set("calendar_api_id", calID)
	q.Set("pagination_limit", strconv.Itoa(c.cfg.PageSize))
	if cursor != "" {
		q.Set("pagination_cursor", cursor)
	}
	return strings.TrimRight(c.cfg.APIBaseURL, "/") + calendarItemsPath + "?" + q.Encode()
}

// get performs a GET with retry. Network errors and 5xx responses are
// retried with exponential backoff; 4xx responses fail immediately.
func (c *Capturer) get(rawURL string) ([]byte, int, error) {
	var body []byte
	var status int

	op := func() error {
		start := time.Now()

		req, err := http.NewRequest("GET", rawURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		req.Header.Set("User-Agent", c.cfg.UserAgent)
		req.Header.Set("Accept", "application/json, text/html")

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("performing request: %w", err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response body: %w", err)
		}

		logger.RecordTiming("capture.request", time.Since(start))

		if resp.StatusCode >= 500 {
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("unexpected status code: %d", resp.StatusCode))
		}

		body = data
		status = resp.StatusCode
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.cfg.MaxRetries))
	if err := backoff.Retry(op, policy); err != nil {
		return nil, 0, err
	}
	return body, status, nil
}

// DiscoverCalendarID extracts the calendar's API identifier from the page's
// embedded bootstrap JSON (the script#__NEXT_DATA__ tag). Calendar ids carry
// a "cal-" prefix; the first one found wins.
func DiscoverCalendarID(html []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(html)))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	var calID string
	doc.Find("script#__NEXT_DATA__").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		var decoded interface{}
		if err := json.Unmarshal([]byte(sel.Text()), &decoded); err != nil {
			return true
		}
		calID = findCalendarID(decoded)
		return calID == ""
	})

	if calID == "" {
		return "", fmt.Errorf("no calendar api_id found in page")
	}
	return calID, nil
}

// findCalendarID walks decoded JSON for the first "api_id" string with the
// calendar prefix
func findCalendarID(v interface{}) string {
	switch val := v.(type) {
	case map[string]interface{}:
		if id, ok := val["api_id"].(string); ok && strings.HasPrefix(id, "cal-") {
			return id
		}
		for _, child := range val {
			if id := findCalendarID(child); id != "" {
				return id
			}
		}
	case []interface{}:
		for _, item := range val {
			if id := findCalendarID(item); id != "" {
				return id
			}
		}
	}
	return ""
}
