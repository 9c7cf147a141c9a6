package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fleetflow/navigator/backend/internal/domain"
)

// ErrNotAuthenticated is returned by any sheet operation attempted before a
// token has been supplied (or after sign-out).
var ErrNotAuthenticated = errors.New("not authenticated with spreadsheet service")

// Event marks a change in the collaborator's authentication state.
type Event int

const (
	EventAuthenticated Event = iota
	EventSignedOut
)

// Client is the narrow interface the core consumes. Token acquisition is
// external OAuth — the core only observes the boolean authenticated state
// and the two Event notifications.
type Client interface {
	IsAuthenticated() bool
	AppendTrip(ctx context.Context, trip domain.Trip) error
	LoadTrips(ctx context.Context) ([]SheetTrip, error)
	ExportRange(ctx context.Context, trips []domain.Trip, sheetName, startCell string) error
}

// GoogleClient talks to the Sheets v4 values API over plain HTTP with a
// bearer token handed in by the frontend after its OAuth flow. One attempt
// per call, no retries: sync failures are the caller's to log and ignore.
type GoogleClient struct {
	httpClient *http.Client
	baseURL    string
	sheetID    string
	log        *slog.Logger

	mu    sync.RWMutex
	token string
	subs  []func(Event)
}

// compile-time check: GoogleClient must satisfy Client.
var _ Client = (*GoogleClient)(nil)

// NewGoogleClient constructs a client for the given spreadsheet ID. The
// client starts unauthenticated; call SetToken once the frontend completes
// its OAuth flow.
func NewGoogleClient(sheetID string, log *slog.Logger) *GoogleClient {
	return &GoogleClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    "https://sheets.googleapis.com",
		sheetID:    sheetID,
		log:        log,
	}
}

// Subscribe registers fn to run on authentication state changes,
// synchronously and in subscription order.
func (c *GoogleClient) Subscribe(fn func(Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

// SetToken stores the bearer token and announces the became-authenticated
// event.
func (c *GoogleClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	subs := c.snapshot()
	c.mu.Unlock()

	c.log.Info("spreadsheet service authenticated")
	for _, fn := range subs {
		fn(EventAuthenticated)
	}
}

// ClearToken forgets the bearer token and announces the became-signed-out
// event.
func (c *GoogleClient) ClearToken() {
	c.mu.Lock()
	c.token = ""
	subs := c.snapshot()
	c.mu.Unlock()

	c.log.Info("spreadsheet service signed out")
	for _, fn := range subs {
		fn(EventSignedOut)
	}
}

// snapshot copies the subscriber list; callers must hold mu.
func (c *GoogleClient) snapshot() []func(Event) {
	subs := make([]func(Event), len(c.subs))
	copy(subs, c.subs)
	return subs
}

// IsAuthenticated reports whether a token is currently held.
func (c *GoogleClient) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

// AppendTrip appends one 17-column row for the trip to the main sheet.
func (c *GoogleClient) AppendTrip(ctx context.Context, trip domain.Trip) error {
	body := valuesPayload{Values: [][]string{tripToRow(trip)}}
	path := fmt.Sprintf("/v4/spreadsheets/%s/values/%s:append?valueInputOption=USER_ENTERED",
		url.PathEscape(c.sheetID), url.PathEscape(appendRange))

	if err := c.do(ctx, http.MethodPost, path, &body, nil); err != nil {
		return fmt.Errorf("sheets.GoogleClient.AppendTrip: %w", err)
	}
	return nil
}

// LoadTrips reads every data row from the main sheet and maps each back
// through the 17-column inverse layout.
func (c *GoogleClient) LoadTrips(ctx context.Context) ([]SheetTrip, error) {
	path := fmt.Sprintf("/v4/spreadsheets/%s/values/%s",
		url.PathEscape(c.sheetID), url.PathEscape(loadRange))

	var out valuesPayload
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("sheets.GoogleClient.LoadTrips: %w", err)
	}

	trips := make([]SheetTrip, 0, len(out.Values))
	for _, row := range out.Values {
		trips = append(trips, rowToSheetTrip(row))
	}
	return trips, nil
}

// ExportRange writes the 7-column summary (header plus one row per trip)
// starting at startCell on the named sheet.
func (c *GoogleClient) ExportRange(ctx context.Context, trips []domain.Trip, sheetName, startCell string) error {
	body := valuesPayload{Values: exportRows(trips)}
	rangeRef := sheetName + "!" + startCell
	path := fmt.Sprintf("/v4/spreadsheets/%s/values/%s?valueInputOption=USER_ENTERED",
		url.PathEscape(c.sheetID), url.PathEscape(rangeRef))

	if err := c.do(ctx, http.MethodPut, path, &body, nil); err != nil {
		return fmt.Errorf("sheets.GoogleClient.ExportRange: %w", err)
	}
	return nil
}

// valuesPayload is the request/response shape of the values API endpoints
// this client touches.
type valuesPayload struct {
	Values [][]string `json:"values"`
}

// do performs one authenticated round trip, encoding payload (if non-nil)
// as the JSON request body and decoding the response into out (if non-nil).
func (c *GoogleClient) do(ctx context.Context, method, path string, payload, out any) error {
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token == "" {
		return ErrNotAuthenticated
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sheets api status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
