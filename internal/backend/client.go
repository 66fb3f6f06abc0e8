package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"garden_panel/internal/metrics"
	"garden_panel/internal/models"
)

// Device backend paths.
const (
	pathCamera   = "/camera"
	pathSolenoid = "/api/solenoid"
	pathFlow     = "/api/flow"
)

// Endpoint labels used for metrics and logs.
const (
	EndpointSolenoidStatus  = "solenoid_status"
	EndpointSolenoidTrigger = "solenoid_trigger"
	EndpointFlow            = "flow_get"
	EndpointFlowPulse       = "flow_pulse"
)

// WatermarkLayout matches a browser Date.toISOString(): UTC, milliseconds, Z.
const WatermarkLayout = "2006-01-02T15:04:05.000Z"

const (
	defaultTimeout = 3 * time.Second
	maxBodyBytes   = 1 << 20 // 1 MB

	// largest epoch-millisecond value a JS Date accepts
	maxEpochMillis = 8.64e15
)

var (
	ErrUnexpectedStatus  = errors.New("unexpected backend status")
	ErrMalformedResponse = errors.New("malformed backend response")
)

// Client talks to the device backend. Every method is request in, parsed
// result out; nothing here touches panel state.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.Metrics
}

// NewClient creates a backend client. A trailing slash on baseURL is ignored;
// an empty baseURL yields origin-relative camera URLs.
func NewClient(baseURL string, timeout time.Duration, m *metrics.Metrics) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		metrics:    m,
	}
}

// CameraURL builds the cache-busted camera frame URL.
func (c *Client) CameraURL(ms int, t int64) string {
	return c.baseURL + pathCamera + "?ms=" + strconv.Itoa(ms) + "&t=" + strconv.FormatInt(t, 10)
}

// SolenoidStatus fetches the current solenoid status blob.
func (c *Client) SolenoidStatus(ctx context.Context) (models.StatusSnapshot, error) {
	body, err := c.do(ctx, EndpointSolenoidStatus, http.MethodGet, pathSolenoid, nil)
	if err != nil {
		return models.StatusSnapshot{}, err
	}
	if !json.Valid(body) {
		return models.StatusSnapshot{}, fmt.Errorf("%w: solenoid status is not JSON", ErrMalformedResponse)
	}
	return models.StatusSnapshot{Raw: body}, nil
}

// TriggerSolenoid asks the backend to run a watering job on solenoid id.
func (c *Client) TriggerSolenoid(ctx context.Context, id string) (models.CommandResult, error) {
	body, err := c.do(ctx, EndpointSolenoidTrigger, http.MethodPost, pathSolenoid, url.Values{"id": {id}})
	if err != nil {
		return models.CommandResult{}, err
	}
	var res models.CommandResult
	if err := json.Unmarshal(body, &res); err != nil {
		return models.CommandResult{}, fmt.Errorf("%w: decode trigger result: %v", ErrMalformedResponse, err)
	}
	return res, nil
}

// Flow fetches flow samples newer than from. A zero from omits the parameter.
func (c *Client) Flow(ctx context.Context, from time.Time) (models.FlowBatch, error) {
	var q url.Values
	if !from.IsZero() {
		q = url.Values{"from": {FormatWatermark(from)}}
	}
	body, err := c.do(ctx, EndpointFlow, http.MethodGet, pathFlow, q)
	if err != nil {
		return models.FlowBatch{}, err
	}

	if !json.Valid(body) {
		return models.FlowBatch{}, fmt.Errorf("%w: flow body is not JSON", ErrMalformedResponse)
	}

	batch := models.FlowBatch{Raw: body}
	var env struct {
		Timestamp json.RawMessage `json:"timestamp"`
	}
	// arrays and scalars carry no timestamp
	if json.Unmarshal(body, &env) == nil {
		batch.Timestamp, batch.TimestampErr = flowTimestamp(env.Timestamp)
	}
	return batch, nil
}

// flowTimestamp reads the timestamp field: null or absent, an ISO-8601
// string, or epoch milliseconds.
func flowTimestamp(raw json.RawMessage) (*time.Time, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		ts, err := ParseTimestamp(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		return &ts, nil
	}

	var ms float64
	if err := json.Unmarshal(raw, &ms); err == nil && ms >= 0 && ms <= maxEpochMillis {
		ts := time.UnixMilli(int64(ms)).UTC()
		return &ts, nil
	}
	return nil, fmt.Errorf("%w: unsupported timestamp %s", ErrMalformedResponse, raw)
}

// PulseFlow fires one synthetic flow pulse. The response body is discarded.
func (c *Client) PulseFlow(ctx context.Context) error {
	_, err := c.do(ctx, EndpointFlowPulse, http.MethodPost, pathFlow, nil)
	return err
}

func (c *Client) do(ctx context.Context, endpoint, method, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create %s %s request: %w", method, path, err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(endpoint, metrics.OutcomeError, time.Since(start).Seconds())
		return nil, fmt.Errorf("send %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.metrics.ObserveRequest(endpoint, metrics.OutcomeError, time.Since(start).Seconds())
		return nil, fmt.Errorf("read %s %s: %w", method, path, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.metrics.ObserveRequest(endpoint, metrics.OutcomeError, time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: %s %s returned %d: %s", ErrUnexpectedStatus, method, path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	c.metrics.ObserveRequest(endpoint, metrics.OutcomeOK, time.Since(start).Seconds())
	return body, nil
}

// FormatWatermark renders t the way the flow endpoint expects its from parameter.
func FormatWatermark(t time.Time) string {
	return t.UTC().Format(WatermarkLayout)
}

// zone-less layouts are read as UTC
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp accepts RFC 3339 and zone-less ISO-8601 datetimes.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
