// Package api wraps the Big Trip REST backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bigtrip/internal/model"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

const maxPictureBytes = 8 << 20

// Client talks to the backend. Reads are retried on transient failures,
// writes are sent exactly once.
type Client struct {
	baseURL       string
	authorization string
	reads         *retryablehttp.Client
	writes        *retryablehttp.Client
}

// NewClient creates a backend client for baseURL authorized with the given
// Basic token.
func NewClient(baseURL, token string, timeout time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		authorization: "Basic " + token,
		reads:         newTransport(2, timeout, log),
		writes:        newTransport(0, timeout, log),
	}
}

func newTransport(retries int, timeout time.Duration, log *zap.Logger) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.RetryMax = retries
	c.RetryWaitMin = 200 * time.Millisecond
	c.RetryWaitMax = 2 * time.Second
	c.HTTPClient.Timeout = timeout
	c.ErrorHandler = retryablehttp.PassthroughErrorHandler
	c.Logger = leveledLogger{log.Sugar()}
	return c
}

// leveledLogger routes retryablehttp logs into zap.
type leveledLogger struct {
	s *zap.SugaredLogger
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.s.Debugw(msg, kv...) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.s.Warnw(msg, kv...) }

// ListPoints fetches every point.
func (c *Client) ListPoints(ctx context.Context) ([]RawPoint, error) {
	var points []RawPoint
	if err := c.do(ctx, c.reads, "list points", http.MethodGet, "points", nil, &points); err != nil {
		return nil, err
	}
	return points, nil
}

// CreatePoint posts a new point and returns the stored record.
func (c *Client) CreatePoint(ctx context.Context, p RawPoint) (RawPoint, error) {
	var created RawPoint
	if err := c.do(ctx, c.writes, "create point", http.MethodPost, "points", p, &created); err != nil {
		return RawPoint{}, err
	}
	return created, nil
}

// UpdatePoint replaces the point with the given id and returns the stored record.
func (c *Client) UpdatePoint(ctx context.Context, id string, p RawPoint) (RawPoint, error) {
	var updated RawPoint
	path := "points/" + url.PathEscape(id)
	if err := c.do(ctx, c.writes, "update point", http.MethodPut, path, p, &updated); err != nil {
		return RawPoint{}, err
	}
	return updated, nil
}

// DeletePoint removes the point with the given id.
func (c *Client) DeletePoint(ctx context.Context, id string) error {
	path := "points/" + url.PathEscape(id)
	return c.do(ctx, c.writes, "delete point", http.MethodDelete, path, nil, nil)
}

// ListOffers fetches offers grouped by point type.
func (c *Client) ListOffers(ctx context.Context) ([]RawOfferGroup, error) {
	var groups []RawOfferGroup
	if err := c.do(ctx, c.reads, "list offers", http.MethodGet, "offers", nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// ListDestinations fetches every destination.
func (c *Client) ListDestinations(ctx context.Context) ([]RawDestination, error) {
	var destinations []RawDestination
	if err := c.do(ctx, c.reads, "list destinations", http.MethodGet, "destinations", nil, &destinations); err != nil {
		return nil, err
	}
	return destinations, nil
}

// FetchPicture downloads and decodes a destination picture.
func (c *Client) FetchPicture(ctx context.Context, src string) (image.Image, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.reads.Do(req)
	if err != nil {
		return nil, &model.NetworkError{Op: "fetch picture", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.NetworkError{Op: "fetch picture", Status: resp.StatusCode, Err: fmt.Errorf("unexpected status: %d", resp.StatusCode)}
	}

	img, _, err := image.Decode(io.LimitReader(resp.Body, maxPictureBytes))
	if err != nil {
		return nil, fmt.Errorf("decode picture: %w", err)
	}
	return img, nil
}

func (c *Client) do(ctx context.Context, transport *retryablehttp.Client, op, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+"/"+path, bytesOrNil(body))
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Authorization", c.authorization)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := transport.Do(req)
	if err != nil {
		return &model.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &model.NetworkError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("unexpected status: %d", resp.StatusCode)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &model.NetworkError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func bytesOrNil(b []byte) any {
	if b == nil {
		return nil
	}
	return bytes.NewReader(b)
}
