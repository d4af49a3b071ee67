package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/LeDuc-16/smart-attendance-sub000/internal/models"
	"github.com/LeDuc-16/smart-attendance-sub000/internal/session"
	apperrors "github.com/LeDuc-16/smart-attendance-sub000/pkg/errors"
)

// APIPrefix is the path every backend collection hangs off.
const APIPrefix = "/api/v1"

// ClientConfig configures the core HTTP client.
type ClientConfig struct {
	BaseURL   string
	Timeout   time.Duration
	Transport http.RoundTripper
}

// Client performs authenticated calls against the attendance backend and
// normalises transport and HTTP failures into the pkg/errors taxonomy.
// A 401/403 from any call expires the injected session.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Session
	logger  *zap.Logger
}

// NewClient builds a client bound to one backend and one session.
func NewClient(cfg ClientConfig, sess *session.Session, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout, Transport: cfg.Transport},
		session: sess,
		logger:  logger,
	}
}

// Do executes one call and decodes the envelope. A non-2xx status yields a
// *pkg/errors.Error carrying the server's message so callers can classify
// it; the envelope is still returned when the body parsed.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body interface{}) (*models.Envelope, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, 0, "encode request payload")
		}
		reader = bytes.NewReader(data)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, 0, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.session.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.transportError(method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrNetwork.Code, 0, apperrors.ErrNetwork.Message)
	}

	c.logger.Debug("api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	envelope := decodeEnvelope(resp.StatusCode, raw)

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		c.session.Expire(ctx)
		base := apperrors.ErrForbidden
		if resp.StatusCode == http.StatusUnauthorized {
			base = apperrors.ErrUnauthorized
		}
		return envelope, apperrors.Clone(base, serverMessage(envelope))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return envelope, httpError(resp.StatusCode, serverMessage(envelope))
	}

	return envelope, nil
}

func (c *Client) transportError(method, path string, err error) error {
	var uerr *url.Error
	code, msg := apperrors.ErrNetwork.Code, apperrors.ErrNetwork.Message
	if errors.As(err, &uerr) && uerr.Timeout() {
		code, msg = apperrors.ErrTimeout.Code, apperrors.ErrTimeout.Message
	}
	c.logger.Warn("api call failed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Error(err),
	)
	return apperrors.Wrap(err, code, 0, msg)
}

func decodeEnvelope(status int, raw []byte) *models.Envelope {
	envelope := &models.Envelope{StatusCode: status}
	if len(bytes.TrimSpace(raw)) == 0 {
		return envelope
	}
	if err := json.Unmarshal(raw, envelope); err != nil {
		// Some error paths return plain text.
		envelope.Message = string(bytes.TrimSpace(raw))
	}
	if envelope.StatusCode == 0 {
		envelope.StatusCode = status
	}
	return envelope
}

func serverMessage(envelope *models.Envelope) string {
	if envelope != nil && envelope.Message != "" {
		return envelope.Message
	}
	return ""
}

func httpError(status int, message string) *apperrors.Error {
	switch status {
	case http.StatusNotFound:
		return apperrors.Clone(apperrors.ErrNotFound, message)
	case http.StatusConflict:
		return apperrors.Clone(apperrors.ErrConflict, message)
	default:
		if message == "" {
			message = fmt.Sprintf("request failed with status %d", status)
		}
		return apperrors.New("HTTP_ERROR", status, message)
	}
}
