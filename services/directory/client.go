package directorysvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/yavirac/inventario/core"
	"github.com/yavirac/inventario/core/session"
)

// Client authenticates against the legacy institutional identity API. The
// API's login response shape drifted across deployments, so the raw payload
// is returned untouched and normalized by the session layer.
type Client struct {
	baseURL string
	http    *http.Client
	logger  core.Logger
}

var _ session.Authenticator = (*Client)(nil)

func NewClient(conf *core.Config, logger core.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(conf.Directory.BaseURL, "/"),
		http:    &http.Client{Timeout: conf.Directory.Timeout},
		logger:  logger,
	}
}

func (c *Client) Authenticate(ctx context.Context, creds session.Credentials) (json.RawMessage, error) {
	payload, err := json.Marshal(creds)
	if err != nil {
		return nil, errors.Wrap(err, "encoding credentials")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "building login request")
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		// transport failure, the server never answered
		c.logger.Error("reaching identity server", err)
		return nil, session.ErrBackendUnreachable
	}
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading login response")
	}

	switch {
	case res.StatusCode == http.StatusOK:
		return body, nil
	case res.StatusCode == http.StatusUnauthorized, res.StatusCode == http.StatusForbidden:
		if msg := backendMessage(body); msg != "" {
			return nil, errors.Wrap(session.ErrInvalidCredentials, msg)
		}
		return nil, session.ErrInvalidCredentials
	default:
		if msg := backendMessage(body); msg != "" {
			return nil, errors.New(msg)
		}
		return nil, errors.Errorf("identity server error (status %d)", res.StatusCode)
	}
}

// backendMessage extracts a human-readable message from an error response;
// the server-supplied text wins over any canned wording.
func backendMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

// Healthy reports whether the identity server answers its health endpoint.
func (c *Client) Healthy(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return errors.Wrap(err, "building health request")
	}
	res, err := c.http.Do(req)
	if err != nil {
		return session.ErrBackendUnreachable
	}
	defer func() { _ = res.Body.Close() }()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("identity server unhealthy (status %d)", res.StatusCode)
	}
	return nil
}
