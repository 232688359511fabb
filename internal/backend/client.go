package backend

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/clinic-portal-gateway/internal/config"
)

// Client talks to the clinic REST API the gateway fronts. The backend owns
// all session authority; the gateway only relays tokens it holds in cookies.
type Client struct {
	rest   *resty.Client
	logger *zap.Logger
}

// NewClient builds a client bound to the configured backend base URL.
func NewClient(cfg config.BackendConfig, logger *zap.Logger) *Client {
	rest := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.RequestTimeout()).
		SetHeader("Accept", "application/json")
	return &Client{rest: rest, logger: logger}
}

type refreshTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// RefreshToken asks the backend for a fresh access token, authenticating
// with the current one. Returns the new token string verbatim; callers
// compare it against the current value before storing.
func (c *Client) RefreshToken(ctx context.Context, current string) (string, error) {
	var out refreshTokenResponse
	resp, err := c.rest.R().
		SetContext(ctx).
		SetAuthToken(current).
		SetResult(&out).
		Post("/api/refresh-token")
	if err != nil {
		return "", fmt.Errorf("refresh token: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("refresh token: backend returned %s", resp.Status())
	}
	return out.AccessToken, nil
}

type updateActivityRequest struct {
	IDUsuario string `json:"idUsuario"`
}

// UpdateActivity marks the session as alive. The response body carries
// nothing the gateway consumes; only the status matters.
func (c *Client) UpdateActivity(ctx context.Context, token, linkID string) error {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(updateActivityRequest{IDUsuario: linkID}).
		Post("/api/update-activity")
	if err != nil {
		return fmt.Errorf("update activity: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("update activity: backend returned %s", resp.Status())
	}
	return nil
}

// SessionStatus is the backend's verdict on a session.
type SessionStatus struct {
	Status      string `json:"status"`
	ForceLogout bool   `json:"force_logout"`
	Message     string `json:"message"`
}

// CheckStatus asks the backend whether the session is still acceptable.
// A non-2xx response is reported as a status with ForceLogout set, since the
// contract treats any backend rejection as an invalid session. Transport
// errors are returned as errors so callers can distinguish "backend said no"
// from "backend unreachable".
func (c *Client) CheckStatus(ctx context.Context, token string) (*SessionStatus, error) {
	var out SessionStatus
	resp, err := c.rest.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&out).
		SetError(&out).
		Post("/api/check-status")
	if err != nil {
		return nil, fmt.Errorf("check status: %w", err)
	}
	if resp.IsError() {
		out.ForceLogout = true
		if out.Message == "" {
			out.Message = fmt.Sprintf("backend returned %s", resp.Status())
		}
		return &out, nil
	}
	return &out, nil
}
