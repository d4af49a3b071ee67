package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/LeDuc-16/smart-attendance-sub000/internal/api"
	"github.com/LeDuc-16/smart-attendance-sub000/internal/models"
	"github.com/LeDuc-16/smart-attendance-sub000/internal/session"
	apperrors "github.com/LeDuc-16/smart-attendance-sub000/pkg/errors"
)

const basePath = api.APIPrefix + "/auth"

// Client drives the authentication endpoints and keeps the session in step
// with their outcomes.
type Client struct {
	core    *api.Client
	session *session.Session
	logger  *zap.Logger
}

// NewClient builds the auth client.
func NewClient(core *api.Client, sess *session.Session, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{core: core, session: sess, logger: logger}
}

type loginRequest struct {
	Account  string `json:"account"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token pair, stores it, and resolves the
// current user record.
func (c *Client) Login(ctx context.Context, account, password string) (*models.User, error) {
	envelope, err := c.core.Do(ctx, http.MethodPost, basePath+"/login", nil, loginRequest{
		Account:  account,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	var tokens models.TokenPair
	if err := json.Unmarshal(envelope.Data, &tokens); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, 0, "decode token pair")
	}
	if tokens.AccessToken == "" {
		return nil, apperrors.New(apperrors.ErrInternal.Code, 0, "login response missing access token")
	}
	if err := c.session.Login(ctx, tokens, nil); err != nil {
		return nil, err
	}

	user, err := c.Me(ctx)
	if err != nil {
		// The token is valid; a failed profile lookup should not undo login.
		c.logger.Warn("could not load current user after login", zap.Error(err))
		return nil, nil
	}
	if err := c.session.Login(ctx, tokens, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Logout revokes the session server-side, then clears it locally. The local
// clear happens even when the revoke call fails.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.core.Do(ctx, http.MethodPost, basePath+"/logout", nil, nil)
	if clearErr := c.session.Logout(ctx); clearErr != nil {
		return clearErr
	}
	if err != nil && !apperrors.IsSession(err) {
		return err
	}
	return nil
}

// Verify checks the stored credential against the backend.
func (c *Client) Verify(ctx context.Context) error {
	_, err := c.core.Do(ctx, http.MethodGet, basePath+"/verify", nil, nil)
	return err
}

// Me returns the authenticated account.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	envelope, err := c.core.Do(ctx, http.MethodGet, basePath+"/me", nil, nil)
	if err != nil {
		return nil, err
	}
	user := &models.User{}
	if err := json.Unmarshal(envelope.Data, user); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, 0, "decode user")
	}
	return user, nil
}
