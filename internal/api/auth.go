package api

import (
	"context"
	"net/http"
	"net/url"
)

// Login exchanges credentials for a token pair. The endpoint speaks
// OAuth2 password flow, so the payload is form-encoded.
func (c *Client) Login(ctx context.Context, email, password string) (TokenResponse, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var out TokenResponse
	err := c.do(ctx, call{
		method:      http.MethodPost,
		path:        "/auth/login",
		body:        []byte(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
		noRetry:     true,
	}, &out)
	return out, err
}

// Signup registers an account and returns a usable token pair.
func (c *Client) Signup(ctx context.Context, in SignupRequest) (TokenResponse, error) {
	var out TokenResponse
	err := c.do(ctx, call{
		method:      http.MethodPost,
		path:        "/auth/signup",
		body:        mustJSON(in),
		contentType: "application/json",
		noRetry:     true,
	}, &out)
	return out, err
}

// ForgotPassword resets the account password using the role pin.
func (c *Client) ForgotPassword(ctx context.Context, in ForgotPasswordRequest) error {
	return c.do(ctx, call{
		method:      http.MethodPut,
		path:        "/auth/forgot-password",
		body:        mustJSON(in),
		contentType: "application/json",
		noRetry:     true,
	}, nil)
}

// RefreshToken exchanges the refresh token for a new access token.
// It bypasses the 401 recovery path so refresh can never recurse.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (TokenResponse, error) {
	q := url.Values{}
	q.Set("refresh_token", refreshToken)

	var out TokenResponse
	err := c.do(ctx, call{
		method:  http.MethodPost,
		path:    "/auth/refresh",
		query:   q,
		noRetry: true,
	}, &out)
	return out, err
}
