package hrisapi

import (
	"context"
	"net/http"
)

// Tokens is the backend's token grant
type Tokens struct {
	AccessToken          string `json:"access_token"`
	RefreshToken         string `json:"refresh_token"`
	AccessTokenExpiresIn int64  `json:"access_token_expires_in"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokensEnvelope struct {
	Data *Tokens `json:"data"`
	// Some deployments return the grant unwrapped
	Tokens
}

func (e *tokensEnvelope) tokens() *Tokens {
	if e.Data != nil && e.Data.AccessToken != "" {
		return e.Data
	}
	return &e.Tokens
}

// Login exchanges credentials for a token grant
func (c *Client) Login(ctx context.Context, email, password string) (*Tokens, error) {
	var env tokensEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", "", loginRequest{Email: email, Password: password}, &env); err != nil {
		return nil, err
	}
	return env.tokens(), nil
}

// RefreshToken exchanges a refresh token for a fresh grant
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*Tokens, error) {
	var env tokensEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/refresh", "", refreshRequest{RefreshToken: refreshToken}, &env); err != nil {
		return nil, err
	}
	return env.tokens(), nil
}
