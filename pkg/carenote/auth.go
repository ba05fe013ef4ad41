package carenote

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

func (t tokenResponse) toToken() *oauth2.Token {
	token := &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
	}
	if t.ExpiresIn > 0 {
		token.Expiry = time.Now().Add(time.Duration(t.ExpiresIn) * time.Second)
	}
	return token
}

// Login exchanges credentials for a bearer/refresh token pair. Storing the
// token is the caller's responsibility.
func (c *Client) Login(ctx context.Context, email, password string) (*oauth2.Token, error) {
	body := map[string]string{"email": email, "password": password}
	var resp tokenResponse
	if err := c.sendJSON(ctx, "login", http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return nil, err
	}
	return resp.toToken(), nil
}

// Register creates an account and, like Login, returns the initial token pair.
func (c *Client) Register(ctx context.Context, email, password, name string) (*oauth2.Token, error) {
	body := map[string]string{"email": email, "password": password, "name": name}
	var resp tokenResponse
	if err := c.sendJSON(ctx, "register", http.MethodPost, "/api/auth/register", body, &resp); err != nil {
		return nil, err
	}
	return resp.toToken(), nil
}

// Logout invalidates the server-side session. Callers clear their local
// credentials regardless of whether this call succeeds.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, "logout", http.MethodPost, "/api/auth/logout", nil, "")
	return err
}
