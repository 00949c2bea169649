package gateway

import (
	"context"
	"fmt"

	"github.com/valyala/fasthttp"
)

// TokenPair is the credential pair the backend returns in response headers
// on login and refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type googleLoginRequest struct {
	IDToken string `json:"idToken"`
}

// GoogleLogin exchanges a Google ID token for a backend token pair. The pair
// arrives in the Access-Token / Refresh-Token response headers.
func (c *Client) GoogleLogin(ctx context.Context, idToken string) (*TokenPair, error) {
	rep, err := c.do(ctx, &call{
		method: fasthttp.MethodPost,
		path:   "/api/auth/google",
		body:   googleLoginRequest{IDToken: idToken},
		noAuth: true,
	})
	if err != nil {
		return nil, err
	}

	pair := &TokenPair{
		AccessToken:  rep.header(headerAccessToken),
		RefreshToken: rep.header(headerRefreshToken),
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return nil, fmt.Errorf("login response carried no token pair")
	}
	return pair, nil
}

// Logout tells the backend to revoke the session. Best-effort: the caller
// clears the local session regardless of the result.
func (c *Client) Logout(ctx context.Context) error {
	return requestNoData(ctx, c, &call{
		method: fasthttp.MethodPost,
		path:   "/api/auth/logout",
	})
}
