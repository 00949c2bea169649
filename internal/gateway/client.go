// Package gateway is the outbound HTTP client for the Nexus backend. It
// attaches the stored bearer token to every request and renews an expired
// token transparently, allowing at most one refresh call in flight.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"

	"nexus-companion/internal/config"
	"nexus-companion/internal/constants"
	"nexus-companion/internal/metrics"
	"nexus-companion/internal/session"
)

const (
	headerAuthorization = "Authorization"
	headerRefreshToken  = "Refresh-Token"
	headerAccessToken   = "Access-Token"

	refreshPath = "/api/auth/refresh"
)

type Client struct {
	baseURL string
	http    *fasthttp.Client
	session *session.Store
	limiter *rate.Limiter
	metrics *metrics.Metrics
	logger  zerolog.Logger

	refreshMu  sync.Mutex
	refreshing bool
	waiters    []chan refreshResult
}

type refreshResult struct {
	accessToken string
	err         error
}

func NewClient(cfg *config.Config, sess *session.Store, m *metrics.Metrics, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: cfg.APIBaseURL,
		http: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         constants.RequestTimeout,
			WriteTimeout:        constants.RequestTimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		session: sess,
		limiter: rate.NewLimiter(rate.Limit(constants.GatewayRatePerSecond), constants.GatewayRateBurst),
		metrics: m,
		logger:  logger.With().Str("component", "gateway").Logger(),
	}
}

// call describes one outbound request. retried guards the single allowed
// re-dispatch after a token refresh.
type call struct {
	method  string
	path    string
	query   url.Values
	body    any
	headers map[string]string
	noAuth  bool
	retried bool
}

// reply carries the raw response; auth endpoints read the new token pair
// from its headers rather than the body.
type reply struct {
	status  int
	body    []byte
	headers map[string]string
}

func (r *reply) header(name string) string {
	return r.headers[name]
}

// do dispatches a call, resolving a single token expiry transparently. A
// request that fails again after a successful refresh is returned as an
// error, never retried a second time.
func (c *Client) do(ctx context.Context, cl *call) (*reply, error) {
	rep, err := c.dispatch(ctx, cl)
	if err != nil {
		return nil, err
	}

	if rep.status >= 200 && rep.status < 300 {
		return rep, nil
	}

	env := decodeEnvelope(rep.body)

	if isTokenError(rep.status, env) && !cl.retried {
		token, refreshErr := c.refreshAccessToken(ctx)
		if refreshErr != nil {
			return nil, refreshErr
		}
		cl.retried = true
		if cl.headers == nil {
			cl.headers = map[string]string{}
		}
		cl.headers[headerAuthorization] = "Bearer " + token
		return c.do(ctx, cl)
	}

	apiErr := &APIError{Status: rep.status, Code: CodeInternal, Message: ""}
	if env != nil {
		apiErr.Code = env.Code
		apiErr.Message = env.Message
	}
	if apiErr.Code == "" {
		apiErr.Code = CodeInternal
	}
	return nil, apiErr
}

// dispatch performs the raw network exchange. The Authorization header is
// attached from the session unless the caller set one explicitly; with no
// token stored the request goes out unauthenticated.
func (c *Client) dispatch(ctx context.Context, cl *call) (*reply, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	uri := c.baseURL + cl.path
	if len(cl.query) > 0 {
		uri += "?" + cl.query.Encode()
	}
	req.SetRequestURI(uri)
	req.Header.SetMethod(cl.method)
	req.Header.SetContentType("application/json")

	for k, v := range cl.headers {
		req.Header.Set(k, v)
	}

	if !cl.noAuth && len(req.Header.Peek(headerAuthorization)) == 0 {
		if token := c.session.AccessToken(); token != "" {
			req.Header.Set(headerAuthorization, "Bearer "+token)
		}
	}

	if cl.body != nil {
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		req.SetBody(payload)
	}

	deadline := time.Now().Add(constants.RequestTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		c.metrics.GatewayRequests.WithLabelValues(cl.method, "error").Inc()
		return nil, fmt.Errorf("backend request failed: %w", err)
	}

	c.metrics.GatewayRequests.WithLabelValues(cl.method, strconv.Itoa(resp.StatusCode())).Inc()

	rep := &reply{
		status:  resp.StatusCode(),
		body:    append([]byte(nil), resp.Body()...),
		headers: map[string]string{},
	}
	resp.Header.VisitAll(func(k, v []byte) {
		rep.headers[string(k)] = string(v)
	})
	return rep, nil
}

// refreshAccessToken implements the single-flight refresh. The first caller
// performs the network exchange; everyone else queues and is notified in
// FIFO order once the in-flight refresh settles.
func (c *Client) refreshAccessToken(ctx context.Context) (string, error) {
	c.refreshMu.Lock()
	if c.refreshing {
		ch := make(chan refreshResult, 1)
		c.waiters = append(c.waiters, ch)
		c.refreshMu.Unlock()

		select {
		case res := <-ch:
			return res.accessToken, res.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	c.refreshing = true
	c.refreshMu.Unlock()

	token, err := c.performRefresh(ctx)

	c.refreshMu.Lock()
	c.refreshing = false
	waiters := c.waiters
	c.waiters = nil
	c.refreshMu.Unlock()

	for _, ch := range waiters {
		ch <- refreshResult{accessToken: token, err: err}
	}
	return token, err
}

func (c *Client) performRefresh(ctx context.Context) (string, error) {
	refreshToken := c.session.RefreshToken()
	if refreshToken == "" {
		c.logger.Warn().Msg("no refresh token available, clearing session")
		c.metrics.TokenRefreshes.WithLabelValues("no_token").Inc()
		c.session.Logout()
		return "", fmt.Errorf("no refresh token: %w", ErrSessionExpired)
	}

	generation := c.session.Generation()

	refreshCtx, cancel := context.WithTimeout(ctx, constants.RefreshCallTimeout)
	defer cancel()

	rep, err := c.dispatch(refreshCtx, &call{
		method:  fasthttp.MethodPost,
		path:    refreshPath,
		headers: map[string]string{headerRefreshToken: refreshToken},
		noAuth:  true,
	})
	if err != nil {
		c.metrics.TokenRefreshes.WithLabelValues("failure").Inc()
		c.session.Logout()
		return "", fmt.Errorf("token refresh failed: %w", ErrSessionExpired)
	}

	newAccess := rep.header(headerAccessToken)
	newRefresh := rep.header(headerRefreshToken)
	if rep.status < 200 || rep.status >= 300 || newAccess == "" || newRefresh == "" {
		c.logger.Warn().Int("status", rep.status).Msg("refresh rejected by backend")
		c.metrics.TokenRefreshes.WithLabelValues("rejected").Inc()
		c.session.Logout()
		return "", fmt.Errorf("token refresh rejected: %w", ErrSessionExpired)
	}

	c.session.SetTokens(newAccess, newRefresh)
	if c.session.Generation() != generation {
		// The user logged out while the refresh was in flight. The refresh
		// settles, then the logout wins.
		c.logger.Info().Msg("logout during refresh, discarding renewed session")
		c.session.Logout()
	}

	c.metrics.TokenRefreshes.WithLabelValues("success").Inc()
	c.logger.Debug().Msg("access token refreshed")
	return newAccess, nil
}

func decodeEnvelope(body []byte) *envelope {
	if len(body) == 0 {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil
	}
	return &env
}

// requestData dispatches a call and decodes the envelope's required data
// field into T. An absent data field is a typed error, not a nil result.
func requestData[T any](ctx context.Context, c *Client, cl *call) (*T, error) {
	rep, err := c.do(ctx, cl)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(rep.body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode response envelope: %w", err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, fmt.Errorf("%s %s: %w", cl.method, cl.path, ErrMissingData)
	}

	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response data: %w", err)
	}
	return &out, nil
}

// requestNoData dispatches a call where no response body is expected.
func requestNoData(ctx context.Context, c *Client, cl *call) error {
	_, err := c.do(ctx, cl)
	return err
}
