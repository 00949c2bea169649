package gateway

import (
	"context"
	"fmt"
	"net/url"

	"github.com/valyala/fasthttp"

	"nexus-companion/internal/domain"
)

// MatchAnalysis fetches the AI-generated analysis for a match.
func (c *Client) MatchAnalysis(ctx context.Context, matchID string) (*domain.Analysis, error) {
	resp, err := requestData[analysisResponse](ctx, c, &call{
		method: fasthttp.MethodGet,
		path:   fmt.Sprintf("/api/analyses/match/%s", url.PathEscape(matchID)),
	})
	if err != nil {
		return nil, err
	}
	analysis := resp.toDomain()
	return &analysis, nil
}

// RequestAnalysis asks the backend to generate an analysis for a match.
func (c *Client) RequestAnalysis(ctx context.Context, matchID string) error {
	return requestNoData(ctx, c, &call{
		method: fasthttp.MethodPost,
		path:   fmt.Sprintf("/api/analyses/match/%s", url.PathEscape(matchID)),
	})
}
