package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/valyala/fasthttp"

	"nexus-companion/internal/constants"
	"nexus-companion/internal/domain"
)

// HighlightPage is one page of detected highlight clips.
type HighlightPage struct {
	Highlights    []domain.Highlight
	Number        int
	TotalPages    int
	TotalElements int
	Last          bool
}

func toHighlightPage(resp *pagedResponse[highlightResponse]) *HighlightPage {
	page := &HighlightPage{
		Number:        resp.Number,
		TotalPages:    resp.TotalPages,
		TotalElements: resp.TotalElements,
		Last:          resp.Last,
	}
	for i := range resp.Content {
		page.Highlights = append(page.Highlights, resp.Content[i].toDomain())
	}
	return page
}

func pageQuery(page, size int, sort string) url.Values {
	if size <= 0 {
		size = constants.DefaultPageSize
	}
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))
	query.Set("sort", sort)
	return query
}

func (c *Client) Highlight(ctx context.Context, id int64) (*domain.Highlight, error) {
	resp, err := requestData[highlightResponse](ctx, c, &call{
		method: fasthttp.MethodGet,
		path:   fmt.Sprintf("/api/highlights/%d", id),
	})
	if err != nil {
		return nil, err
	}
	highlight := resp.toDomain()
	return &highlight, nil
}

func (c *Client) MatchHighlights(ctx context.Context, matchID string, page, size int) (*HighlightPage, error) {
	resp, err := requestData[pagedResponse[highlightResponse]](ctx, c, &call{
		method: fasthttp.MethodGet,
		path:   fmt.Sprintf("/api/highlights/match/%s", url.PathEscape(matchID)),
		query:  pageQuery(page, size, "startTime,asc"),
	})
	if err != nil {
		return nil, err
	}
	return toHighlightPage(resp), nil
}

func (c *Client) PlayerHighlights(ctx context.Context, puuid string, page, size int, highlightType domain.HighlightType) (*HighlightPage, error) {
	query := pageQuery(page, size, "createdAt,desc")
	if highlightType != "" {
		query.Set("type", string(highlightType))
	}

	resp, err := requestData[pagedResponse[highlightResponse]](ctx, c, &call{
		method: fasthttp.MethodGet,
		path:   fmt.Sprintf("/api/highlights/player/%s", url.PathEscape(puuid)),
		query:  query,
	})
	if err != nil {
		return nil, err
	}
	return toHighlightPage(resp), nil
}

func (c *Client) IncrementHighlightView(ctx context.Context, id int64) (*domain.Highlight, error) {
	resp, err := requestData[highlightResponse](ctx, c, &call{
		method: fasthttp.MethodPost,
		path:   fmt.Sprintf("/api/highlights/%d/view", id),
	})
	if err != nil {
		return nil, err
	}
	highlight := resp.toDomain()
	return &highlight, nil
}

// AutoGenerateHighlights triggers server-side highlight detection for a match.
func (c *Client) AutoGenerateHighlights(ctx context.Context, matchID string) error {
	return requestNoData(ctx, c, &call{
		method: fasthttp.MethodPost,
		path:   fmt.Sprintf("/api/highlights/match/%s/auto-generate", url.PathEscape(matchID)),
	})
}

func (c *Client) DeleteHighlight(ctx context.Context, id int64) error {
	return requestNoData(ctx, c, &call{
		method: fasthttp.MethodDelete,
		path:   fmt.Sprintf("/api/highlights/%d", id),
	})
}
