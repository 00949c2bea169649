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

// ListMatches fetches a page of a summoner's match history together with the
// summoner profile, most recent first.
func (c *Client) ListMatches(ctx context.Context, gameName, tagLine string, page, size int, sort string) (*Page, *domain.SummonerProfile, error) {
	if size <= 0 {
		size = constants.DefaultPageSize
	}
	if sort == "" {
		sort = constants.DefaultMatchSort
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))
	query.Set("sort", sort)

	resp, err := requestData[matchesWithProfileResponse](ctx, c, &call{
		method: fasthttp.MethodGet,
		path:   fmt.Sprintf("/api/matches/summoner/%s/%s", url.PathEscape(gameName), url.PathEscape(tagLine)),
		query:  query,
	})
	if err != nil {
		return nil, nil, err
	}

	result := &Page{
		Number:        resp.Matches.Number,
		Size:          resp.Matches.Size,
		TotalPages:    resp.Matches.TotalPages,
		TotalElements: resp.Matches.TotalElements,
		Last:          resp.Matches.Last,
	}
	for i := range resp.Matches.Content {
		result.Matches = append(result.Matches, resp.Matches.Content[i].toDomain())
	}
	return result, resp.Profile.toDomain(), nil
}

// RefreshMatches asks the backend to re-ingest the summoner's history from
// the Riot API.
func (c *Client) RefreshMatches(ctx context.Context, gameName, tagLine string) error {
	return requestNoData(ctx, c, &call{
		method: fasthttp.MethodPost,
		path:   fmt.Sprintf("/api/matches/summoner/%s/%s/refresh", url.PathEscape(gameName), url.PathEscape(tagLine)),
	})
}

func (c *Client) SummonerProfile(ctx context.Context, gameName, tagLine string) (*domain.SummonerProfile, error) {
	resp, err := requestData[summonerProfileResponse](ctx, c, &call{
		method: fasthttp.MethodGet,
		path:   fmt.Sprintf("/api/matches/summoner/%s/%s/profile", url.PathEscape(gameName), url.PathEscape(tagLine)),
	})
	if err != nil {
		return nil, err
	}
	return resp.toDomain(), nil
}

func (c *Client) MatchDetail(ctx context.Context, matchID string) (*domain.MatchDetail, error) {
	resp, err := requestData[matchDetailResponse](ctx, c, &call{
		method: fasthttp.MethodGet,
		path:   fmt.Sprintf("/api/matches/%s/detail", url.PathEscape(matchID)),
	})
	if err != nil {
		return nil, err
	}
	return resp.toDomain(), nil
}
