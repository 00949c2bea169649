package gateway

import (
	"context"

	"github.com/valyala/fasthttp"

	"nexus-companion/internal/domain"
)

// Me fetches the current user's profile. A 404 here is a soft failure the
// caller resolves with a token-derived fallback profile.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	resp, err := requestData[userResponse](ctx, c, &call{
		method: fasthttp.MethodGet,
		path:   "/api/users/me",
	})
	if err != nil {
		return nil, err
	}
	return resp.toDomain(), nil
}

type updateUserRequest struct {
	Name         string `json:"name"`
	ProfileImage string `json:"profileImage,omitempty"`
}

func (c *Client) UpdateUser(ctx context.Context, name, profileImage string) (*domain.User, error) {
	resp, err := requestData[userResponse](ctx, c, &call{
		method: fasthttp.MethodPut,
		path:   "/api/users",
		body:   updateUserRequest{Name: name, ProfileImage: profileImage},
	})
	if err != nil {
		return nil, err
	}
	return resp.toDomain(), nil
}

type linkRiotRequest struct {
	SummonerName string `json:"summonerName"`
	TagLine      string `json:"tagLine"`
}

func (c *Client) LinkRiot(ctx context.Context, summonerName, tagLine string) (*domain.User, error) {
	resp, err := requestData[userResponse](ctx, c, &call{
		method: fasthttp.MethodPost,
		path:   "/api/users/link-riot",
		body:   linkRiotRequest{SummonerName: summonerName, TagLine: tagLine},
	})
	if err != nil {
		return nil, err
	}
	return resp.toDomain(), nil
}

func (c *Client) UnlinkRiot(ctx context.Context) (*domain.User, error) {
	resp, err := requestData[userResponse](ctx, c, &call{
		method: fasthttp.MethodDelete,
		path:   "/api/users/link-riot",
	})
	if err != nil {
		return nil, err
	}
	return resp.toDomain(), nil
}

func (c *Client) DeleteAccount(ctx context.Context) error {
	return requestNoData(ctx, c, &call{
		method: fasthttp.MethodDelete,
		path:   "/api/users",
	})
}

func (c *Client) GetSettings(ctx context.Context) (*domain.Settings, error) {
	resp, err := requestData[settingsResponse](ctx, c, &call{
		method: fasthttp.MethodGet,
		path:   "/api/users/settings",
	})
	if err != nil {
		return nil, err
	}
	settings := resp.toDomain()
	return &settings, nil
}

type updateSettingsRequest struct {
	AutoLaunch    bool `json:"autoLaunch"`
	AutoShowOnLol bool `json:"autoShowOnLol"`
}

func (c *Client) UpdateSettings(ctx context.Context, settings domain.Settings) (*domain.Settings, error) {
	resp, err := requestData[settingsResponse](ctx, c, &call{
		method: fasthttp.MethodPut,
		path:   "/api/users/settings",
		body:   updateSettingsRequest{AutoLaunch: settings.AutoLaunch, AutoShowOnLol: settings.AutoShowOnLoL},
	})
	if err != nil {
		return nil, err
	}
	updated := resp.toDomain()
	return &updated, nil
}
