package gateway

import (
	"context"
	"incordes-client/internal/models"
	"net/http"
	"net/url"
)

func (c *Client) ListServers(ctx context.Context) ([]models.Server, error) {
	var resp struct {
		Servers []models.Server `json:"servers"`
		failure
	}

	status, err := c.do(ctx, call{
		endpoint: "servers",
		action:   "user_servers",
		method:   http.MethodGet,
		url:      c.endpoints.Servers,
		query:    url.Values{"user_servers": {"true"}},
		auth:     true,
	}, &resp)
	if err != nil {
		return []models.Server{}, err
	}
	if resp.Error != "" || !isSuccess(status) {
		return []models.Server{}, &RejectedError{Status: status, Reason: resp.reason()}
	}
	if resp.Servers == nil {
		return []models.Server{}, nil
	}
	return resp.Servers, nil
}

func (c *Client) ListChannels(ctx context.Context, serverID models.ID) ([]models.Channel, error) {
	var resp struct {
		Channels []models.Channel `json:"channels"`
		failure
	}

	status, err := c.do(ctx, call{
		endpoint: "servers",
		action:   "channels",
		method:   http.MethodGet,
		url:      c.endpoints.Servers,
		query:    url.Values{"server_id": {serverID.String()}},
		auth:     true,
	}, &resp)
	if err != nil {
		return []models.Channel{}, err
	}
	if resp.Error != "" || !isSuccess(status) {
		return []models.Channel{}, &RejectedError{Status: status, Reason: resp.reason()}
	}
	if resp.Channels == nil {
		return []models.Channel{}, nil
	}
	return resp.Channels, nil
}

func (c *Client) CreateServer(ctx context.Context, name string, iconURL string) (models.Server, error) {
	type CreateServerRequest struct {
		Action  string `json:"action"`
		Name    string `json:"name"`
		IconURL string `json:"icon_url,omitempty"`
	}

	var resp struct {
		models.Server
		ServerID models.ID `json:"server_id"`
		failure
	}

	status, err := c.do(ctx, call{
		endpoint: "servers",
		action:   "create",
		method:   http.MethodPost,
		url:      c.endpoints.Servers,
		body:     CreateServerRequest{Action: "create", Name: name, IconURL: iconURL},
		auth:     true,
	}, &resp)
	if err != nil {
		return models.Server{}, err
	}

	if resp.ID == "" {
		resp.ID = resp.ServerID
	}
	if resp.ID == "" {
		if reason := resp.reason(); reason != "" || !isSuccess(status) {
			return models.Server{}, &RejectedError{Status: status, Reason: reason}
		}
		return models.Server{}, ErrMalformed
	}
	return resp.Server, nil
}

func (c *Client) CreateChannel(ctx context.Context, serverID models.ID, name string, kind string) (models.Channel, error) {
	type CreateChannelRequest struct {
		Action   string    `json:"action"`
		ServerID models.ID `json:"server_id"`
		Name     string    `json:"name"`
		Type     string    `json:"type"`
	}

	if kind == "" {
		kind = models.ChannelTypeText
	}

	var resp struct {
		models.Channel
		ChannelID models.ID `json:"channel_id"`
		failure
	}

	status, err := c.do(ctx, call{
		endpoint: "servers",
		action:   "create_channel",
		method:   http.MethodPost,
		url:      c.endpoints.Servers,
		body:     CreateChannelRequest{Action: "create_channel", ServerID: serverID, Name: name, Type: kind},
		auth:     true,
	}, &resp)
	if err != nil {
		return models.Channel{}, err
	}

	if resp.ID == "" {
		resp.ID = resp.ChannelID
	}
	if resp.ID == "" {
		if reason := resp.reason(); reason != "" || !isSuccess(status) {
			return models.Channel{}, &RejectedError{Status: status, Reason: reason}
		}
		return models.Channel{}, ErrMalformed
	}
	return resp.Channel, nil
}
