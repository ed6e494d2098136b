package gateway

import (
	"context"
	"incordes-client/internal/models"
	"net/http"
	"net/url"
)

func (c *Client) ListMessages(ctx context.Context, channelID models.ID) ([]models.Message, error) {
	var resp struct {
		Messages []models.Message `json:"messages"`
		failure
	}

	status, err := c.do(ctx, call{
		endpoint: "messages",
		action:   "list",
		method:   http.MethodGet,
		url:      c.endpoints.Messages,
		query:    url.Values{"channel_id": {channelID.String()}},
		auth:     true,
	}, &resp)
	if err != nil {
		return []models.Message{}, err
	}
	if resp.Error != "" || !isSuccess(status) {
		return []models.Message{}, &RejectedError{Status: status, Reason: resp.reason()}
	}
	if resp.Messages == nil {
		return []models.Message{}, nil
	}
	return resp.Messages, nil
}

func (c *Client) SendMessage(ctx context.Context, channelID models.ID, content string) (models.Message, error) {
	type SendRequest struct {
		Action    string    `json:"action"`
		ChannelID models.ID `json:"channel_id"`
		Content   string    `json:"content"`
	}

	var resp struct {
		models.Message
		MessageID models.ID `json:"message_id"`
		failure
	}

	status, err := c.do(ctx, call{
		endpoint: "messages",
		action:   "send",
		method:   http.MethodPost,
		url:      c.endpoints.Messages,
		body:     SendRequest{Action: "send", ChannelID: channelID, Content: content},
		auth:     true,
	}, &resp)
	if err != nil {
		return models.Message{}, err
	}

	if resp.ID == "" {
		resp.ID = resp.MessageID
	}
	if resp.ID == "" {
		if reason := resp.reason(); reason != "" || !isSuccess(status) {
			return models.Message{}, &RejectedError{Status: status, Reason: reason}
		}
		return models.Message{}, ErrMalformed
	}

	c.metrics.MessagesSent.Inc()
	return resp.Message, nil
}
