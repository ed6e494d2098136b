package gateway

import (
	"context"
	"incordes-client/internal/models"
	"net/http"
)

// AuthResponse is the raw body of a login or register call. Deciding whether
// it counts as a success is left to the caller. Login and Register only
// return an error when no JSON body came back at all.
type AuthResponse struct {
	Status  int          `json:"-"`
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	User    *models.User `json:"user"`
	Error   string       `json:"error"`
	Message string       `json:"message"`
}

// ProfileUpdate holds the editable profile fields. Empty fields are omitted
// from the request.
type ProfileUpdate struct {
	Avatar string `json:"avatar,omitempty"`
	Banner string `json:"banner,omitempty"`
	Bio    string `json:"bio,omitempty"`
	Theme  string `json:"theme,omitempty"`
}

func (c *Client) Login(ctx context.Context, email string, password string) (AuthResponse, error) {
	type LoginRequest struct {
		Action   string `json:"action"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var resp AuthResponse
	status, err := c.do(ctx, call{
		endpoint: "auth",
		action:   "login",
		method:   http.MethodPost,
		url:      c.endpoints.Auth,
		body:     LoginRequest{Action: "login", Email: email, Password: password},
	}, &resp)
	resp.Status = status
	return resp, err
}

func (c *Client) Register(ctx context.Context, email string, password string, username string) (AuthResponse, error) {
	type RegisterRequest struct {
		Action   string `json:"action"`
		Email    string `json:"email"`
		Password string `json:"password"`
		UserName string `json:"username"`
	}

	var resp AuthResponse
	status, err := c.do(ctx, call{
		endpoint: "auth",
		action:   "register",
		method:   http.MethodPost,
		url:      c.endpoints.Auth,
		body:     RegisterRequest{Action: "register", Email: email, Password: password, UserName: username},
	}, &resp)
	resp.Status = status
	return resp, err
}

func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (models.User, error) {
	type UpdateRequest struct {
		Action string `json:"action"`
		ProfileUpdate
	}

	var resp AuthResponse
	status, err := c.do(ctx, call{
		endpoint: "auth",
		action:   "update_profile",
		method:   http.MethodPost,
		url:      c.endpoints.Auth,
		body:     UpdateRequest{Action: "update_profile", ProfileUpdate: update},
		auth:     true,
	}, &resp)
	if err != nil {
		return models.User{}, err
	}

	if resp.Success && resp.User != nil {
		return *resp.User, nil
	}

	reason := failure{Error: resp.Error, Message: resp.Message}.reason()
	if reason == "" && isSuccess(status) {
		return models.User{}, ErrMalformed
	}
	return models.User{}, &RejectedError{Status: status, Reason: reason}
}
