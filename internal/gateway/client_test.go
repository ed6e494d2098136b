package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"incordes-client/internal/models"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(url string) *Client {
	c := NewClient(Endpoints{Auth: url + "/auth", Servers: url + "/servers", Messages: url + "/messages"}, 0, zap.NewNop().Sugar(), nil)
	c.SetTokenSource(staticToken("t1"))
	return c
}

func TestLogin_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth" {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		if r.Header.Get("Authorization") != "" {
			t.Errorf("login must not send a bearer token, got %q", r.Header.Get("Authorization"))
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("expected X-Request-ID header")
		}

		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("Failed to decode request: %v", err)
			return
		}
		if body["action"] != "login" || body["email"] != "ann@example.com" || body["password"] != "pw" {
			t.Errorf("unexpected login body: %v", body)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token":"t1","user":{"id":"u1","username":"ann","incordes_id":"ann#0001"}}`))
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL).Login(context.Background(), "ann@example.com", "pw")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.Token != "t1" {
		t.Errorf("Expected token 't1', got '%s'", resp.Token)
	}
	if resp.User == nil || resp.User.UserName != "ann" || resp.User.IncordesID != "ann#0001" {
		t.Errorf("Unexpected user: %+v", resp.User)
	}
}

func TestLogin_ErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Invalid credentials"}`))
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL).Login(context.Background(), "a@b.co", "x")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.Error != "Invalid credentials" {
		t.Errorf("Expected error text, got %q", resp.Error)
	}
	if resp.Status != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", resp.Status)
	}
}

func TestLogin_NotJSON(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{name: "Success status", status: http.StatusOK},
		{name: "Bad gateway", status: http.StatusBadGateway},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte("<html>upstream error</html>"))
			}))
			defer server.Close()

			resp, err := newTestClient(server.URL).Register(context.Background(), "a@b.co", "x", "a")
			if err == nil {
				t.Fatal("Register passed unexpectedly")
			}
			if resp.Status != tc.status {
				t.Errorf("Expected status %d, got %d", tc.status, resp.Status)
			}
		})
	}
}

func TestLogin_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(url).Login(context.Background(), "a@b.co", "x")
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("Expected ErrTransport, got %v", err)
	}
}

func TestListServers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("user_servers") != "true" {
			t.Errorf("expected user_servers=true, got %q", r.URL.RawQuery)
		}
		if r.Header.Get("Authorization") != "Bearer t1" {
			t.Errorf("expected bearer token, got %q", r.Header.Get("Authorization"))
		}
		w.Write([]byte(`{"servers":[{"id":1,"name":"one","icon_url":"i.png","owner_id":7},{"id":"s2","name":"two","owner_id":"u1"}]}`))
	}))
	defer server.Close()

	servers, err := newTestClient(server.URL).ListServers(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(servers) != 2 {
		t.Fatalf("Expected 2 servers, got %d", len(servers))
	}
	if servers[0].ID != "1" || servers[0].Picture() != "i.png" || servers[0].OwnerID != "7" {
		t.Errorf("Unexpected first server: %+v", servers[0])
	}
	if servers[1].ID != "s2" {
		t.Errorf("Unexpected second server: %+v", servers[1])
	}
}

func TestListServers_MissingKeyIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	servers, err := newTestClient(server.URL).ListServers(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if servers == nil || len(servers) != 0 {
		t.Errorf("Expected empty non-nil list, got %#v", servers)
	}
}

func TestListChannels_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	channels, err := newTestClient(server.URL).ListChannels(context.Background(), "s1")
	var rejected *RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("Expected RejectedError, got %v", err)
	}
	if rejected.Status != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", rejected.Status)
	}
	if len(channels) != 0 {
		t.Errorf("Expected no channels, got %d", len(channels))
	}
}

func TestListChannels_Malformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ListChannels(context.Background(), "s1")
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("Expected ErrMalformed, got %v", err)
	}
}

func TestCreateChannel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["action"] != "create_channel" || body["server_id"] != "s1" || body["name"] != "general" || body["type"] != "text" {
			t.Errorf("unexpected body: %v", body)
		}
		w.Write([]byte(`{"channel_id":"c9","name":"general","type":"text","server_id":"s1"}`))
	}))
	defer server.Close()

	channel, err := newTestClient(server.URL).CreateChannel(context.Background(), "s1", "general", "")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if channel.ID != "c9" {
		t.Errorf("Expected id from channel_id, got %q", channel.ID)
	}
}

func TestCreateServer_NoID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"x"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).CreateServer(context.Background(), "x", "")
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("Expected ErrMalformed, got %v", err)
	}
}

func TestSendMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["action"] != "send" || body["channel_id"] != "c1" || body["content"] != "hi" {
			t.Errorf("unexpected body: %v", body)
		}
		w.Write([]byte(`{"id":"m1","content":"hi","author_id":"u1","author_username":"ann","channel_id":"c1","timestamp":"2024-01-01T00:00:00Z"}`))
	}))
	defer server.Close()

	msg, err := newTestClient(server.URL).SendMessage(context.Background(), "c1", "hi")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	expected := models.Message{ID: "m1", Content: "hi", AuthorID: "u1", AuthorUserName: "ann", ChannelID: "c1", Timestamp: "2024-01-01T00:00:00Z"}
	if msg != expected {
		t.Errorf("got %+v, want %+v", msg, expected)
	}
}

func TestUpdateProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["action"] != "update_profile" || body["bio"] != "hello" {
			t.Errorf("unexpected body: %v", body)
		}
		if _, ok := body["avatar"]; ok {
			t.Error("empty avatar should be omitted")
		}
		w.Write([]byte(`{"success":true,"user":{"id":"u1","username":"ann","bio":"hello"}}`))
	}))
	defer server.Close()

	user, err := newTestClient(server.URL).UpdateProfile(context.Background(), ProfileUpdate{Bio: "hello", Theme: "dark"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if user.Bio != "hello" {
		t.Errorf("Expected bio 'hello', got %q", user.Bio)
	}
}

func TestUpdateProfile_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"nope"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).UpdateProfile(context.Background(), ProfileUpdate{Bio: "x"})
	var rejected *RejectedError
	if !errors.As(err, &rejected) || rejected.Reason != "nope" {
		t.Fatalf("Expected rejection with reason 'nope', got %v", err)
	}
}
