package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is an opaque identifier issued by the gateway. Some endpoints send ids
// as JSON numbers and others as strings, both decode into the same value.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id is neither string nor number: %s", data)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

type User struct {
	ID         ID     `json:"id"`
	Email      string `json:"email"`
	UserName   string `json:"username"`
	IncordesID string `json:"incordes_id"`
	Tag        string `json:"tag,omitempty"`
	Avatar     string `json:"avatar,omitempty"`
	Banner     string `json:"banner,omitempty"`
	Bio        string `json:"bio,omitempty"`
	Theme      string `json:"theme,omitempty"`
}

type Server struct {
	ID      ID     `json:"id"`
	Name    string `json:"name"`
	Icon    string `json:"icon,omitempty"`
	IconURL string `json:"icon_url,omitempty"`
	OwnerID ID     `json:"owner_id"`
}

// Picture returns whichever icon field the gateway filled in.
func (s Server) Picture() string {
	if s.Icon != "" {
		return s.Icon
	}
	return s.IconURL
}

const (
	ChannelTypeText  = "text"
	ChannelTypeVoice = "voice"
)

type Channel struct {
	ID       ID     `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	ServerID ID     `json:"server_id"`
}

type Message struct {
	ID             ID     `json:"id"`
	Content        string `json:"content"`
	AuthorID       ID     `json:"author_id"`
	AuthorUserName string `json:"author_username"`
	AuthorAvatar   string `json:"author_avatar,omitempty"`
	ChannelID      ID     `json:"channel_id"`
	Timestamp      string `json:"timestamp"`
}

type ConfigFile struct {
	Address           string
	Port              string
	TlsCert           string
	TlsKey            string
	PrintHttpRequests bool
	LogToFile         bool
	LogLevel          string
	CookieSecret      string

	AuthApi               string
	ServersApi            string
	MessagesApi           string
	RequestTimeoutSeconds int

	// SessionBackend is one of memory, sqlite, mysql, postgres or redis.
	SessionBackend string
	StorageSecret  string
	SqlitePath     string
	DbUser         string
	DbPassword     string
	DbAddress      string
	DbPort         string
	DbDatabase     string
	RedisAddress   string
	RedisPassword  string
	RedisDB        int
}
