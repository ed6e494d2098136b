package chat

import (
	"fmt"
	"incordes-client/internal/models"
	"strings"
	"time"
	"unicode/utf8"
)

// Block is a run of consecutive messages by one author, rendered under a
// single avatar and name.
type Block struct {
	AuthorID       models.ID
	AuthorUserName string
	AuthorAvatar   string
	Timestamp      string
	Own            bool
	Messages       []models.Message
}

// Group merges each message into the previous block when both share an
// author. Only direct neighbours are compared.
func Group(messages []models.Message, selfID models.ID) []Block {
	blocks := []Block{}

	for i, msg := range messages {
		if i > 0 && messages[i-1].AuthorID == msg.AuthorID {
			last := &blocks[len(blocks)-1]
			last.Messages = append(last.Messages, msg)
			continue
		}

		blocks = append(blocks, Block{
			AuthorID:       msg.AuthorID,
			AuthorUserName: msg.AuthorUserName,
			AuthorAvatar:   msg.AuthorAvatar,
			Timestamp:      msg.Timestamp,
			Own:            selfID != "" && msg.AuthorID == selfID,
			Messages:       []models.Message{msg},
		})
	}

	return blocks
}

func Initials(username string) string {
	if utf8.RuneCountInString(username) <= 2 {
		return strings.ToUpper(username)
	}
	return strings.ToUpper(string([]rune(username)[:2]))
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
}

// Ago renders timestamp relative to now, "just now" when it can't be parsed.
func Ago(timestamp string, now time.Time) string {
	var t time.Time
	var err error
	for _, layout := range timestampLayouts {
		t, err = time.Parse(layout, timestamp)
		if err == nil {
			break
		}
	}
	if err != nil {
		return "just now"
	}

	d := now.Sub(t)
	switch {
	case d < 45*time.Second:
		return "less than a minute ago"
	case d < 90*time.Second:
		return "1 minute ago"
	case d < 45*time.Minute:
		return fmt.Sprintf("%d minutes ago", int(d.Round(time.Minute)/time.Minute))
	case d < 90*time.Minute:
		return "about 1 hour ago"
	case d < 24*time.Hour:
		return fmt.Sprintf("about %d hours ago", int(d.Round(time.Hour)/time.Hour))
	case d < 42*time.Hour:
		return "1 day ago"
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(d.Round(24*time.Hour)/(24*time.Hour)))
	case d < 45*24*time.Hour:
		return "about 1 month ago"
	case d < 365*24*time.Hour:
		return fmt.Sprintf("%d months ago", int(d/(30*24*time.Hour)))
	default:
		return fmt.Sprintf("about %d years ago", int(d/(365*24*time.Hour)))
	}
}
