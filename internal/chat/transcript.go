package chat

import (
	"context"
	"errors"
	"incordes-client/internal/models"
	"strings"
	"sync"

	"go.uber.org/zap"
)

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrSendInFlight = errors.New("a message is already being sent")
	ErrNoChannel    = errors.New("no channel selected")
)

type Gateway interface {
	ListMessages(ctx context.Context, channelID models.ID) ([]models.Message, error)
	SendMessage(ctx context.Context, channelID models.ID, content string) (models.Message, error)
}

// Transcript is the message list of the selected channel plus the composer
// state. Every Load bumps the generation so a slow fetch for a channel that
// is no longer selected cannot overwrite the current list.
type Transcript struct {
	mutex      sync.Mutex
	gateway    Gateway
	sugar      *zap.SugaredLogger
	channel    *models.Channel
	messages   []models.Message
	loading    bool
	sending    bool
	generation uint64
}

func NewTranscript(gw Gateway, sugar *zap.SugaredLogger) *Transcript {
	return &Transcript{
		gateway:  gw,
		sugar:    sugar,
		messages: []models.Message{},
	}
}

type View struct {
	Channel  *models.Channel
	Messages []models.Message
	Loading  bool
	Sending  bool
}

func (t *Transcript) View() View {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	var channel *models.Channel
	if t.channel != nil {
		c := *t.channel
		channel = &c
	}

	return View{
		Channel:  channel,
		Messages: append([]models.Message{}, t.messages...),
		Loading:  t.loading,
		Sending:  t.sending,
	}
}

// Load discards the current list and fetches the messages of channel. A nil
// channel just clears the list. A failed fetch leaves the list empty.
func (t *Transcript) Load(ctx context.Context, channel *models.Channel) {
	t.mutex.Lock()
	t.generation++
	generation := t.generation
	t.messages = []models.Message{}

	if channel == nil {
		t.channel = nil
		t.loading = false
		t.mutex.Unlock()
		return
	}

	c := *channel
	t.channel = &c
	t.loading = true
	t.mutex.Unlock()

	messages, err := t.gateway.ListMessages(ctx, channel.ID)
	if err != nil {
		t.sugar.Warnf("Get messages error for channel ID [%s]: %v", channel.ID, err)
		messages = []models.Message{}
	}

	t.mutex.Lock()
	defer t.mutex.Unlock()

	if generation != t.generation {
		t.sugar.Debugf("Dropping stale message list for channel ID [%s]", channel.ID)
		return
	}
	t.messages = messages
	t.loading = false
}

// Send posts content to the current channel and appends whatever the gateway
// returns. Blank content never reaches the gateway.
func (t *Transcript) Send(ctx context.Context, content string) (models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Message{}, ErrEmptyMessage
	}

	t.mutex.Lock()
	if t.channel == nil {
		t.mutex.Unlock()
		return models.Message{}, ErrNoChannel
	}
	if t.sending {
		t.mutex.Unlock()
		return models.Message{}, ErrSendInFlight
	}
	t.sending = true
	generation := t.generation
	channelID := t.channel.ID
	t.mutex.Unlock()

	msg, err := t.gateway.SendMessage(ctx, channelID, content)

	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.sending = false
	if err != nil {
		return models.Message{}, err
	}

	// the user may have switched channels while the send was in flight
	if generation == t.generation {
		t.messages = append(t.messages, msg)
	}
	return msg, nil
}
