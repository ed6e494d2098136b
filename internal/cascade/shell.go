package cascade

import (
	"context"
	"errors"
	"incordes-client/internal/chat"
	"incordes-client/internal/models"
	"sync"

	"go.uber.org/zap"
)

var ErrNoServer = errors.New("no server selected")

type Gateway interface {
	ListServers(ctx context.Context) ([]models.Server, error)
	ListChannels(ctx context.Context, serverID models.ID) ([]models.Channel, error)
	CreateServer(ctx context.Context, name string, iconURL string) (models.Server, error)
	CreateChannel(ctx context.Context, serverID models.ID, name string, kind string) (models.Channel, error)
}

// Shell holds what the main page shows: the server list, the channel list
// of the selected server and the transcript of the selected channel.
//
// Each list has its own generation counter. A fetch remembers the
// generation it was issued under and its result is dropped when another
// fetch for the same list was issued in the meantime.
type Shell struct {
	mutex      sync.Mutex
	gateway    Gateway
	transcript *chat.Transcript
	sugar      *zap.SugaredLogger

	user      *models.User
	servers   []models.Server
	channels  []models.Channel
	serverID  models.ID
	channelID models.ID
	refresh   int

	serverGeneration  uint64
	channelGeneration uint64
	loadingServers    bool
	loadingChannels   bool
}

func NewShell(gw Gateway, transcript *chat.Transcript, sugar *zap.SugaredLogger) *Shell {
	return &Shell{
		gateway:    gw,
		transcript: transcript,
		sugar:      sugar,
		servers:    []models.Server{},
		channels:   []models.Channel{},
	}
}

type View struct {
	User            *models.User
	Servers         []models.Server
	Channels        []models.Channel
	SelectedServer  *models.Server
	SelectedChannel *models.Channel
	Refresh         int
	LoadingServers  bool
	LoadingChannels bool
}

func (s *Shell) View() View {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	server, channel := Resolve(s.servers, s.channels, s.serverID, s.channelID)

	var user *models.User
	if s.user != nil {
		u := *s.user
		user = &u
	}

	return View{
		User:            user,
		Servers:         append([]models.Server{}, s.servers...),
		Channels:        append([]models.Channel{}, s.channels...),
		SelectedServer:  server,
		SelectedChannel: channel,
		Refresh:         s.refresh,
		LoadingServers:  s.loadingServers,
		LoadingChannels: s.loadingChannels,
	}
}

func (s *Shell) Transcript() *chat.Transcript {
	return s.transcript
}

// SetUser is the auth observer. A nil user empties the shell, a different
// user starts from scratch, and either way a present user gets a fresh
// server list.
func (s *Shell) SetUser(ctx context.Context, user *models.User) {
	s.mutex.Lock()
	if user == nil || s.user == nil || s.user.ID != user.ID {
		s.resetLocked()
	}
	if user != nil {
		u := *user
		s.user = &u
	}
	s.mutex.Unlock()

	if user != nil {
		s.fetchServers(ctx)
	}
	s.syncTranscript(ctx)
}

func (s *Shell) resetLocked() {
	s.user = nil
	s.servers = []models.Server{}
	s.channels = []models.Channel{}
	s.serverID = ""
	s.channelID = ""
	s.serverGeneration++
	s.channelGeneration++
	s.loadingServers = false
	s.loadingChannels = false
}

// SelectServer switches to the server with the given id. The channel
// selection is always cleared, then the first channel of the new list is
// selected.
func (s *Shell) SelectServer(ctx context.Context, id models.ID) {
	s.mutex.Lock()
	s.serverID = id
	s.channelID = ""
	s.channels = []models.Channel{}
	generation := s.issueChannelsLocked(id != "")
	s.mutex.Unlock()

	// the old list goes even when the same server and channel come back
	s.syncTranscript(ctx)

	if id != "" {
		s.loadChannels(ctx, id, generation, func(channels []models.Channel) {
			if len(channels) > 0 && s.channelID == "" {
				s.channelID = channels[0].ID
			}
		})
	}

	s.syncTranscript(ctx)
}

func (s *Shell) SelectChannel(ctx context.Context, id models.ID) {
	s.mutex.Lock()
	s.channelID = id
	s.mutex.Unlock()

	s.syncTranscript(ctx)
}

// ChannelCreated reloads the channels of the current server and selects the
// newest one.
func (s *Shell) ChannelCreated(ctx context.Context) {
	s.mutex.Lock()
	serverID := s.serverID
	if serverID == "" {
		s.mutex.Unlock()
		return
	}
	generation := s.issueChannelsLocked(true)
	s.mutex.Unlock()

	s.loadChannels(ctx, serverID, generation, func(channels []models.Channel) {
		if len(channels) > 0 {
			s.channelID = channels[len(channels)-1].ID
		}
	})
	s.syncTranscript(ctx)
}

func (s *Shell) ServerCreated(ctx context.Context) {
	s.mutex.Lock()
	s.refresh++
	s.mutex.Unlock()

	s.fetchServers(ctx)
	s.syncTranscript(ctx)
}

func (s *Shell) CreateServer(ctx context.Context, name string, iconURL string) (models.Server, error) {
	server, err := s.gateway.CreateServer(ctx, name, iconURL)
	if err != nil {
		return models.Server{}, err
	}

	s.sugar.Infof("Created server ID [%s]", server.ID)
	s.ServerCreated(ctx)
	return server, nil
}

// CreateChannel adds a channel to the selected server.
func (s *Shell) CreateChannel(ctx context.Context, name string, kind string) (models.Channel, error) {
	s.mutex.Lock()
	serverID := s.serverID
	s.mutex.Unlock()

	if serverID == "" {
		return models.Channel{}, ErrNoServer
	}

	channel, err := s.gateway.CreateChannel(ctx, serverID, name, kind)
	if err != nil {
		return models.Channel{}, err
	}

	s.sugar.Infof("Created channel ID [%s] in server ID [%s]", channel.ID, serverID)
	s.ChannelCreated(ctx)
	return channel, nil
}

func (s *Shell) fetchServers(ctx context.Context) {
	s.mutex.Lock()
	s.serverGeneration++
	generation := s.serverGeneration
	s.loadingServers = true
	s.mutex.Unlock()

	servers, err := s.gateway.ListServers(ctx)
	if err != nil {
		s.sugar.Warnf("Get servers error: %v", err)
		servers = []models.Server{}
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if generation != s.serverGeneration {
		s.sugar.Debug("Dropping stale server list")
		return
	}
	s.servers = servers
	s.loadingServers = false
}

// issueChannelsLocked starts a new channel list generation, which turns
// every fetch still in flight stale.
func (s *Shell) issueChannelsLocked(loading bool) uint64 {
	s.channelGeneration++
	s.loadingChannels = loading
	return s.channelGeneration
}

// loadChannels fetches the channels of serverID. When generation is still
// the latest one the list is stored and apply runs with the lock held.
func (s *Shell) loadChannels(ctx context.Context, serverID models.ID, generation uint64, apply func(channels []models.Channel)) {
	channels, err := s.gateway.ListChannels(ctx, serverID)
	if err != nil {
		s.sugar.Warnf("Get channels error for server ID [%s]: %v", serverID, err)
		channels = []models.Channel{}
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if generation != s.channelGeneration {
		s.sugar.Debugf("Dropping stale channel list for server ID [%s]", serverID)
		return
	}
	s.channels = channels
	s.loadingChannels = false
	apply(channels)
}

// syncTranscript reloads the transcript until it shows the selected channel.
func (s *Shell) syncTranscript(ctx context.Context) {
	for {
		s.mutex.Lock()
		_, channel := Resolve(s.servers, s.channels, s.serverID, s.channelID)
		shown := s.transcript.View().Channel
		s.mutex.Unlock()

		var want, have models.ID
		if channel != nil {
			want = channel.ID
		}
		if shown != nil {
			have = shown.ID
		}
		if want == have {
			return
		}

		s.transcript.Load(ctx, channel)
	}
}
