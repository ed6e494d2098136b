package handlers

import (
	"errors"
	"incordes-client/internal/auth"
	"incordes-client/internal/cascade"
	"incordes-client/internal/chat"
	"incordes-client/internal/gateway"
	"incordes-client/internal/guard"
	"incordes-client/internal/models"
	"incordes-client/internal/validator"
	"net/http"
	"strings"
)

type appData struct {
	Shell         cascade.View
	TextChannels  []channelEntry
	VoiceChannels []channelEntry
	Transcript    chat.View
	Blocks        []chat.Block
	Pending       auth.Pending
}

func (h *Handlers) AppPage(w http.ResponseWriter, r *http.Request) {
	view := h.shell.View()
	transcript := h.shell.Transcript().View()

	var selfID models.ID
	if view.User != nil {
		selfID = view.User.ID
	}

	var selectedID models.ID
	if view.SelectedChannel != nil {
		selectedID = view.SelectedChannel.ID
	}
	text, voice := splitChannels(view.Channels, selectedID)

	p := page{
		Title: "Incordes",
		Data: appData{
			Shell:         view,
			TextChannels:  text,
			VoiceChannels: voice,
			Transcript:    transcript,
			Blocks:        chat.Group(transcript.Messages, selfID),
			Pending:       h.auth.Pending(),
		},
	}
	if view.User != nil && view.User.Theme != "" {
		p.Theme = view.User.Theme
	}
	if view.SelectedChannel != nil {
		p.Title = "#" + view.SelectedChannel.Name + " | Incordes"
	}

	h.banners(w, r, &p)
	h.render(w, http.StatusOK, "app", p)
}

type channelEntry struct {
	Channel  models.Channel
	Selected bool
}

// splitChannels sorts channels into the text and voice sections of the
// sidebar, keeping their order. Unknown types count as text.
func splitChannels(channels []models.Channel, selectedID models.ID) ([]channelEntry, []channelEntry) {
	text := []channelEntry{}
	voice := []channelEntry{}
	for _, c := range channels {
		entry := channelEntry{Channel: c, Selected: selectedID != "" && c.ID == selectedID}
		if c.Type == models.ChannelTypeVoice {
			voice = append(voice, entry)
		} else {
			text = append(text, entry)
		}
	}
	return text, voice
}

func (h *Handlers) CreateServer(w http.ResponseWriter, r *http.Request) {
	form := validator.CreateServer{
		Name: strings.TrimSpace(r.PostFormValue("name")),
		Icon: strings.TrimSpace(r.PostFormValue("icon")),
	}

	if !h.checkForm(w, r, form, guard.ProtectedHome) {
		return
	}

	if _, err := h.shell.CreateServer(r.Context(), form.Name, form.Icon); err != nil {
		h.sugar.Errorf("Create server error: %v", err)
		h.flash(w, r, flashError, "Failed to create server. Please try again.")
	}
	seeOther(w, r, guard.ProtectedHome)
}

func (h *Handlers) SelectServer(w http.ResponseWriter, r *http.Request) {
	h.shell.SelectServer(r.Context(), models.ID(r.PostFormValue("id")))
	seeOther(w, r, guard.ProtectedHome)
}

func (h *Handlers) CreateChannel(w http.ResponseWriter, r *http.Request) {
	form := validator.CreateChannel{
		Name: strings.TrimSpace(r.PostFormValue("name")),
		Type: r.PostFormValue("type"),
	}
	if form.Type == "" {
		form.Type = models.ChannelTypeText
	}

	if !h.checkForm(w, r, form, guard.ProtectedHome) {
		return
	}

	_, err := h.shell.CreateChannel(r.Context(), form.Name, form.Type)
	switch {
	case errors.Is(err, cascade.ErrNoServer):
		h.flash(w, r, flashError, "Select a server first")
	case err != nil:
		h.sugar.Errorf("Create channel error: %v", err)
		h.flash(w, r, flashError, "Failed to create channel. Please try again.")
	}
	seeOther(w, r, guard.ProtectedHome)
}

func (h *Handlers) SelectChannel(w http.ResponseWriter, r *http.Request) {
	h.shell.SelectChannel(r.Context(), models.ID(r.PostFormValue("id")))
	seeOther(w, r, guard.ProtectedHome)
}

func (h *Handlers) SendMessage(w http.ResponseWriter, r *http.Request) {
	form := validator.Message{Content: strings.TrimSpace(r.PostFormValue("content"))}

	// a blank composer is ignored without a banner
	fieldErrors, err := validator.Check(form)
	if err != nil {
		h.sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}
	if len(fieldErrors) > 0 {
		seeOther(w, r, guard.ProtectedHome)
		return
	}

	_, err = h.shell.Transcript().Send(r.Context(), form.Content)
	switch {
	case err == nil, errors.Is(err, chat.ErrEmptyMessage):
	case errors.Is(err, chat.ErrSendInFlight):
		h.flash(w, r, flashError, "Your previous message is still being sent")
	case errors.Is(err, chat.ErrNoChannel):
		h.flash(w, r, flashError, "Select a channel first")
	default:
		h.sugar.Errorf("Send message error: %v", err)
		h.flash(w, r, flashError, "Failed to send message. Please try again.")
	}
	seeOther(w, r, guard.ProtectedHome)
}

func (h *Handlers) SaveSettings(w http.ResponseWriter, r *http.Request) {
	form := validator.Profile{
		Avatar: strings.TrimSpace(r.PostFormValue("avatar")),
		Banner: strings.TrimSpace(r.PostFormValue("banner")),
		Bio:    strings.TrimSpace(r.PostFormValue("bio")),
		Theme:  r.PostFormValue("theme"),
	}

	if !h.checkForm(w, r, form, guard.ProtectedHome) {
		return
	}

	_, err := h.auth.SaveProfile(r.Context(), gateway.ProfileUpdate{
		Avatar: form.Avatar,
		Banner: form.Banner,
		Bio:    form.Bio,
		Theme:  form.Theme,
	})
	if err != nil {
		h.sugar.Errorf("Save settings error: %v", err)
		h.flash(w, r, flashError, "Failed to save settings. Please try again.")
	} else {
		h.flash(w, r, flashSuccess, "Settings saved successfully!")
	}
	seeOther(w, r, guard.ProtectedHome)
}
