package cascade

import "incordes-client/internal/models"

// Resolve derives the selected server and channel from the loaded lists and
// the selected ids. An empty id, or one missing from its list, resolves to
// nil. The returned values are copies.
func Resolve(servers []models.Server, channels []models.Channel, serverID models.ID, channelID models.ID) (*models.Server, *models.Channel) {
	var server *models.Server
	if serverID != "" {
		for _, s := range servers {
			if s.ID == serverID {
				found := s
				server = &found
				break
			}
		}
	}

	var channel *models.Channel
	if channelID != "" {
		for _, c := range channels {
			if c.ID == channelID {
				found := c
				channel = &found
				break
			}
		}
	}

	return server, channel
}
