package dto

// ChannelFrame is what a websocket client sends to join or leave an audience channel.
type ChannelFrame struct {
	Action  string `json:"action"` // "join" or "leave"
	Channel string `json:"channel"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Timestamp string `json:"timestamp"`
}
