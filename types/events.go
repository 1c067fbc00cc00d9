package types

// Activity event types pushed over /api/events.
const (
	EventTypeLogin        = "login"
	EventTypeBulkDownload = "bulk_download"
)

// Event is an activity feed entry broadcast to connected web UIs.
type Event struct {
	Type    string         `json:"type"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}
