package domain

import "time"

// Message is the envelope pushed to websocket clients.
type Message struct {
	Topic      string            `json:"topic"`
	Entity     string            `json:"entity"`
	Action     string            `json:"action"`
	ResourceID string            `json:"resourceId,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Data       any               `json:"data,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// RunID is the setup run a message belongs to, if any.
func (m *Message) RunID() string {
	if m == nil || m.Metadata == nil {
		return ""
	}
	return m.Metadata["runId"]
}
