package capitalist

import (
	"time"
)

const (
	EventSaved   string = "saved"
	EventRemoved string = "removed"
)

// Event notifies listeners that the saved list changed.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"createdAt"`
}

type RealtimeRequest struct {
	Type string `json:"type"`
}
