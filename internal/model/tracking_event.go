// internal/model/tracking_event.go
package model

import "time"

const (
    EventOpen  = "open"
    EventClick = "click"
)

// TrackingEvent is one raw engagement hit. Every pixel or redirect request
// gets its own row, duplicates included; the aggregate counters live on the
// message row.
type TrackingEvent struct {
    ID        int       `db:"id" json:"id"`
    MessageID int       `db:"message_id" json:"message_id"`
    EventType string    `db:"event_type" json:"event_type"`
    URL       string    `db:"url" json:"url,omitempty"`
    IPAddress string    `db:"ip_address" json:"ip_address,omitempty"`
    UserAgent string    `db:"user_agent" json:"user_agent,omitempty"`
    CreatedAt time.Time `db:"created_at" json:"created_at"`
}
