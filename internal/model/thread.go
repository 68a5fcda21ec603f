// internal/model/thread.go
package model

import "time"

const (
    ChannelEmail    = "email"
    ChannelWhatsApp = "whatsapp"
)

const (
    ThreadOpen   = "open"
    ThreadClosed = "closed"
)

type Thread struct {
    ID            int        `db:"id" json:"id"`
    ContactID     int        `db:"contact_id" json:"contact_id"`
    Channel       string     `db:"channel" json:"channel"`
    Subject       string     `db:"subject" json:"subject,omitempty"`
    Status        string     `db:"status" json:"status"`
    MessageCount  int        `db:"message_count" json:"message_count"`
    UnreadCount   int        `db:"unread_count" json:"unread_count"`
    LastMessageAt *time.Time `db:"last_message_at" json:"last_message_at,omitempty"`
    CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}
