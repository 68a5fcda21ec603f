// internal/model/message.go
package model

import "time"

const (
    DirectionInbound  = "inbound"
    DirectionOutbound = "outbound"
)

type Message struct {
    ID                int        `db:"id" json:"id"`
    ThreadID          int        `db:"thread_id" json:"thread_id"`
    Direction         string     `db:"direction" json:"direction"`
    FromAddress       string     `db:"from_address" json:"from_address"`
    ToAddress         string     `db:"to_address" json:"to_address"`
    Subject           string     `db:"subject" json:"subject,omitempty"`
    BodyHTML          string     `db:"body_html" json:"body_html,omitempty"`
    BodyText          string     `db:"body_text" json:"body_text,omitempty"`
    ProviderMessageID string     `db:"provider_message_id" json:"provider_message_id,omitempty"`
    TrackingToken     string     `db:"tracking_token" json:"tracking_token,omitempty"`
    Read              bool       `db:"read" json:"read"`
    FirstOpenedAt     *time.Time `db:"first_opened_at" json:"first_opened_at,omitempty"`
    OpenCount         int        `db:"open_count" json:"open_count"`
    FirstClickedAt    *time.Time `db:"first_clicked_at" json:"first_clicked_at,omitempty"`
    ClickCount        int        `db:"click_count" json:"click_count"`
    CreatedAt         time.Time  `db:"created_at" json:"created_at"`
}
