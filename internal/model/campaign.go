// internal/model/campaign.go
package model

import "time"

const (
    CampaignDraft     = "draft"
    CampaignScheduled = "scheduled"
    CampaignSending   = "sending"
    CampaignSent      = "sent"
    CampaignFailed    = "failed"
)

type Campaign struct {
    ID             int        `db:"id" json:"id"`
    Name           string     `db:"name" json:"name"`
    Subject        string     `db:"subject" json:"subject"`
    BodyHTML       string     `db:"body_html" json:"body_html"`
    SegmentID      *int       `db:"segment_id" json:"segment_id,omitempty"`
    Status         string     `db:"status" json:"status"`
    ScheduledAt    *time.Time `db:"scheduled_at" json:"scheduled_at,omitempty"`
    SentAt         *time.Time `db:"sent_at" json:"sent_at,omitempty"`
    RecipientCount int        `db:"recipient_count" json:"recipient_count"`
    CreatedAt      time.Time  `db:"created_at" json:"created_at"`
    UpdatedAt      *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// Editable reports whether campaign fields may still be changed.
// Once a send has started the campaign is frozen.
func (c *Campaign) Editable() bool {
    return c.Status != CampaignSending && c.Status != CampaignSent
}
