// internal/model/contact.go
package model

import "time"

type Contact struct {
    ID             int        `db:"id" json:"id"`
    OrganizationID string     `db:"organization_id" json:"organization_id"`
    Name           string     `db:"name" json:"name"`
    Email          string     `db:"email" json:"email,omitempty"`
    Phone          string     `db:"phone" json:"phone,omitempty"`
    Source         string     `db:"source" json:"source"`
    Status         string     `db:"status" json:"status"` // nuevo, contactado, cliente, perdido
    LeadScore      int        `db:"lead_score" json:"lead_score"`
    CreatedAt      time.Time  `db:"created_at" json:"created_at"`
    UpdatedAt      *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
