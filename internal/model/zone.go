// internal/model/zone.go
package model

import "time"

const (
    ZoneAvailable = "available"
    ZoneOccupied  = "occupied"
)

// Zone is a franchise territory slot shown on the marketing site map.
// Independent of the messaging data model.
type Zone struct {
    ID            string     `db:"id" json:"id"`
    Name          string     `db:"name" json:"name"`
    Type          string     `db:"type" json:"type"`
    Lat           float64    `db:"lat" json:"lat"`
    Lng           float64    `db:"lng" json:"lng"`
    Status        string     `db:"status" json:"status"`
    OccupiedSince *time.Time `db:"occupied_since" json:"occupied_since,omitempty"`
    OccupantName  string     `db:"occupant_name" json:"occupant_name,omitempty"`
    OccupantEmail string     `db:"occupant_email" json:"occupant_email,omitempty"`
    CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}
