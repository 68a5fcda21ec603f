// internal/model/segment.go
package model

import "time"

const (
    SegmentManual = "manual"
    SegmentFilter = "filter"
)

type Segment struct {
    ID          int       `db:"id" json:"id"`
    Name        string    `db:"name" json:"name"`
    Kind        string    `db:"kind" json:"kind"`
    Filter      string    `db:"filter" json:"filter,omitempty"`
    MemberCount int       `db:"member_count" json:"member_count"`
    CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
