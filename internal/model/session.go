// internal/model/session.go
package model

import "time"

type Session struct {
    Token     string    `db:"token" json:"-"`
    UserID    int       `db:"user_id" json:"user_id"`
    ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
}
