package repository

import (
    "database/sql"

    "github.com/franquimap/crm-backend/internal/model"
)

type SessionRepositoryInterface interface {
    // GetByToken returns the session for a bearer token, or nil when the
    // token is unknown or expired.
    GetByToken(token string) (*model.Session, error)
}

type SessionRepository struct {
    DB *sql.DB
}

func (r *SessionRepository) GetByToken(token string) (*model.Session, error) {
    query := `SELECT token, user_id, expires_at FROM sessions WHERE token=$1 AND expires_at > NOW()`
    var s model.Session
    err := r.DB.QueryRow(query, token).Scan(&s.Token, &s.UserID, &s.ExpiresAt)
    if err == sql.ErrNoRows {
        return nil, nil
    }
    if err != nil {
        return nil, err
    }
    return &s, nil
}

var _ SessionRepositoryInterface = (*SessionRepository)(nil)
