package repository

import (
    "database/sql"
    "time"

    "github.com/franquimap/crm-backend/internal/model"
)

type MessageRepositoryInterface interface {
    Create(m *model.Message) error
    GetByID(id int) (*model.Message, error)
    GetByTrackingToken(token string) (*model.Message, error)
    ListByThread(threadID int) ([]*model.Message, error)

    // RecordOpen / RecordClick bump the aggregate counters in a single atomic
    // UPDATE and set the first-seen timestamp only when it is still unset.
    // They return the message id, or sql.ErrNoRows for an unknown token.
    RecordOpen(token string) (int, error)
    RecordClick(token string) (int, error)

    InsertTrackingEvent(ev *model.TrackingEvent) error
}

type MessageRepository struct {
    DB *sql.DB
}

const messageColumns = `id, thread_id, direction, from_address, to_address, COALESCE(subject, ''), COALESCE(body_html, ''), COALESCE(body_text, ''), COALESCE(provider_message_id, ''), COALESCE(tracking_token, ''), read, first_opened_at, open_count, first_clicked_at, click_count, created_at`

func scanMessage(row interface{ Scan(...any) error }) (*model.Message, error) {
    var m model.Message
    err := row.Scan(
        &m.ID, &m.ThreadID, &m.Direction, &m.FromAddress, &m.ToAddress,
        &m.Subject, &m.BodyHTML, &m.BodyText, &m.ProviderMessageID, &m.TrackingToken,
        &m.Read, &m.FirstOpenedAt, &m.OpenCount, &m.FirstClickedAt, &m.ClickCount, &m.CreatedAt,
    )
    if err != nil {
        return nil, err
    }
    return &m, nil
}

func (r *MessageRepository) Create(m *model.Message) error {
    m.CreatedAt = time.Now()
    query := `
        INSERT INTO messages (thread_id, direction, from_address, to_address, subject, body_html, body_text, provider_message_id, tracking_token, read, open_count, click_count, created_at)
        VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''), $10, 0, 0, $11)
        RETURNING id
    `
    return r.DB.QueryRow(query,
        m.ThreadID, m.Direction, m.FromAddress, m.ToAddress,
        m.Subject, m.BodyHTML, m.BodyText, m.ProviderMessageID, m.TrackingToken,
        m.Read, m.CreatedAt,
    ).Scan(&m.ID)
}

func (r *MessageRepository) GetByID(id int) (*model.Message, error) {
    m, err := scanMessage(r.DB.QueryRow(`SELECT `+messageColumns+` FROM messages WHERE id=$1`, id))
    if err == sql.ErrNoRows {
        return nil, nil
    }
    return m, err
}

func (r *MessageRepository) GetByTrackingToken(token string) (*model.Message, error) {
    m, err := scanMessage(r.DB.QueryRow(`SELECT `+messageColumns+` FROM messages WHERE tracking_token=$1`, token))
    if err == sql.ErrNoRows {
        return nil, nil
    }
    return m, err
}

func (r *MessageRepository) ListByThread(threadID int) ([]*model.Message, error) {
    rows, err := r.DB.Query(`SELECT `+messageColumns+` FROM messages WHERE thread_id=$1 ORDER BY id`, threadID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    messages := []*model.Message{}
    for rows.Next() {
        m, err := scanMessage(rows)
        if err != nil {
            return nil, err
        }
        messages = append(messages, m)
    }
    return messages, rows.Err()
}

func (r *MessageRepository) RecordOpen(token string) (int, error) {
    query := `
        UPDATE messages
        SET open_count = open_count + 1,
            first_opened_at = COALESCE(first_opened_at, NOW())
        WHERE tracking_token=$1
        RETURNING id
    `
    var id int
    err := r.DB.QueryRow(query, token).Scan(&id)
    return id, err
}

func (r *MessageRepository) RecordClick(token string) (int, error) {
    query := `
        UPDATE messages
        SET click_count = click_count + 1,
            first_clicked_at = COALESCE(first_clicked_at, NOW())
        WHERE tracking_token=$1
        RETURNING id
    `
    var id int
    err := r.DB.QueryRow(query, token).Scan(&id)
    return id, err
}

func (r *MessageRepository) InsertTrackingEvent(ev *model.TrackingEvent) error {
    query := `
        INSERT INTO tracking_events (message_id, event_type, url, ip_address, user_agent, created_at)
        VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NOW())
        RETURNING id, created_at
    `
    return r.DB.QueryRow(query, ev.MessageID, ev.EventType, ev.URL, ev.IPAddress, ev.UserAgent).Scan(&ev.ID, &ev.CreatedAt)
}

var _ MessageRepositoryInterface = (*MessageRepository)(nil)
