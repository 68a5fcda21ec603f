package repository

import (
    "database/sql"
    "fmt"

    appErrors "github.com/franquimap/crm-backend/internal/errors"
    "github.com/franquimap/crm-backend/internal/model"
)

type ThreadRepositoryInterface interface {
    GetByID(id int) (*model.Thread, error)
    List(offset, limit int, channel string) ([]*model.Thread, int, error)

    // ResolveOpen finds the open thread for (contact, channel) or creates one.
    // Backed by a partial unique index on (contact_id, channel) WHERE
    // status='open', so concurrent webhook deliveries land on the same thread.
    ResolveOpen(contactID int, channel, subject string) (*model.Thread, error)

    // RecordMessage bumps the denormalized counters in one atomic UPDATE.
    // unreadDelta is 1 for inbound messages, 0 for outbound.
    RecordMessage(threadID, unreadDelta int) error

    MarkRead(threadID int) error
    Close(threadID int) error
}

type ThreadRepository struct {
    DB *sql.DB
}

const threadColumns = `id, contact_id, channel, COALESCE(subject, ''), status, message_count, unread_count, last_message_at, created_at`

func scanThread(row interface{ Scan(...any) error }) (*model.Thread, error) {
    var t model.Thread
    err := row.Scan(&t.ID, &t.ContactID, &t.Channel, &t.Subject, &t.Status, &t.MessageCount, &t.UnreadCount, &t.LastMessageAt, &t.CreatedAt)
    if err != nil {
        return nil, err
    }
    return &t, nil
}

func (r *ThreadRepository) GetByID(id int) (*model.Thread, error) {
    t, err := scanThread(r.DB.QueryRow(`SELECT `+threadColumns+` FROM threads WHERE id=$1`, id))
    if err == sql.ErrNoRows {
        return nil, nil
    }
    return t, err
}

func (r *ThreadRepository) List(offset, limit int, channel string) ([]*model.Thread, int, error) {
    threads := []*model.Thread{}
    query := `SELECT ` + threadColumns + ` FROM threads WHERE 1=1`
    args := []interface{}{}
    argPos := 1

    if channel != "" {
        query += fmt.Sprintf(" AND channel=$%d", argPos)
        args = append(args, channel)
        argPos++
    }

    query += fmt.Sprintf(" ORDER BY last_message_at DESC NULLS LAST LIMIT $%d OFFSET $%d", argPos, argPos+1)
    args = append(args, limit, offset)

    rows, err := r.DB.Query(query, args...)
    if err != nil {
        return nil, 0, err
    }
    defer rows.Close()

    for rows.Next() {
        t, err := scanThread(rows)
        if err != nil {
            return nil, 0, err
        }
        threads = append(threads, t)
    }

    countQuery := `SELECT COUNT(*) FROM threads WHERE 1=1`
    argsCount := []interface{}{}
    if channel != "" {
        countQuery += " AND channel=$1"
        argsCount = append(argsCount, channel)
    }

    var total int
    if err := r.DB.QueryRow(countQuery, argsCount...).Scan(&total); err != nil {
        return nil, 0, err
    }

    return threads, total, nil
}

func (r *ThreadRepository) ResolveOpen(contactID int, channel, subject string) (*model.Thread, error) {
    query := `
        INSERT INTO threads (contact_id, channel, subject, status, message_count, unread_count, created_at)
        VALUES ($1, $2, NULLIF($3, ''), 'open', 0, 0, NOW())
        ON CONFLICT (contact_id, channel) WHERE status = 'open'
        DO UPDATE SET contact_id = EXCLUDED.contact_id
        RETURNING ` + threadColumns
    return scanThread(r.DB.QueryRow(query, contactID, channel, subject))
}

func (r *ThreadRepository) RecordMessage(threadID, unreadDelta int) error {
    query := `
        UPDATE threads
        SET message_count = message_count + 1,
            unread_count  = unread_count + $2,
            last_message_at = NOW()
        WHERE id=$1
    `
    _, err := r.DB.Exec(query, threadID, unreadDelta)
    return err
}

func (r *ThreadRepository) MarkRead(threadID int) error {
    if _, err := r.DB.Exec(`UPDATE messages SET read=TRUE WHERE thread_id=$1 AND direction='inbound'`, threadID); err != nil {
        return err
    }
    res, err := r.DB.Exec(`UPDATE threads SET unread_count=0 WHERE id=$1`, threadID)
    if err != nil {
        return err
    }
    return checkThreadAffected(res, threadID)
}

func (r *ThreadRepository) Close(threadID int) error {
    res, err := r.DB.Exec(`UPDATE threads SET status='closed' WHERE id=$1`, threadID)
    if err != nil {
        return err
    }
    return checkThreadAffected(res, threadID)
}

// checkThreadAffected turns a zero-row UPDATE on an unknown thread id into
// the not-found error instead of silent success.
func checkThreadAffected(res sql.Result, threadID int) error {
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return appErrors.NewThreadNotFound(threadID)
    }
    return nil
}

var _ ThreadRepositoryInterface = (*ThreadRepository)(nil)
