package repository

import (
    "database/sql"
    "time"

    "github.com/franquimap/crm-backend/internal/model"
)

type SegmentRepositoryInterface interface {
    Create(s *model.Segment) error
    GetByID(id int) (*model.Segment, error)
    List() ([]*model.Segment, error)
    Delete(id int) error
    AddMembers(segmentID int, contactIDs []int) error

    // MaterializeFilter evaluates a filter segment's expression once via the
    // evaluate_segment_filter stored procedure and fills segment_members.
    // The membership is a snapshot, not kept live.
    MaterializeFilter(segmentID int) (int, error)
}

type SegmentRepository struct {
    DB *sql.DB
}

func (r *SegmentRepository) Create(s *model.Segment) error {
    s.CreatedAt = time.Now()
    if s.Kind == "" {
        s.Kind = model.SegmentManual
    }
    query := `
        INSERT INTO segments (name, kind, filter, created_at)
        VALUES ($1, $2, NULLIF($3, ''), $4)
        RETURNING id
    `
    return r.DB.QueryRow(query, s.Name, s.Kind, s.Filter, s.CreatedAt).Scan(&s.ID)
}

func (r *SegmentRepository) GetByID(id int) (*model.Segment, error) {
    query := `
        SELECT s.id, s.name, s.kind, COALESCE(s.filter, ''),
               (SELECT COUNT(*) FROM segment_members m WHERE m.segment_id = s.id),
               s.created_at
        FROM segments s WHERE s.id=$1
    `
    var s model.Segment
    err := r.DB.QueryRow(query, id).Scan(&s.ID, &s.Name, &s.Kind, &s.Filter, &s.MemberCount, &s.CreatedAt)
    if err == sql.ErrNoRows {
        return nil, nil
    }
    if err != nil {
        return nil, err
    }
    return &s, nil
}

func (r *SegmentRepository) List() ([]*model.Segment, error) {
    query := `
        SELECT s.id, s.name, s.kind, COALESCE(s.filter, ''),
               (SELECT COUNT(*) FROM segment_members m WHERE m.segment_id = s.id),
               s.created_at
        FROM segments s ORDER BY s.id DESC
    `
    rows, err := r.DB.Query(query)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    segments := []*model.Segment{}
    for rows.Next() {
        var s model.Segment
        if err := rows.Scan(&s.ID, &s.Name, &s.Kind, &s.Filter, &s.MemberCount, &s.CreatedAt); err != nil {
            return nil, err
        }
        segments = append(segments, &s)
    }
    return segments, rows.Err()
}

func (r *SegmentRepository) Delete(id int) error {
    if _, err := r.DB.Exec(`DELETE FROM segment_members WHERE segment_id=$1`, id); err != nil {
        return err
    }
    _, err := r.DB.Exec(`DELETE FROM segments WHERE id=$1`, id)
    return err
}

func (r *SegmentRepository) AddMembers(segmentID int, contactIDs []int) error {
    query := `
        INSERT INTO segment_members (segment_id, contact_id)
        VALUES ($1, $2)
        ON CONFLICT (segment_id, contact_id) DO NOTHING
    `
    for _, contactID := range contactIDs {
        if _, err := r.DB.Exec(query, segmentID, contactID); err != nil {
            return err
        }
    }
    return nil
}

func (r *SegmentRepository) MaterializeFilter(segmentID int) (int, error) {
    var count int
    err := r.DB.QueryRow(`SELECT evaluate_segment_filter($1)`, segmentID).Scan(&count)
    return count, err
}

var _ SegmentRepositoryInterface = (*SegmentRepository)(nil)
