package repository

import (
    "database/sql"
    "fmt"
    "time"

    appErrors "github.com/franquimap/crm-backend/internal/errors"
    "github.com/franquimap/crm-backend/internal/model"
)

type CampaignRepositoryInterface interface {
    Create(c *model.Campaign) error
    GetByID(id int) (*model.Campaign, error)
    List(offset, limit int, status string) ([]*model.Campaign, int, error)

    // Update only touches editable campaigns: the status guard lives in the
    // WHERE clause, so a campaign that is sending or sent rejects the write
    // with no window between check and update.
    Update(c *model.Campaign) error

    Schedule(id int, at time.Time) error

    // ListDue returns scheduled campaigns whose time has elapsed, capped.
    ListDue(limit int) ([]*model.Campaign, error)

    // ClaimForSending is the single-winner transition into the sending
    // status. A second dispatch of the same campaign gets ErrCampaignNotEditable.
    ClaimForSending(id int) (*model.Campaign, error)

    Finish(id int, status string, recipientCount int) error
}

type CampaignRepository struct {
    DB *sql.DB
}

const campaignColumns = `id, name, subject, body_html, segment_id, status, scheduled_at, sent_at, recipient_count, created_at, updated_at`

func scanCampaign(row interface{ Scan(...any) error }) (*model.Campaign, error) {
    var c model.Campaign
    err := row.Scan(&c.ID, &c.Name, &c.Subject, &c.BodyHTML, &c.SegmentID, &c.Status, &c.ScheduledAt, &c.SentAt, &c.RecipientCount, &c.CreatedAt, &c.UpdatedAt)
    if err != nil {
        return nil, err
    }
    return &c, nil
}

func (r *CampaignRepository) Create(c *model.Campaign) error {
    c.CreatedAt = time.Now()
    if c.Status == "" {
        c.Status = model.CampaignDraft
    }
    query := `
        INSERT INTO campaigns (name, subject, body_html, segment_id, status, scheduled_at, recipient_count, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, 0, $7)
        RETURNING id
    `
    return r.DB.QueryRow(query, c.Name, c.Subject, c.BodyHTML, c.SegmentID, c.Status, c.ScheduledAt, c.CreatedAt).Scan(&c.ID)
}

func (r *CampaignRepository) GetByID(id int) (*model.Campaign, error) {
    c, err := scanCampaign(r.DB.QueryRow(`SELECT `+campaignColumns+` FROM campaigns WHERE id=$1`, id))
    if err == sql.ErrNoRows {
        return nil, appErrors.NewCampaignNotFound(id)
    }
    return c, err
}

func (r *CampaignRepository) List(offset, limit int, status string) ([]*model.Campaign, int, error) {
    campaigns := []*model.Campaign{}
    query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE 1=1`
    args := []interface{}{}
    argPos := 1

    if status != "" {
        query += fmt.Sprintf(" AND status=$%d", argPos)
        args = append(args, status)
        argPos++
    }

    query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
    args = append(args, limit, offset)

    rows, err := r.DB.Query(query, args...)
    if err != nil {
        return nil, 0, err
    }
    defer rows.Close()

    for rows.Next() {
        c, err := scanCampaign(rows)
        if err != nil {
            return nil, 0, err
        }
        campaigns = append(campaigns, c)
    }

    countQuery := `SELECT COUNT(*) FROM campaigns WHERE 1=1`
    argsCount := []interface{}{}
    if status != "" {
        countQuery += " AND status=$1"
        argsCount = append(argsCount, status)
    }

    var total int
    if err := r.DB.QueryRow(countQuery, argsCount...).Scan(&total); err != nil {
        return nil, 0, err
    }

    return campaigns, total, nil
}

func (r *CampaignRepository) Update(c *model.Campaign) error {
    query := `
        UPDATE campaigns
        SET name=$1, subject=$2, body_html=$3, segment_id=$4, scheduled_at=$5, updated_at=NOW()
        WHERE id=$6 AND status NOT IN ('sending', 'sent')
    `
    res, err := r.DB.Exec(query, c.Name, c.Subject, c.BodyHTML, c.SegmentID, c.ScheduledAt, c.ID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        existing, err := r.GetByID(c.ID)
        if err != nil {
            return err
        }
        return appErrors.NewCampaignNotEditable(c.ID, existing.Status)
    }
    return nil
}

func (r *CampaignRepository) Schedule(id int, at time.Time) error {
    query := `
        UPDATE campaigns
        SET status='scheduled', scheduled_at=$1, updated_at=NOW()
        WHERE id=$2 AND status IN ('draft', 'scheduled')
    `
    res, err := r.DB.Exec(query, at, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        existing, err := r.GetByID(id)
        if err != nil {
            return err
        }
        return appErrors.NewCampaignNotEditable(id, existing.Status)
    }
    return nil
}

func (r *CampaignRepository) ListDue(limit int) ([]*model.Campaign, error) {
    query := `
        SELECT ` + campaignColumns + `
        FROM campaigns
        WHERE status='scheduled' AND scheduled_at <= NOW()
        ORDER BY scheduled_at
        LIMIT $1
    `
    rows, err := r.DB.Query(query, limit)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    campaigns := []*model.Campaign{}
    for rows.Next() {
        c, err := scanCampaign(rows)
        if err != nil {
            return nil, err
        }
        campaigns = append(campaigns, c)
    }
    return campaigns, rows.Err()
}

func (r *CampaignRepository) ClaimForSending(id int) (*model.Campaign, error) {
    query := `
        UPDATE campaigns
        SET status='sending', updated_at=NOW()
        WHERE id=$1 AND status IN ('draft', 'scheduled')
        RETURNING ` + campaignColumns
    c, err := scanCampaign(r.DB.QueryRow(query, id))
    if err == sql.ErrNoRows {
        existing, getErr := r.GetByID(id)
        if getErr != nil {
            return nil, getErr
        }
        return nil, appErrors.NewCampaignNotEditable(id, existing.Status)
    }
    return c, err
}

func (r *CampaignRepository) Finish(id int, status string, recipientCount int) error {
    query := `
        UPDATE campaigns
        SET status=$1, recipient_count=$2, sent_at=CASE WHEN $1='sent' THEN NOW() ELSE sent_at END, updated_at=NOW()
        WHERE id=$3 AND status='sending'
    `
    _, err := r.DB.Exec(query, status, recipientCount, id)
    return err
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
