package repository

import (
    "database/sql"
    "fmt"
    "time"

    "github.com/franquimap/crm-backend/internal/model"
)

type ContactRepositoryInterface interface {
    GetByID(id int) (*model.Contact, error)
    List(offset, limit int, status string) ([]*model.Contact, int, error)
    Create(c *model.Contact) error
    Update(c *model.Contact) error
    Delete(id int) error

    // FindOrCreateByEmail and FindOrCreateByPhone are upsert-backed: two
    // concurrent calls with the same identifier land on the same row.
    FindOrCreateByEmail(orgID, email, name string) (*model.Contact, error)
    FindOrCreateByPhone(orgID, phone, name string) (*model.Contact, error)

    BumpLeadScore(id, delta int) error

    // Campaign recipient resolution
    ListEmailable() ([]*model.Contact, error)
    ListEmailableBySegment(segmentID int) ([]*model.Contact, error)
}

type ContactRepository struct {
    DB *sql.DB
}

const contactColumns = `id, organization_id, name, COALESCE(email, ''), COALESCE(phone, ''), source, status, lead_score, created_at, updated_at`

func scanContact(row interface{ Scan(...any) error }) (*model.Contact, error) {
    var c model.Contact
    err := row.Scan(&c.ID, &c.OrganizationID, &c.Name, &c.Email, &c.Phone, &c.Source, &c.Status, &c.LeadScore, &c.CreatedAt, &c.UpdatedAt)
    if err != nil {
        return nil, err
    }
    return &c, nil
}

func (r *ContactRepository) GetByID(id int) (*model.Contact, error) {
    query := `SELECT ` + contactColumns + ` FROM contacts WHERE id=$1`
    c, err := scanContact(r.DB.QueryRow(query, id))
    if err == sql.ErrNoRows {
        return nil, nil
    }
    return c, err
}

func (r *ContactRepository) List(offset, limit int, status string) ([]*model.Contact, int, error) {
    contacts := []*model.Contact{}
    query := `SELECT ` + contactColumns + ` FROM contacts WHERE 1=1`
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
        c, err := scanContact(rows)
        if err != nil {
            return nil, 0, err
        }
        contacts = append(contacts, c)
    }

    countQuery := `SELECT COUNT(*) FROM contacts WHERE 1=1`
    argsCount := []interface{}{}
    if status != "" {
        countQuery += " AND status=$1"
        argsCount = append(argsCount, status)
    }

    var total int
    if err := r.DB.QueryRow(countQuery, argsCount...).Scan(&total); err != nil {
        return nil, 0, err
    }

    return contacts, total, nil
}

func (r *ContactRepository) Create(c *model.Contact) error {
    c.CreatedAt = time.Now()
    if c.Status == "" {
        c.Status = "nuevo"
    }
    query := `
        INSERT INTO contacts (organization_id, name, email, phone, source, status, lead_score, created_at)
        VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, $8)
        RETURNING id
    `
    return r.DB.QueryRow(query, c.OrganizationID, c.Name, c.Email, c.Phone, c.Source, c.Status, c.LeadScore, c.CreatedAt).Scan(&c.ID)
}

func (r *ContactRepository) Update(c *model.Contact) error {
    query := `
        UPDATE contacts
        SET name=$1, email=NULLIF($2, ''), phone=NULLIF($3, ''), source=$4, status=$5, lead_score=$6, updated_at=NOW()
        WHERE id=$7
    `
    _, err := r.DB.Exec(query, c.Name, c.Email, c.Phone, c.Source, c.Status, c.LeadScore, c.ID)
    return err
}

func (r *ContactRepository) Delete(id int) error {
    _, err := r.DB.Exec(`DELETE FROM contacts WHERE id=$1`, id)
    return err
}

// FindOrCreateByEmail inserts a minimal contact for an unknown email address.
// The ON CONFLICT clause makes the find-or-create a single statement, so a
// second request with the same email reuses the row instead of duplicating it.
func (r *ContactRepository) FindOrCreateByEmail(orgID, email, name string) (*model.Contact, error) {
    query := `
        INSERT INTO contacts (organization_id, name, email, source, status, lead_score, created_at)
        VALUES ($1, $2, $3, 'inbound_email', 'nuevo', 0, NOW())
        ON CONFLICT (email) WHERE email IS NOT NULL DO UPDATE SET email = EXCLUDED.email
        RETURNING ` + contactColumns
    return scanContact(r.DB.QueryRow(query, orgID, name, email))
}

func (r *ContactRepository) FindOrCreateByPhone(orgID, phone, name string) (*model.Contact, error) {
    query := `
        INSERT INTO contacts (organization_id, name, phone, source, status, lead_score, created_at)
        VALUES ($1, $2, $3, 'inbound_whatsapp', 'nuevo', 0, NOW())
        ON CONFLICT (phone) WHERE phone IS NOT NULL DO UPDATE SET phone = EXCLUDED.phone
        RETURNING ` + contactColumns
    return scanContact(r.DB.QueryRow(query, orgID, name, phone))
}

// BumpLeadScore is a single atomic increment, no read-modify-write.
func (r *ContactRepository) BumpLeadScore(id, delta int) error {
    _, err := r.DB.Exec(`UPDATE contacts SET lead_score = lead_score + $1, updated_at=NOW() WHERE id=$2`, delta, id)
    return err
}

func (r *ContactRepository) ListEmailable() ([]*model.Contact, error) {
    query := `SELECT ` + contactColumns + ` FROM contacts WHERE email IS NOT NULL AND email <> '' ORDER BY id`
    return r.queryContacts(query)
}

func (r *ContactRepository) ListEmailableBySegment(segmentID int) ([]*model.Contact, error) {
    query := `
        SELECT ` + contactColumns + `
        FROM contacts
        WHERE email IS NOT NULL AND email <> ''
          AND id IN (SELECT contact_id FROM segment_members WHERE segment_id=$1)
        ORDER BY id
    `
    return r.queryContacts(query, segmentID)
}

func (r *ContactRepository) queryContacts(query string, args ...interface{}) ([]*model.Contact, error) {
    rows, err := r.DB.Query(query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    contacts := []*model.Contact{}
    for rows.Next() {
        c, err := scanContact(rows)
        if err != nil {
            return nil, err
        }
        contacts = append(contacts, c)
    }
    return contacts, rows.Err()
}

var _ ContactRepositoryInterface = (*ContactRepository)(nil)
