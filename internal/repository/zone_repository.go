package repository

import (
    "database/sql"
    "time"

    appErrors "github.com/franquimap/crm-backend/internal/errors"
    "github.com/franquimap/crm-backend/internal/model"
)

type ZoneRepositoryInterface interface {
    Create(z *model.Zone) error
    GetByID(id string) (*model.Zone, error)
    List(status string) ([]*model.Zone, error)
    Delete(id string) error

    // Occupy and Release handle the status transitions: moving to occupied
    // stamps occupied_since, moving back to available clears the occupant
    // metadata with it.
    Occupy(id, occupantName, occupantEmail string) (*model.Zone, error)
    Release(id string) (*model.Zone, error)
    Rename(id, name string) (*model.Zone, error)
}

type ZoneRepository struct {
    DB *sql.DB
}

const zoneColumns = `id, name, type, lat, lng, status, occupied_since, COALESCE(occupant_name, ''), COALESCE(occupant_email, ''), created_at`

func scanZone(row interface{ Scan(...any) error }) (*model.Zone, error) {
    var z model.Zone
    err := row.Scan(&z.ID, &z.Name, &z.Type, &z.Lat, &z.Lng, &z.Status, &z.OccupiedSince, &z.OccupantName, &z.OccupantEmail, &z.CreatedAt)
    if err != nil {
        return nil, err
    }
    return &z, nil
}

func (r *ZoneRepository) Create(z *model.Zone) error {
    z.CreatedAt = time.Now()
    if z.Status == "" {
        z.Status = model.ZoneAvailable
    }
    query := `
        INSERT INTO zones (id, name, type, lat, lng, status, occupied_since, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `
    _, err := r.DB.Exec(query, z.ID, z.Name, z.Type, z.Lat, z.Lng, z.Status, z.OccupiedSince, z.CreatedAt)
    return err
}

func (r *ZoneRepository) GetByID(id string) (*model.Zone, error) {
    z, err := scanZone(r.DB.QueryRow(`SELECT `+zoneColumns+` FROM zones WHERE id=$1`, id))
    if err == sql.ErrNoRows {
        return nil, appErrors.NewZoneNotFound(id)
    }
    return z, err
}

func (r *ZoneRepository) List(status string) ([]*model.Zone, error) {
    query := `SELECT ` + zoneColumns + ` FROM zones`
    args := []interface{}{}
    if status != "" {
        query += ` WHERE status=$1`
        args = append(args, status)
    }
    query += ` ORDER BY name`

    rows, err := r.DB.Query(query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    zones := []*model.Zone{}
    for rows.Next() {
        z, err := scanZone(rows)
        if err != nil {
            return nil, err
        }
        zones = append(zones, z)
    }
    return zones, rows.Err()
}

func (r *ZoneRepository) Delete(id string) error {
    res, err := r.DB.Exec(`DELETE FROM zones WHERE id=$1`, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return appErrors.NewZoneNotFound(id)
    }
    return nil
}

func (r *ZoneRepository) Occupy(id, occupantName, occupantEmail string) (*model.Zone, error) {
    query := `
        UPDATE zones
        SET status='occupied',
            occupied_since=COALESCE(occupied_since, NOW()),
            occupant_name=NULLIF($2, ''),
            occupant_email=NULLIF($3, '')
        WHERE id=$1
        RETURNING ` + zoneColumns
    z, err := scanZone(r.DB.QueryRow(query, id, occupantName, occupantEmail))
    if err == sql.ErrNoRows {
        return nil, appErrors.NewZoneNotFound(id)
    }
    return z, err
}

func (r *ZoneRepository) Release(id string) (*model.Zone, error) {
    query := `
        UPDATE zones
        SET status='available', occupied_since=NULL, occupant_name=NULL, occupant_email=NULL
        WHERE id=$1
        RETURNING ` + zoneColumns
    z, err := scanZone(r.DB.QueryRow(query, id))
    if err == sql.ErrNoRows {
        return nil, appErrors.NewZoneNotFound(id)
    }
    return z, err
}

func (r *ZoneRepository) Rename(id, name string) (*model.Zone, error) {
    query := `UPDATE zones SET name=$2 WHERE id=$1 RETURNING ` + zoneColumns
    z, err := scanZone(r.DB.QueryRow(query, id, name))
    if err == sql.ErrNoRows {
        return nil, appErrors.NewZoneNotFound(id)
    }
    return z, err
}

var _ ZoneRepositoryInterface = (*ZoneRepository)(nil)
