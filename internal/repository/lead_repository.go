package repository

import "database/sql"

// LeadIntakeResult holds the ids created by the process_web_lead stored
// procedure: a contact, an opportunity and a follow-up task.
type LeadIntakeResult struct {
    ContactID     int `json:"contact_id"`
    OpportunityID int `json:"opportunity_id"`
    TaskID        int `json:"task_id"`
}

type LeadRepositoryInterface interface {
    ProcessWebLead(orgID, name, email, company, phone, message string) (*LeadIntakeResult, error)
}

type LeadRepository struct {
    DB *sql.DB
}

func (r *LeadRepository) ProcessWebLead(orgID, name, email, company, phone, message string) (*LeadIntakeResult, error) {
    query := `
        SELECT contact_id, opportunity_id, task_id
        FROM process_web_lead($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''))
    `
    var res LeadIntakeResult
    err := r.DB.QueryRow(query, orgID, name, email, company, phone, message).Scan(&res.ContactID, &res.OpportunityID, &res.TaskID)
    if err != nil {
        return nil, err
    }
    return &res, nil
}

var _ LeadRepositoryInterface = (*LeadRepository)(nil)
