// internal/errors/errors.go
package appErrors

import "fmt"

// ErrCampaignNotFound is a sentinel error
type ErrCampaignNotFound struct {
	CampaignID int
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign with ID %d not found", e.CampaignID)
}

func NewCampaignNotFound(id int) error {
	return &ErrCampaignNotFound{CampaignID: id}
}

// ErrCampaignNotEditable is returned when a campaign is in sending or sent
// status and a caller tries to modify or re-dispatch it.
type ErrCampaignNotEditable struct {
	CampaignID int
	Status     string
}

func (e *ErrCampaignNotEditable) Error() string {
	return fmt.Sprintf("campaign %d cannot be modified in status %q", e.CampaignID, e.Status)
}

func NewCampaignNotEditable(id int, status string) error {
	return &ErrCampaignNotEditable{CampaignID: id, Status: status}
}

// ErrThreadNotFound is a sentinel error
type ErrThreadNotFound struct {
	ThreadID int
}

func (e *ErrThreadNotFound) Error() string {
	return fmt.Sprintf("thread with ID %d not found", e.ThreadID)
}

func NewThreadNotFound(id int) error {
	return &ErrThreadNotFound{ThreadID: id}
}

// ErrContactNotFound is a sentinel error
type ErrContactNotFound struct {
	ContactID int
}

func (e *ErrContactNotFound) Error() string {
	return fmt.Sprintf("contact with ID %d not found", e.ContactID)
}

func NewContactNotFound(id int) error {
	return &ErrContactNotFound{ContactID: id}
}

// ErrZoneNotFound is a sentinel error
type ErrZoneNotFound struct {
	ZoneID string
}

func (e *ErrZoneNotFound) Error() string {
	return fmt.Sprintf("zone %q not found", e.ZoneID)
}

func NewZoneNotFound(id string) error {
	return &ErrZoneNotFound{ZoneID: id}
}

// ErrValidation marks a request that failed field validation. The message is
// safe to show to the caller as-is.
type ErrValidation struct {
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Message
}

func NewValidation(msg string) error {
	return &ErrValidation{Message: msg}
}
