// internal/service/campaign_service.go
package service

import (
    "fmt"
    "log"
    "time"

    "github.com/google/uuid"

    appErrors "github.com/franquimap/crm-backend/internal/errors"
    "github.com/franquimap/crm-backend/internal/model"
    "github.com/franquimap/crm-backend/internal/provider"
    "github.com/franquimap/crm-backend/internal/repository"
)

type CampaignService struct {
    CampaignRepo repository.CampaignRepositoryInterface
    ContactRepo  repository.ContactRepositoryInterface
    ThreadRepo   repository.ThreadRepositoryInterface
    MessageRepo  repository.MessageRepositoryInterface
    Mailer       provider.Mailer

    FromAddress     string
    TrackingBaseURL string
}

// DueBatchLimit caps how many due campaigns one dispatch poll picks up.
const DueBatchLimit = 5

type SendCampaignResult struct {
    CampaignID int    `json:"campaign_id"`
    Recipients int    `json:"recipients"`
    Status     string `json:"status"`
}

func (s *CampaignService) CreateCampaign(name, subject, bodyHTML string, segmentID *int, scheduledAt *string) (*model.Campaign, error) {
    if name == "" || subject == "" || bodyHTML == "" {
        return nil, appErrors.NewValidation("name, subject and body_html are required")
    }

    c := &model.Campaign{
        Name:      name,
        Subject:   subject,
        BodyHTML:  bodyHTML,
        SegmentID: segmentID,
        Status:    model.CampaignDraft,
    }

    if scheduledAt != nil && *scheduledAt != "" {
        t, err := time.Parse(time.RFC3339, *scheduledAt)
        if err != nil {
            return nil, appErrors.NewValidation("scheduled_at must be RFC3339")
        }
        c.ScheduledAt = &t
        c.Status = model.CampaignScheduled
    }

    if err := s.CampaignRepo.Create(c); err != nil {
        return nil, err
    }
    return c, nil
}

func (s *CampaignService) UpdateCampaign(id int, name, subject, bodyHTML string, segmentID *int) (*model.Campaign, error) {
    if name == "" || subject == "" || bodyHTML == "" {
        return nil, appErrors.NewValidation("name, subject and body_html are required")
    }

    c, err := s.CampaignRepo.GetByID(id)
    if err != nil {
        return nil, err
    }

    c.Name = name
    c.Subject = subject
    c.BodyHTML = bodyHTML
    c.SegmentID = segmentID

    // the repository refuses the write once the campaign is sending or sent
    if err := s.CampaignRepo.Update(c); err != nil {
        return nil, err
    }
    return s.CampaignRepo.GetByID(id)
}

func (s *CampaignService) ScheduleCampaign(id int, scheduledAt string) (*model.Campaign, error) {
    t, err := time.Parse(time.RFC3339, scheduledAt)
    if err != nil {
        return nil, appErrors.NewValidation("scheduled_at must be RFC3339")
    }

    if err := s.CampaignRepo.Schedule(id, t); err != nil {
        return nil, err
    }
    return s.CampaignRepo.GetByID(id)
}

func (s *CampaignService) ListCampaigns(page, pageSize int, status string) ([]model.Campaign, map[string]int, error) {
    if page < 1 {
        page = 1
    }
    if pageSize < 1 {
        pageSize = 20
    }
    if pageSize > 100 {
        pageSize = 100
    }
    offset := (page - 1) * pageSize

    ptrs, total, err := s.CampaignRepo.List(offset, pageSize, status)
    if err != nil {
        return nil, nil, err
    }

    campaigns := make([]model.Campaign, len(ptrs))
    for i, c := range ptrs {
        campaigns[i] = *c
    }

    totalPages := (total + pageSize - 1) / pageSize
    pagination := map[string]int{
        "page":        page,
        "page_size":   pageSize,
        "total_count": total,
        "total_pages": totalPages,
    }

    return campaigns, pagination, nil
}

func (s *CampaignService) GetCampaign(id int) (*model.Campaign, error) {
    return s.CampaignRepo.GetByID(id)
}

func (s *CampaignService) ListDue() ([]*model.Campaign, error) {
    return s.CampaignRepo.ListDue(DueBatchLimit)
}

// SendCampaign claims the campaign, resolves the recipient list, records one
// outbound message per recipient, then ships the whole batch through the
// delivery provider. The provider call is all-or-nothing at the campaign
// level: any batch failure marks the campaign failed.
func (s *CampaignService) SendCampaign(id int) (*SendCampaignResult, error) {
    campaign, err := s.CampaignRepo.ClaimForSending(id)
    if err != nil {
        return nil, err
    }

    recipients, err := s.resolveRecipients(campaign)
    if err != nil {
        if ferr := s.CampaignRepo.Finish(id, model.CampaignFailed, 0); ferr != nil {
            log.Println("⚠️ failed to mark campaign failed:", ferr)
        }
        return nil, err
    }
    if len(recipients) == 0 {
        if err := s.CampaignRepo.Finish(id, model.CampaignSent, 0); err != nil {
            return nil, err
        }
        return &SendCampaignResult{CampaignID: id, Recipients: 0, Status: model.CampaignSent}, nil
    }

    batch := make([]provider.OutboundEmail, 0, len(recipients))
    for _, contact := range recipients {
        personalized := RenderTemplate(campaign.BodyHTML, map[string]string{"name": contact.Name})

        thread, err := s.ThreadRepo.ResolveOpen(contact.ID, model.ChannelEmail, campaign.Subject)
        if err != nil {
            log.Println("⚠️ failed to resolve thread for contact", contact.ID, ":", err)
            continue
        }

        token := uuid.NewString()
        tracked := RewriteForTracking(personalized, token, s.TrackingBaseURL)

        msg := &model.Message{
            ThreadID:      thread.ID,
            Direction:     model.DirectionOutbound,
            FromAddress:   s.FromAddress,
            ToAddress:     contact.Email,
            Subject:       campaign.Subject,
            BodyHTML:      tracked,
            TrackingToken: token,
            Read:          true,
        }
        if err := s.MessageRepo.Create(msg); err != nil {
            log.Println("⚠️ failed to record campaign message for contact", contact.ID, ":", err)
            continue
        }
        if err := s.ThreadRepo.RecordMessage(thread.ID, 0); err != nil {
            log.Println("⚠️ failed to update thread counters:", err)
        }

        batch = append(batch, provider.OutboundEmail{
            From:    s.FromAddress,
            To:      contact.Email,
            Subject: campaign.Subject,
            HTML:    tracked,
        })
    }

    if err := s.Mailer.SendBatch(batch); err != nil {
        if ferr := s.CampaignRepo.Finish(id, model.CampaignFailed, len(batch)); ferr != nil {
            log.Println("⚠️ failed to mark campaign failed:", ferr)
        }
        return nil, fmt.Errorf("delivery provider batch send failed: %w", err)
    }

    if err := s.CampaignRepo.Finish(id, model.CampaignSent, len(batch)); err != nil {
        return nil, err
    }

    return &SendCampaignResult{CampaignID: id, Recipients: len(batch), Status: model.CampaignSent}, nil
}

func (s *CampaignService) resolveRecipients(campaign *model.Campaign) ([]*model.Contact, error) {
    if campaign.SegmentID != nil {
        return s.ContactRepo.ListEmailableBySegment(*campaign.SegmentID)
    }
    return s.ContactRepo.ListEmailable()
}
