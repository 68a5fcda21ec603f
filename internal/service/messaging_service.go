// internal/service/messaging_service.go
package service

import (
    "fmt"

    "github.com/google/uuid"

    appErrors "github.com/franquimap/crm-backend/internal/errors"
    "github.com/franquimap/crm-backend/internal/model"
    "github.com/franquimap/crm-backend/internal/provider"
    "github.com/franquimap/crm-backend/internal/repository"
)

// MessagingService handles outbound replies from the inbox: record the
// message first, hand the content to the delivery provider, then bump the
// thread counters.
type MessagingService struct {
    ContactRepo repository.ContactRepositoryInterface
    ThreadRepo  repository.ThreadRepositoryInterface
    MessageRepo repository.MessageRepositoryInterface
    Mailer      provider.Mailer
    WhatsApp    provider.WhatsAppSender

    FromAddress     string
    TrackingBaseURL string
}

func (s *MessagingService) Reply(threadID int, subject, body string) (*model.Message, error) {
    if body == "" {
        return nil, appErrors.NewValidation("message body is required")
    }

    thread, err := s.ThreadRepo.GetByID(threadID)
    if err != nil {
        return nil, err
    }
    if thread == nil {
        return nil, appErrors.NewThreadNotFound(threadID)
    }

    contact, err := s.ContactRepo.GetByID(thread.ContactID)
    if err != nil {
        return nil, err
    }
    if contact == nil {
        return nil, appErrors.NewContactNotFound(thread.ContactID)
    }

    switch thread.Channel {
    case model.ChannelEmail:
        return s.replyEmail(thread, contact, subject, body)
    case model.ChannelWhatsApp:
        return s.replyWhatsApp(thread, contact, body)
    default:
        return nil, fmt.Errorf("unknown thread channel %q", thread.Channel)
    }
}

func (s *MessagingService) replyEmail(thread *model.Thread, contact *model.Contact, subject, body string) (*model.Message, error) {
    if contact.Email == "" {
        return nil, appErrors.NewValidation("contact has no email address")
    }
    if subject == "" {
        subject = thread.Subject
    }

    token := uuid.NewString()
    tracked := RewriteForTracking(body, token, s.TrackingBaseURL)

    msg := &model.Message{
        ThreadID:      thread.ID,
        Direction:     model.DirectionOutbound,
        FromAddress:   s.FromAddress,
        ToAddress:     contact.Email,
        Subject:       subject,
        BodyHTML:      tracked,
        TrackingToken: token,
        Read:          true,
    }
    if err := s.MessageRepo.Create(msg); err != nil {
        return nil, fmt.Errorf("failed to record outbound message: %w", err)
    }

    providerID, err := s.Mailer.Send(provider.OutboundEmail{
        From:    s.FromAddress,
        To:      contact.Email,
        Subject: subject,
        HTML:    tracked,
    })
    if err != nil {
        return nil, fmt.Errorf("delivery provider rejected message: %w", err)
    }
    msg.ProviderMessageID = providerID

    if err := s.ThreadRepo.RecordMessage(thread.ID, 0); err != nil {
        return nil, fmt.Errorf("failed to update thread counters: %w", err)
    }
    return msg, nil
}

func (s *MessagingService) replyWhatsApp(thread *model.Thread, contact *model.Contact, body string) (*model.Message, error) {
    if contact.Phone == "" {
        return nil, appErrors.NewValidation("contact has no phone number")
    }

    msg := &model.Message{
        ThreadID:    thread.ID,
        Direction:   model.DirectionOutbound,
        FromAddress: "",
        ToAddress:   contact.Phone,
        BodyText:    body,
        Read:        true,
    }
    if err := s.MessageRepo.Create(msg); err != nil {
        return nil, fmt.Errorf("failed to record outbound message: %w", err)
    }

    providerID, err := s.WhatsApp.SendText(contact.Phone, body)
    if err != nil {
        return nil, fmt.Errorf("messaging platform rejected message: %w", err)
    }
    msg.ProviderMessageID = providerID

    if err := s.ThreadRepo.RecordMessage(thread.ID, 0); err != nil {
        return nil, fmt.Errorf("failed to update conversation counters: %w", err)
    }
    return msg, nil
}

func (s *MessagingService) MarkThreadRead(threadID int) error {
    return s.ThreadRepo.MarkRead(threadID)
}
