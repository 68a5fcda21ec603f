// internal/service/inbound_service.go
package service

import (
    "context"
    "fmt"
    "log"

    "github.com/franquimap/crm-backend/internal/cache"
    "github.com/franquimap/crm-backend/internal/model"
    "github.com/franquimap/crm-backend/internal/queue"
    "github.com/franquimap/crm-backend/internal/repository"
)

// InboundService consolidates inbound webhook payloads into the contact /
// thread / message model: resolve the contact, resolve the open thread,
// append the message, bump the thread counters, then fire the automation
// event. Each step is a single statement against the backend, so concurrent
// deliveries for the same sender converge on one contact and one thread.
type InboundService struct {
    ContactRepo repository.ContactRepositoryInterface
    ThreadRepo  repository.ThreadRepositoryInterface
    MessageRepo repository.MessageRepositoryInterface
    Dedup       cache.DedupStore
    Queue       queue.Publisher
    OrgID       string
}

type InboundEmail struct {
    From              string
    FromName          string
    To                string
    Subject           string
    HTML              string
    Text              string
    ProviderMessageID string
    InReplyTo         string
}

type InboundWhatsApp struct {
    FromPhone         string
    FromName          string
    Body              string
    ProviderMessageID string
}

// RecordInboundEmail returns the stored message, or (nil, nil) when the
// webhook is a redelivery of an already-seen provider message id.
func (s *InboundService) RecordInboundEmail(ctx context.Context, in InboundEmail) (*model.Message, error) {
    seen, err := s.Dedup.Seen(ctx, in.ProviderMessageID)
    if err != nil {
        // dedup is best-effort: a cache outage must not drop mail
        log.Println("⚠️ dedup check failed, processing anyway:", err)
    } else if seen {
        log.Println("duplicate inbound email ignored:", in.ProviderMessageID)
        return nil, nil
    }
    // If any step below fails the webhook returns non-2xx and the platform
    // redelivers, so the mark has to go or the retry would be dropped as a
    // duplicate.
    marked := err == nil

    name := in.FromName
    if name == "" {
        name = in.From
    }

    contact, err := s.ContactRepo.FindOrCreateByEmail(s.OrgID, in.From, name)
    if err != nil {
        s.releaseDedup(ctx, marked, in.ProviderMessageID)
        return nil, fmt.Errorf("failed to resolve contact: %w", err)
    }

    thread, err := s.ThreadRepo.ResolveOpen(contact.ID, model.ChannelEmail, in.Subject)
    if err != nil {
        s.releaseDedup(ctx, marked, in.ProviderMessageID)
        return nil, fmt.Errorf("failed to resolve thread: %w", err)
    }

    msg := &model.Message{
        ThreadID:          thread.ID,
        Direction:         model.DirectionInbound,
        FromAddress:       in.From,
        ToAddress:         in.To,
        Subject:           in.Subject,
        BodyHTML:          in.HTML,
        BodyText:          in.Text,
        ProviderMessageID: in.ProviderMessageID,
    }
    if err := s.MessageRepo.Create(msg); err != nil {
        s.releaseDedup(ctx, marked, in.ProviderMessageID)
        return nil, fmt.Errorf("failed to record message: %w", err)
    }

    if err := s.ThreadRepo.RecordMessage(thread.ID, 1); err != nil {
        s.releaseDedup(ctx, marked, in.ProviderMessageID)
        return nil, fmt.Errorf("failed to update thread counters: %w", err)
    }

    s.publishReceived(model.ChannelEmail, contact.ID, thread.ID, msg.ID)
    return msg, nil
}

func (s *InboundService) RecordInboundWhatsApp(ctx context.Context, in InboundWhatsApp) (*model.Message, error) {
    seen, err := s.Dedup.Seen(ctx, in.ProviderMessageID)
    if err != nil {
        log.Println("⚠️ dedup check failed, processing anyway:", err)
    } else if seen {
        log.Println("duplicate inbound whatsapp message ignored:", in.ProviderMessageID)
        return nil, nil
    }
    marked := err == nil

    name := in.FromName
    if name == "" {
        name = in.FromPhone
    }

    contact, err := s.ContactRepo.FindOrCreateByPhone(s.OrgID, in.FromPhone, name)
    if err != nil {
        s.releaseDedup(ctx, marked, in.ProviderMessageID)
        return nil, fmt.Errorf("failed to resolve contact: %w", err)
    }

    thread, err := s.ThreadRepo.ResolveOpen(contact.ID, model.ChannelWhatsApp, "")
    if err != nil {
        s.releaseDedup(ctx, marked, in.ProviderMessageID)
        return nil, fmt.Errorf("failed to resolve conversation: %w", err)
    }

    msg := &model.Message{
        ThreadID:          thread.ID,
        Direction:         model.DirectionInbound,
        FromAddress:       in.FromPhone,
        ToAddress:         "",
        BodyText:          in.Body,
        ProviderMessageID: in.ProviderMessageID,
    }
    if err := s.MessageRepo.Create(msg); err != nil {
        s.releaseDedup(ctx, marked, in.ProviderMessageID)
        return nil, fmt.Errorf("failed to record message: %w", err)
    }

    if err := s.ThreadRepo.RecordMessage(thread.ID, 1); err != nil {
        s.releaseDedup(ctx, marked, in.ProviderMessageID)
        return nil, fmt.Errorf("failed to update conversation counters: %w", err)
    }

    s.publishReceived(model.ChannelWhatsApp, contact.ID, thread.ID, msg.ID)
    return msg, nil
}

// releaseDedup drops the dedup mark after a pipeline failure so the
// platform's redelivery is processed instead of discarded.
func (s *InboundService) releaseDedup(ctx context.Context, marked bool, providerMessageID string) {
    if !marked {
        return
    }
    if err := s.Dedup.Forget(ctx, providerMessageID); err != nil {
        log.Println("⚠️ failed to release dedup mark for", providerMessageID, ":", err)
    }
}

// publishReceived is fire-and-forget: an automation outage never fails the
// webhook response.
func (s *InboundService) publishReceived(channel string, contactID, threadID, messageID int) {
    if s.Queue == nil {
        return
    }
    err := s.Queue.Publish(queue.Event{
        Type:      "message.received",
        Channel:   channel,
        ContactID: contactID,
        ThreadID:  threadID,
        MessageID: messageID,
    })
    if err != nil {
        log.Println("⚠️ failed to publish automation event:", err)
    }
}
