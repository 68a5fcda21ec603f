// internal/service/tracking_service.go
package service

import (
    "github.com/franquimap/crm-backend/internal/model"
    "github.com/franquimap/crm-backend/internal/repository"
)

// TrackingService records engagement hits. Both entry points log a discrete
// event row and bump the aggregate counter with one atomic UPDATE; mail-client
// prefetch duplicates still count, only the first-seen timestamp is sticky.
type TrackingService struct {
    MessageRepo repository.MessageRepositoryInterface
}

func (s *TrackingService) RecordOpen(token, ip, userAgent string) error {
    messageID, err := s.MessageRepo.RecordOpen(token)
    if err != nil {
        return err
    }
    return s.MessageRepo.InsertTrackingEvent(&model.TrackingEvent{
        MessageID: messageID,
        EventType: model.EventOpen,
        IPAddress: ip,
        UserAgent: userAgent,
    })
}

func (s *TrackingService) RecordClick(token, targetURL, ip, userAgent string) error {
    messageID, err := s.MessageRepo.RecordClick(token)
    if err != nil {
        return err
    }
    return s.MessageRepo.InsertTrackingEvent(&model.TrackingEvent{
        MessageID: messageID,
        EventType: model.EventClick,
        URL:       targetURL,
        IPAddress: ip,
        UserAgent: userAgent,
    })
}
