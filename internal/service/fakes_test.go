package service

import (
	"context"
	"fmt"
	"time"

	appErrors "github.com/franquimap/crm-backend/internal/errors"
	"github.com/franquimap/crm-backend/internal/model"
	"github.com/franquimap/crm-backend/internal/provider"
	"github.com/franquimap/crm-backend/internal/queue"
)

// In-memory fakes mirroring the repository contracts, shared by the service
// tests in this package.

type fakeContactRepo struct {
	contacts []*model.Contact
	nextID   int
}

func (f *fakeContactRepo) idSeq() int {
	f.nextID++
	return f.nextID
}

func (f *fakeContactRepo) GetByID(id int) (*model.Contact, error) {
	for _, c := range f.contacts {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeContactRepo) List(offset, limit int, status string) ([]*model.Contact, int, error) {
	return f.contacts, len(f.contacts), nil
}

func (f *fakeContactRepo) Create(c *model.Contact) error {
	c.ID = f.idSeq()
	c.CreatedAt = time.Now()
	f.contacts = append(f.contacts, c)
	return nil
}

func (f *fakeContactRepo) Update(c *model.Contact) error { return nil }
func (f *fakeContactRepo) Delete(id int) error           { return nil }

func (f *fakeContactRepo) FindOrCreateByEmail(orgID, email, name string) (*model.Contact, error) {
	for _, c := range f.contacts {
		if c.Email == email {
			return c, nil
		}
	}
	c := &model.Contact{ID: f.idSeq(), OrganizationID: orgID, Name: name, Email: email, Source: "inbound_email", Status: "nuevo", CreatedAt: time.Now()}
	f.contacts = append(f.contacts, c)
	return c, nil
}

func (f *fakeContactRepo) FindOrCreateByPhone(orgID, phone, name string) (*model.Contact, error) {
	for _, c := range f.contacts {
		if c.Phone == phone {
			return c, nil
		}
	}
	c := &model.Contact{ID: f.idSeq(), OrganizationID: orgID, Name: name, Phone: phone, Source: "inbound_whatsapp", Status: "nuevo", CreatedAt: time.Now()}
	f.contacts = append(f.contacts, c)
	return c, nil
}

func (f *fakeContactRepo) BumpLeadScore(id, delta int) error {
	for _, c := range f.contacts {
		if c.ID == id {
			c.LeadScore += delta
		}
	}
	return nil
}

func (f *fakeContactRepo) ListEmailable() ([]*model.Contact, error) {
	out := []*model.Contact{}
	for _, c := range f.contacts {
		if c.Email != "" {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeContactRepo) ListEmailableBySegment(segmentID int) ([]*model.Contact, error) {
	return f.ListEmailable()
}

type fakeThreadRepo struct {
	threads []*model.Thread
	nextID  int
}

func (f *fakeThreadRepo) GetByID(id int) (*model.Thread, error) {
	for _, t := range f.threads {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (f *fakeThreadRepo) List(offset, limit int, channel string) ([]*model.Thread, int, error) {
	return f.threads, len(f.threads), nil
}

func (f *fakeThreadRepo) ResolveOpen(contactID int, channel, subject string) (*model.Thread, error) {
	for _, t := range f.threads {
		if t.ContactID == contactID && t.Channel == channel && t.Status == model.ThreadOpen {
			return t, nil
		}
	}
	f.nextID++
	t := &model.Thread{ID: f.nextID, ContactID: contactID, Channel: channel, Subject: subject, Status: model.ThreadOpen, CreatedAt: time.Now()}
	f.threads = append(f.threads, t)
	return t, nil
}

func (f *fakeThreadRepo) RecordMessage(threadID, unreadDelta int) error {
	for _, t := range f.threads {
		if t.ID == threadID {
			t.MessageCount++
			t.UnreadCount += unreadDelta
			now := time.Now()
			t.LastMessageAt = &now
			return nil
		}
	}
	return fmt.Errorf("thread %d not found", threadID)
}

func (f *fakeThreadRepo) MarkRead(threadID int) error {
	for _, t := range f.threads {
		if t.ID == threadID {
			t.UnreadCount = 0
			return nil
		}
	}
	return appErrors.NewThreadNotFound(threadID)
}

func (f *fakeThreadRepo) Close(threadID int) error {
	for _, t := range f.threads {
		if t.ID == threadID {
			t.Status = model.ThreadClosed
			return nil
		}
	}
	return appErrors.NewThreadNotFound(threadID)
}

type fakeMessageRepo struct {
	messages   []*model.Message
	events     []*model.TrackingEvent
	nextID     int
	failOpen   bool
	failCreate bool
}

func (f *fakeMessageRepo) Create(m *model.Message) error {
	if f.failCreate {
		return fmt.Errorf("backend unavailable")
	}
	f.nextID++
	m.ID = f.nextID
	m.CreatedAt = time.Now()
	f.messages = append(f.messages, m)
	return nil
}

func (f *fakeMessageRepo) GetByID(id int) (*model.Message, error) {
	for _, m := range f.messages {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeMessageRepo) GetByTrackingToken(token string) (*model.Message, error) {
	for _, m := range f.messages {
		if m.TrackingToken == token {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeMessageRepo) ListByThread(threadID int) ([]*model.Message, error) {
	out := []*model.Message{}
	for _, m := range f.messages {
		if m.ThreadID == threadID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) RecordOpen(token string) (int, error) {
	if f.failOpen {
		return 0, fmt.Errorf("backend unavailable")
	}
	for _, m := range f.messages {
		if m.TrackingToken == token {
			m.OpenCount++
			if m.FirstOpenedAt == nil {
				now := time.Now()
				m.FirstOpenedAt = &now
			}
			return m.ID, nil
		}
	}
	return 0, fmt.Errorf("no message for token %s", token)
}

func (f *fakeMessageRepo) RecordClick(token string) (int, error) {
	for _, m := range f.messages {
		if m.TrackingToken == token {
			m.ClickCount++
			if m.FirstClickedAt == nil {
				now := time.Now()
				m.FirstClickedAt = &now
			}
			return m.ID, nil
		}
	}
	return 0, fmt.Errorf("no message for token %s", token)
}

func (f *fakeMessageRepo) InsertTrackingEvent(ev *model.TrackingEvent) error {
	ev.ID = len(f.events) + 1
	ev.CreatedAt = time.Now()
	f.events = append(f.events, ev)
	return nil
}

type fakeDedup struct {
	seen map[string]bool
}

func newFakeDedup() *fakeDedup { return &fakeDedup{seen: map[string]bool{}} }

func (f *fakeDedup) Seen(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	if f.seen[id] {
		return true, nil
	}
	f.seen[id] = true
	return false, nil
}

func (f *fakeDedup) Forget(ctx context.Context, id string) error {
	delete(f.seen, id)
	return nil
}

type fakePublisher struct {
	events []queue.Event
}

func (f *fakePublisher) Publish(ev queue.Event) error {
	f.events = append(f.events, ev)
	return nil
}

type fakeMailer struct {
	sent      []provider.OutboundEmail
	batches   [][]provider.OutboundEmail
	failBatch bool
	failSend  bool
}

func (f *fakeMailer) Send(msg provider.OutboundEmail) (string, error) {
	if f.failSend {
		return "", fmt.Errorf("provider rejected message")
	}
	f.sent = append(f.sent, msg)
	return fmt.Sprintf("prov-%d", len(f.sent)), nil
}

func (f *fakeMailer) SendBatch(msgs []provider.OutboundEmail) error {
	if f.failBatch {
		return fmt.Errorf("provider batch failure")
	}
	f.batches = append(f.batches, msgs)
	return nil
}

type fakeWhatsApp struct {
	sent []string
}

func (f *fakeWhatsApp) SendText(toPhone, body string) (string, error) {
	f.sent = append(f.sent, toPhone+": "+body)
	return fmt.Sprintf("wamid-%d", len(f.sent)), nil
}
