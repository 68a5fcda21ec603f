package controller

import (
	"context"
	"fmt"
	"time"

	appErrors "github.com/franquimap/crm-backend/internal/errors"
	"github.com/franquimap/crm-backend/internal/model"
	"github.com/franquimap/crm-backend/internal/repository"
)

// Hand-written fakes for the repository interfaces the handlers touch.

type fakeZoneRepo struct {
	zones map[string]*model.Zone
}

var _ repository.ZoneRepositoryInterface = (*fakeZoneRepo)(nil)

func newFakeZoneRepo() *fakeZoneRepo {
	return &fakeZoneRepo{zones: map[string]*model.Zone{}}
}

func (f *fakeZoneRepo) Create(z *model.Zone) error {
	if z.Status == "" {
		z.Status = model.ZoneAvailable
	}
	z.CreatedAt = time.Now()
	f.zones[z.ID] = z
	return nil
}

func (f *fakeZoneRepo) GetByID(id string) (*model.Zone, error) {
	z, ok := f.zones[id]
	if !ok {
		return nil, appErrors.NewZoneNotFound(id)
	}
	return z, nil
}

func (f *fakeZoneRepo) List(status string) ([]*model.Zone, error) {
	out := []*model.Zone{}
	for _, z := range f.zones {
		if status == "" || z.Status == status {
			out = append(out, z)
		}
	}
	return out, nil
}

func (f *fakeZoneRepo) Delete(id string) error {
	if _, ok := f.zones[id]; !ok {
		return appErrors.NewZoneNotFound(id)
	}
	delete(f.zones, id)
	return nil
}

func (f *fakeZoneRepo) Occupy(id, occupantName, occupantEmail string) (*model.Zone, error) {
	z, ok := f.zones[id]
	if !ok {
		return nil, appErrors.NewZoneNotFound(id)
	}
	z.Status = model.ZoneOccupied
	if z.OccupiedSince == nil {
		now := time.Now()
		z.OccupiedSince = &now
	}
	z.OccupantName = occupantName
	z.OccupantEmail = occupantEmail
	return z, nil
}

func (f *fakeZoneRepo) Release(id string) (*model.Zone, error) {
	z, ok := f.zones[id]
	if !ok {
		return nil, appErrors.NewZoneNotFound(id)
	}
	z.Status = model.ZoneAvailable
	z.OccupiedSince = nil
	z.OccupantName = ""
	z.OccupantEmail = ""
	return z, nil
}

func (f *fakeZoneRepo) Rename(id, name string) (*model.Zone, error) {
	z, ok := f.zones[id]
	if !ok {
		return nil, appErrors.NewZoneNotFound(id)
	}
	z.Name = name
	return z, nil
}

type fakeLeadRepo struct {
	received []string
	fail     bool
}

var _ repository.LeadRepositoryInterface = (*fakeLeadRepo)(nil)

func (f *fakeLeadRepo) ProcessWebLead(orgID, name, email, company, phone, message string) (*repository.LeadIntakeResult, error) {
	if f.fail {
		return nil, fmt.Errorf("backend unavailable")
	}
	f.received = append(f.received, email)
	return &repository.LeadIntakeResult{ContactID: 1, OpportunityID: 2, TaskID: 3}, nil
}

type fakeContactRepo struct {
	contacts []*model.Contact
	nextID   int
}

var _ repository.ContactRepositoryInterface = (*fakeContactRepo)(nil)

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
	f.nextID++
	c.ID = f.nextID
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
	c := &model.Contact{OrganizationID: orgID, Email: email, Name: name, Status: "nuevo"}
	return c, f.Create(c)
}

func (f *fakeContactRepo) FindOrCreateByPhone(orgID, phone, name string) (*model.Contact, error) {
	for _, c := range f.contacts {
		if c.Phone == phone {
			return c, nil
		}
	}
	c := &model.Contact{OrganizationID: orgID, Phone: phone, Name: name, Status: "nuevo"}
	return c, f.Create(c)
}

func (f *fakeContactRepo) BumpLeadScore(id, delta int) error { return nil }

func (f *fakeContactRepo) ListEmailable() ([]*model.Contact, error) { return f.contacts, nil }

func (f *fakeContactRepo) ListEmailableBySegment(segmentID int) ([]*model.Contact, error) {
	return f.contacts, nil
}

type fakeThreadRepo struct {
	threads []*model.Thread
	nextID  int
}

var _ repository.ThreadRepositoryInterface = (*fakeThreadRepo)(nil)

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
	t := &model.Thread{
		ID:        f.nextID,
		ContactID: contactID,
		Channel:   channel,
		Subject:   subject,
		Status:    model.ThreadOpen,
		CreatedAt: time.Now(),
	}
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
	return fmt.Errorf("no thread %d", threadID)
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
	messages  []*model.Message
	events    []*model.TrackingEvent
	nextID    int
	failOpen  bool
	failClick bool
}

var _ repository.MessageRepositoryInterface = (*fakeMessageRepo)(nil)

func (f *fakeMessageRepo) Create(m *model.Message) error {
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
	if f.failClick {
		return 0, fmt.Errorf("backend unavailable")
	}
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

func (f *fakeDedup) Seen(ctx context.Context, providerMessageID string) (bool, error) {
	if providerMessageID == "" {
		return false, nil
	}
	if f.seen[providerMessageID] {
		return true, nil
	}
	f.seen[providerMessageID] = true
	return false, nil
}

func (f *fakeDedup) Forget(ctx context.Context, providerMessageID string) error {
	delete(f.seen, providerMessageID)
	return nil
}

type fakeCampaignRepo struct {
	campaigns []*model.Campaign
	nextID    int
}

var _ repository.CampaignRepositoryInterface = (*fakeCampaignRepo)(nil)

func (f *fakeCampaignRepo) Create(c *model.Campaign) error {
	f.nextID++
	c.ID = f.nextID
	c.CreatedAt = time.Now()
	f.campaigns = append(f.campaigns, c)
	return nil
}

func (f *fakeCampaignRepo) find(id int) *model.Campaign {
	for _, c := range f.campaigns {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// GetByID returns a copy, like the real repository scanning a fresh struct
// per row. Callers mutating the result must not reach the stored state.
func (f *fakeCampaignRepo) GetByID(id int) (*model.Campaign, error) {
	stored := f.find(id)
	if stored == nil {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	copied := *stored
	return &copied, nil
}

func (f *fakeCampaignRepo) List(offset, limit int, status string) ([]*model.Campaign, int, error) {
	return f.campaigns, len(f.campaigns), nil
}

func (f *fakeCampaignRepo) Update(c *model.Campaign) error {
	stored := f.find(c.ID)
	if stored == nil {
		return appErrors.NewCampaignNotFound(c.ID)
	}
	if !stored.Editable() {
		return appErrors.NewCampaignNotEditable(c.ID, stored.Status)
	}
	stored.Name = c.Name
	stored.Subject = c.Subject
	stored.BodyHTML = c.BodyHTML
	stored.SegmentID = c.SegmentID
	return nil
}

func (f *fakeCampaignRepo) Schedule(id int, at time.Time) error {
	stored := f.find(id)
	if stored == nil {
		return appErrors.NewCampaignNotFound(id)
	}
	if stored.Status != model.CampaignDraft && stored.Status != model.CampaignScheduled {
		return appErrors.NewCampaignNotEditable(id, stored.Status)
	}
	stored.Status = model.CampaignScheduled
	stored.ScheduledAt = &at
	return nil
}

func (f *fakeCampaignRepo) ListDue(limit int) ([]*model.Campaign, error) {
	out := []*model.Campaign{}
	for _, c := range f.campaigns {
		if c.Status == model.CampaignScheduled && c.ScheduledAt != nil && !c.ScheduledAt.After(time.Now()) {
			out = append(out, c)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeCampaignRepo) ClaimForSending(id int) (*model.Campaign, error) {
	stored := f.find(id)
	if stored == nil {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	if stored.Status != model.CampaignDraft && stored.Status != model.CampaignScheduled {
		return nil, appErrors.NewCampaignNotEditable(id, stored.Status)
	}
	stored.Status = model.CampaignSending
	copied := *stored
	return &copied, nil
}

func (f *fakeCampaignRepo) Finish(id int, status string, recipients int) error {
	stored := f.find(id)
	if stored == nil {
		return appErrors.NewCampaignNotFound(id)
	}
	stored.Status = status
	stored.RecipientCount = recipients
	if status == model.CampaignSent {
		now := time.Now()
		stored.SentAt = &now
	}
	return nil
}
