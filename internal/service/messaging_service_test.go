package service

import (
	"errors"
	"strings"
	"testing"

	appErrors "github.com/franquimap/crm-backend/internal/errors"
	"github.com/franquimap/crm-backend/internal/model"
)

func newMessagingService() (*MessagingService, *fakeContactRepo, *fakeThreadRepo, *fakeMessageRepo, *fakeMailer, *fakeWhatsApp) {
	contacts := &fakeContactRepo{}
	threads := &fakeThreadRepo{}
	messages := &fakeMessageRepo{}
	mailer := &fakeMailer{}
	whatsapp := &fakeWhatsApp{}

	svc := &MessagingService{
		ContactRepo:     contacts,
		ThreadRepo:      threads,
		MessageRepo:     messages,
		Mailer:          mailer,
		WhatsApp:        whatsapp,
		FromAddress:     "info@franquimap.com",
		TrackingBaseURL: "https://crm.example.com",
	}
	return svc, contacts, threads, messages, mailer, whatsapp
}

func TestReplyEmailRecordsTrackedMessage(t *testing.T) {
	svc, contacts, threads, messages, mailer, _ := newMessagingService()

	contacts.Create(&model.Contact{Name: "Ana Gómez", Email: "ana@example.com"})
	threads.ResolveOpen(1, model.ChannelEmail, "Consulta")

	msg, err := svc.Reply(1, "", `<p>Gracias, <a href="https://franquimap.com/zonas">mira las zonas</a></p>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if msg.Direction != model.DirectionOutbound || msg.ToAddress != "ana@example.com" {
		t.Errorf("unexpected message: %+v", msg)
	}
	if msg.Subject != "Consulta" {
		t.Errorf("expected the thread subject reused, got %q", msg.Subject)
	}
	if msg.TrackingToken == "" {
		t.Error("expected a tracking token")
	}
	if !strings.Contains(msg.BodyHTML, "/t/open/"+msg.TrackingToken) {
		t.Error("expected an open pixel in the stored body")
	}
	if !strings.Contains(msg.BodyHTML, "/t/click/"+msg.TrackingToken) {
		t.Error("expected rewritten links in the stored body")
	}
	if msg.ProviderMessageID == "" {
		t.Error("expected the provider id recorded on the message")
	}

	if len(mailer.sent) != 1 || mailer.sent[0].To != "ana@example.com" {
		t.Errorf("unexpected outbound mail: %+v", mailer.sent)
	}
	if threads.threads[0].MessageCount != 1 || threads.threads[0].UnreadCount != 0 {
		t.Errorf("an outbound reply must not bump unread: %+v", threads.threads[0])
	}
	if len(messages.messages) != 1 {
		t.Errorf("expected one stored message, got %d", len(messages.messages))
	}
}

func TestReplyWhatsAppSendsText(t *testing.T) {
	svc, contacts, threads, _, _, whatsapp := newMessagingService()

	contacts.Create(&model.Contact{Name: "Ana Gómez", Phone: "34600111222"})
	threads.ResolveOpen(1, model.ChannelWhatsApp, "")

	msg, err := svc.Reply(1, "", "Hola Ana, gracias por escribir")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if msg.ToAddress != "34600111222" || msg.BodyText != "Hola Ana, gracias por escribir" {
		t.Errorf("unexpected message: %+v", msg)
	}
	if len(whatsapp.sent) != 1 {
		t.Errorf("expected one platform send, got %d", len(whatsapp.sent))
	}
	if msg.ProviderMessageID != "wamid-1" {
		t.Errorf("expected the platform id recorded, got %q", msg.ProviderMessageID)
	}
}

func TestReplyEmptyBodyIsRejected(t *testing.T) {
	svc, _, _, _, _, _ := newMessagingService()

	if _, err := svc.Reply(1, "s", ""); err == nil {
		t.Error("expected a validation error")
	}
}

func TestReplyUnknownThreadIsNotFound(t *testing.T) {
	svc, _, _, _, _, _ := newMessagingService()

	_, err := svc.Reply(99, "", "<p>hola</p>")
	var notFound *appErrors.ErrThreadNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected a thread not-found error, got %v", err)
	}
}

func TestMarkThreadReadUnknownThreadIsNotFound(t *testing.T) {
	svc, _, _, _, _, _ := newMessagingService()

	err := svc.MarkThreadRead(99)
	var notFound *appErrors.ErrThreadNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected a thread not-found error, got %v", err)
	}
}

func TestReplyProviderFailureSurfaces(t *testing.T) {
	svc, contacts, threads, _, mailer, _ := newMessagingService()
	mailer.failSend = true

	contacts.Create(&model.Contact{Name: "Ana Gómez", Email: "ana@example.com"})
	threads.ResolveOpen(1, model.ChannelEmail, "Consulta")

	if _, err := svc.Reply(1, "", "<p>hola</p>"); err == nil {
		t.Fatal("expected an error when the provider rejects")
	}
	if threads.threads[0].MessageCount != 0 {
		t.Errorf("counters must not move on a failed send: %+v", threads.threads[0])
	}
}

func TestMarkThreadReadClearsUnread(t *testing.T) {
	svc, _, threads, _, _, _ := newMessagingService()
	threads.ResolveOpen(1, model.ChannelEmail, "Consulta")
	threads.RecordMessage(1, 1)

	if err := svc.MarkThreadRead(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if threads.threads[0].UnreadCount != 0 {
		t.Errorf("expected unread cleared, got %d", threads.threads[0].UnreadCount)
	}
}
