// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/franquimap/crm-backend/internal/cache"
	"github.com/franquimap/crm-backend/internal/config"
	"github.com/franquimap/crm-backend/internal/controller"
	"github.com/franquimap/crm-backend/internal/db"
	"github.com/franquimap/crm-backend/internal/middleware"
	"github.com/franquimap/crm-backend/internal/provider"
	"github.com/franquimap/crm-backend/internal/queue"
	"github.com/franquimap/crm-backend/internal/repository"
	"github.com/franquimap/crm-backend/internal/service"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	conn, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}
	log.Println("✅ Connected to database")

	redisClient, err := cache.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("failed to connect to Redis: %v", err)
	}
	log.Println("✅ Connected to Redis")

	events, err := queue.NewAMQPQueue(cfg.AMQPURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer events.Close()
	log.Println("✅ Connected to RabbitMQ")

	// Repositories
	contactRepo := &repository.ContactRepository{DB: conn}
	threadRepo := &repository.ThreadRepository{DB: conn}
	messageRepo := &repository.MessageRepository{DB: conn}
	campaignRepo := &repository.CampaignRepository{DB: conn}
	segmentRepo := &repository.SegmentRepository{DB: conn}
	zoneRepo := &repository.ZoneRepository{DB: conn}
	sessionRepo := &repository.SessionRepository{DB: conn}
	leadRepo := &repository.LeadRepository{DB: conn}

	// Providers
	mailer := provider.NewHTTPMailer(cfg.MailerBaseURL, cfg.MailerAPIKey)
	whatsapp := provider.NewWhatsAppClient(cfg.WhatsAppAPIURL, cfg.WhatsAppAPIToken)

	// Services
	inboundService := &service.InboundService{
		ContactRepo: contactRepo,
		ThreadRepo:  threadRepo,
		MessageRepo: messageRepo,
		Dedup:       cache.NewDedupStore(redisClient),
		Queue:       events,
		OrgID:       cfg.DefaultOrgID,
	}
	messagingService := &service.MessagingService{
		ContactRepo:     contactRepo,
		ThreadRepo:      threadRepo,
		MessageRepo:     messageRepo,
		Mailer:          mailer,
		WhatsApp:        whatsapp,
		FromAddress:     cfg.MailerFrom,
		TrackingBaseURL: cfg.TrackingBaseURL,
	}
	trackingService := &service.TrackingService{MessageRepo: messageRepo}
	campaignService := &service.CampaignService{
		CampaignRepo:    campaignRepo,
		ContactRepo:     contactRepo,
		ThreadRepo:      threadRepo,
		MessageRepo:     messageRepo,
		Mailer:          mailer,
		FromAddress:     cfg.MailerFrom,
		TrackingBaseURL: cfg.TrackingBaseURL,
	}

	// Controllers
	contactController := &controller.ContactController{Repo: contactRepo, OrgID: cfg.DefaultOrgID}
	threadController := &controller.ThreadController{ThreadRepo: threadRepo, MessageRepo: messageRepo, Messaging: messagingService}
	campaignController := &controller.CampaignController{CampaignService: campaignService}
	segmentController := &controller.SegmentController{Repo: segmentRepo}
	zoneController := &controller.ZoneController{Repo: zoneRepo}
	leadController := &controller.LeadController{Repo: leadRepo, OrgID: cfg.DefaultOrgID}
	webhookController := &controller.WebhookController{Inbound: inboundService, VerifyToken: cfg.WhatsAppVerifyToken}
	trackingController := &controller.TrackingController{Tracking: trackingService}

	r := chi.NewRouter()

	// Public: webhooks, tracking, web-lead form
	r.Post("/webhooks/email", webhookController.InboundEmail)
	r.Get("/webhooks/whatsapp", webhookController.VerifyWhatsApp)
	r.Post("/webhooks/whatsapp", webhookController.InboundWhatsApp)
	r.Get("/t/open/{token}", trackingController.Open)
	r.Get("/t/click/{token}", trackingController.Click)
	r.Post("/api/leads", leadController.CreateLead)

	// Internal: dispatcher callbacks
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireDispatchToken(cfg.DispatchToken))
		r.Get("/api/campaigns/due", campaignController.ListDueCampaigns)
		r.Post("/api/campaigns/{id}/dispatch", campaignController.SendCampaign)
	})

	// Authenticated CRM API
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(sessionRepo))

		r.Get("/api/contacts", contactController.ListContacts)
		r.Post("/api/contacts", contactController.CreateContact)
		r.Get("/api/contacts/{id}", contactController.GetContact)
		r.Put("/api/contacts/{id}", contactController.UpdateContact)
		r.Delete("/api/contacts/{id}", contactController.DeleteContact)

		r.Get("/api/threads", threadController.ListThreads)
		r.Get("/api/threads/{id}/messages", threadController.ListMessages)
		r.Post("/api/threads/{id}/reply", threadController.Reply)
		r.Post("/api/threads/{id}/read", threadController.MarkRead)
		r.Post("/api/threads/{id}/close", threadController.CloseThread)

		r.Get("/api/campaigns", campaignController.ListCampaigns)
		r.Post("/api/campaigns", campaignController.CreateCampaign)
		r.Get("/api/campaigns/{id}", campaignController.GetCampaign)
		r.Put("/api/campaigns/{id}", campaignController.UpdateCampaign)
		r.Post("/api/campaigns/{id}/schedule", campaignController.ScheduleCampaign)
		r.Post("/api/campaigns/{id}/send", campaignController.SendCampaign)

		r.Get("/api/segments", segmentController.ListSegments)
		r.Post("/api/segments", segmentController.CreateSegment)
		r.Get("/api/segments/{id}", segmentController.GetSegment)
		r.Delete("/api/segments/{id}", segmentController.DeleteSegment)
		r.Post("/api/segments/{id}/members", segmentController.AddMembers)

		r.Get("/api/zones", zoneController.ListZones)
		r.Post("/api/zones", zoneController.CreateZone)
		r.Get("/api/zones/{id}", zoneController.GetZone)
		r.Patch("/api/zones/{id}", zoneController.PatchZone)
		r.Delete("/api/zones/{id}", zoneController.DeleteZone)
	})

	log.Println("🚀 Server running on :" + cfg.ServerPort)
	log.Fatal(http.ListenAndServe(":"+cfg.ServerPort, r))
}
