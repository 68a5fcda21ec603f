// cmd/worker/main.go
package main

import (
	"encoding/json"
	"log"

	"github.com/franquimap/crm-backend/internal/config"
	"github.com/franquimap/crm-backend/internal/db"
	"github.com/franquimap/crm-backend/internal/model"
	"github.com/franquimap/crm-backend/internal/queue"
	"github.com/franquimap/crm-backend/internal/repository"
)

// Lead score bump for an inbound message on each channel. WhatsApp replies
// signal more intent than email.
var scoreByChannel = map[string]int{
	model.ChannelEmail:    1,
	model.ChannelWhatsApp: 2,
}

func main() {
	cfg := config.Load()

	conn, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}
	log.Println("✅ Connected to database")

	events, err := queue.NewAMQPQueue(cfg.AMQPURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer events.Close()

	contactRepo := &repository.ContactRepository{DB: conn}

	msgs, err := events.Consume()
	if err != nil {
		log.Fatal("Failed to register consumer:", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var ev queue.Event
			if err := json.Unmarshal(d.Body, &ev); err != nil {
				log.Println("Invalid event:", err)
				d.Ack(false)
				continue
			}

			if err := handleEvent(ev, contactRepo); err != nil {
				log.Println("Failed to handle event:", err)
				retries := queue.RetryCount(d.Headers)
				if retries < queue.MaxRetries {
					// republish with the header bumped so the cap engages
					if rerr := events.Republish(d.Body, retries+1); rerr != nil {
						log.Println("⚠️ failed to requeue event:", rerr)
						d.Nack(false, true)
						continue
					}
				} else {
					log.Printf("⚠️ dropping event after %d attempts: %v\n", retries, err)
				}
			}

			d.Ack(false)
		}
	}()

	log.Println("🚀 Automation worker running, waiting for events...")
	<-forever
}

func handleEvent(ev queue.Event, contacts repository.ContactRepositoryInterface) error {
	switch ev.Type {
	case "message.received":
		delta := scoreByChannel[ev.Channel]
		if delta == 0 {
			delta = 1
		}
		log.Printf("📩 message.received: contact=%d thread=%d message=%d channel=%s\n", ev.ContactID, ev.ThreadID, ev.MessageID, ev.Channel)
		return contacts.BumpLeadScore(ev.ContactID, delta)
	default:
		log.Println("Ignoring unknown event type:", ev.Type)
		return nil
	}
}
