// cmd/dispatcher/main.go
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/franquimap/crm-backend/internal/config"
	"github.com/franquimap/crm-backend/internal/model"
)

// The dispatcher replaces the serverless timer of the original deployment:
// every tick it asks the server for due scheduled campaigns and calls the
// dispatch endpoint for each. The send claim on the server side is
// single-winner, so overlapping ticks cannot double-send a campaign.

type dispatcher struct {
	baseURL string
	token   string
	client  *http.Client
}

func main() {
	cfg := config.Load()

	d := &dispatcher{
		baseURL: cfg.ServerBaseURL,
		token:   cfg.DispatchToken,
		client:  &http.Client{Timeout: 60 * time.Second},
	}

	c := cron.New()
	c.AddFunc("@every 30s", d.tick)
	c.Start()
	log.Println("🚀 Campaign dispatcher running, polling every 30s")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	c.Stop()
	log.Println("Dispatcher stopped")
}

func (d *dispatcher) tick() {
	due, err := d.listDue()
	if err != nil {
		log.Println("⚠️ failed to list due campaigns:", err)
		return
	}
	if len(due) == 0 {
		return
	}

	log.Printf("Found %d due campaign(s)\n", len(due))
	for _, campaign := range due {
		if err := d.dispatch(campaign.ID); err != nil {
			log.Printf("⚠️ failed to dispatch campaign %d: %v\n", campaign.ID, err)
			continue
		}
		log.Printf("✅ Dispatched campaign %d (%s)\n", campaign.ID, campaign.Name)
	}
}

func (d *dispatcher) listDue() ([]model.Campaign, error) {
	req, err := http.NewRequest(http.MethodGet, d.baseURL+"/api/campaigns/due", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+d.token)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("due query returned %d", resp.StatusCode)
	}

	var body struct {
		Data []model.Campaign `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body.Data, nil
}

func (d *dispatcher) dispatch(campaignID int) error {
	url := fmt.Sprintf("%s/api/campaigns/%d/dispatch", d.baseURL, campaignID)
	req, err := http.NewRequest(http.MethodPost, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+d.token)

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// a 400 here means another tick already claimed the campaign
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("dispatch returned %d", resp.StatusCode)
	}
	return nil
}
