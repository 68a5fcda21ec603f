package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/franquimap/crm-backend/internal/model"
	"github.com/franquimap/crm-backend/internal/service"
)

func newCampaignRouter(repo *fakeCampaignRepo) http.Handler {
	svc := &service.CampaignService{CampaignRepo: repo}
	ctrl := &CampaignController{CampaignService: svc}

	r := chi.NewRouter()
	r.Post("/api/campaigns", ctrl.CreateCampaign)
	r.Put("/api/campaigns/{id}", ctrl.UpdateCampaign)
	r.Get("/api/campaigns/due", ctrl.ListDueCampaigns)
	return r
}

func TestUpdateSentCampaignIsRejected(t *testing.T) {
	repo := &fakeCampaignRepo{}
	repo.Create(&model.Campaign{Name: "Lanzamiento", Subject: "Hola", BodyHTML: "<p>Hola</p>", Status: model.CampaignSent})
	router := newCampaignRouter(repo)

	body := `{"name": "Lanzamiento v2", "subject": "Hola", "body_html": "<p>Hola</p>"}`
	req := httptest.NewRequest(http.MethodPut, "/api/campaigns/1", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if repo.campaigns[0].Name != "Lanzamiento" {
		t.Errorf("a rejected update must not change the campaign: %+v", repo.campaigns[0])
	}
}

func TestUpdateDraftCampaignSucceeds(t *testing.T) {
	repo := &fakeCampaignRepo{}
	repo.Create(&model.Campaign{Name: "Lanzamiento", Subject: "Hola", BodyHTML: "<p>Hola</p>", Status: model.CampaignDraft})
	router := newCampaignRouter(repo)

	body := `{"name": "Lanzamiento v2", "subject": "Hola", "body_html": "<p>Hola</p>"}`
	req := httptest.NewRequest(http.MethodPut, "/api/campaigns/1", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if repo.campaigns[0].Name != "Lanzamiento v2" {
		t.Errorf("expected the update applied, got %+v", repo.campaigns[0])
	}
}

func TestCreateCampaignWithScheduleIsScheduled(t *testing.T) {
	repo := &fakeCampaignRepo{}
	router := newCampaignRouter(repo)

	at := time.Now().Add(time.Hour).Format(time.RFC3339)
	body := `{"name": "Lanzamiento", "subject": "Hola", "body_html": "<p>Hola</p>", "scheduled_at": "` + at + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/campaigns", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var campaign model.Campaign
	if err := json.NewDecoder(rec.Body).Decode(&campaign); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if campaign.Status != model.CampaignScheduled {
		t.Errorf("expected status scheduled, got %q", campaign.Status)
	}
}

func TestListDueCampaignsReturnsElapsedOnly(t *testing.T) {
	repo := &fakeCampaignRepo{}
	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Hour)
	repo.Create(&model.Campaign{Name: "Lista", Subject: "s", BodyHTML: "b", Status: model.CampaignScheduled, ScheduledAt: &past})
	repo.Create(&model.Campaign{Name: "Pronto", Subject: "s", BodyHTML: "b", Status: model.CampaignScheduled, ScheduledAt: &future})
	router := newCampaignRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/campaigns/due", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Data []model.Campaign `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Name != "Lista" {
		t.Errorf("expected only the elapsed campaign, got %+v", resp.Data)
	}
}
