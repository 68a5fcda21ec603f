// internal/controller/campaign_controller.go
package controller

import (
    "encoding/json"
    "net/http"
    "strconv"

    "github.com/go-chi/chi/v5"

    "github.com/franquimap/crm-backend/internal/service"
)

type CampaignController struct {
    CampaignService *service.CampaignService
}

func (c *CampaignController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
    var body struct {
        Name        string  `json:"name"`
        Subject     string  `json:"subject"`
        BodyHTML    string  `json:"body_html"`
        SegmentID   *int    `json:"segment_id"`
        ScheduledAt *string `json:"scheduled_at"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        writeError(w, http.StatusBadRequest, "invalid body")
        return
    }

    campaign, err := c.CampaignService.CreateCampaign(body.Name, body.Subject, body.BodyHTML, body.SegmentID, body.ScheduledAt)
    if err != nil {
        respondError(w, err)
        return
    }
    writeJSON(w, http.StatusCreated, campaign)
}

func (c *CampaignController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
    page, _ := strconv.Atoi(r.URL.Query().Get("page"))
    pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
    status := r.URL.Query().Get("status")

    campaigns, pagination, err := c.CampaignService.ListCampaigns(page, pageSize, status)
    if err != nil {
        respondError(w, err)
        return
    }

    writeJSON(w, http.StatusOK, map[string]interface{}{
        "data":       campaigns,
        "pagination": pagination,
    })
}

func (c *CampaignController) GetCampaign(w http.ResponseWriter, r *http.Request) {
    id, err := strconv.Atoi(chi.URLParam(r, "id"))
    if err != nil {
        writeError(w, http.StatusBadRequest, "invalid campaign id")
        return
    }

    campaign, err := c.CampaignService.GetCampaign(id)
    if err != nil {
        respondError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, campaign)
}

func (c *CampaignController) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
    id, err := strconv.Atoi(chi.URLParam(r, "id"))
    if err != nil {
        writeError(w, http.StatusBadRequest, "invalid campaign id")
        return
    }

    var body struct {
        Name      string `json:"name"`
        Subject   string `json:"subject"`
        BodyHTML  string `json:"body_html"`
        SegmentID *int   `json:"segment_id"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        writeError(w, http.StatusBadRequest, "invalid body")
        return
    }

    campaign, err := c.CampaignService.UpdateCampaign(id, body.Name, body.Subject, body.BodyHTML, body.SegmentID)
    if err != nil {
        respondError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, campaign)
}

func (c *CampaignController) ScheduleCampaign(w http.ResponseWriter, r *http.Request) {
    id, err := strconv.Atoi(chi.URLParam(r, "id"))
    if err != nil {
        writeError(w, http.StatusBadRequest, "invalid campaign id")
        return
    }

    var body struct {
        ScheduledAt string `json:"scheduled_at"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ScheduledAt == "" {
        writeError(w, http.StatusBadRequest, "scheduled_at is required")
        return
    }

    campaign, err := c.CampaignService.ScheduleCampaign(id, body.ScheduledAt)
    if err != nil {
        respondError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, campaign)
}

func (c *CampaignController) SendCampaign(w http.ResponseWriter, r *http.Request) {
    id, err := strconv.Atoi(chi.URLParam(r, "id"))
    if err != nil {
        writeError(w, http.StatusBadRequest, "invalid campaign id")
        return
    }

    result, err := c.CampaignService.SendCampaign(id)
    if err != nil {
        respondError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, result)
}

// ListDueCampaigns is the dispatcher's poll endpoint.
func (c *CampaignController) ListDueCampaigns(w http.ResponseWriter, r *http.Request) {
    due, err := c.CampaignService.ListDue()
    if err != nil {
        respondError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, map[string]interface{}{"data": due})
}
