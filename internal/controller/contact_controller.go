// internal/controller/contact_controller.go
package controller

import (
    "encoding/json"
    "net/http"
    "strconv"

    "github.com/go-chi/chi/v5"

    "github.com/franquimap/crm-backend/internal/model"
    "github.com/franquimap/crm-backend/internal/repository"
)

type ContactController struct {
    Repo  repository.ContactRepositoryInterface
    OrgID string
}

func (c *ContactController) ListContacts(w http.ResponseWriter, r *http.Request) {
    page, _ := strconv.Atoi(r.URL.Query().Get("page"))
    pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
    status := r.URL.Query().Get("status")

    if page < 1 {
        page = 1
    }
    if pageSize < 1 {
        pageSize = 20
    }
    if pageSize > 100 {
        pageSize = 100
    }

    contacts, total, err := c.Repo.List((page-1)*pageSize, pageSize, status)
    if err != nil {
        respondError(w, err)
        return
    }

    writeJSON(w, http.StatusOK, map[string]interface{}{
        "data": contacts,
        "pagination": map[string]int{
            "page":        page,
            "page_size":   pageSize,
            "total_count": total,
        },
    })
}

func (c *ContactController) CreateContact(w http.ResponseWriter, r *http.Request) {
    var body struct {
        Name   string `json:"name"`
        Email  string `json:"email"`
        Phone  string `json:"phone"`
        Source string `json:"source"`
        Status string `json:"status"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        writeError(w, http.StatusBadRequest, "invalid body")
        return
    }
    if body.Name == "" || (body.Email == "" && body.Phone == "") {
        writeError(w, http.StatusBadRequest, "name and an email or phone are required")
        return
    }

    contact := &model.Contact{
        OrganizationID: c.OrgID,
        Name:           body.Name,
        Email:          body.Email,
        Phone:          body.Phone,
        Source:         body.Source,
        Status:         body.Status,
    }
    if contact.Source == "" {
        contact.Source = "crm"
    }

    if err := c.Repo.Create(contact); err != nil {
        respondError(w, err)
        return
    }
    writeJSON(w, http.StatusCreated, contact)
}

func (c *ContactController) GetContact(w http.ResponseWriter, r *http.Request) {
    id, err := strconv.Atoi(chi.URLParam(r, "id"))
    if err != nil {
        writeError(w, http.StatusBadRequest, "invalid contact id")
        return
    }

    contact, err := c.Repo.GetByID(id)
    if err != nil {
        respondError(w, err)
        return
    }
    if contact == nil {
        writeError(w, http.StatusNotFound, "contact not found")
        return
    }
    writeJSON(w, http.StatusOK, contact)
}

func (c *ContactController) UpdateContact(w http.ResponseWriter, r *http.Request) {
    id, err := strconv.Atoi(chi.URLParam(r, "id"))
    if err != nil {
        writeError(w, http.StatusBadRequest, "invalid contact id")
        return
    }

    existing, err := c.Repo.GetByID(id)
    if err != nil {
        respondError(w, err)
        return
    }
    if existing == nil {
        writeError(w, http.StatusNotFound, "contact not found")
        return
    }

    var body struct {
        Name      string `json:"name"`
        Email     string `json:"email"`
        Phone     string `json:"phone"`
        Source    string `json:"source"`
        Status    string `json:"status"`
        LeadScore *int   `json:"lead_score"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        writeError(w, http.StatusBadRequest, "invalid body")
        return
    }

    if body.Name != "" {
        existing.Name = body.Name
    }
    if body.Email != "" {
        existing.Email = body.Email
    }
    if body.Phone != "" {
        existing.Phone = body.Phone
    }
    if body.Source != "" {
        existing.Source = body.Source
    }
    if body.Status != "" {
        existing.Status = body.Status
    }
    if body.LeadScore != nil {
        existing.LeadScore = *body.LeadScore
    }

    if err := c.Repo.Update(existing); err != nil {
        respondError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, existing)
}

func (c *ContactController) DeleteContact(w http.ResponseWriter, r *http.Request) {
    id, err := strconv.Atoi(chi.URLParam(r, "id"))
    if err != nil {
        writeError(w, http.StatusBadRequest, "invalid contact id")
        return
    }

    if err := c.Repo.Delete(id); err != nil {
        respondError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
