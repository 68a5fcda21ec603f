// internal/controller/lead_controller.go
package controller

import (
    "encoding/json"
    "net/http"

    "github.com/franquimap/crm-backend/internal/repository"
)

type LeadController struct {
    Repo  repository.LeadRepositoryInterface
    OrgID string
}

// CreateLead is the public web-lead form endpoint. The actual contact,
// opportunity and follow-up task are created server-side by the
// process_web_lead procedure. The error message is user-facing copy for the
// Spanish marketing site.
func (c *LeadController) CreateLead(w http.ResponseWriter, r *http.Request) {
    var body struct {
        Name    string `json:"name"`
        Email   string `json:"email"`
        Company string `json:"company"`
        Phone   string `json:"phone"`
        Message string `json:"message"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        writeError(w, http.StatusBadRequest, "Faltan campos obligatorios")
        return
    }
    if body.Name == "" || body.Email == "" || body.Company == "" {
        writeError(w, http.StatusBadRequest, "Faltan campos obligatorios")
        return
    }

    result, err := c.Repo.ProcessWebLead(c.OrgID, body.Name, body.Email, body.Company, body.Phone, body.Message)
    if err != nil {
        respondError(w, err)
        return
    }

    writeJSON(w, http.StatusOK, map[string]interface{}{
        "success": true,
        "lead":    result,
    })
}
