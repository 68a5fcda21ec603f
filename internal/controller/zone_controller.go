// internal/controller/zone_controller.go
package controller

import (
    "encoding/json"
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/google/uuid"

    "github.com/franquimap/crm-backend/internal/model"
    "github.com/franquimap/crm-backend/internal/repository"
)

type ZoneController struct {
    Repo repository.ZoneRepositoryInterface
}

func (c *ZoneController) ListZones(w http.ResponseWriter, r *http.Request) {
    zones, err := c.Repo.List(r.URL.Query().Get("status"))
    if err != nil {
        respondError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, map[string]interface{}{"data": zones})
}

func (c *ZoneController) CreateZone(w http.ResponseWriter, r *http.Request) {
    var body struct {
        ID     string   `json:"id"`
        Name   string   `json:"name"`
        Type   string   `json:"type"`
        Lat    *float64 `json:"lat"`
        Lng    *float64 `json:"lng"`
        Status string   `json:"status"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        writeError(w, http.StatusBadRequest, "invalid body")
        return
    }
    if body.Name == "" || body.Type == "" || body.Lat == nil || body.Lng == nil {
        writeError(w, http.StatusBadRequest, "name, type, lat and lng are required")
        return
    }
    switch body.Status {
    case "", model.ZoneAvailable, model.ZoneOccupied:
    default:
        writeError(w, http.StatusBadRequest, "status must be available or occupied")
        return
    }
    if body.ID == "" {
        body.ID = uuid.NewString()
    }
    if body.Status == "" {
        body.Status = model.ZoneAvailable
    }

    zone := &model.Zone{
        ID:     body.ID,
        Name:   body.Name,
        Type:   body.Type,
        Lat:    *body.Lat,
        Lng:    *body.Lng,
        Status: body.Status,
    }
    // a zone born occupied gets its timestamp here, same as the PATCH path
    if zone.Status == model.ZoneOccupied {
        now := time.Now()
        zone.OccupiedSince = &now
    }
    if err := c.Repo.Create(zone); err != nil {
        respondError(w, err)
        return
    }
    writeJSON(w, http.StatusCreated, zone)
}

func (c *ZoneController) GetZone(w http.ResponseWriter, r *http.Request) {
    zone, err := c.Repo.GetByID(chi.URLParam(r, "id"))
    if err != nil {
        respondError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, zone)
}

// PatchZone handles the status transitions: moving to occupied stamps
// occupied_since, moving back to available clears the occupant metadata.
func (c *ZoneController) PatchZone(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")

    var body struct {
        Name          string `json:"name"`
        Status        string `json:"status"`
        OccupantName  string `json:"occupant_name"`
        OccupantEmail string `json:"occupant_email"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        writeError(w, http.StatusBadRequest, "invalid body")
        return
    }

    var zone *model.Zone
    var err error

    switch body.Status {
    case model.ZoneOccupied:
        zone, err = c.Repo.Occupy(id, body.OccupantName, body.OccupantEmail)
    case model.ZoneAvailable:
        zone, err = c.Repo.Release(id)
    case "":
        if body.Name == "" {
            writeError(w, http.StatusBadRequest, "nothing to update")
            return
        }
        zone, err = c.Repo.Rename(id, body.Name)
    default:
        writeError(w, http.StatusBadRequest, "status must be available or occupied")
        return
    }
    if err != nil {
        respondError(w, err)
        return
    }

    if body.Name != "" && body.Status != "" {
        zone, err = c.Repo.Rename(id, body.Name)
        if err != nil {
            respondError(w, err)
            return
        }
    }

    writeJSON(w, http.StatusOK, zone)
}

func (c *ZoneController) DeleteZone(w http.ResponseWriter, r *http.Request) {
    if err := c.Repo.Delete(chi.URLParam(r, "id")); err != nil {
        respondError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
