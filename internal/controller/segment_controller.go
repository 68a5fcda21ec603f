// internal/controller/segment_controller.go
package controller

import (
    "encoding/json"
    "log"
    "net/http"
    "strconv"

    "github.com/go-chi/chi/v5"

    "github.com/franquimap/crm-backend/internal/model"
    "github.com/franquimap/crm-backend/internal/repository"
)

type SegmentController struct {
    Repo repository.SegmentRepositoryInterface
}

func (c *SegmentController) ListSegments(w http.ResponseWriter, r *http.Request) {
    segments, err := c.Repo.List()
    if err != nil {
        respondError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, map[string]interface{}{"data": segments})
}

func (c *SegmentController) CreateSegment(w http.ResponseWriter, r *http.Request) {
    var body struct {
        Name   string `json:"name"`
        Kind   string `json:"kind"`
        Filter string `json:"filter"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        writeError(w, http.StatusBadRequest, "invalid body")
        return
    }
    if body.Name == "" {
        writeError(w, http.StatusBadRequest, "name is required")
        return
    }
    if body.Kind == model.SegmentFilter && body.Filter == "" {
        writeError(w, http.StatusBadRequest, "filter segments need a filter expression")
        return
    }

    segment := &model.Segment{Name: body.Name, Kind: body.Kind, Filter: body.Filter}
    if err := c.Repo.Create(segment); err != nil {
        respondError(w, err)
        return
    }

    // filter membership is a one-time snapshot, evaluated at creation only
    if segment.Kind == model.SegmentFilter {
        count, err := c.Repo.MaterializeFilter(segment.ID)
        if err != nil {
            log.Println("⚠️ failed to materialize segment filter:", err)
        } else {
            segment.MemberCount = count
        }
    }

    writeJSON(w, http.StatusCreated, segment)
}

func (c *SegmentController) GetSegment(w http.ResponseWriter, r *http.Request) {
    id, err := strconv.Atoi(chi.URLParam(r, "id"))
    if err != nil {
        writeError(w, http.StatusBadRequest, "invalid segment id")
        return
    }

    segment, err := c.Repo.GetByID(id)
    if err != nil {
        respondError(w, err)
        return
    }
    if segment == nil {
        writeError(w, http.StatusNotFound, "segment not found")
        return
    }
    writeJSON(w, http.StatusOK, segment)
}

func (c *SegmentController) DeleteSegment(w http.ResponseWriter, r *http.Request) {
    id, err := strconv.Atoi(chi.URLParam(r, "id"))
    if err != nil {
        writeError(w, http.StatusBadRequest, "invalid segment id")
        return
    }

    if err := c.Repo.Delete(id); err != nil {
        respondError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (c *SegmentController) AddMembers(w http.ResponseWriter, r *http.Request) {
    id, err := strconv.Atoi(chi.URLParam(r, "id"))
    if err != nil {
        writeError(w, http.StatusBadRequest, "invalid segment id")
        return
    }

    var body struct {
        ContactIDs []int `json:"contact_ids"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.ContactIDs) == 0 {
        writeError(w, http.StatusBadRequest, "contact_ids is required")
        return
    }

    segment, err := c.Repo.GetByID(id)
    if err != nil {
        respondError(w, err)
        return
    }
    if segment == nil {
        writeError(w, http.StatusNotFound, "segment not found")
        return
    }
    if segment.Kind != model.SegmentManual {
        writeError(w, http.StatusBadRequest, "members can only be added to manual segments")
        return
    }

    if err := c.Repo.AddMembers(id, body.ContactIDs); err != nil {
        respondError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, map[string]int{"added": len(body.ContactIDs)})
}
