// internal/controller/respond.go
package controller

import (
    "encoding/json"
    "errors"
    "net/http"

    appErrors "github.com/franquimap/crm-backend/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
    writeJSON(w, status, map[string]string{"error": msg})
}

// respondError maps the error taxonomy to HTTP statuses: validation and
// frozen-campaign errors are the caller's fault, missing entities are 404,
// everything else is a 500.
func respondError(w http.ResponseWriter, err error) {
    var validation *appErrors.ErrValidation
    var notEditable *appErrors.ErrCampaignNotEditable
    var campaignNotFound *appErrors.ErrCampaignNotFound
    var threadNotFound *appErrors.ErrThreadNotFound
    var contactNotFound *appErrors.ErrContactNotFound
    var zoneNotFound *appErrors.ErrZoneNotFound

    switch {
    case errors.As(err, &validation):
        writeError(w, http.StatusBadRequest, validation.Message)
    case errors.As(err, &notEditable):
        writeError(w, http.StatusBadRequest, notEditable.Error())
    case errors.As(err, &campaignNotFound):
        writeError(w, http.StatusNotFound, campaignNotFound.Error())
    case errors.As(err, &threadNotFound):
        writeError(w, http.StatusNotFound, threadNotFound.Error())
    case errors.As(err, &contactNotFound):
        writeError(w, http.StatusNotFound, contactNotFound.Error())
    case errors.As(err, &zoneNotFound):
        writeError(w, http.StatusNotFound, zoneNotFound.Error())
    default:
        writeError(w, http.StatusInternalServerError, err.Error())
    }
}
