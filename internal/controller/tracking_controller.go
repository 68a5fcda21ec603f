// internal/controller/tracking_controller.go
package controller

import (
    "log"
    "net/http"

    "github.com/go-chi/chi/v5"

    "github.com/franquimap/crm-backend/internal/service"
)

// transparentGIF is a fixed 1x1 transparent image. The open endpoint returns
// it no matter what happens server-side: a tracking failure must never break
// email rendering.
var transparentGIF = []byte{
    0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00,
    0x00, 0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0x21, 0xf9, 0x04, 0x01, 0x00,
    0x00, 0x00, 0x00, 0x2c, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00,
    0x00, 0x02, 0x02, 0x44, 0x01, 0x00, 0x3b,
}

type TrackingController struct {
    Tracking *service.TrackingService
}

func (c *TrackingController) Open(w http.ResponseWriter, r *http.Request) {
    token := chi.URLParam(r, "token")

    if err := c.Tracking.RecordOpen(token, clientIP(r), r.UserAgent()); err != nil {
        log.Println("⚠️ failed to record open for token", token, ":", err)
    }

    w.Header().Set("Content-Type", "image/gif")
    w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
    w.WriteHeader(http.StatusOK)
    w.Write(transparentGIF)
}

// Click records the hit and redirects to the original target. The redirect
// happens even when the tracking write fails; only a missing url parameter
// is an error.
func (c *TrackingController) Click(w http.ResponseWriter, r *http.Request) {
    token := chi.URLParam(r, "token")
    target := r.URL.Query().Get("url")
    if target == "" {
        writeError(w, http.StatusBadRequest, "url parameter is required")
        return
    }

    if err := c.Tracking.RecordClick(token, target, clientIP(r), r.UserAgent()); err != nil {
        log.Println("⚠️ failed to record click for token", token, ":", err)
    }

    http.Redirect(w, r, target, http.StatusFound)
}

func clientIP(r *http.Request) string {
    if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
        return forwarded
    }
    return r.RemoteAddr
}
