// internal/controller/webhook_controller.go
package controller

import (
    "encoding/json"
    "log"
    "net/http"

    "github.com/franquimap/crm-backend/internal/service"
)

type WebhookController struct {
    Inbound     *service.InboundService
    VerifyToken string
}

// InboundEmail receives the delivery provider's inbound-parse payload.
func (c *WebhookController) InboundEmail(w http.ResponseWriter, r *http.Request) {
    var payload struct {
        From      string `json:"from"`
        FromName  string `json:"from_name"`
        To        string `json:"to"`
        Subject   string `json:"subject"`
        HTML      string `json:"html"`
        Text      string `json:"text"`
        MessageID string `json:"message_id"`
        InReplyTo string `json:"in_reply_to"`
    }
    if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
        writeError(w, http.StatusBadRequest, "invalid payload")
        return
    }
    if payload.From == "" {
        writeError(w, http.StatusBadRequest, "from is required")
        return
    }

    msg, err := c.Inbound.RecordInboundEmail(r.Context(), service.InboundEmail{
        From:              payload.From,
        FromName:          payload.FromName,
        To:                payload.To,
        Subject:           payload.Subject,
        HTML:              payload.HTML,
        Text:              payload.Text,
        ProviderMessageID: payload.MessageID,
        InReplyTo:         payload.InReplyTo,
    })
    if err != nil {
        log.Println("⚠️ inbound email processing failed:", err)
        writeError(w, http.StatusInternalServerError, "failed to process inbound email")
        return
    }

    response := map[string]interface{}{"success": true}
    if msg != nil {
        response["message_id"] = msg.ID
    }
    writeJSON(w, http.StatusOK, response)
}

// VerifyWhatsApp is the messaging platform's GET handshake: echo the
// challenge when the shared verify token matches.
func (c *WebhookController) VerifyWhatsApp(w http.ResponseWriter, r *http.Request) {
    mode := r.URL.Query().Get("hub.mode")
    token := r.URL.Query().Get("hub.verify_token")
    challenge := r.URL.Query().Get("hub.challenge")

    if mode == "subscribe" && token != "" && token == c.VerifyToken {
        w.WriteHeader(http.StatusOK)
        w.Write([]byte(challenge))
        return
    }
    writeError(w, http.StatusForbidden, "verification failed")
}

// InboundWhatsApp receives the platform's event payload. Non-2xx tells the
// platform to redeliver, so only real processing failures return 500.
func (c *WebhookController) InboundWhatsApp(w http.ResponseWriter, r *http.Request) {
    var payload struct {
        Entry []struct {
            Changes []struct {
                Value struct {
                    Contacts []struct {
                        Profile struct {
                            Name string `json:"name"`
                        } `json:"profile"`
                        WaID string `json:"wa_id"`
                    } `json:"contacts"`
                    Messages []struct {
                        From string `json:"from"`
                        ID   string `json:"id"`
                        Type string `json:"type"`
                        Text struct {
                            Body string `json:"body"`
                        } `json:"text"`
                    } `json:"messages"`
                } `json:"value"`
            } `json:"changes"`
        } `json:"entry"`
    }
    if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
        writeError(w, http.StatusBadRequest, "invalid payload")
        return
    }

    for _, entry := range payload.Entry {
        for _, change := range entry.Changes {
            name := ""
            if len(change.Value.Contacts) > 0 {
                name = change.Value.Contacts[0].Profile.Name
            }
            for _, m := range change.Value.Messages {
                if m.Type != "text" {
                    // media and status events are ignored for now
                    continue
                }
                _, err := c.Inbound.RecordInboundWhatsApp(r.Context(), service.InboundWhatsApp{
                    FromPhone:         m.From,
                    FromName:          name,
                    Body:              m.Text.Body,
                    ProviderMessageID: m.ID,
                })
                if err != nil {
                    log.Println("⚠️ inbound whatsapp processing failed:", err)
                    writeError(w, http.StatusInternalServerError, "failed to process message")
                    return
                }
            }
        }
    }

    writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
