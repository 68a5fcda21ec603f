// internal/controller/thread_controller.go
package controller

import (
    "encoding/json"
    "net/http"
    "strconv"

    "github.com/go-chi/chi/v5"

    "github.com/franquimap/crm-backend/internal/repository"
    "github.com/franquimap/crm-backend/internal/service"
)

type ThreadController struct {
    ThreadRepo  repository.ThreadRepositoryInterface
    MessageRepo repository.MessageRepositoryInterface
    Messaging   *service.MessagingService
}

func (c *ThreadController) ListThreads(w http.ResponseWriter, r *http.Request) {
    page, _ := strconv.Atoi(r.URL.Query().Get("page"))
    pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
    channel := r.URL.Query().Get("channel")

    if page < 1 {
        page = 1
    }
    if pageSize < 1 {
        pageSize = 20
    }

    threads, total, err := c.ThreadRepo.List((page-1)*pageSize, pageSize, channel)
    if err != nil {
        respondError(w, err)
        return
    }

    writeJSON(w, http.StatusOK, map[string]interface{}{
        "data": threads,
        "pagination": map[string]int{
            "page":        page,
            "page_size":   pageSize,
            "total_count": total,
        },
    })
}

func (c *ThreadController) ListMessages(w http.ResponseWriter, r *http.Request) {
    id, err := strconv.Atoi(chi.URLParam(r, "id"))
    if err != nil {
        writeError(w, http.StatusBadRequest, "invalid thread id")
        return
    }

    thread, err := c.ThreadRepo.GetByID(id)
    if err != nil {
        respondError(w, err)
        return
    }
    if thread == nil {
        writeError(w, http.StatusNotFound, "thread not found")
        return
    }

    messages, err := c.MessageRepo.ListByThread(id)
    if err != nil {
        respondError(w, err)
        return
    }

    writeJSON(w, http.StatusOK, map[string]interface{}{
        "thread":   thread,
        "messages": messages,
    })
}

func (c *ThreadController) Reply(w http.ResponseWriter, r *http.Request) {
    id, err := strconv.Atoi(chi.URLParam(r, "id"))
    if err != nil {
        writeError(w, http.StatusBadRequest, "invalid thread id")
        return
    }

    var body struct {
        Subject string `json:"subject"`
        Body    string `json:"body"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        writeError(w, http.StatusBadRequest, "invalid body")
        return
    }

    msg, err := c.Messaging.Reply(id, body.Subject, body.Body)
    if err != nil {
        respondError(w, err)
        return
    }
    writeJSON(w, http.StatusCreated, msg)
}

func (c *ThreadController) MarkRead(w http.ResponseWriter, r *http.Request) {
    id, err := strconv.Atoi(chi.URLParam(r, "id"))
    if err != nil {
        writeError(w, http.StatusBadRequest, "invalid thread id")
        return
    }

    if err := c.Messaging.MarkThreadRead(id); err != nil {
        respondError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, map[string]bool{"read": true})
}

func (c *ThreadController) CloseThread(w http.ResponseWriter, r *http.Request) {
    id, err := strconv.Atoi(chi.URLParam(r, "id"))
    if err != nil {
        writeError(w, http.StatusBadRequest, "invalid thread id")
        return
    }

    if err := c.ThreadRepo.Close(id); err != nil {
        respondError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, map[string]string{"status": "closed"})
}
