package controllers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	commandsvc "github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/services/commands"
)

// CommandsController exposes the command log.
type CommandsController struct {
	svc     *commandsvc.Service
	maxBody int64
}

// NewCommandsController creates a commands controller. maxBody bounds POST
// bodies; zero means 1 MiB.
func NewCommandsController(svc *commandsvc.Service, maxBody int64) *CommandsController {
	if maxBody <= 0 {
		maxBody = 1 << 20
	}
	return &CommandsController{svc: svc, maxBody: maxBody}
}

// RegisterRoutes registers the log, commands and seek endpoints.
func (c *CommandsController) RegisterRoutes(r chi.Router) {
	r.Get("/v1/log", c.handleLog)
	r.Get("/v1/commands", c.handleList)
	r.Post("/v1/commands", c.handleSubmit)
	r.Get("/v1/seek", c.handleSeek)
}

// maxWait caps the ?wait= long-poll on /v1/log.
const maxWait = 30 * time.Second

// handleLog streams raw content from ?offset= (default 0) to the end. With
// ?wait=<duration> and offset at the end it long-polls for the next append.
func (c *CommandsController) handleLog(w http.ResponseWriter, r *http.Request) {
	off, err := queryInt64(r, "offset", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var wait time.Duration
	if s := r.URL.Query().Get("wait"); s != "" {
		if wait, err = time.ParseDuration(s); err != nil || wait < 0 {
			writeError(w, http.StatusBadRequest, "invalid wait")
			return
		}
		wait = min(wait, maxWait)
	}
	data, err := c.svc.Tail(r.Context(), off, wait)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(data)
}

// handleList returns retained commands matching the optional CEL ?filter=.
func (c *CommandsController) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := c.svc.List(r.Context(), r.URL.Query().Get("filter"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"commands": items})
}

type seekResp struct {
	Offset int64  `json:"offset"`
	Data   string `json:"data"`
}

// handleSeek resolves ?cmd=&offset= and returns the global offset and the
// content from it.
func (c *CommandsController) handleSeek(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("cmd") == "" {
		writeError(w, http.StatusBadRequest, "cmd is required")
		return
	}
	cmd, err := queryInt64(r, "cmd", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	off, err := queryInt64(r, "offset", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	pos, data, err := c.svc.Seek(r.Context(), cmd, off)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, seekResp{Offset: pos, Data: string(data)})
}

type submitResp struct {
	Appended int    `json:"appended"`
	LastSeq  uint64 `json:"last_seq"`
}

// handleSubmit appends each newline-terminated command in the raw body.
func (c *CommandsController) handleSubmit(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, c.maxBody))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeError(w, http.StatusRequestEntityTooLarge, "body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	entries, err := c.svc.Submit(r.Context(), body)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	resp := submitResp{Appended: len(entries)}
	if n := len(entries); n > 0 {
		resp.LastSeq = entries[n-1].Seq
	}
	writeJSON(w, http.StatusCreated, resp)
}
