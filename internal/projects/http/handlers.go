package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/davidarico/subtitle-portal/internal/projects/domain"
	"github.com/davidarico/subtitle-portal/internal/projects/service"
)

// ProjectService is the core the handlers expose upward.
type ProjectService interface {
	Create(ctx context.Context, name, audioURL, textURL string) (*domain.Project, error)
	CreateFromFiles(ctx context.Context, name string, audio, text service.Artifact) (*domain.Project, error)
	List(ctx context.Context) ([]domain.Project, error)
	Refresh(ctx context.Context, ids []string) ([]domain.RefreshResult, error)
	Transcript(ctx context.Context, id string) (*domain.Project, json.RawMessage, error)
}

type Handler struct {
	svc ProjectService
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

type createReq struct {
	Name     string `json:"name"`
	AudioURL string `json:"audio_url"`
	TextURL  string `json:"text_url"`
}

// create accepts either a JSON body with pre-uploaded artifact URLs or a
// multipart form with the raw files.
func (h *Handler) create(c *gin.Context) {
	if c.ContentType() == "multipart/form-data" {
		h.createFromUpload(c)
		return
	}

	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.svc.Create(c.Request.Context(), req.Name, req.AudioURL, req.TextURL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p})
}

func (h *Handler) createFromUpload(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))

	audioFH, err := c.FormFile("audio_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "audio_file is required"})
		return
	}
	textFH, err := c.FormFile("text_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "text_file is required"})
		return
	}

	audio, err := audioFH.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "unreadable audio_file"})
		return
	}
	defer audio.Close()

	text, err := textFH.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "unreadable text_file"})
		return
	}
	defer text.Close()

	p, err := h.svc.CreateFromFiles(c.Request.Context(), name,
		service.Artifact{Filename: audioFH.Filename, ContentType: audioFH.Header.Get("Content-Type"), Body: audio},
		service.Artifact{Filename: textFH.Filename, ContentType: textFH.Header.Get("Content-Type"), Body: text},
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p})
}

type refreshReq struct {
	IDs []string `json:"ids"`
}

func (h *Handler) refresh(c *gin.Context) {
	var req refreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	results, err := h.svc.Refresh(c.Request.Context(), req.IDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": results})
}

func (h *Handler) transcript(c *gin.Context) {
	p, doc, err := h.svc.Transcript(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", p.Name+".json"))
	c.Data(http.StatusOK, "application/json", doc)
}

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrNotReady):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrUpload),
		errors.Is(err, domain.ErrSubmission),
		errors.Is(err, domain.ErrUpstream):
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"ok": false, "error": err.Error()})
}
