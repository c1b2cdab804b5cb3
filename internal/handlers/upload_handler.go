package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ArowuTest/scratchcard-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// UploadHandler serves the identity-document upload page and stored documents
type UploadHandler struct {
	uploads       *services.UploadService
	maxUploadSize int64
	log           logrus.FieldLogger
}

// NewUploadHandler creates a new UploadHandler. Uploads above maxUploadSize bytes are rejected.
func NewUploadHandler(uploads *services.UploadService, maxUploadSize int64, log logrus.FieldLogger) *UploadHandler {
	return &UploadHandler{uploads: uploads, maxUploadSize: maxUploadSize, log: log}
}

// Status handles GET /uploads/:token
func (h *UploadHandler) Status(c *gin.Context) {
	status, err := h.uploads.Status(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, status, "")
}

// Submit handles POST /uploads/:token with the document in the "file" field
func (h *UploadHandler) Submit(c *gin.Context) {
	if h.maxUploadSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)
	}

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondFail(c, http.StatusRequestEntityTooLarge, "File is too large")
			return
		}
		respondFail(c, http.StatusBadRequest, "File is required")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		respondFail(c, http.StatusBadRequest, "Only image uploads are accepted")
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	defer file.Close()

	result, err := h.uploads.SubmitDocument(c.Request.Context(), c.Param("token"), header.Filename, contentType, file)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondClaim(c, result)
}

// ServeFile handles GET /storage/:id
func (h *UploadHandler) ServeFile(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}
	blob, err := h.uploads.OpenDocument(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	defer blob.Close()

	contentType := blob.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Header("Content-Length", fmt.Sprint(blob.Length))
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, blob); err != nil {
		h.log.WithError(err).WithField("storage_id", id.Hex()).Warn("failed to stream file")
	}
}
