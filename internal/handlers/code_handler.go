package handlers

import (
	"net/http"
	"strconv"

	"github.com/ArowuTest/scratchcard-backend/internal/services"
	"github.com/ArowuTest/scratchcard-backend/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CodeHandler handles code registry requests
type CodeHandler struct {
	codes *services.CodeService
	log   logrus.FieldLogger
}

// NewCodeHandler creates a new CodeHandler
func NewCodeHandler(codes *services.CodeService, log logrus.FieldLogger) *CodeHandler {
	return &CodeHandler{codes: codes, log: log}
}

// ImportRequest carries raw codes to import
type ImportRequest struct {
	Codes []string `json:"codes" binding:"required"`
}

// UpdateCodeRequest edits a code string and optionally its validity
type UpdateCodeRequest struct {
	Code    string `json:"code" binding:"required"`
	IsValid *bool  `json:"isValid"`
}

// DeleteCodesRequest lists the codes to delete
type DeleteCodesRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

// GetCodeStatus handles GET /codes/status/:code
func (h *CodeHandler) GetCodeStatus(c *gin.Context) {
	status, err := h.codes.GetCodeStatus(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, status, "")
}

// ListCodes handles GET /admin/codes?limit=n
func (h *CodeHandler) ListCodes(c *gin.Context) {
	var limit int64
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			respondFail(c, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	codes, err := h.codes.ListCodes(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, codes, "")
}

// GetCode handles GET /admin/codes/:id
func (h *CodeHandler) GetCode(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}
	code, err := h.codes.GetCode(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if code == nil {
		respondFail(c, http.StatusNotFound, "Code not found")
		return
	}
	respondOK(c, http.StatusOK, code, "")
}

// UpdateCode handles PUT /admin/codes/:id
func (h *CodeHandler) UpdateCode(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}
	var req UpdateCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.codes.UpdateCode(c.Request.Context(), id, req.Code, req.IsValid); err != nil {
		respondError(c, h.log, err)
		return
	}
	respondMessage(c, http.StatusOK, "Code updated")
}

// DeleteCodes handles POST /admin/codes/delete
func (h *CodeHandler) DeleteCodes(c *gin.Context) {
	var req DeleteCodesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}
	ids, err := parseObjectIDs(req.IDs)
	if err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid code id")
		return
	}

	if err := h.codes.DeleteCodes(c.Request.Context(), ids); err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"deleted": len(ids)}, "Codes deleted")
}

// ImportCodes handles POST /admin/codes/import
func (h *CodeHandler) ImportCodes(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, http.StatusOK, h.codes.ImportBatch(c.Request.Context(), req.Codes), "")
}

// ImportCodesFile handles POST /admin/codes/import/file with a CSV in the "file" field
func (h *CodeHandler) ImportCodesFile(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		respondFail(c, http.StatusBadRequest, "CSV file is required")
		return
	}
	file, err := header.Open()
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	defer file.Close()

	codes, err := utils.ReadCodes(file)
	if err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, http.StatusOK, h.codes.ImportBatch(c.Request.Context(), codes), "")
}
