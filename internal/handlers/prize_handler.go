package handlers

import (
	"net/http"

	"github.com/ArowuTest/scratchcard-backend/internal/models"
	"github.com/ArowuTest/scratchcard-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PrizeHandler handles prize catalog and assignment requests
type PrizeHandler struct {
	definitions *services.PrizeDefinitionService
	prizes      *services.PrizeService
	log         logrus.FieldLogger
}

// NewPrizeHandler creates a new PrizeHandler
func NewPrizeHandler(definitions *services.PrizeDefinitionService, prizes *services.PrizeService, log logrus.FieldLogger) *PrizeHandler {
	return &PrizeHandler{definitions: definitions, prizes: prizes, log: log}
}

// AssignRequest links a code to a prize definition
type AssignRequest struct {
	CodeID            string `json:"code_id" binding:"required"`
	PrizeDefinitionID string `json:"prize_definition_id" binding:"required"`
}

// BulkAssignRequest links many codes to one prize definition
type BulkAssignRequest struct {
	CodeIDs           []string `json:"code_ids" binding:"required,min=1"`
	PrizeDefinitionID string   `json:"prize_definition_id" binding:"required"`
}

// ListDefinitions handles GET /admin/prize-definitions
func (h *PrizeHandler) ListDefinitions(c *gin.Context) {
	defs, err := h.definitions.ListPrizeDefinitions(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, defs, "")
}

// GetDefinition handles GET /admin/prize-definitions/:id
func (h *PrizeHandler) GetDefinition(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}
	def, err := h.definitions.GetPrizeDefinition(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if def == nil {
		respondFail(c, http.StatusNotFound, "Prize definition not found")
		return
	}
	respondOK(c, http.StatusOK, def, "")
}

// CreateDefinition handles POST /admin/prize-definitions
func (h *PrizeHandler) CreateDefinition(c *gin.Context) {
	var input models.PrizeDefinitionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}
	def, err := h.definitions.CreatePrizeDefinition(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusCreated, def, "Prize definition created")
}

// UpdateDefinition handles PUT /admin/prize-definitions/:id
func (h *PrizeHandler) UpdateDefinition(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}
	var input models.PrizeDefinitionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}
	def, err := h.definitions.UpdatePrizeDefinition(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, def, "Prize definition updated")
}

// DeleteDefinition handles DELETE /admin/prize-definitions/:id
func (h *PrizeHandler) DeleteDefinition(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}
	if err := h.definitions.DeletePrizeDefinition(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	respondMessage(c, http.StatusOK, "Prize definition deleted")
}

// ListPrizes handles GET /admin/prizes
func (h *PrizeHandler) ListPrizes(c *gin.Context) {
	prizes, err := h.prizes.ListPrizes(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, prizes, "")
}

// GetPrizeByCode handles GET /admin/codes/:id/prize
func (h *PrizeHandler) GetPrizeByCode(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}
	prize, err := h.prizes.GetPrizeByCode(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if prize == nil {
		respondFail(c, http.StatusNotFound, "No prize assigned to this code")
		return
	}
	respondOK(c, http.StatusOK, prize, "")
}

// AssignPrize handles POST /admin/prizes
func (h *PrizeHandler) AssignPrize(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}
	ids, err := parseObjectIDs([]string{req.CodeID, req.PrizeDefinitionID})
	if err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid id")
		return
	}

	result, err := h.prizes.AssignPrize(c.Request.Context(), ids[0], ids[1])
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, result, "")
}

// BulkAssignPrize handles POST /admin/prizes/bulk
func (h *PrizeHandler) BulkAssignPrize(c *gin.Context) {
	var req BulkAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}
	codeIDs, err := parseObjectIDs(req.CodeIDs)
	if err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid code id")
		return
	}
	defID, err := primitive.ObjectIDFromHex(req.PrizeDefinitionID)
	if err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid prize_definition_id")
		return
	}
	respondOK(c, http.StatusOK, h.prizes.BulkAssignPrize(c.Request.Context(), codeIDs, defID), "")
}

// RemovePrize handles DELETE /admin/codes/:id/prize
func (h *PrizeHandler) RemovePrize(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}
	result, err := h.prizes.RemovePrize(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, result, "")
}
