package handlers

import (
	"errors"
	"net/http"

	"github.com/ArowuTest/scratchcard-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Response is the envelope of every JSON response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func respondOK(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, Response{Success: true, Message: message, Data: data})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: status < http.StatusBadRequest, Message: message})
}

func respondFail(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: false, Error: message})
}

var kindStatus = map[services.ErrorKind]int{
	services.ErrInvalidInput:           http.StatusBadRequest,
	services.ErrInvalidToken:           http.StatusBadRequest,
	services.ErrUnauthorized:           http.StatusUnauthorized,
	services.ErrNotFound:               http.StatusNotFound,
	services.ErrDuplicateCode:          http.StatusConflict,
	services.ErrReferencedByAssignment: http.StatusConflict,
	services.ErrAlreadyClaimed:         http.StatusConflict,
}

// respondError writes a business-rule error with its status, anything else as a 500
func respondError(c *gin.Context, log logrus.FieldLogger, err error) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		if status, ok := kindStatus[svcErr.Kind]; ok {
			respondFail(c, status, svcErr.Message)
			return
		}
	}

	_ = c.Error(err)
	log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	respondFail(c, http.StatusInternalServerError, "Internal server error")
}

// claimStatus maps a claim outcome that did not enter a claim to an HTTP status
var claimStatus = map[services.ClaimOutcome]int{
	services.ClaimNotVerified:      http.StatusNotFound,
	services.ClaimCodeNotFound:     http.StatusNotFound,
	services.ClaimAlreadyClaimed:   http.StatusConflict,
	services.ClaimDocumentRequired: http.StatusUnprocessableEntity,
}

func respondClaim(c *gin.Context, result services.ClaimResult) {
	if result.OK() {
		respondOK(c, http.StatusCreated, gin.H{"claimableId": result.ClaimableID}, "Prize entered for claiming")
		return
	}
	respondFail(c, claimStatus[result.Outcome], result.Outcome.String())
}

func parseObjectID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid "+param)
		return primitive.NilObjectID, false
	}
	return id, true
}

func parseObjectIDs(values []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(values))
	for _, v := range values {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
