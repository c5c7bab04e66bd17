package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sgmi-dev/sgmi-api/internal/models"
	appErrors "github.com/sgmi-dev/sgmi-api/pkg/errors"
)

// Envelope is the wire shape of every JSON response. Exactly one of Data or
// Error is set; Pagination and Meta travel alongside Data when present.
type Envelope struct {
	Data       interface{}            `json:"data,omitempty"`
	Error      *appErrors.Error       `json:"error,omitempty"`
	Pagination *models.Pagination     `json:"pagination,omitempty"`
	Meta       map[string]interface{} `json:"meta,omitempty"`
}

// API responses carry tokens and user data, so intermediaries must not cache
// them.
func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}

// JSON writes a success envelope. Pagination may be nil; an optional meta map
// rides along for endpoints that report extra context.
func JSON(c *gin.Context, status int, data interface{}, pagination *models.Pagination, meta ...map[string]interface{}) {
	noStore(c)
	envelope := Envelope{Data: data, Pagination: pagination}
	if len(meta) > 0 && meta[0] != nil {
		envelope.Meta = meta[0]
	}
	c.JSON(status, envelope)
}

// Created writes a 201 envelope for freshly created resources.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data, nil)
}

// Error converts any error to the shared taxonomy and writes it with its
// mapped HTTP status.
func Error(c *gin.Context, err error) {
	noStore(c)
	appErr := appErrors.FromError(err)
	c.JSON(appErr.Status, Envelope{Error: appErr})
}

// NoContent answers 204 with an empty body.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
