package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sgmi-dev/sgmi-api/internal/fixture"
	"github.com/sgmi-dev/sgmi-api/internal/models"
	"github.com/sgmi-dev/sgmi-api/internal/service"
	appErrors "github.com/sgmi-dev/sgmi-api/pkg/errors"
	"github.com/sgmi-dev/sgmi-api/pkg/response"
)

func newInventoryRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewInventoryService(fixture.NewInventoryStore(), nil, zap.NewNop())
	h := NewInventoryHandler(svc)
	r := gin.New()
	r.POST("/inventario/:id/ajustar", h.Adjust)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeErrorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	return envelope.Error.Code
}

// The adjustment body arrives with Spanish keys. Clients send cantidad and
// tipo, so those exact keys must bind.
func TestInventoryAdjustBindsSpanishBody(t *testing.T) {
	r := newInventoryRouter()

	// Seeded inv-001 holds 15 units.
	w := postJSON(r, "/inventario/inv-001/ajustar", `{"cantidad":4,"tipo":"salida"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var envelope struct {
		Data models.InventoryItem `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "inv-001", envelope.Data.ID)
	assert.Equal(t, 11, envelope.Data.Quantity)
}

func TestInventoryAdjustOverdrawIsInsufficientStock(t *testing.T) {
	r := newInventoryRouter()

	w := postJSON(r, "/inventario/inv-001/ajustar", `{"cantidad":20,"tipo":"salida"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, appErrors.ErrInsufficientStock.Code, decodeErrorCode(t, w))
}

func TestInventoryAdjustUnknownDirectionIsValidationError(t *testing.T) {
	r := newInventoryRouter()

	w := postJSON(r, "/inventario/inv-001/ajustar", `{"cantidad":1,"tipo":"transferencia"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, appErrors.ErrValidation.Code, decodeErrorCode(t, w))
}
