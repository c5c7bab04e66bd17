package requestid

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRequest(t *testing.T, inbound string) (string, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())

	var seen string
	r.GET("/ping", func(c *gin.Context) {
		seen = Value(c)
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if inbound != "" {
		req.Header.Set(Header, inbound)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return seen, w.Header().Get(Header)
}

func TestMiddlewareGeneratesID(t *testing.T) {
	seen, echoed := runRequest(t, "")
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, echoed)
	assert.Len(t, seen, 32)
}

func TestMiddlewareReusesInboundID(t *testing.T) {
	seen, echoed := runRequest(t, "trace-abc_123")
	assert.Equal(t, "trace-abc_123", seen)
	assert.Equal(t, "trace-abc_123", echoed)
}

func TestMiddlewareReplacesUnacceptableInboundID(t *testing.T) {
	seen, _ := runRequest(t, "bad id\nwith newline")
	assert.NotEqual(t, "bad id\nwith newline", seen)
	assert.Len(t, seen, 32)
}

func TestValueOutsideMiddlewareIsEmpty(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, Value(c))
}
