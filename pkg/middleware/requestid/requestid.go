package requestid

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Header carries the request ID to and from clients.
const Header = "X-Request-ID"

const ctxKey = "request_id"

// Inbound IDs beyond this length are replaced rather than echoed, so a
// client cannot stuff arbitrary payloads into the log stream.
const maxInboundLen = 64

// Middleware tags every request with an ID, reusing an acceptable inbound
// one so IDs correlate across services.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(Header)
		if !acceptable(id) {
			id = newID()
		}

		c.Set(ctxKey, id)
		c.Writer.Header().Set(Header, id)
		c.Next()
	}
}

// Value returns the request ID for the current request, or empty when the
// middleware did not run.
func Value(c *gin.Context) string {
	if v, ok := c.Get(ctxKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func acceptable(id string) bool {
	if id == "" || len(id) > maxInboundLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		b := id[i]
		switch {
		case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9', b == '-', b == '_':
		default:
			return false
		}
	}
	return true
}

func newID() string {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "t-" + strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return hex.EncodeToString(buf[:])
}
