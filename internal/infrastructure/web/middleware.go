package web

import (
	"net/http"
	"time"

	"github.com/bnema/careshell/internal/logging"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	clientIDKey     = "careshell.client_id"
	clientCookieAge = 365 * 24 * 60 * 60
)

// RequestLogger attaches logger to each request context and logs the
// request once it completes.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := logging.WithContext(c.Request.Context(), logger)
		ctx = logging.WithComponent(ctx, "http")
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		event := logging.FromContext(ctx).Debug()
		if status >= http.StatusInternalServerError {
			event = logging.FromContext(ctx).Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	}
}

// ClientID reads the client id cookie, issuing a new UUID when it is
// missing or malformed.
func ClientID(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(cookieName)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookieName, id, clientCookieAge, "/", "", false, true)
		}
		c.Set(clientIDKey, id)
		c.Request = c.Request.WithContext(logging.WithClientID(c.Request.Context(), id))
		c.Next()
	}
}

func clientIDFrom(c *gin.Context) string {
	return c.GetString(clientIDKey)
}

// CORS allows cross-origin API calls from origins. Nil when origins is empty.
func CORS(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return nil
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
