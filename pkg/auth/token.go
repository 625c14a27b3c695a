package auth

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"chorequest/internal/model"
	"chorequest/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const kidContextKey = "kid"

// KidResolver turns a device token into the kid it was issued to.
// Implemented by the repository; pairing and rotation of tokens happen
// out of band.
type KidResolver interface {
	GetKidByToken(ctx context.Context, token string) (*model.Kid, error)
}

type TokenAuth struct {
	adminKey string
	kids     KidResolver
}

func NewTokenAuth(adminKey string, kids KidResolver) *TokenAuth {
	return &TokenAuth{
		adminKey: adminKey,
		kids:     kids,
	}
}

// AdminMiddleware gates admin routes behind the configured key,
// presented as "Authorization: Bearer <key>".
func (t *TokenAuth) AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.Logger()

		key, ok := bearerToken(c, "Bearer ")
		if !ok {
			log.Info("missing or malformed admin authorization header")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header is required"})
			return
		}

		if subtle.ConstantTimeCompare([]byte(key), []byte(t.adminKey)) != 1 {
			log.Info("invalid admin key presented")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}

		c.Next()
	}
}

// KidMiddleware resolves "Authorization: Kid <token>" to a kid and
// stores it in the request context.
func (t *TokenAuth) KidMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.Logger()

		token, ok := bearerToken(c, "Kid ")
		if !ok {
			log.Info("missing or malformed kid authorization header")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header is required"})
			return
		}

		kid, err := t.kids.GetKidByToken(c.Request.Context(), token)
		if err != nil {
			log.Info("kid token rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(kidContextKey, kid)
		c.Next()
	}
}

// KidFromContext returns the kid the request was authenticated as.
func KidFromContext(c *gin.Context) (*model.Kid, bool) {
	v, exists := c.Get(kidContextKey)
	if !exists {
		return nil, false
	}
	kid, ok := v.(*model.Kid)
	return kid, ok
}

func bearerToken(c *gin.Context, prefix string) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimPrefix(header, prefix)
	if token == "" {
		return "", false
	}
	return token, true
}
