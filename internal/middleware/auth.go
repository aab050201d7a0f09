package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/SAP-F-2025/quiz-service/internal/config"
	"github.com/SAP-F-2025/quiz-service/internal/session"
	"github.com/SAP-F-2025/quiz-service/internal/utils"
	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"
)

const (
	ContextUserID   = "user_id"
	ContextUserName = "user_name"
)

var ErrMissingSubject = errors.New("token has no subject")

// TokenParser turns a bearer token into the caller's identity
type TokenParser interface {
	Parse(token string) (session.Identity, error)
}

// CasdoorParser verifies tokens issued by a casdoor application
type CasdoorParser struct {
	client *casdoorsdk.Client
}

func NewCasdoorParser(cfg config.CasdoorConfig) *CasdoorParser {
	return &CasdoorParser{
		client: casdoorsdk.NewClient(
			cfg.Endpoint,
			cfg.ClientID,
			cfg.ClientSecret,
			cfg.Certificate,
			cfg.Organization,
			cfg.Application,
		),
	}
}

func (p *CasdoorParser) Parse(token string) (session.Identity, error) {
	claims, err := p.client.ParseJwtToken(token)
	if err != nil {
		return session.Identity{}, err
	}
	if claims.User.Id == "" {
		return session.Identity{}, ErrMissingSubject
	}
	return session.Identity{UserID: claims.User.Id, Name: claims.User.Name}, nil
}

// Auth resolves the bearer token when one is sent. Requests without a token pass
// through anonymously; a token that fails verification is rejected.
func Auth(parser TokenParser, logger utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}

		identity, err := parser.Parse(token)
		if err != nil {
			utils.GetLoggerFromContext(c, logger).Warn("Rejected bearer token", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		c.Set(ContextUserID, identity.UserID)
		c.Set(ContextUserName, identity.Name)
		c.Next()
	}
}

// RequireUser rejects anonymous requests
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IdentityFrom(c).Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
			return
		}
		c.Next()
	}
}

// IdentityFrom returns the identity Auth stored, or an anonymous one
func IdentityFrom(c *gin.Context) session.Identity {
	return session.Identity{
		UserID: c.GetString(ContextUserID),
		Name:   c.GetString(ContextUserName),
	}
}

func bearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return "", false
	}
	token := strings.TrimSpace(header[7:])
	return token, token != ""
}
