package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookcatalog/internal/entities"
)

// Context keys for the resolved principal
const (
	ContextKeyUser     = "auth_user"
	ContextKeyAuthType = "auth_type"
)

// AuthType indicates which strategy resolved the principal.
type AuthType string

const (
	AuthTypeNone    AuthType = "none"
	AuthTypeSession AuthType = "session"
	AuthTypeBearer  AuthType = "bearer"
	AuthTypeBasic   AuthType = "basic"
)

// Resolver turns a request into an authenticated principal. Two concrete
// strategies exist: bearer-token lookup for the API and session-cookie
// lookup for the web surface. Routes pick their resolver at registration
// time; there is no ambient middleware chain deciding per request.
type Resolver interface {
	Resolve(c *gin.Context) (*entities.User, AuthType)
}

// BearerResolver resolves "Authorization: Bearer <value>" headers.
type BearerResolver struct {
	service *Service
}

func NewBearerResolver(service *Service) *BearerResolver {
	return &BearerResolver{service: service}
}

func (r *BearerResolver) Resolve(c *gin.Context) (*entities.User, AuthType) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, AuthTypeNone
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, AuthTypeNone
	}

	user, err := r.service.ResolveToken(c.Request.Context(), parts[1])
	if err != nil {
		return nil, AuthTypeNone
	}
	return user, AuthTypeBearer
}

// SessionResolver resolves the scs session cookie.
type SessionResolver struct {
	service  *Service
	sessions *SessionManager
}

func NewSessionResolver(service *Service, sessions *SessionManager) *SessionResolver {
	return &SessionResolver{service: service, sessions: sessions}
}

func (r *SessionResolver) Resolve(c *gin.Context) (*entities.User, AuthType) {
	userID := r.sessions.GetUserID(c.Request)
	if userID == 0 {
		return nil, AuthTypeNone
	}

	user, err := r.service.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		return nil, AuthTypeNone
	}
	return user, AuthTypeSession
}

// RequireAPI aborts with 401 when the resolver yields no principal.
// API clients always get the hard failure, never a redirect.
func RequireAPI(resolver Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, authType := resolver.Resolve(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}
		setPrincipal(c, user, authType)
		c.Next()
	}
}

// RequireWeb redirects unauthenticated visitors to the login page instead
// of returning an error status.
func RequireWeb(resolver Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, authType := resolver.Resolve(c)
		if user == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		setPrincipal(c, user, authType)
		c.Next()
	}
}

// Optional resolves the principal when present but never rejects. Public
// pages use it for the logged-in flag.
func Optional(resolver Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, authType := resolver.Resolve(c); user != nil {
			setPrincipal(c, user, authType)
		}
		c.Next()
	}
}

// RequireBasic verifies HTTP Basic credentials against the user store.
// The API login endpoint is the only consumer.
func RequireBasic(service *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", `Basic realm="bookcatalog"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}

		user, err := service.Authenticate(c.Request.Context(), username, password)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid credentials",
			})
			return
		}
		setPrincipal(c, user, AuthTypeBasic)
		c.Next()
	}
}

func setPrincipal(c *gin.Context, user *entities.User, authType AuthType) {
	c.Set(ContextKeyUser, user)
	c.Set(ContextKeyAuthType, authType)
}

// CurrentUser retrieves the resolved principal, or nil when the request is
// unauthenticated.
func CurrentUser(c *gin.Context) *entities.User {
	if v, exists := c.Get(ContextKeyUser); exists {
		if user, ok := v.(*entities.User); ok {
			return user
		}
	}
	return nil
}

// GetAuthType retrieves the strategy that resolved the principal.
func GetAuthType(c *gin.Context) AuthType {
	if v, exists := c.Get(ContextKeyAuthType); exists {
		if t, ok := v.(AuthType); ok {
			return t
		}
	}
	return AuthTypeNone
}
