// Package auth resolves request principals through two strategies that share
// one interface: session cookies for the web surface and bearer tokens for
// the API. It also owns password hashing, token minting, registration
// validation and the single-use CSRF token of the book form flow.
//
// # Configuration
//
//	AUTH_SESSION_LIFETIME=24h   # Session duration
//	AUTH_BCRYPT_COST=12         # bcrypt cost factor
//	AUTH_SECURE_COOKIES=true    # HTTPS-only cookies
//	ADMIN_PASSWORD=<secret>     # bootstrap admin; generated if empty
//
// # Usage
//
// Initialize in entrypoint:
//
//	service := auth.NewService(userRepo, tokenRepo, cfg.Auth)
//	sessions, _ := auth.NewSessionManager(sqlDB, driver, cfg.Auth)
//	api := router.Group("/api", auth.RequireAPI(auth.NewBearerResolver(service)))
//
// Extract the principal in handlers:
//
//	user := auth.CurrentUser(c)
package auth
