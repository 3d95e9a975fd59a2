package middleware

import (
	"log"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"canopy/internal/auth"
	"canopy/internal/model"
	"canopy/internal/repository"
)

const (
	tokenContextKey = "session_token"
	userContextKey  = "current_user"
)

// Session parses the signed session cookie. Verification failure is never
// fatal: the request continues as anonymous and authorization is enforced
// later, per route.
func Session(secret []byte) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:  secret,
		TokenLookup: "cookie:" + auth.SessionCookieName,
		ContextKey:  tokenContextKey,
		ErrorHandler: func(c echo.Context, err error) error {
			log.Printf("session: ignoring invalid token: %v", err)
			return nil
		},
		ContinueOnIgnoredError: true,
	})
}

// ResolveUser turns a verified session token into the request's user by
// looking up the embedded email claim. Missing users and lookup errors
// downgrade to anonymous, same as a missing cookie.
func ResolveUser(users repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get(tokenContextKey).(*jwt.Token)
			if !ok {
				return next(c)
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return next(c)
			}
			email, ok := claims["email"].(string)
			if !ok || email == "" {
				return next(c)
			}

			user, err := users.FindByEmail(c.Request().Context(), email)
			if err != nil {
				log.Printf("session: user lookup failed for %q: %v", email, err)
				return next(c)
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user attached to the request, if any.
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(userContextKey).(*model.User)
	return user, ok
}

// SetCurrentUser attaches a user to the request context. Exposed for tests.
func SetCurrentUser(c echo.Context, user *model.User) {
	c.Set(userContextKey, user)
}
