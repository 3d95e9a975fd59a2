package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// SessionCookieName is the cookie the signed session token travels in.
const SessionCookieName = "session"

// SessionClaims is the payload of a session token. The email claim identifies
// the user; the middleware resolves it against the database on each request.
type SessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// SessionService mints and verifies session tokens.
type SessionService struct {
	secret []byte
	maxAge time.Duration

	secure   bool
	httpOnly bool
	sameSite http.SameSite
}

// NewSessionService creates a session service with the given signing secret
// and cookie parameters.
func NewSessionService(secret string, maxAge time.Duration, secure, httpOnly bool, sameSite string) *SessionService {
	return &SessionService{
		secret:   []byte(secret),
		maxAge:   maxAge,
		secure:   secure,
		httpOnly: httpOnly,
		sameSite: parseSameSite(sameSite),
	}
}

// Secret exposes the signing key for the echo-jwt middleware.
func (s *SessionService) Secret() []byte {
	return s.secret
}

// Issue signs a new session token embedding the user's email.
func (s *SessionService) Issue(email string) (string, error) {
	claims := &SessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.maxAge)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify validates a session token and returns its claims.
func (s *SessionService) Verify(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Email == "" {
		return nil, errors.New("missing email claim")
	}

	return claims, nil
}

// Cookie builds the session cookie carrying the given token.
func (s *SessionService) Cookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(s.maxAge),
		MaxAge:   int(s.maxAge.Seconds()),
		Secure:   s.secure,
		HttpOnly: s.httpOnly,
		SameSite: s.sameSite,
	}
}

// ExpiredCookie builds a cookie that clears the session on the client.
func (s *SessionService) ExpiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   s.secure,
		HttpOnly: s.httpOnly,
		SameSite: s.sameSite,
	}
}

func parseSameSite(v string) http.SameSite {
	switch v {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
