package docsession

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	DefaultCookieName = "docsession"
	sessionContextKey = "docsession.session"
	maxIDLength       = 128
)

type MiddlewareOptions struct {
	CookieName     string
	CookieDomain   string
	SecureCookie   bool
	TrustedProxies []string
	Logger         zerolog.Logger
}

// Session is the per-request view of a stored session.
type Session struct {
	id        string
	data      []byte
	dirty     bool
	destroyed bool

	c       *gin.Context
	handler *Handler
	opts    *MiddlewareOptions
}

func (s *Session) ID() string { return s.id }

func (s *Session) Data() []byte { return s.data }

// Set replaces the payload; it is written once the handler chain returns.
func (s *Session) Set(data []byte) {
	s.data = data
	s.dirty = true
}

// Destroy deletes the session from the store and clears the cookie. Call it before the
// response body is written.
func (s *Session) Destroy() error {
	if err := s.handler.Destroy(s.c.Request.Context(), s.id); err != nil {
		return err
	}
	s.destroyed = true
	s.data = nil
	http.SetCookie(s.c.Writer, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    "",
		Path:     "/",
		Domain:   s.opts.CookieDomain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// FromContext returns the session loaded by Middleware.
func FromContext(c *gin.Context) (*Session, bool) {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*Session)
	return sess, ok
}

// Middleware loads the session named by the request cookie, exposes it through
// FromContext, and writes it back after the chain when it was changed. The request
// context carries RequestInfo for ContextRequest.
func Middleware(h *Handler, opts MiddlewareOptions) gin.HandlerFunc {
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	trusted := parseTrustedProxies(opts.TrustedProxies)
	logger := opts.Logger.With().Str("component", "session_middleware").Logger()

	return func(c *gin.Context) {
		ctx := WithRequestInfo(c.Request.Context(), RequestInfo{
			IP:        clientIP(c.Request, trusted),
			UserAgent: c.Request.UserAgent(),
		})
		c.Request = c.Request.WithContext(ctx)

		sess := &Session{c: c, handler: h, opts: &opts}
		if cookie, err := c.Request.Cookie(opts.CookieName); err == nil && validID(cookie.Value) {
			data, err := h.Read(ctx, cookie.Value)
			if err != nil {
				logger.Error().Err(err).Msg("failed to read session")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session unavailable"})
				return
			}
			// Unknown or expired ids are never adopted from the client.
			if len(data) > 0 {
				sess.id = cookie.Value
				sess.data = data
			}
		}
		if sess.id == "" {
			id, err := generateID()
			if err != nil {
				logger.Error().Err(err).Msg("failed to generate session id")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session unavailable"})
				return
			}
			sess.id = id
		}

		http.SetCookie(c.Writer, &http.Cookie{
			Name:     opts.CookieName,
			Value:    sess.id,
			Path:     "/",
			Domain:   opts.CookieDomain,
			Expires:  time.Now().Add(h.Lifetime()),
			HttpOnly: true,
			Secure:   opts.SecureCookie,
			SameSite: http.SameSiteLaxMode,
		})

		c.Set(sessionContextKey, sess)
		c.Next()

		if !sess.dirty || sess.destroyed {
			return
		}
		if err := h.Write(c.Request.Context(), sess.id, sess.data); err != nil {
			logger.Error().Err(err).Msg("failed to write session")
			_ = c.Error(err)
		}
	}
}

func generateID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// validID accepts URL-safe ids of bounded length.
func validID(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
