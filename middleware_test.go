package docsession

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/minus-twelve/docsession/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(Middleware(h, MiddlewareOptions{TrustedProxies: []string{"10.0.0.0/8"}}))

	r.GET("/visit", func(c *gin.Context) {
		sess, ok := FromContext(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		n, _ := strconv.Atoi(string(sess.Data()))
		n++
		sess.Set([]byte(strconv.Itoa(n)))
		c.String(http.StatusOK, "%d", n)
	})

	r.GET("/peek", func(c *gin.Context) {
		sess, _ := FromContext(c)
		c.String(http.StatusOK, "%s", sess.Data())
	})

	r.POST("/login", func(c *gin.Context) {
		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), "user-42"))
		sess, _ := FromContext(c)
		sess.Set([]byte("logged-in"))
		c.Status(http.StatusNoContent)
	})

	r.POST("/logout", func(c *gin.Context) {
		sess, _ := FromContext(c)
		if err := sess.Destroy(); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})
	return r
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == DefaultCookieName {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestMiddlewareRoundTrip(t *testing.T) {
	h, _, _ := newMemoryHandler(t)
	router := newTestRouter(h)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/visit", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Body.String())

	cookie := sessionCookie(t, w)
	assert.True(t, cookie.HttpOnly)
	assert.Len(t, cookie.Value, 64)

	req := httptest.NewRequest(http.MethodGet, "/visit", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "2", w.Body.String())
	assert.Equal(t, cookie.Value, sessionCookie(t, w).Value)
}

func TestMiddlewareUnchangedSessionIsNotWritten(t *testing.T) {
	h, store, _ := newMemoryHandler(t)
	router := newTestRouter(h)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/peek", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, store.Len())
}

func TestMiddlewareRejectsMalformedCookie(t *testing.T) {
	h, _, _ := newMemoryHandler(t)
	router := newTestRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/visit", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "../../etc"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "1", w.Body.String())
	assert.NotEqual(t, "../../etc", sessionCookie(t, w).Value)
}

func TestMiddlewareIgnoresUnissuedID(t *testing.T) {
	ctx := context.Background()
	h, store, _ := newMemoryHandler(t)
	router := newTestRouter(h)

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "attacker-chosen"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	issued := sessionCookie(t, w).Value
	assert.NotEqual(t, "attacker-chosen", issued)

	rec, err := store.FindOne(ctx, "attacker-chosen")
	require.NoError(t, err)
	assert.Nil(t, rec)

	rec, err = store.FindOne(ctx, issued)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, []byte("logged-in"), rec.Payload)
}

func TestMiddlewareReissuesExpiredID(t *testing.T) {
	h, _, clock := newMemoryHandler(t)
	router := newTestRouter(h)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/visit", nil))
	old := sessionCookie(t, w)

	clock.Advance(31 * time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/visit", nil)
	req.AddCookie(old)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "1", w.Body.String())
	assert.NotEqual(t, old.Value, sessionCookie(t, w).Value)
}

func TestMiddlewareRecordsRequestAndIdentity(t *testing.T) {
	h, store, _ := newMemoryHandler(t,
		WithIdentityResolver(ContextIdentity{}),
		WithRequestResolver(ContextRequest{}),
	)
	router := newTestRouter(h)

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.1.2.3:4000"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.1.2.3")
	req.Header.Set("User-Agent", strings.Repeat("b", 700))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	rec, err := store.FindOne(context.Background(), sessionCookie(t, w).Value)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, []byte("logged-in"), rec.Payload)
	require.NotNil(t, rec.UserID)
	assert.Equal(t, "user-42", *rec.UserID)
	require.NotNil(t, rec.IPAddress)
	assert.Equal(t, "203.0.113.7", *rec.IPAddress)
	require.NotNil(t, rec.UserAgent)
	assert.Len(t, *rec.UserAgent, 500)
}

func TestMiddlewareLogout(t *testing.T) {
	h, store, _ := newMemoryHandler(t)
	router := newTestRouter(h)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/visit", nil))
	cookie := sessionCookie(t, w)
	require.Equal(t, 1, store.Len())

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, store.Len())

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	last := cookies[len(cookies)-1]
	assert.Equal(t, DefaultCookieName, last.Name)
	assert.Equal(t, "", last.Value)
	assert.Less(t, last.MaxAge, 0)
}

func TestMiddlewareReadFailure(t *testing.T) {
	h, coll := newMockHandler(t, testConfig())
	coll.EXPECT().FindOne(gomock.Any(), "abc").Return(nil, errors.New("no reachable servers"))
	router := newTestRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/visit", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "abc"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "session unavailable")
}

func TestFromContextWithoutMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := FromContext(c)
	assert.False(t, ok)
}

var _ Collection = (*storage.MemoryStore)(nil)
