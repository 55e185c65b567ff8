package main

import (
	"context"
	"crypto/subtle"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/minus-twelve/docsession"
)

func main() {
	configPath := flag.String("config", "docsession.yaml", "path to the YAML config")
	addr := flag.String("addr", ":8080", "listen address")
	secure := flag.Bool("secure-cookie", false, "mark the session cookie Secure")
	trustUser := flag.Bool("trust-user-header", false, "take the user id from X-User-ID (only behind a gateway that sets it)")
	adminToken := flag.String("admin-token", os.Getenv("DOCSESSION_ADMIN_TOKEN"), "bearer token for DELETE /users/:id/sessions; the route is off when empty")
	flag.Parse()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := docsession.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("config error")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	manager, err := docsession.NewManager(startCtx, cfg,
		docsession.WithLogger(logger),
		docsession.WithHandlerOptions(
			docsession.WithIdentityResolver(docsession.ContextIdentity{}),
			docsession.WithRequestResolver(docsession.ContextRequest{}),
		),
	)
	cancel()
	if err != nil {
		logger.Fatal().Err(err).Msg("session store error")
	}

	router := newRouter(manager.Handler(), routerOptions{
		SecureCookie:    *secure,
		TrustUserHeader: *trustUser,
		AdminToken:      *adminToken,
		Logger:          logger,
	})
	server := &http.Server{
		Addr:         *addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", *addr).Msg("http server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown failed")
	}
	if err := manager.Close(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("session store close failed")
	}
}

type routerOptions struct {
	SecureCookie bool
	// TrustUserHeader must only be set when a gateway strips client supplied
	// X-User-ID headers.
	TrustUserHeader bool
	AdminToken      string
	Logger          zerolog.Logger
}

// trustedUser takes the user id an upstream gateway put in X-User-ID.
func trustedUser(c *gin.Context) {
	if id := c.GetHeader("X-User-ID"); id != "" {
		c.Request = c.Request.WithContext(docsession.WithIdentity(c.Request.Context(), id))
	}
	c.Next()
}

func requireToken(token string) gin.HandlerFunc {
	want := []byte("Bearer " + token)
	return func(c *gin.Context) {
		got := []byte(c.GetHeader("Authorization"))
		if subtle.ConstantTimeCompare(got, want) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

func newRouter(h *docsession.Handler, opts routerOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	web := router.Group("/")
	web.Use(docsession.Middleware(h, docsession.MiddlewareOptions{
		SecureCookie: opts.SecureCookie,
		Logger:       opts.Logger,
	}))
	if opts.TrustUserHeader {
		web.Use(trustedUser)
	}

	web.GET("/visits", func(c *gin.Context) {
		sess, _ := docsession.FromContext(c)
		n, _ := strconv.Atoi(string(sess.Data()))
		n++
		sess.Set([]byte(strconv.Itoa(n)))
		c.JSON(http.StatusOK, gin.H{"session_id": sess.ID(), "visits": n})
	})

	web.POST("/logout", func(c *gin.Context) {
		sess, _ := docsession.FromContext(c)
		if err := sess.Destroy(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
			return
		}
		c.Status(http.StatusNoContent)
	})

	if opts.AdminToken != "" {
		router.DELETE("/users/:id/sessions", requireToken(opts.AdminToken), func(c *gin.Context) {
			n, err := h.DestroyUser(c.Request.Context(), c.Param("id"))
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"removed": n})
		})
	}

	return router
}
