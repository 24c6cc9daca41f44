package web

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"garagelog/internal/db"
	"garagelog/internal/models"
)

const (
	accountCookie    = "account"
	accountCtxKey    = "account"
	accountCookieTTL = 365 * 24 * int(time.Hour/time.Second)
)

// requestLogger logs one line per request through zap.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Infow("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// accountMiddleware resolves the account cookie to the active account,
// falling back to the default account when the cookie is absent or stale.
// Every handler downstream scopes its queries to the resolved account.
func (s *Server) accountMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.StoreTimeout)
		defer cancel()

		slug, _ := c.Cookie(accountCookie)
		if slug == "" {
			slug = db.DefaultAccountSlug
		}

		account, err := s.store.GetAccountBySlug(ctx, slug)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if account == nil && slug != db.DefaultAccountSlug {
			account, err = s.store.GetAccountBySlug(ctx, db.DefaultAccountSlug)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		}
		if account == nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "no default account; run migrations"})
			return
		}

		c.Set(accountCtxKey, account)
		c.Next()
	}
}

// activeAccount returns the account resolved by the middleware.
func activeAccount(c *gin.Context) *models.Account {
	v, _ := c.Get(accountCtxKey)
	account, _ := v.(*models.Account)
	return account
}
