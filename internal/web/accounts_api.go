package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleAPIListAccounts(c *gin.Context) {
	ctx, cancel := s.storeCtx(c)
	defer cancel()

	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"accounts": accounts,
		"active":   activeAccount(c).Slug,
	})
}

// handleAPISwitchAccount points the account cookie at another slug,
// creating the account first when a name is supplied.
func (s *Server) handleAPISwitchAccount(c *gin.Context) {
	var payload struct {
		Slug string `json:"slug" binding:"required"`
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	slug := strings.ToLower(strings.TrimSpace(payload.Slug))
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slug is required"})
		return
	}

	ctx, cancel := s.storeCtx(c)
	defer cancel()

	account, err := s.store.GetAccountBySlug(ctx, slug)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if account == nil {
		name := strings.TrimSpace(payload.Name)
		if name == "" {
			c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
			return
		}
		account, err = s.store.CreateAccount(ctx, name, slug)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	c.SetCookie(accountCookie, account.Slug, accountCookieTTL, "/", "", false, true)
	c.JSON(http.StatusOK, account)
}

func (s *Server) handleAPIListSubscriptions(c *gin.Context) {
	account := activeAccount(c)
	ctx, cancel := s.storeCtx(c)
	defer cancel()

	subs, err := s.store.ListSubscriptions(ctx, account.ID, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": subs})
}

func (s *Server) handleAPICreateSubscription(c *gin.Context) {
	var payload struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if email == "" || !strings.Contains(email, "@") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a valid email address is required"})
		return
	}

	ctx, cancel := s.storeCtx(c)
	defer cancel()
	sub, err := s.store.CreateSubscription(ctx, activeAccount(c).ID, email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (s *Server) handleAPIDeleteSubscription(c *gin.Context) {
	id := c.Param("id")
	account := activeAccount(c)

	ctx, cancel := s.storeCtx(c)
	defer cancel()

	subs, err := s.store.ListSubscriptions(ctx, account.ID, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	for _, sub := range subs {
		if sub.ID == id {
			if err := s.store.DeactivateSubscription(ctx, id); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"deactivated": id})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "subscription not found"})
}
