package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-adp-admin/internal/middleware"
	appErrors "github.com/noah-isme/sma-adp-admin/pkg/errors"
)

// PageHandler serves the pages that carry no record data.
type PageHandler struct {
	nav []NavItem
}

// NewPageHandler constructs a PageHandler.
func NewPageHandler(nav []NavItem) *PageHandler {
	return &PageHandler{nav: nav}
}

// Login renders the sign-in placeholder. Authentication does not exist yet.
func (h *PageHandler) Login(c *gin.Context) {
	c.HTML(appErrors.ErrUnimplemented.Status, "login.tmpl", pageData{Title: "Login", Nav: h.nav, Active: "/"})
}

type profilePage struct {
	pageData
	SessionID string
}

// Profile renders the profile stub.
func (h *PageHandler) Profile(c *gin.Context) {
	page := profilePage{pageData: pageData{Title: "Profile", Nav: h.nav, Active: "/profil"}}
	if sess, ok := middleware.CurrentSession(c); ok {
		page.SessionID = sess.ID
	}
	c.HTML(http.StatusOK, "profile.tmpl", page)
}
