package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-adp-admin/internal/middleware"
	"github.com/noah-isme/sma-adp-admin/internal/models"
	"github.com/noah-isme/sma-adp-admin/internal/view"
	appErrors "github.com/noah-isme/sma-adp-admin/pkg/errors"
	"github.com/noah-isme/sma-adp-admin/pkg/logger"
)

// mountedView returns the caller's controller for kind, mounting it on first
// use. It aborts with 500 when no session middleware ran.
func mountedView(c *gin.Context, kind models.Kind) (*view.Controller, bool) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		abortWithPage(c, appErrors.Clone(appErrors.ErrInternal, "session missing"))
		return nil, false
	}
	logger.AddFields(c, zap.String("view", kind.Name))
	ctrl := sess.View(kind)
	ctrl.Mount(c.Request.Context())
	return ctrl, true
}

func abortWithPage(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	_ = c.Error(err)
	c.Header("Cache-Control", "no-store")
	c.HTML(appErr.Status, "error.tmpl", gin.H{
		"Title":   http.StatusText(appErr.Status),
		"Message": appErr.Message,
		"Code":    appErr.Code,
	})
	c.Abort()
}
