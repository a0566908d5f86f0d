package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-adp-admin/internal/models"
	"github.com/noah-isme/sma-adp-admin/internal/service"
	"github.com/noah-isme/sma-adp-admin/internal/view"
	"github.com/noah-isme/sma-adp-admin/pkg/response"
)

// Form keys posted by the list page.
const (
	formSearch   = "search"
	formCategory = "category"
	formAction   = "action"
	formField    = "field"
	formValue    = "value"
	actionCancel = "cancel"
)

var draftFields = []models.Field{models.FieldFirstName, models.FieldLastName, models.FieldCategory}

// ViewHandler serves one record view (teachers or students). Every request is
// one user event applied to the caller's controller; mutating requests
// redirect back to the list so a reload never repeats them.
type ViewHandler struct {
	kind    models.Kind
	exports *service.ExportService
	nav     []NavItem
}

// NewViewHandler constructs a handler for kind.
func NewViewHandler(kind models.Kind, exports *service.ExportService, nav []NavItem) *ViewHandler {
	if exports == nil {
		exports = service.NewExportService(nil)
	}
	return &ViewHandler{kind: kind, exports: exports, nav: nav}
}

// Register mounts the view's routes on r.
func (h *ViewHandler) Register(r gin.IRoutes) {
	base := h.kind.Route
	r.GET(base, h.Show)
	r.POST(base+"/search", h.Search)
	r.POST(base+"/sidebar", h.ToggleSidebar)
	r.POST(base+"/new", h.OpenCreate)
	r.POST(base+"/draft", h.SaveDraft)
	r.POST(base+"/draft/field", h.EditField)
	r.POST(base+"/rows/:id/edit", h.OpenEdit)
	r.POST(base+"/rows/:id/delete", h.Delete)
	r.GET(base+"/export", h.Export)
}

type listPage struct {
	pageData
	Kind  models.Kind
	State view.State
}

// Show renders the table, filters and, when open, the modal.
func (h *ViewHandler) Show(c *gin.Context) {
	ctrl, ok := mountedView(c, h.kind)
	if !ok {
		return
	}
	state := ctrl.State()
	c.Header("Cache-Control", "no-store")
	c.HTML(http.StatusOK, "list.tmpl", listPage{
		pageData: pageData{
			Title:     h.kind.Plural,
			Nav:       h.nav,
			Active:    h.kind.Route,
			Collapsed: state.Collapsed,
			Alerts:    ctrl.TakeAlerts(),
		},
		Kind:  h.kind,
		State: state,
	})
}

// Search replaces the free-text query and category filter.
func (h *ViewHandler) Search(c *gin.Context) {
	ctrl, ok := mountedView(c, h.kind)
	if !ok {
		return
	}
	if text, present := c.GetPostForm(formSearch); present {
		ctrl.SetSearch(text)
	}
	if category, present := c.GetPostForm(formCategory); present {
		ctrl.SetCategoryFilter(category)
	}
	h.backToList(c)
}

// ToggleSidebar collapses or expands the side panel.
func (h *ViewHandler) ToggleSidebar(c *gin.Context) {
	ctrl, ok := mountedView(c, h.kind)
	if !ok {
		return
	}
	ctrl.ToggleSidebar()
	h.backToList(c)
}

// OpenCreate opens the modal on a blank draft.
func (h *ViewHandler) OpenCreate(c *gin.Context) {
	ctrl, ok := mountedView(c, h.kind)
	if !ok {
		return
	}
	ctrl.OpenCreate()
	h.backToList(c)
}

// OpenEdit opens the modal on a copy of one row.
func (h *ViewHandler) OpenEdit(c *gin.Context) {
	ctrl, ok := mountedView(c, h.kind)
	if !ok {
		return
	}
	if err := ctrl.OpenEdit(models.ID(c.Param("id"))); err != nil {
		abortWithPage(c, err)
		return
	}
	h.backToList(c)
}

// EditField applies a single field change to the draft, for clients that
// send edits as they are typed.
func (h *ViewHandler) EditField(c *gin.Context) {
	ctrl, ok := mountedView(c, h.kind)
	if !ok {
		return
	}
	field := models.Field(c.PostForm(formField))
	if err := ctrl.EditField(field, c.PostForm(formValue)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SaveDraft applies the posted modal fields and saves, or cancels when the
// cancel button was pressed. Failures surface as alerts on the list page.
func (h *ViewHandler) SaveDraft(c *gin.Context) {
	ctrl, ok := mountedView(c, h.kind)
	if !ok {
		return
	}
	if c.PostForm(formAction) == actionCancel {
		ctrl.Cancel()
		h.backToList(c)
		return
	}
	for _, field := range draftFields {
		value, present := c.GetPostForm(string(field))
		if !present {
			continue
		}
		if err := ctrl.EditField(field, value); err != nil {
			abortWithPage(c, err)
			return
		}
	}
	if err := ctrl.Save(c.Request.Context()); err != nil {
		_ = c.Error(err)
	}
	h.backToList(c)
}

// Delete removes one row without confirmation.
func (h *ViewHandler) Delete(c *gin.Context) {
	ctrl, ok := mountedView(c, h.kind)
	if !ok {
		return
	}
	if err := ctrl.Delete(c.Request.Context(), models.ID(c.Param("id"))); err != nil {
		_ = c.Error(err)
	}
	h.backToList(c)
}

// Export downloads the rows currently displayed.
func (h *ViewHandler) Export(c *gin.Context) {
	ctrl, ok := mountedView(c, h.kind)
	if !ok {
		return
	}
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		abortWithPage(c, err)
		return
	}
	result, err := h.exports.Render(h.kind, ctrl.Rows(), format)
	if err != nil {
		abortWithPage(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}

func (h *ViewHandler) backToList(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, h.kind.Route)
}
