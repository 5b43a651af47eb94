package admin

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sharikirostov/balloon-store/app/handlers"
	"github.com/sharikirostov/balloon-store/app/helpers"
	"github.com/sharikirostov/balloon-store/app/services"
	"github.com/unrolled/render"
)

type AdminHandler struct {
	render      *render.Render
	validator   *validator.Validate
	categorySvc *services.CategoryService
	productSvc  *services.ProductAdminService
	bulkSvc     *services.BulkCategoryService
	exportSvc   *services.ExportService
	images      *services.ImageStorage
}

func NewAdminHandler(
	render *render.Render,
	validator *validator.Validate,
	categorySvc *services.CategoryService,
	productSvc *services.ProductAdminService,
	bulkSvc *services.BulkCategoryService,
	exportSvc *services.ExportService,
	images *services.ImageStorage,
) *AdminHandler {
	return &AdminHandler{
		render:      render,
		validator:   validator,
		categorySvc: categorySvc,
		productSvc:  productSvc,
		bulkSvc:     bulkSvc,
		exportSvc:   exportSvc,
		images:      images,
	}
}

type DashboardData struct {
	AdminID       string `json:"adminId"`
	AdminEmail    string `json:"adminEmail"`
	TotalProducts int64  `json:"totalProducts"`
	TotalCategory int    `json:"totalCategories"`
}

// Dashboard serves GET /api/admin/dashboard with catalog totals for the signed-in admin.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	products, err := h.productSvc.List(ctx, "", 0, 1)
	if err != nil {
		handlers.RespondError(h.render, w, r, err)
		return
	}
	categories, err := h.categorySvc.List(ctx)
	if err != nil {
		handlers.RespondError(h.render, w, r, err)
		return
	}

	adminID, _ := ctx.Value(helpers.ContextKeyAdminID).(string)
	email, _ := ctx.Value(helpers.ContextKeyAdminEmail).(string)

	h.render.JSON(w, http.StatusOK, DashboardData{
		AdminID:       adminID,
		AdminEmail:    email,
		TotalProducts: products.Total,
		TotalCategory: len(categories),
	})
}
