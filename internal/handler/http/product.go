package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/asqwklop12/sparta/internal/service"
	"github.com/asqwklop12/sparta/pkg/httputil"
	"github.com/asqwklop12/sparta/pkg/pagination"
	"github.com/asqwklop12/sparta/pkg/validator"
)

// ProductHandler handles HTTP requests for product endpoints.
type ProductHandler struct {
	service ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// CreateProductRequest is the JSON request body for creating a product.
type CreateProductRequest struct {
	Title       string `json:"title" validate:"required,max=500"`
	Link        string `json:"link" validate:"required,max=2000"`
	Image       string `json:"image" validate:"max=2000"`
	LowestPrice *int   `json:"lowestPrice" validate:"required,gte=0,lte=2147483647"`
}

// UpdateMyPriceRequest is the JSON request body for setting my price. The
// minimum is enforced by the service so the response carries its code.
type UpdateMyPriceRequest struct {
	MyPrice *int `json:"myPrice" validate:"required"`
}

// --- Handlers ---

// CreateProduct handles POST /api/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), &service.CreateProductInput{
		UserID:      callerFrom(r).UserID,
		Title:       req.Title,
		Link:        req.Link,
		Image:       req.Image,
		LowestPrice: *req.LowestPrice,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, newProductResponse(*product))
}

// UpdateMyPrice handles PUT /api/products/{id}
func (h *ProductHandler) UpdateMyPrice(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, "product id", chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req UpdateMyPriceRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.UpdateMyPrice(r.Context(), id, *req.MyPrice)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, newProductResponse(*product))
}

// RefreshProduct handles POST /api/products/{id}/refresh
func (h *ProductHandler) RefreshProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, "product id", chi.URLParam(r, "id"))
	if !ok {
		return
	}

	product, err := h.service.RefreshFromLookup(r.Context(), callerFrom(r), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, newProductResponse(*product))
}

// ListProducts handles GET /api/products?page&size&sortBy&isAsc
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, err := pagination.FromRequest(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	result, err := h.service.ListProducts(r.Context(), callerFrom(r), page)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, pagination.Map(*result, newProductResponse))
}

// ListAllProducts handles GET /api/admin/products
func (h *ProductHandler) ListAllProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListAll(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, newProductResponse(p))
	}
	httputil.WriteData(w, http.StatusOK, out)
}

// AddToFolder handles POST /api/products/{productId}/folder?folderId=
func (h *ProductHandler) AddToFolder(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseUUID(w, "product id", chi.URLParam(r, "productId"))
	if !ok {
		return
	}
	folderID, ok := httputil.ParseUUID(w, "folder id", r.URL.Query().Get("folderId"))
	if !ok {
		return
	}

	link, err := h.service.AddProductToFolder(r.Context(), callerFrom(r).UserID, productID, folderID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, ProductFolderResponse{
		ID:        link.ID,
		ProductID: link.ProductID,
		FolderID:  link.FolderID,
		CreatedAt: link.CreatedAt,
	})
}

// ListFolderProducts handles GET /api/folders/{folderId}/products
func (h *ProductHandler) ListFolderProducts(w http.ResponseWriter, r *http.Request) {
	folderID, ok := httputil.ParseUUID(w, "folder id", chi.URLParam(r, "folderId"))
	if !ok {
		return
	}

	page, err := pagination.FromRequest(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	result, err := h.service.ListProductsInFolder(r.Context(), callerFrom(r).UserID, folderID, page)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, pagination.Map(*result, newProductResponse))
}
