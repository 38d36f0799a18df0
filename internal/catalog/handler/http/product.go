package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/owltechengineer/ecoceo-sub006/internal/catalog/cms"
	"github.com/owltechengineer/ecoceo-sub006/pkg/httputil"
)

// ProductHandler serves the read-only catalog endpoints.
type ProductHandler struct {
	cms    *cms.Client
	logger *slog.Logger
}

func NewProductHandler(cmsClient *cms.Client, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{cms: cmsClient, logger: logger}
}

// RegisterRoutes mounts the catalog routes on the given router.
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/{productID}", h.GetProduct)
	})
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.cms.ListProducts(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.cms.GetProduct(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}
