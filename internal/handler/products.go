package handler

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tiendalabs/tienda/internal/domain"
)

// ProductHandler serves the public catalog endpoints.
type ProductHandler struct {
	products domain.ProductService
}

func NewProductHandler(products domain.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

type productResponse struct {
	ID          int64           `json:"id"`
	CategoryID  int64           `json:"category_id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int32           `json:"stock"`
	ImageURL    string          `json:"image_url"`
	CreatedAt   time.Time       `json:"created_at"`
}

type categoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
	}
}

func toProductResponses(products []domain.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}

// List handles GET /api/productos?categoria=&buscar=&precio_max=
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := domain.ProductFilter{
		CategorySlug: q.Get("categoria"),
		Search:       q.Get("buscar"),
	}
	if raw := q.Get("precio_max"); raw != "" {
		max, err := decimal.NewFromString(raw)
		if err != nil || max.IsNegative() {
			respondError(w, r, domain.Errorf(domain.EINVALID, "", "Invalid precio_max"))
			return
		}
		filter.MaxPrice = &max
	}

	products, err := h.products.ListProducts(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, toProductResponses(products))
}

// Search handles GET /api/productos/buscar?q=
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, r, domain.Errorf(domain.EINVALID, "", "Query parameter q is required"))
		return
	}

	products, err := h.products.SearchProducts(r.Context(), query)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, toProductResponses(products))
}

// Get handles GET /api/productos/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	product, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, toProductResponse(*product))
}

// ListCategories handles GET /api/categorias
func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.products.ListCategories(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, categoryResponse{ID: c.ID, Name: c.Name, Slug: c.Slug})
	}
	respondData(w, http.StatusOK, out)
}

// GetCategory handles GET /api/categorias/{slug}
func (h *ProductHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	category, products, err := h.products.GetCategoryWithProducts(r.Context(), slug)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{
		"category": categoryResponse{ID: category.ID, Name: category.Name, Slug: category.Slug},
		"products": toProductResponses(products),
	})
}
