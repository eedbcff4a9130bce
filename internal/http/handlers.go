// Package http is the thin JSON glue between the outside world and the
// shop facade. Everything interesting happens behind the facade.
package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Kobayashi19860206/NodeShop/internal/domain"
	"github.com/Kobayashi19860206/NodeShop/internal/shop"
)

type Handler struct {
	shop *shop.Shop
}

func NewHandler(s *shop.Shop) *Handler {
	return &Handler{shop: s}
}

type productDTO struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
	ImageURL    string `json:"image_url"`
}

func (h *Handler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, "invalid_page", "page must be a positive integer")
			return
		}
		page = parsed
	}

	result, err := h.shop.ListCatalog(r.Context(), page)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.shop.GetProduct(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := decodeProduct(w, r)
	if !ok {
		return
	}
	if err := h.shop.CreateProduct(r.Context(), product); err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := decodeProduct(w, r)
	if !ok {
		return
	}
	product.ID = chi.URLParam(r, "productID")
	if err := h.shop.UpdateProduct(r.Context(), product); err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func decodeProduct(w http.ResponseWriter, r *http.Request) (*domain.Product, bool) {
	var dto productDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return nil, false
	}
	price, err := decimal.NewFromString(dto.Price)
	if err != nil || price.IsNegative() {
		respondError(w, http.StatusBadRequest, "invalid_price", "price must be a non-negative decimal")
		return nil, false
	}
	return &domain.Product{
		ID:          dto.ID,
		Title:       dto.Title,
		Description: dto.Description,
		Price:       price,
		ImageURL:    dto.ImageURL,
	}, true
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	items, err := h.shop.GetCart(r.Context(), userID)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := h.shop.AddToCart(r.Context(), userID, chi.URLParam(r, "productID")); err != nil {
		handleDomainError(w, err)
		return
	}
	// Redirect signal: the view layer sends the user back to the cart.
	respondJSON(w, http.StatusCreated, map[string]string{"redirect": "/cart"})
}

func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := h.shop.RemoveFromCart(r.Context(), userID, chi.URLParam(r, "productID")); err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"redirect": "/cart"})
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	session, err := h.shop.Checkout(r.Context(), userID)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"session_id": session.ID,
		"redirect":   session.RedirectURL,
	})
}

func (h *Handler) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	order, err := h.shop.ConfirmOrder(r.Context(), userID)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	orders, err := h.shop.ListOrders(r.Context(), userID)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id must be a UUID")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	if err := h.shop.Invoice(r.Context(), userID, orderID, w); err != nil {
		// Headers may already be gone if streaming started; best effort.
		handleDomainError(w, err)
	}
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return "", false
	}
	return userID, true
}
