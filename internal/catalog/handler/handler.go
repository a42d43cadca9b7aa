// Package handler exposes the authenticated /products endpoints. It is thin
// transport glue: parameter parsing and response shaping only.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"catalog/internal/catalog/models"
	"catalog/internal/catalog/query"
	"catalog/internal/platform/middleware"
	dErrors "catalog/pkg/domain-errors"
	"catalog/pkg/platform/httputil"
)

// Service defines the catalog operations the handler depends on.
type Service interface {
	Create(ctx context.Context, ownerID string, input models.Input) (*models.Product, error)
	List(ctx context.Context, spec query.Spec) (*models.ListResult, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	Update(ctx context.Context, id, ownerID string, input models.Input) (int64, *models.Product, error)
	Delete(ctx context.Context, id, ownerID string) error
}

type Handler struct {
	catalog   Service
	logger    *slog.Logger
	validator middleware.TokenValidator
}

func New(catalog Service, logger *slog.Logger, validator middleware.TokenValidator) *Handler {
	return &Handler{catalog: catalog, logger: logger, validator: validator}
}

// Register mounts the product routes behind bearer authentication.
func (h *Handler) Register(r chi.Router) {
	products := chi.NewRouter()
	products.Use(middleware.RequireAuth(h.validator, h.logger))
	products.Get("/", h.handleList)
	products.Post("/", h.handleCreate)
	products.Get("/{id}", h.handleGet)
	products.Put("/{id}", h.handleUpdate)
	products.Delete("/{id}", h.handleDelete)

	r.Mount("/products", products)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	params := query.Params{
		OrderBy:   r.URL.Query().Get("orderBy"),
		OrderType: r.URL.Query().Get("orderType"),
		Search:    r.URL.Query().Get("search"),
		Page:      r.URL.Query().Get("page"),
		Limit:     r.URL.Query().Get("limit"),
	}
	spec, err := query.Parse(params)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.catalog.List(r.Context(), spec)
	if err != nil {
		h.logError(r.Context(), "list products failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, product)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}

	var input models.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	product, err := h.catalog.Create(ctx, ownerID, input)
	if err != nil {
		h.logError(ctx, "create product failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, product)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}

	var input models.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	_, product, err := h.catalog.Update(ctx, chi.URLParam(r, "id"), ownerID, input)
	if err != nil {
		h.logError(ctx, "update product failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, product)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}

	if err := h.catalog.Delete(ctx, chi.URLParam(r, "id"), ownerID); err != nil {
		h.logError(ctx, "delete product failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Product was successfully deleted",
	})
}

// requireUser fetches the authenticated user set by RequireAuth. An empty
// value means the middleware chain is miswired, not a caller mistake.
func (h *Handler) requireUser(w http.ResponseWriter, ctx context.Context) (string, bool) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		h.logger.ErrorContext(ctx, "userID missing from context despite auth middleware",
			"request_id", middleware.GetRequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return "", false
	}
	return userID, true
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, msg,
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
	}
}
