// AngelaMos | 2026
// handler.go

package entitlement

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/arcana-vip/internal/core"
	"github.com/carterperez-dev/arcana-vip/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/vip", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/status", h.GetMyStatus)
	})
}

// RegisterAdminRoutes registers entitlement management endpoints.
func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/admin/vip", h.ListEntitlements)
		r.Get("/admin/users/{userID}/vip", h.GetUserEntitlement)
		r.Put("/admin/users/{userID}/vip", h.SetUserEntitlement)
	})
}

func (h *Handler) GetMyStatus(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	status, err := h.service.Status(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, status)
}

func (h *Handler) GetUserEntitlement(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	rec, err := h.service.Record(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "entitlement")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToRecordResponse(rec, h.service.clock.Now()))
}

// SetUserEntitlement upserts a user's entitlement. The body is validated
// before the store is touched.
func (h *Handler) SetUserEntitlement(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req SetEntitlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "isVip must be a boolean and expiresAt an RFC 3339 timestamp")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	rec, err := h.service.Grant(r.Context(), userID, *req.IsVip, req.ExpiresAt)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "user id is required")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToRecordResponse(rec, h.service.clock.Now()))
}

func (h *Handler) ListEntitlements(w http.ResponseWriter, r *http.Request) {
	params := ListParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
		Search:   r.URL.Query().Get("search"),
	}

	if raw := r.URL.Query().Get("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			core.BadRequest(w, "active must be true or false")
			return
		}
		params.Active = &active
	}
	params.Normalize()

	records, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, records, params.Page, params.PageSize, total)
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}
