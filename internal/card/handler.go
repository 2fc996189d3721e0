// AngelaMos | 2026
// handler.go

package card

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/arcana-vip/internal/core"
	"github.com/carterperez-dev/arcana-vip/internal/middleware"
	"github.com/carterperez-dev/arcana-vip/internal/progress"
)

type ProgressTracker interface {
	Status(
		ctx context.Context,
		userID, itemID string,
		kind progress.Kind,
	) (progress.Status, error)
	RecordFirstViewAsync(
		ctx context.Context,
		userID, itemID string,
		kind progress.Kind,
	)
}

type Handler struct {
	service   *Service
	progress  ProgressTracker
	validator *validator.Validate
}

func NewHandler(service *Service, tracker ProgressTracker) *Handler {
	return &Handler{
		service:   service,
		progress:  tracker,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes mounts the card reads behind the access gate.
func (h *Handler) RegisterRoutes(r chi.Router, gate func(http.Handler) http.Handler) {
	r.Route("/cards", func(r chi.Router) {
		r.Use(gate)

		r.Get("/today", h.GetToday)
		r.Get("/{cardID}", h.GetByID)
	})
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Post("/admin/cards", h.Publish)
	})
}

func (h *Handler) GetToday(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Today(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	h.respond(w, r, c)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Get(r.Context(), chi.URLParam(r, "cardID"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "card")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	h.respond(w, r, c)
}

// respond decorates the card with the caller's progress as it stood before
// this read, then records the view in the background.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, c *Card) {
	if c.IsPlaceholder() {
		core.OK(w, ToCardResponse(c, progress.Status{}))
		return
	}

	userID := middleware.GetUserID(r.Context())

	status, err := h.progress.Status(r.Context(), userID, c.ID, progress.KindCard)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	h.progress.RecordFirstViewAsync(r.Context(), userID, c.ID, progress.KindCard)

	core.OK(w, ToCardResponse(c, status))
}

func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	var req PublishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	c, err := h.service.Publish(r.Context(), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, ToCardResponse(c, progress.Status{}))
}
