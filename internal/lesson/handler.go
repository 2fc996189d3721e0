// AngelaMos | 2026
// handler.go

package lesson

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/arcana-vip/internal/core"
	"github.com/carterperez-dev/arcana-vip/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router, gate func(http.Handler) http.Handler) {
	r.Route("/lessons", func(r chi.Router) {
		r.Use(gate)

		r.Get("/", h.List)
		r.Get("/{lessonID}", h.Get)
		r.Post("/{lessonID}/complete", h.Complete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	lessons, err := h.service.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, lessons)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	lesson, err := h.service.Get(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "lessonID"),
	)
	if err != nil {
		writeLookupError(w, err)
		return
	}

	core.OK(w, lesson)
}

func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Complete(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "lessonID"),
	)
	if err != nil {
		writeLookupError(w, err)
		return
	}

	core.NoContent(w)
}

func writeLookupError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "lesson")
	case errors.Is(err, core.ErrInvalidInput):
		core.JSONError(w, err)
	default:
		core.InternalServerError(w, err)
	}
}
