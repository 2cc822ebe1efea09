package deactivate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"quadra-service/api"
	"quadra-service/pkg/response"
	"quadra-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type ClassDeactivator interface {
	DeactivateRecurringClass(ctx context.Context, id string) (*api.RecurringClassResponse, error)
}

type Response struct {
	response.Response
	Class api.RecurringClassResponse `json:"recurring_class,omitempty"`
}

func New(log *slog.Logger, deactivator ClassDeactivator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.recurring.deactivate.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")
		if id == "" {
			log.Error("id is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "id is required"))
			return
		}

		class, err := deactivator.DeactivateRecurringClass(r.Context(), id)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("resource not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "resource not found"))
			return
		}

		if err != nil {
			log.Error("Failed to deactivate recurring class", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to deactivate recurring class"))
			return
		}

		log.Info("Recurring class deactivated", slog.Any("recurring_class", class))
		responseOK(w, r, class)
	}
}

func responseOK(w http.ResponseWriter, r *http.Request, class *api.RecurringClassResponse) {
	render.JSON(w, r, Response{
		Class: *class,
	})
}
