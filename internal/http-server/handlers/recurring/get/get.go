package get

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

type ClassGetter interface {
	GetRecurringClass(ctx context.Context, id string) (*api.RecurringClassResponse, error)
	ListRecurringClasses(ctx context.Context, courtID *string, activeOnly bool) ([]*api.RecurringClassResponse, error)
}

type Response struct {
	response.Response
	Classes []api.RecurringClassResponse `json:"recurring_classes,omitempty"`
	Class   *api.RecurringClassResponse  `json:"recurring_class,omitempty"`
}

func New(log *slog.Logger, getter ClassGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.recurring.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")

		if id != "" {
			class, err := getter.GetRecurringClass(r.Context(), id)

			if errors.Is(err, response.ErrNotFound) {
				log.Error("resource not found")
				w.WriteHeader(http.StatusNotFound)
				render.JSON(w, r, response.Error(string(response.NOT_FOUND), "resource not found"))
				return
			}

			if err != nil {
				log.Error("Failed to get recurring class", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get recurring class"))
				return
			}

			log.Info("Recurring class retrieved", slog.Any("recurring_class", class))
			render.JSON(w, r, Response{Class: class})
			return
		}

		var courtID *string
		if cid := r.URL.Query().Get("court_id"); cid != "" {
			courtID = &cid
		}
		activeOnly := r.URL.Query().Get("active") == "true"

		classes, err := getter.ListRecurringClasses(r.Context(), courtID, activeOnly)
		if err != nil {
			log.Error("Failed to list recurring classes", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list recurring classes"))
			return
		}

		log.Info("Recurring classes retrieved", slog.Int("count", len(classes)))

		classesResponse := make([]api.RecurringClassResponse, len(classes))
		for i, c := range classes {
			classesResponse[i] = *c
		}
		render.JSON(w, r, Response{Classes: classesResponse})
	}
}
