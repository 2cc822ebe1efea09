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

type CourtGetter interface {
	GetCourt(ctx context.Context, id string) (*api.CourtResponse, error)
	ListCourts(ctx context.Context) ([]*api.CourtResponse, error)
}

type Response struct {
	response.Response
	Courts []api.CourtResponse `json:"courts,omitempty"`
	Court  *api.CourtResponse  `json:"court,omitempty"`
}

func New(log *slog.Logger, getter CourtGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.courts.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")

		if id != "" {
			court, err := getter.GetCourt(r.Context(), id)

			if errors.Is(err, response.ErrNotFound) {
				log.Error("resource not found")
				w.WriteHeader(http.StatusNotFound)
				render.JSON(w, r, response.Error(string(response.NOT_FOUND), "resource not found"))
				return
			}

			if err != nil {
				log.Error("Failed to get court", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get court"))
				return
			}

			log.Info("Court retrieved", slog.Any("court", court))
			render.JSON(w, r, Response{Court: court})
			return
		}

		courts, err := getter.ListCourts(r.Context())
		if err != nil {
			log.Error("Failed to list courts", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list courts"))
			return
		}

		log.Info("Courts retrieved", slog.Int("count", len(courts)))

		courtsResponse := make([]api.CourtResponse, len(courts))
		for i, c := range courts {
			courtsResponse[i] = *c
		}
		render.JSON(w, r, Response{Courts: courtsResponse})
	}
}
