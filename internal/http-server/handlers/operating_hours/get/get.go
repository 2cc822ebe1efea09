package get

import (
	"context"
	"log/slog"
	"net/http"

	"quadra-service/api"
	"quadra-service/pkg/response"
	"quadra-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type HoursLister interface {
	ListOperatingHours(ctx context.Context, courtID *string) ([]*api.OperatingHoursResponse, error)
}

type Response struct {
	response.Response
	Hours []api.OperatingHoursResponse `json:"operating_hours,omitempty"`
}

func New(log *slog.Logger, lister HoursLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.operating_hours.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var courtID *string
		if id := r.URL.Query().Get("court_id"); id != "" {
			courtID = &id
		}

		hours, err := lister.ListOperatingHours(r.Context(), courtID)
		if err != nil {
			log.Error("Failed to list operating hours", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list operating hours"))
			return
		}

		log.Info("Operating hours retrieved", slog.Int("count", len(hours)))

		hoursResponse := make([]api.OperatingHoursResponse, len(hours))
		for i, h := range hours {
			hoursResponse[i] = *h
		}
		render.JSON(w, r, Response{Hours: hoursResponse})
	}
}
