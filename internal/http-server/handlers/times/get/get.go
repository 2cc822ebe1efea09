package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"quadra-service/pkg/response"
	"quadra-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type TimesGetter interface {
	ValidTimes(ctx context.Context, courtID string, weekday int) ([]string, error)
	AllTimes(ctx context.Context, courtID string) ([]string, error)
}

type Response struct {
	response.Response
	Times []string `json:"times"`
}

func New(log *slog.Logger, getter TimesGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.times.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		courtID := chi.URLParam(r, "id")
		if courtID == "" {
			log.Error("id is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "court id is required"))
			return
		}

		weekdayStr := r.URL.Query().Get("weekday")

		var times []string
		var err error

		if weekdayStr == "" {
			// no weekday filter: the full weekly catalog, used to size grids
			times, err = getter.AllTimes(r.Context(), courtID)
		} else {
			weekday, convErr := strconv.Atoi(weekdayStr)
			if convErr != nil || weekday < 0 || weekday > 6 {
				log.Error("invalid weekday", slog.String("weekday", weekdayStr))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "weekday must be 0-6"))
				return
			}
			times, err = getter.ValidTimes(r.Context(), courtID, weekday)
		}

		if errors.Is(err, response.ErrNotFound) {
			log.Error("court not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "court not found"))
			return
		}

		if err != nil {
			log.Error("Failed to get times", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get times"))
			return
		}

		log.Info("Times retrieved", slog.Int("count", len(times)))
		render.JSON(w, r, Response{Times: times})
	}
}
