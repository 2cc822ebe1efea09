package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"quadra-service/internal/schedule"
	"quadra-service/pkg/response"
	"quadra-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type CalendarGetter interface {
	CalendarForDate(ctx context.Context, date, courtID string) ([]schedule.CalendarSlot, error)
}

type Response struct {
	response.Response
	Date  string                  `json:"date,omitempty"`
	Slots []schedule.CalendarSlot `json:"slots"`
}

func New(log *slog.Logger, getter CalendarGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.calendar.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		date := r.URL.Query().Get("date")
		if date == "" {
			log.Error("date is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "date is required"))
			return
		}

		courtID := r.URL.Query().Get("court_id")

		slots, err := getter.CalendarForDate(r.Context(), date, courtID)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("court not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "court not found"))
			return
		}

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("invalid date", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid date"))
			return
		}

		if err != nil {
			log.Error("Failed to get calendar", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get calendar"))
			return
		}

		log.Info("Calendar computed", slog.String("date", date), slog.Int("slots", len(slots)))
		render.JSON(w, r, Response{Date: date, Slots: slots})
	}
}
