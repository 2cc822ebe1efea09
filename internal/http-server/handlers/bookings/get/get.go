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

type BookingGetter interface {
	GetBooking(ctx context.Context, id string) (*api.BookingResponse, error)
	ListBookings(ctx context.Context, courtID, from, to, status *string) ([]*api.BookingResponse, error)
}

type Response struct {
	response.Response
	Bookings []api.BookingResponse `json:"bookings,omitempty"`
	Booking  *api.BookingResponse  `json:"booking,omitempty"`
}

func New(log *slog.Logger, getter BookingGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.bookings.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")

		if id != "" {
			booking, err := getter.GetBooking(r.Context(), id)

			if errors.Is(err, response.ErrNotFound) {
				log.Error("resource not found")
				w.WriteHeader(http.StatusNotFound)
				render.JSON(w, r, response.Error(string(response.NOT_FOUND), "resource not found"))
				return
			}

			if err != nil {
				log.Error("Failed to get booking", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get booking"))
				return
			}

			log.Info("Booking retrieved", slog.Any("booking", booking))
			render.JSON(w, r, Response{Booking: booking})
			return
		}

		var courtID, from, to, status *string
		if v := r.URL.Query().Get("court_id"); v != "" {
			courtID = &v
		}
		if v := r.URL.Query().Get("from"); v != "" {
			from = &v
		}
		if v := r.URL.Query().Get("to"); v != "" {
			to = &v
		}
		if v := r.URL.Query().Get("status"); v != "" {
			status = &v
		}

		bookings, err := getter.ListBookings(r.Context(), courtID, from, to, status)
		if err != nil {
			log.Error("Failed to list bookings", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list bookings"))
			return
		}

		log.Info("Bookings retrieved", slog.Int("count", len(bookings)))

		bookingsResponse := make([]api.BookingResponse, len(bookings))
		for i, b := range bookings {
			bookingsResponse[i] = *b
		}
		render.JSON(w, r, Response{Bookings: bookingsResponse})
	}
}
