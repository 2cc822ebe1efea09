package check

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"quadra-service/api"
	"quadra-service/internal/schedule"
	"quadra-service/pkg/response"
	"quadra-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type ConflictChecker interface {
	CheckBookingConflict(ctx context.Context, req *api.BookingConflictRequest) (*schedule.Conflict, error)
}

type Request struct {
	api.BookingConflictRequest
}

type Response struct {
	response.Response
	schedule.Conflict
}

func New(log *slog.Logger, checker ConflictChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.bookings.check.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		log.Info("Request body decoded", slog.Any("request", req))

		if err := validate.Struct(req); err != nil {
			log.Error("Invalid request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
			return
		}

		conflict, err := checker.CheckBookingConflict(r.Context(), &req.BookingConflictRequest)

		if errors.Is(err, response.ErrOutsideOperatingHours) {
			log.Error("time outside operating hours")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.INVALID_TIME), "time is outside operating hours"))
			return
		}

		if errors.Is(err, response.ErrInvalidDuration) || errors.Is(err, response.ErrBadRequest) {
			log.Error("invalid request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid date, time or duration"))
			return
		}

		if err != nil {
			log.Error("Failed to check conflicts", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to check conflicts"))
			return
		}

		log.Info("Conflict check done", slog.Bool("has_conflict", conflict.HasConflict))
		render.JSON(w, r, Response{Conflict: *conflict})
	}
}
