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
	CheckRecurringConflict(ctx context.Context, req *api.RecurringConflictRequest) (*schedule.Conflict, error)
}

type Request struct {
	api.RecurringConflictRequest
}

type Response struct {
	response.Response
	schedule.Conflict
}

func New(log *slog.Logger, checker ConflictChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.recurring.check.New"

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

		conflict, err := checker.CheckRecurringConflict(r.Context(), &req.RecurringConflictRequest)

		if errors.Is(err, response.ErrOutsideOperatingHours) {
			log.Error("time outside operating hours")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.INVALID_TIME), "time is outside operating hours"))
			return
		}

		if errors.Is(err, response.ErrInvalidDuration) {
			log.Error("invalid duration")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid duration"))
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
