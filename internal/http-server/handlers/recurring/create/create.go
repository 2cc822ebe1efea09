package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"quadra-service/api"
	"quadra-service/pkg/response"
	"quadra-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type ClassCreator interface {
	CreateRecurringClass(ctx context.Context, req *api.RecurringClassRequest) (*api.RecurringClassResponse, error)
}

type Request struct {
	api.RecurringClassRequest
}

type Response struct {
	response.Response
	Class api.RecurringClassResponse `json:"recurring_class,omitempty"`
}

func New(log *slog.Logger, creator ClassCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.recurring.create.New"

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

		class, err := creator.CreateRecurringClass(r.Context(), &req.RecurringClassRequest)

		if errors.Is(err, response.ErrLocked) {
			log.Error("court is locked")
			w.WriteHeader(http.StatusLocked)
			render.JSON(w, r, response.Error(string(response.LOCKED), "court is locked by another operation"))
			return
		}

		if errors.Is(err, response.ErrConflict) {
			log.Error("time slot already occupied", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.CONFLICT), "time slot already occupied"))
			return
		}

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

		if errors.Is(err, response.ErrNotFound) {
			log.Error("court not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "court not found"))
			return
		}

		if err != nil {
			log.Error("Failed to create recurring class", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create recurring class"))
			return
		}

		log.Info("Recurring class created", slog.Any("recurring_class", class))

		w.WriteHeader(http.StatusCreated)
		responseOK(w, r, class)
	}
}

func responseOK(w http.ResponseWriter, r *http.Request, class *api.RecurringClassResponse) {
	render.JSON(w, r, Response{
		Class: *class,
	})
}
