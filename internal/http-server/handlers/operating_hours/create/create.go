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

type HoursCreator interface {
	CreateOperatingHours(ctx context.Context, req *api.OperatingHoursRequest) (*api.OperatingHoursResponse, error)
}

type Request struct {
	api.OperatingHoursRequest
}

type Response struct {
	response.Response
	Hours api.OperatingHoursResponse `json:"operating_hours,omitempty"`
}

func New(log *slog.Logger, creator HoursCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.operating_hours.create.New"

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

		hours, err := creator.CreateOperatingHours(r.Context(), &req.OperatingHoursRequest)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("court not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "court not found"))
			return
		}

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("invalid hour range", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "start_hour must be before end_hour"))
			return
		}

		if err != nil {
			log.Error("Failed to create operating hours", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create operating hours"))
			return
		}

		log.Info("Operating hours created", slog.Any("operating_hours", hours))

		w.WriteHeader(http.StatusCreated)
		responseOK(w, r, hours)
	}
}

func responseOK(w http.ResponseWriter, r *http.Request, hours *api.OperatingHoursResponse) {
	render.JSON(w, r, Response{
		Hours: *hours,
	})
}
