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

type CourtCreator interface {
	CreateCourt(ctx context.Context, req *api.CourtRequest) (*api.CourtResponse, error)
}

type Request struct {
	api.CourtRequest
}

type Response struct {
	response.Response
	Court api.CourtResponse `json:"court,omitempty"`
}

func New(log *slog.Logger, creator CourtCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.courts.create.New"

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

		court, err := creator.CreateCourt(r.Context(), &req.CourtRequest)

		if errors.Is(err, response.ErrConflict) {
			log.Error("court already exists")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.CONFLICT), "court already exists"))
			return
		}

		if err != nil {
			log.Error("Failed to create court", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create court"))
			return
		}

		log.Info("Court created", slog.Any("court", court))

		w.WriteHeader(http.StatusCreated)
		responseOK(w, r, court)
	}
}

func responseOK(w http.ResponseWriter, r *http.Request, court *api.CourtResponse) {
	render.JSON(w, r, Response{
		Court: *court,
	})
}
