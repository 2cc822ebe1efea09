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

type RuleCreator interface {
	CreatePricingRule(ctx context.Context, req *api.PricingRuleRequest) (*api.PricingRuleResponse, error)
}

type Request struct {
	api.PricingRuleRequest
}

type Response struct {
	response.Response
	Rule api.PricingRuleResponse `json:"pricing_rule,omitempty"`
}

func New(log *slog.Logger, creator RuleCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.pricing.create.New"

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

		rule, err := creator.CreatePricingRule(r.Context(), &req.PricingRuleRequest)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("court not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "court not found"))
			return
		}

		if err != nil {
			log.Error("Failed to create pricing rule", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create pricing rule"))
			return
		}

		log.Info("Pricing rule created", slog.Any("pricing_rule", rule))

		w.WriteHeader(http.StatusCreated)
		responseOK(w, r, rule)
	}
}

func responseOK(w http.ResponseWriter, r *http.Request, rule *api.PricingRuleResponse) {
	render.JSON(w, r, Response{
		Rule: *rule,
	})
}
