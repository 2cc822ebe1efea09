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

type RuleLister interface {
	ListPricingRules(ctx context.Context, courtID *string) ([]*api.PricingRuleResponse, error)
}

type Response struct {
	response.Response
	Rules []api.PricingRuleResponse `json:"pricing_rules,omitempty"`
}

func New(log *slog.Logger, lister RuleLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.pricing.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var courtID *string
		if id := r.URL.Query().Get("court_id"); id != "" {
			courtID = &id
		}

		rules, err := lister.ListPricingRules(r.Context(), courtID)
		if err != nil {
			log.Error("Failed to list pricing rules", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list pricing rules"))
			return
		}

		log.Info("Pricing rules retrieved", slog.Int("count", len(rules)))

		rulesResponse := make([]api.PricingRuleResponse, len(rules))
		for i, rule := range rules {
			rulesResponse[i] = *rule
		}
		render.JSON(w, r, Response{Rules: rulesResponse})
	}
}
