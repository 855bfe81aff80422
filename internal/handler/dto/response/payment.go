package response

import (
	"storefront-api/internal/usecase/commands"

	"github.com/google/uuid"
)

type PaymentIntentResponse struct {
	IntentID    uuid.UUID `json:"intentId"`
	RedirectURL string    `json:"redirectUrl"`
	Replayed    bool      `json:"replayed"`
}

func FromCreateIntentResult(result *commands.CreateIntentResult) *PaymentIntentResponse {
	return &PaymentIntentResponse{
		IntentID:    result.IntentID,
		RedirectURL: result.RedirectURL,
		Replayed:    result.IsReplayed,
	}
}
