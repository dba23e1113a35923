package chat

import (
	"context"

	"github.com/i474232898/farm-dashboard/internal/common"
)

// RulesClient answers from a few keyword rules and needs no network.
type RulesClient struct{}

func (RulesClient) Name() string { return "rules" }

func (RulesClient) Complete(_ context.Context, question string) (string, error) {
	switch {
	case common.HasAny(question, "weather"):
		return "Go to the Weather tab to check forecasts.", nil
	case common.HasAny(question, "crop"):
		return "You can add or view crops in the Dashboard tab.", nil
	case common.HasAny(question, "price", "market"):
		return "Check the Market Prices tab for latest rates.", nil
	default:
		return "I can help with crops, weather, and prices!", nil
	}
}
