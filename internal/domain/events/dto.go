package events

// ActivationEventRequest triggers commission distribution for an account.
type ActivationEventRequest struct {
	AccountID string `json:"account_id" validate:"required,uuid"`
}

// ImpressionEventRequest tracks an impression on a monetized unit.
type ImpressionEventRequest struct {
	UnitID  string `json:"unit_id" validate:"required,uuid"`
	ActorID string `json:"actor_id" validate:"omitempty,uuid"`
}

// SaleEventRequest triggers the single-payee sale commission variant.
type SaleEventRequest struct {
	BuyerID string `json:"buyer_id" validate:"required,uuid"`
	SaleRef string `json:"sale_ref" validate:"required"`
	Amount  string `json:"amount" validate:"required"`
}

// CreateUnitRequest registers a new monetized unit in pending state.
type CreateUnitRequest struct {
	OwnerAccountID    string `json:"owner_account_id" validate:"required,uuid"`
	Kind              string `json:"kind" validate:"required,unit_kind"`
	TargetURL         string `json:"target_url" validate:"required,url"`
	CostPerClick      string `json:"cost_per_click" validate:"omitempty"`
	CostPerImpression string `json:"cost_per_impression" validate:"omitempty"`
	ClickTarget       int64  `json:"click_target" validate:"gte=0"`
}

// RaiseTargetRequest raises a unit's click target, reactivating it.
type RaiseTargetRequest struct {
	ClickTarget int64 `json:"click_target" validate:"gte=0"`
}
