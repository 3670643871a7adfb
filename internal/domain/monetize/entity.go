package monetize

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UnitKind distinguishes banner units from shared links.
type UnitKind string

const (
	KindBanner UnitKind = "banner"
	KindLink   UnitKind = "link"
)

// EventType of a tracked unit event.
type EventType string

const (
	EventClick      EventType = "click"
	EventImpression EventType = "impression"
)

// Unit is a monetized banner or shared link. Created pending (inactive),
// activated on approval, and disabled permanently by the click mechanism
// once clicks_so_far reaches click_target. A click_target of 0 means
// unlimited. Reactivation requires an explicit target raise by an operator,
// never by the engine itself.
type Unit struct {
	ID                uuid.UUID       `db:"id" json:"id"`
	OwnerAccountID    uuid.UUID       `db:"owner_account_id" json:"owner_account_id"`
	Kind              UnitKind        `db:"kind" json:"kind"`
	TargetURL         string          `db:"target_url" json:"target_url"`
	CostPerClick      decimal.Decimal `db:"cost_per_click" json:"cost_per_click"`
	CostPerImpression decimal.Decimal `db:"cost_per_impression" json:"cost_per_impression"`
	ClickTarget       int64           `db:"click_target" json:"click_target"`
	ClicksSoFar       int64           `db:"clicks_so_far" json:"clicks_so_far"`
	ImpressionsSoFar  int64           `db:"impressions_so_far" json:"impressions_so_far"`
	IsActive          bool            `db:"is_active" json:"is_active"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`
}

// UnitEvent is the per-click/per-impression audit row.
type UnitEvent struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	UnitID    uuid.UUID  `db:"unit_id" json:"unit_id"`
	EventType EventType  `db:"event_type" json:"event_type"`
	ActorID   *uuid.UUID `db:"actor_id" json:"actor_id,omitempty"`
	IP        string     `db:"ip" json:"ip"`
	UserAgent string     `db:"user_agent" json:"user_agent"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// Actor is the visitor context attached to a tracked event.
type Actor struct {
	ID        *uuid.UUID
	IP        string
	UserAgent string
}

// ClickResult is returned to the web layer; RedirectTarget is best-effort
// and survives tracking failure.
type ClickResult struct {
	RedirectTarget string `json:"redirect_target"`
	Charged        bool   `json:"charged"`
}

// ImpressionResult reports whether this impression completed a billed batch.
type ImpressionResult struct {
	Charged bool `json:"charged"`
}
