package events

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/linkmint/linkmint-api/internal/domain/account"
	"github.com/linkmint/linkmint-api/internal/domain/commission"
	"github.com/linkmint/linkmint-api/internal/domain/monetize"
	"github.com/linkmint/linkmint-api/internal/middleware"
	"github.com/linkmint/linkmint-api/internal/pkg/errorhandler"
	"github.com/linkmint/linkmint-api/internal/pkg/response"
	"github.com/linkmint/linkmint-api/internal/pkg/validator"
)

// Handler is the in-process boundary between the web layer and the ledger
// engine. It translates HTTP events into distributor/monetizer calls.
type Handler struct {
	distributor *commission.Distributor
	monetizer   *monetize.Monetizer
	units       *monetize.Repository
	commissions *commission.Repository
}

func NewHandler(distributor *commission.Distributor, monetizer *monetize.Monetizer, units *monetize.Repository, commissions *commission.Repository) *Handler {
	return &Handler{
		distributor: distributor,
		monetizer:   monetizer,
		units:       units,
		commissions: commissions,
	}
}

// Routes returns event and unit management routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/events/activation", h.Activation)
	r.Post("/events/impression", h.Impression)
	r.Post("/events/sale", h.Sale)

	r.Post("/units", h.CreateUnit)
	r.Get("/units/{id}", h.GetUnit)
	r.Post("/units/{id}/approve", h.ApproveUnit)
	r.Put("/units/{id}/target", h.RaiseTarget)

	r.Get("/accounts/{id}/commissions", h.ListCommissions)

	return r
}

// RedirectRoutes returns the public click-redirect route, mounted at the
// server root so shared links stay short.
func (h *Handler) RedirectRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{id}", h.Click)
	return r
}

func (h *Handler) Activation(w http.ResponseWriter, r *http.Request) {
	var req ActivationEventRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		errorhandler.LogValidationError(r.Context(), fieldErrors)
		response.ValidationError(w, fieldErrors)
		return
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		response.BadRequest(w, "invalid account_id")
		return
	}

	records, err := h.distributor.DistributeActivationCommission(r.Context(), accountID)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrNotFound):
			response.NotFound(w, "account not found")
		case errors.Is(err, account.ErrAlreadyActive):
			response.Conflict(w, "account already active")
		default:
			errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "ACTIVATION_FAILED", "Activation failed, please retry", err)
		}
		return
	}

	response.OK(w, map[string]interface{}{
		"account_id":  accountID,
		"commissions": records,
	})
}

func (h *Handler) Sale(w http.ResponseWriter, r *http.Request) {
	var req SaleEventRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		errorhandler.LogValidationError(r.Context(), fieldErrors)
		response.ValidationError(w, fieldErrors)
		return
	}

	buyerID, err := uuid.Parse(req.BuyerID)
	if err != nil {
		response.BadRequest(w, "invalid buyer_id")
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.BadRequest(w, "invalid amount")
		return
	}

	record, err := h.distributor.DistributeSaleCommission(r.Context(), buyerID, req.SaleRef, amount)
	if err != nil {
		switch {
		case errors.Is(err, commission.ErrInvalidAmount):
			response.BadRequest(w, "amount must be positive")
		case errors.Is(err, commission.ErrDuplicateCommission):
			response.Conflict(w, "sale commission already paid")
		default:
			errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "SALE_COMMISSION_FAILED", "Sale commission failed, please retry", err)
		}
		return
	}

	response.OK(w, map[string]interface{}{"commission": record})
}

// Click tracks and redirects. Tracking failures are silent to the visitor:
// when the target URL is known the redirect is issued regardless, and the
// failure only surfaces in logs and the audit trail.
func (h *Handler) Click(w http.ResponseWriter, r *http.Request) {
	unitID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid unit id")
		return
	}

	actor := monetize.Actor{
		IP:        middleware.GetClientIP(r),
		UserAgent: r.UserAgent(),
	}
	if raw := r.URL.Query().Get("actor_id"); raw != "" {
		if actorID, err := uuid.Parse(raw); err == nil {
			actor.ID = &actorID
		}
	}

	result, err := h.monetizer.RecordClick(r.Context(), unitID, actor)
	if err != nil {
		if errors.Is(err, monetize.ErrUnitNotFound) {
			response.NotFound(w, "unit not found")
			return
		}
		if result != nil && result.RedirectTarget != "" {
			http.Redirect(w, r, result.RedirectTarget, http.StatusFound)
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "CLICK_TRACKING_FAILED", "Click tracking failed", err)
		return
	}

	http.Redirect(w, r, result.RedirectTarget, http.StatusFound)
}

func (h *Handler) Impression(w http.ResponseWriter, r *http.Request) {
	var req ImpressionEventRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		errorhandler.LogValidationError(r.Context(), fieldErrors)
		response.ValidationError(w, fieldErrors)
		return
	}

	unitID, err := uuid.Parse(req.UnitID)
	if err != nil {
		response.BadRequest(w, "invalid unit_id")
		return
	}

	actor := monetize.Actor{
		IP:        middleware.GetClientIP(r),
		UserAgent: r.UserAgent(),
	}
	if req.ActorID != "" {
		if actorID, err := uuid.Parse(req.ActorID); err == nil {
			actor.ID = &actorID
		}
	}

	result, err := h.monetizer.RecordImpression(r.Context(), unitID, actor)
	if err != nil {
		if errors.Is(err, monetize.ErrUnitNotFound) {
			response.NotFound(w, "unit not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "IMPRESSION_TRACKING_FAILED", "Impression tracking failed", err)
		return
	}

	response.OK(w, result)
}

func (h *Handler) CreateUnit(w http.ResponseWriter, r *http.Request) {
	var req CreateUnitRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		errorhandler.LogValidationError(r.Context(), fieldErrors)
		response.ValidationError(w, fieldErrors)
		return
	}

	ownerID, err := uuid.Parse(req.OwnerAccountID)
	if err != nil {
		response.BadRequest(w, "invalid owner_account_id")
		return
	}

	costPerClick, err := parseAmount(req.CostPerClick)
	if err != nil {
		response.BadRequest(w, "invalid cost_per_click")
		return
	}
	costPerImpression, err := parseAmount(req.CostPerImpression)
	if err != nil {
		response.BadRequest(w, "invalid cost_per_impression")
		return
	}

	unit := &monetize.Unit{
		ID:                uuid.New(),
		OwnerAccountID:    ownerID,
		Kind:              monetize.UnitKind(req.Kind),
		TargetURL:         req.TargetURL,
		CostPerClick:      costPerClick,
		CostPerImpression: costPerImpression,
		ClickTarget:       req.ClickTarget,
	}
	if err := h.units.Create(r.Context(), unit); err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "UNIT_CREATE_FAILED", "Unit creation failed", err)
		return
	}

	response.Created(w, unit)
}

func (h *Handler) GetUnit(w http.ResponseWriter, r *http.Request) {
	unitID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid unit id")
		return
	}

	unit, err := h.units.GetByID(r.Context(), unitID)
	if err != nil {
		if errors.Is(err, monetize.ErrUnitNotFound) {
			response.NotFound(w, "unit not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "UNIT_LOOKUP_FAILED", "Unit lookup failed", err)
		return
	}

	response.OK(w, unit)
}

func (h *Handler) ApproveUnit(w http.ResponseWriter, r *http.Request) {
	unitID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid unit id")
		return
	}

	if err := h.units.Approve(r.Context(), unitID); err != nil {
		if errors.Is(err, monetize.ErrUnitNotApproved) {
			response.Conflict(w, "unit is not pending approval")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "UNIT_APPROVE_FAILED", "Unit approval failed", err)
		return
	}

	response.NoContent(w)
}

func (h *Handler) RaiseTarget(w http.ResponseWriter, r *http.Request) {
	unitID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid unit id")
		return
	}

	var req RaiseTargetRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	if err := h.units.RaiseTarget(r.Context(), unitID, req.ClickTarget); err != nil {
		if errors.Is(err, monetize.ErrInvalidTarget) {
			response.Conflict(w, "new target must exceed the current one")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "TARGET_RAISE_FAILED", "Target raise failed", err)
		return
	}

	response.NoContent(w)
}

// ListCommissions returns an account's commission history, newest first.
func (h *Handler) ListCommissions(w http.ResponseWriter, r *http.Request) {
	accountID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid account id")
		return
	}

	limit := parseQueryInt(r, "limit", 20)
	offset := parseQueryInt(r, "offset", 0)

	records, err := h.commissions.ListByBeneficiary(r.Context(), accountID, limit, offset)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "COMMISSION_LIST_FAILED", "Commission history lookup failed", err)
		return
	}

	response.OK(w, map[string]interface{}{
		"account_id":  accountID,
		"commissions": records,
	})
}

func parseQueryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return def
	}
	return value
}

func parseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}
