package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/mehrbank/ledger-backend/internal/domain"
	"github.com/mehrbank/ledger-backend/internal/usecase/turnover"
	"github.com/shopspring/decimal"
)

// TurnoverHandler exposes read-side turnover queries
type TurnoverHandler struct {
	service *turnover.Service
}

// NewTurnoverHandler creates a new turnover handler
func NewTurnoverHandler(service *turnover.Service) *TurnoverHandler {
	return &TurnoverHandler{service: service}
}

// AccountTurnover handles GET /api/turnover/account/{accountNumber}.
// Filters come in as query parameters; unset parameters are not applied.
func (h *TurnoverHandler) AccountTurnover(w http.ResponseWriter, r *http.Request) {
	filter, err := parseTurnoverFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.service.AccountTurnover(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, toTurnoverPageResponse(page))
}

// LastByType handles GET /api/turnover/account/{accountNumber}/last/{limit}.
// It requires a type parameter and matches the account as sender only.
func (h *TurnoverHandler) LastByType(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	limit, err := strconv.Atoi(vars["limit"])
	if err != nil || limit <= 0 {
		respondError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}

	transferType, err := domain.ParseTransferType(r.URL.Query().Get("type"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.service.AccountTurnover(r.Context(), turnover.Filter{
		AccountNumber: vars["accountNumber"],
		Type:          &transferType,
		Limit:         &limit,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, toTurnoverPageResponse(page))
}

func parseTurnoverFilter(r *http.Request) (turnover.Filter, error) {
	query := r.URL.Query()

	filter := turnover.Filter{
		AccountNumber:      mux.Vars(r)["accountNumber"],
		OriginAccount:      query.Get("originAccount"),
		DestinationAccount: query.Get("destinationAccount"),
	}

	if raw := query.Get("type"); raw != "" {
		transferType, err := domain.ParseTransferType(raw)
		if err != nil {
			return turnover.Filter{}, err
		}
		filter.Type = &transferType
	}

	if raw := query.Get("minAmount"); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return turnover.Filter{}, domain.NewValidationError("minAmount must be a decimal number")
		}
		filter.MinAmount = &amount
	}

	if raw := query.Get("maxAmount"); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return turnover.Filter{}, domain.NewValidationError("maxAmount must be a decimal number")
		}
		filter.MaxAmount = &amount
	}

	if raw := query.Get("startDate"); raw != "" {
		start, err := parseDateOrTime(raw)
		if err != nil {
			return turnover.Filter{}, domain.NewValidationError("startDate must be a date or RFC3339 timestamp")
		}
		filter.StartDate = &start
	}

	if raw := query.Get("endDate"); raw != "" {
		end, err := parseDateOrTime(raw)
		if err != nil {
			return turnover.Filter{}, domain.NewValidationError("endDate must be a date or RFC3339 timestamp")
		}
		filter.EndDate = &end
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return turnover.Filter{}, domain.NewValidationError("limit must be a positive integer")
		}
		filter.Limit = &limit
	}

	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 0 {
			return turnover.Filter{}, domain.NewValidationError("page must be a non-negative integer")
		}
		filter.Page = page
	}

	if raw := query.Get("pageSize"); raw != "" {
		pageSize, err := strconv.Atoi(raw)
		if err != nil || pageSize <= 0 {
			return turnover.Filter{}, domain.NewValidationError("pageSize must be a positive integer")
		}
		filter.PageSize = pageSize
	}

	return filter, nil
}

func parseDateOrTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse(dateLayout, raw)
}
