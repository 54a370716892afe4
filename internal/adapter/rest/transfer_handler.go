package rest

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/mehrbank/ledger-backend/internal/domain"
	"github.com/mehrbank/ledger-backend/internal/usecase/transfer"
)

// TransferHandler exposes the transfer engine
type TransferHandler struct {
	service  *transfer.Service
	validate *validator.Validate
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(service *transfer.Service) *TransferHandler {
	return &TransferHandler{
		service:  service,
		validate: validator.New(),
	}
}

// Request handles POST /api/transfers/request. A request that passes the
// shape checks always gets a tracking code back; rule violations surface
// on the tracking record, not here.
func (h *TransferHandler) Request(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	trackingCode, err := h.service.Process(r.Context(), transfer.Request{
		Type:                  domain.TransferType(req.Type),
		SenderAccountNumber:   req.SenderAccountNumber,
		ReceiverAccountNumber: req.ReceiverAccountNumber,
		Amount:                req.Amount,
		Description:           req.Description,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondMessage(w, http.StatusAccepted, "request accepted", map[string]string{
		"trackingCode": trackingCode,
	})
}

// Status handles GET /api/transfers/status/{trackingCode}
func (h *TransferHandler) Status(w http.ResponseWriter, r *http.Request) {
	trackingCode := mux.Vars(r)["trackingCode"]
	if len(trackingCode) != domain.TrackingCodeLength {
		respondError(w, http.StatusBadRequest, transfer.ErrInvalidTrackingCode.Error())
		return
	}

	status, err := h.service.GetStatus(r.Context(), trackingCode)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, toTrackingResponse(status.Tracking, status.SenderName, status.ReceiverName))
}
