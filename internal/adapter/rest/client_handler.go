package rest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/mehrbank/ledger-backend/internal/domain"
	"github.com/mehrbank/ledger-backend/internal/usecase/client"
)

// ClientHandler exposes client registration, profile and account lookups
type ClientHandler struct {
	service  *client.Service
	validate *validator.Validate
}

// NewClientHandler creates a new client handler
func NewClientHandler(service *client.Service) *ClientHandler {
	return &ClientHandler{
		service:  service,
		validate: validator.New(),
	}
}

// CreateAccount handles POST /api/clients/create-account
func (h *ClientHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	dateOfBirth, err := time.Parse(dateLayout, req.DateOfBirth)
	if err != nil {
		respondError(w, http.StatusBadRequest, "dateOfBirth must be a date in 2006-01-02 format")
		return
	}

	created, err := h.service.Create(r.Context(), client.CreateInput{
		Name:        req.Name,
		NationalID:  req.NationalID,
		DateOfBirth: dateOfBirth,
		ClientType:  domain.ClientType(req.ClientType),
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		PostalCode:  req.PostalCode,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondMessage(w, http.StatusCreated, "account created", toClientResponse(created))
}

// UpdateAccount handles PUT /api/clients/update-account/{id}
func (h *ClientHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid client id")
		return
	}

	var req updateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	input := client.UpdateInput{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		PostalCode:  req.PostalCode,
	}

	if req.DateOfBirth != nil {
		dateOfBirth, err := time.Parse(dateLayout, *req.DateOfBirth)
		if err != nil {
			respondError(w, http.StatusBadRequest, "dateOfBirth must be a date in 2006-01-02 format")
			return
		}
		input.DateOfBirth = &dateOfBirth
	}

	if req.ClientType != nil {
		clientType := domain.ClientType(*req.ClientType)
		input.ClientType = &clientType
	}

	updatedBy := req.UpdatedBy
	if updatedBy == "" {
		updatedBy = "api"
	}

	updated, err := h.service.Update(r.Context(), id, input, updatedBy)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "account updated", toClientResponse(updated))
}

// List handles GET /api/clients
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.service.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	out := make([]clientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, toClientResponse(c))
	}

	respondData(w, http.StatusOK, out)
}

// GetByID handles GET /api/clients/{id}
func (h *ClientHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid client id")
		return
	}

	found, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, toClientResponse(found))
}

// GetByNationalID handles GET /api/clients/by-national-id/{nationalId}
func (h *ClientHandler) GetByNationalID(w http.ResponseWriter, r *http.Request) {
	found, err := h.service.GetByNationalID(r.Context(), mux.Vars(r)["nationalId"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, toClientResponse(found))
}

// GetByAccountNumber handles GET /api/clients/by-account-number/{accountNumber}
func (h *ClientHandler) GetByAccountNumber(w http.ResponseWriter, r *http.Request) {
	found, err := h.service.GetByAccountNumber(r.Context(), mux.Vars(r)["accountNumber"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, toClientResponse(found))
}

// GetAccountNumber handles GET /api/clients/by-national-id/{nationalId}/account-number
func (h *ClientHandler) GetAccountNumber(w http.ResponseWriter, r *http.Request) {
	nationalID := mux.Vars(r)["nationalId"]

	accountNumber, err := h.service.AccountNumberByNationalID(r.Context(), nationalID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, map[string]string{
		"nationalId":    nationalID,
		"accountNumber": accountNumber,
	})
}

// GetAccountInfo handles GET /api/clients/account/{accountNumber}.
// Reading account info refreshes the account's last-usage date.
func (h *ClientHandler) GetAccountInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.GetAccountInfo(r.Context(), mux.Vars(r)["accountNumber"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, toClientResponse(info))
}

// GetInventory handles GET /api/clients/account/{accountNumber}/inventory
func (h *ClientHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Inventory(r.Context(), mux.Vars(r)["accountNumber"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, inventoryResponse{
		AccountNumber: view.AccountNumber,
		Name:          view.Name,
		Inventory:     view.Inventory.StringFixed(4),
		AccountStatus: string(view.AccountStatus),
		LastUsageDate: view.LastUsageDate.Format(time.RFC3339),
	})
}

// GetChangeHistory handles GET /api/clients/{id}/change-history
func (h *ClientHandler) GetChangeHistory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid client id")
		return
	}

	entries, err := h.service.ChangeHistory(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, toChangeLogResponses(entries))
}
