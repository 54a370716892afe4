package rest

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mehrbank/ledger-backend/internal/usecase/client"
	"github.com/mehrbank/ledger-backend/internal/usecase/transfer"
	"github.com/mehrbank/ledger-backend/internal/usecase/turnover"
	"go.uber.org/zap"
)

// NewRouter wires all API routes. Literal paths are registered before
// parameterized ones so /api/clients/account/... never binds to {id}.
func NewRouter(
	clientService *client.Service,
	transferService *transfer.Service,
	turnoverService *turnover.Service,
	logger *zap.Logger,
) *mux.Router {
	clients := NewClientHandler(clientService)
	transfers := NewTransferHandler(transferService)
	turnovers := NewTurnoverHandler(turnoverService)

	router := mux.NewRouter()
	router.Use(LoggingMiddleware(logger))

	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/clients/create-account", clients.CreateAccount).Methods(http.MethodPost)
	api.HandleFunc("/clients/update-account/{id}", clients.UpdateAccount).Methods(http.MethodPut)
	api.HandleFunc("/clients", clients.List).Methods(http.MethodGet)
	api.HandleFunc("/clients/by-national-id/{nationalId}", clients.GetByNationalID).Methods(http.MethodGet)
	api.HandleFunc("/clients/by-national-id/{nationalId}/account-number", clients.GetAccountNumber).Methods(http.MethodGet)
	api.HandleFunc("/clients/by-account-number/{accountNumber}", clients.GetByAccountNumber).Methods(http.MethodGet)
	api.HandleFunc("/clients/account/{accountNumber}", clients.GetAccountInfo).Methods(http.MethodGet)
	api.HandleFunc("/clients/account/{accountNumber}/inventory", clients.GetInventory).Methods(http.MethodGet)
	api.HandleFunc("/clients/{id}", clients.GetByID).Methods(http.MethodGet)
	api.HandleFunc("/clients/{id}/change-history", clients.GetChangeHistory).Methods(http.MethodGet)

	api.HandleFunc("/transfers/request", transfers.Request).Methods(http.MethodPost)
	api.HandleFunc("/transfers/status/{trackingCode}", transfers.Status).Methods(http.MethodGet)

	api.HandleFunc("/turnover/account/{accountNumber}", turnovers.AccountTurnover).Methods(http.MethodGet)
	api.HandleFunc("/turnover/account/{accountNumber}/last/{limit}", turnovers.LastByType).Methods(http.MethodGet)

	return router
}
