package rest

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mehrbank/ledger-backend/internal/domain"
	"github.com/mehrbank/ledger-backend/internal/usecase/turnover"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// createClientRequest is the payload for opening a client account
type createClientRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	NationalID  string `json:"nationalId" validate:"required,max=20"`
	DateOfBirth string `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
	ClientType  string `json:"clientType" validate:"required,oneof=REAL LEGAL"`
	PhoneNumber string `json:"phoneNumber" validate:"required,max=20"`
	Address     string `json:"address" validate:"required,max=255"`
	PostalCode  string `json:"postalCode" validate:"required,max=20"`
}

// updateClientRequest carries the profile fields to change. Absent fields
// are left untouched.
type updateClientRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	DateOfBirth *string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	ClientType  *string `json:"clientType" validate:"omitempty,oneof=REAL LEGAL"`
	PhoneNumber *string `json:"phoneNumber" validate:"omitempty,max=20"`
	Address     *string `json:"address" validate:"omitempty,max=255"`
	PostalCode  *string `json:"postalCode" validate:"omitempty,max=20"`
	UpdatedBy   string  `json:"updatedBy" validate:"omitempty,max=100"`
}

// transferRequest is the payload handed to the transfer engine
type transferRequest struct {
	Type                  string          `json:"type" validate:"required,oneof=DEPOSIT HARVEST TRANSFER"`
	SenderAccountNumber   string          `json:"senderAccountNumber" validate:"required,len=14,numeric"`
	ReceiverAccountNumber string          `json:"receiverAccountNumber" validate:"omitempty,len=14,numeric"`
	Amount                decimal.Decimal `json:"amount" validate:"-"`
	Description           string          `json:"description" validate:"max=500"`
}

// clientResponse is the public view of a client account
type clientResponse struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	NationalID       string `json:"nationalId"`
	DateOfBirth      string `json:"dateOfBirth"`
	ClientType       string `json:"clientType"`
	PhoneNumber      string `json:"phoneNumber"`
	Address          string `json:"address"`
	PostalCode       string `json:"postalCode"`
	AccountNumber    string `json:"accountNumber"`
	AccountCreatedAt string `json:"accountCreatedAt"`
	AccountExpiresAt string `json:"accountExpiresAt"`
	LastUsageDate    string `json:"lastUsageDate"`
	AccountStatus    string `json:"accountStatus"`
	Inventory        string `json:"inventory"`
}

func toClientResponse(c *domain.Client) clientResponse {
	return clientResponse{
		ID:               c.ID,
		Name:             c.Name,
		NationalID:       c.NationalID,
		DateOfBirth:      c.DateOfBirth.Format(dateLayout),
		ClientType:       string(c.ClientType),
		PhoneNumber:      c.PhoneNumber,
		Address:          c.Address,
		PostalCode:       c.PostalCode,
		AccountNumber:    c.AccountNumber,
		AccountCreatedAt: c.AccountCreatedAt.Format(time.RFC3339),
		AccountExpiresAt: c.AccountExpiresAt.Format(time.RFC3339),
		LastUsageDate:    c.LastUsageDate.Format(time.RFC3339),
		AccountStatus:    string(c.AccountStatus),
		Inventory:        c.Inventory.StringFixed(4),
	}
}

// inventoryResponse is the balance view of an account
type inventoryResponse struct {
	AccountNumber string `json:"accountNumber"`
	Name          string `json:"name"`
	Inventory     string `json:"inventory"`
	AccountStatus string `json:"accountStatus"`
	LastUsageDate string `json:"lastUsageDate"`
}

// changeLogResponse is one profile change entry
type changeLogResponse struct {
	ClientID   int64  `json:"clientId"`
	ClientName string `json:"clientName"`
	FieldName  string `json:"fieldName"`
	OldValue   string `json:"oldValue"`
	NewValue   string `json:"newValue"`
	ChangedBy  string `json:"changedBy"`
	ChangedAt  string `json:"changedAt"`
}

func toChangeLogResponses(entries []*domain.ClientChangeLog) []changeLogResponse {
	out := make([]changeLogResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, changeLogResponse{
			ClientID:   e.ClientID,
			ClientName: e.ClientName,
			FieldName:  e.FieldName,
			OldValue:   e.OldValue,
			NewValue:   e.NewValue,
			ChangedBy:  e.ChangedBy,
			ChangedAt:  e.ChangedAt.Format(time.RFC3339),
		})
	}
	return out
}

// trackingResponse is the public view of a tracking record, enriched with
// the current display names of the accounts involved
type trackingResponse struct {
	TrackingCode          string  `json:"trackingCode"`
	Type                  string  `json:"type"`
	SenderAccountNumber   string  `json:"senderAccountNumber"`
	SenderName            string  `json:"senderName,omitempty"`
	ReceiverAccountNumber string  `json:"receiverAccountNumber,omitempty"`
	ReceiverName          string  `json:"receiverName,omitempty"`
	Amount                string  `json:"amount"`
	Fee                   string  `json:"fee"`
	Description           string  `json:"description,omitempty"`
	RequestDate           string  `json:"requestDate"`
	ProcessDate           *string `json:"processDate,omitempty"`
	Status                string  `json:"status"`
	ErrorMessage          string  `json:"errorMessage,omitempty"`
}

func toTrackingResponse(t *domain.TransferTracking, senderName, receiverName string) trackingResponse {
	resp := trackingResponse{
		TrackingCode:          t.TrackingCode,
		Type:                  string(t.Type),
		SenderAccountNumber:   t.SenderAccountNumber,
		SenderName:            senderName,
		ReceiverAccountNumber: t.ReceiverAccountNumber,
		ReceiverName:          receiverName,
		Amount:                t.Amount.StringFixed(4),
		Fee:                   t.Fee.StringFixed(4),
		Description:           t.Description,
		RequestDate:           t.RequestDate.Format(time.RFC3339),
		Status:                string(t.Status),
		ErrorMessage:          t.ErrorMessage,
	}

	if t.ProcessDate != nil {
		processed := t.ProcessDate.Format(time.RFC3339)
		resp.ProcessDate = &processed
	}

	return resp
}

// turnoverEntryResponse is one turnover row
type turnoverEntryResponse struct {
	TrackingCode          string  `json:"trackingCode"`
	Type                  string  `json:"type"`
	SenderAccountNumber   string  `json:"senderAccountNumber"`
	SenderName            string  `json:"senderName,omitempty"`
	ReceiverAccountNumber string  `json:"receiverAccountNumber,omitempty"`
	ReceiverName          string  `json:"receiverName,omitempty"`
	Amount                string  `json:"amount"`
	Fee                   string  `json:"fee"`
	Description           string  `json:"description,omitempty"`
	RequestDate           string  `json:"requestDate"`
	ProcessDate           *string `json:"processDate,omitempty"`
	Status                string  `json:"status"`
}

// turnoverPageResponse is one page of turnover entries plus totals
type turnoverPageResponse struct {
	Entries    []turnoverEntryResponse `json:"entries"`
	Page       int                     `json:"page"`
	PageSize   int                     `json:"pageSize"`
	TotalItems int64                   `json:"totalItems"`
	TotalPages int                     `json:"totalPages"`
}

func toTurnoverPageResponse(page *turnover.Page) turnoverPageResponse {
	resp := turnoverPageResponse{
		Entries:    make([]turnoverEntryResponse, 0, len(page.Entries)),
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages,
	}

	for _, e := range page.Entries {
		entry := turnoverEntryResponse{
			TrackingCode:          e.TrackingCode,
			Type:                  string(e.Type),
			SenderAccountNumber:   e.SenderAccountNumber,
			SenderName:            e.SenderName,
			ReceiverAccountNumber: e.ReceiverAccountNumber,
			ReceiverName:          e.ReceiverName,
			Amount:                e.Amount.StringFixed(4),
			Fee:                   e.Fee.StringFixed(4),
			Description:           e.Description,
			RequestDate:           e.RequestDate.Format(time.RFC3339),
			Status:                string(e.Status),
		}
		if e.ProcessDate != nil {
			processed := e.ProcessDate.Format(time.RFC3339)
			entry.ProcessDate = &processed
		}
		resp.Entries = append(resp.Entries, entry)
	}

	return resp
}

// validationMessage flattens validator/v10 field errors into one
// human-readable message
func validationMessage(err error) string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err.Error()
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		switch fe.Tag() {
		case "required":
			messages = append(messages, fe.Field()+" is required")
		case "oneof":
			messages = append(messages, fe.Field()+" must be one of: "+fe.Param())
		case "len":
			messages = append(messages, fe.Field()+" must be exactly "+fe.Param()+" characters")
		case "max":
			messages = append(messages, fe.Field()+" must be at most "+fe.Param()+" characters")
		case "numeric":
			messages = append(messages, fe.Field()+" must contain only digits")
		case "datetime":
			messages = append(messages, fe.Field()+" must be a date in "+fe.Param()+" format")
		default:
			messages = append(messages, fe.Field()+" is invalid")
		}
	}

	return strings.Join(messages, "; ")
}
