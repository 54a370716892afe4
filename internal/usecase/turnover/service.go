package turnover

import (
	"context"
	"time"

	"github.com/mehrbank/ledger-backend/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	// DefaultPageSize applies when the caller does not pick one
	DefaultPageSize = 10

	// MaxLastPageSize caps the page size of the "last N" convenience mode
	MaxLastPageSize = 100
)

// Filter describes a turnover query. Nil/empty fields are not applied.
type Filter struct {
	AccountNumber      string
	Type               *domain.TransferType
	OriginAccount      string
	DestinationAccount string
	MinAmount          *decimal.Decimal
	MaxAmount          *decimal.Decimal
	StartDate          *time.Time
	EndDate            *time.Time
	Limit              *int
	Page               int
	PageSize           int
}

// Entry is one turnover row: a tracking record joined live with the
// current display names of the accounts involved
type Entry struct {
	TrackingCode          string
	Type                  domain.TransferType
	SenderAccountNumber   string
	SenderName            string
	ReceiverAccountNumber string
	ReceiverName          string
	Amount                decimal.Decimal
	Fee                   decimal.Decimal
	Description           string
	RequestDate           time.Time
	ProcessDate           *time.Time
	Status                domain.TransferStatus
}

// Page is one page of turnover entries plus pagination totals
type Page struct {
	Entries    []Entry
	Page       int
	PageSize   int
	TotalItems int64
	TotalPages int
}

// Service answers read-side turnover queries over the tracking store
type Service struct {
	TrackingRepo domain.TrackingRepository
	ClientRepo   domain.ClientRepository
}

// NewService creates a new turnover Service instance
func NewService(trackingRepo domain.TrackingRepository, clientRepo domain.ClientRepository) *Service {
	return &Service{
		TrackingRepo: trackingRepo,
		ClientRepo:   clientRepo,
	}
}

// AccountTurnover returns the filtered, paginated history of tracking
// records, ordered newest first. When the filter names an account it must
// exist. A filter carrying only account + type + limit switches to the
// "last N" mode, which matches the account as sender only, ignores amount
// and date bounds, and serves min(limit, MaxLastPageSize) records.
func (s *Service) AccountTurnover(ctx context.Context, filter Filter) (*Page, error) {
	if filter.AccountNumber != "" {
		if _, err := s.ClientRepo.GetByAccountNumber(ctx, filter.AccountNumber); err != nil {
			return nil, err
		}
	}

	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	pageNumber := filter.Page
	if pageNumber < 0 {
		pageNumber = 0
	}

	if filter.Limit != nil && *filter.Limit < pageSize {
		pageSize = *filter.Limit
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var (
		records []*domain.TransferTracking
		total   int64
		err     error
	)

	if s.isLastMode(filter) {
		// Last mode serves exactly min(limit, cap) records per page,
		// growing past the default page size when asked to
		pageSize = *filter.Limit
		if pageSize > MaxLastPageSize {
			pageSize = MaxLastPageSize
		}
		if pageSize <= 0 {
			pageSize = DefaultPageSize
		}

		records, total, err = s.TrackingRepo.FindLastByAccountAndType(
			ctx, filter.AccountNumber, *filter.Type, pageNumber*pageSize, pageSize)
	} else {
		records, total, err = s.TrackingRepo.Find(ctx, domain.TrackingQuery{
			AccountNumber:      filter.AccountNumber,
			Type:               filter.Type,
			OriginAccount:      filter.OriginAccount,
			DestinationAccount: filter.DestinationAccount,
			MinAmount:          filter.MinAmount,
			MaxAmount:          filter.MaxAmount,
			StartDate:          filter.StartDate,
			EndDate:            filter.EndDate,
			Offset:             pageNumber * pageSize,
			Limit:              pageSize,
		})
	}
	if err != nil {
		return nil, err
	}

	page := &Page{
		Entries:    make([]Entry, 0, len(records)),
		Page:       pageNumber,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}

	// Display names are joined live so renamed accounts show their current
	// name in historical turnover. Lookups are memoized per call.
	names := make(map[string]string)
	for _, record := range records {
		page.Entries = append(page.Entries, Entry{
			TrackingCode:          record.TrackingCode,
			Type:                  record.Type,
			SenderAccountNumber:   record.SenderAccountNumber,
			SenderName:            s.displayName(ctx, names, record.SenderAccountNumber),
			ReceiverAccountNumber: record.ReceiverAccountNumber,
			ReceiverName:          s.displayName(ctx, names, record.ReceiverAccountNumber),
			Amount:                record.Amount,
			Fee:                   record.Fee,
			Description:           record.Description,
			RequestDate:           record.RequestDate,
			ProcessDate:           record.ProcessDate,
			Status:                record.Status,
		})
	}

	return page, nil
}

// isLastMode reports whether the filter selects the "last N of type"
// convenience query
func (s *Service) isLastMode(filter Filter) bool {
	return filter.Limit != nil &&
		filter.Type != nil &&
		filter.AccountNumber != "" &&
		filter.OriginAccount == "" &&
		filter.DestinationAccount == "" &&
		filter.MinAmount == nil &&
		filter.MaxAmount == nil &&
		filter.StartDate == nil &&
		filter.EndDate == nil
}

func (s *Service) displayName(ctx context.Context, cache map[string]string, accountNumber string) string {
	if accountNumber == "" {
		return ""
	}

	if name, ok := cache[accountNumber]; ok {
		return name
	}

	name := ""
	if client, err := s.ClientRepo.GetByAccountNumber(ctx, accountNumber); err == nil {
		name = client.Name
	}

	cache[accountNumber] = name
	return name
}
