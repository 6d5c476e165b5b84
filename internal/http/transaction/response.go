package transaction

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cardledger/internal/ledger"
	"github.com/MrJamesThe3rd/cardledger/internal/ledger/paginate"
)

// Wire names follow the source dataset's column naming, which the previous
// consumers of this API already depend on.
type recordResponse struct {
	ID            string          `json:"id"`
	Date          time.Time       `json:"date"`
	CustomerID    string          `json:"client_id"`
	CardID        string          `json:"card_id"`
	Amount        decimal.Decimal `json:"amount"`
	Channel       ledger.Channel  `json:"use_chip"`
	MerchantID    string          `json:"merchant_id"`
	MerchantCity  string          `json:"merchant_city"`
	MerchantState string          `json:"merchant_state"`
	PostalCode    string          `json:"zip"`
	CategoryCode  string          `json:"mcc"`
	ErrorFlags    []string        `json:"errors,omitempty"`
}

type paginationResponse struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	TotalCount  int  `json:"total_count"`
	TotalPages  int  `json:"total_pages"`
	HasNextPage bool `json:"has_next_page"`
}

type pageResponse struct {
	Data       []recordResponse   `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type channelCountResponse struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

func toResponse(rec *ledger.Record) recordResponse {
	return recordResponse{
		ID:            rec.ID,
		Date:          rec.Date,
		CustomerID:    rec.CustomerID,
		CardID:        rec.CardID,
		Amount:        rec.Amount,
		Channel:       rec.Channel,
		MerchantID:    rec.MerchantID,
		MerchantCity:  rec.MerchantCity,
		MerchantState: rec.MerchantState,
		PostalCode:    rec.PostalCode,
		CategoryCode:  rec.CategoryCode,
		ErrorFlags:    rec.ErrorFlags,
	}
}

func toPageResponse(page paginate.Page[*ledger.Record]) pageResponse {
	data := make([]recordResponse, 0, len(page.Items))
	for _, rec := range page.Items {
		data = append(data, toResponse(rec))
	}

	return pageResponse{
		Data: data,
		Pagination: paginationResponse{
			Page:        page.Page,
			Limit:       page.Limit,
			TotalCount:  page.TotalCount,
			TotalPages:  page.TotalPages,
			HasNextPage: page.HasNextPage,
		},
	}
}
