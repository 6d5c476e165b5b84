package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/cardledger/internal/encoding"
	"github.com/MrJamesThe3rd/cardledger/internal/ledger"
)

// Source column names. Column order in the file does not matter; the
// header row is mapped by name.
const (
	colID            = "id"
	colDate          = "date"
	colCustomerID    = "client_id"
	colCardID        = "card_id"
	colAmount        = "amount"
	colChannel       = "use_chip"
	colMerchantID    = "merchant_id"
	colMerchantCity  = "merchant_city"
	colMerchantState = "merchant_state"
	colPostalCode    = "zip"
	colCategoryCode  = "mcc"
	colErrorFlags    = "errors"
)

const dateLayout = "2006-01-02 15:04:05"

// RejectedRow records one source row that failed validation and was skipped.
type RejectedRow struct {
	Line   int
	Reason string
}

// colIndex maps column names to their position in the header row.
type colIndex map[string]int

// parseRecords reads the whole source, returning every valid record plus a
// report of rejected rows. Only an unreadable source or an unusable header
// is a hard error.
func parseRecords(r io.Reader) ([]*ledger.Record, []RejectedRow, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(colIndex, len(header))

	for i, cell := range header {
		name := strings.TrimSpace(cell)
		if name != "" {
			cols[name] = i
		}
	}

	for _, required := range []string{colID, colDate, colAmount} {
		if _, ok := cols[required]; !ok {
			return nil, nil, fmt.Errorf("header is missing required column %q", required)
		}
	}

	var (
		records  []*ledger.Record
		rejected []RejectedRow
		seen     = make(map[string]struct{})
	)

	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			rejected = append(rejected, RejectedRow{Line: line, Reason: err.Error()})
			continue
		}

		rec, reason := parseRow(cols, row)
		if rec == nil {
			rejected = append(rejected, RejectedRow{Line: line, Reason: reason})
			continue
		}

		if _, dup := seen[rec.ID]; dup {
			rejected = append(rejected, RejectedRow{Line: line, Reason: fmt.Sprintf("duplicate id %q", rec.ID)})
			continue
		}

		seen[rec.ID] = struct{}{}
		records = append(records, rec)
	}

	return records, rejected, nil
}

// parseRow validates one data row. It returns the record, or nil and the
// rejection reason.
func parseRow(cols colIndex, row []string) (*ledger.Record, string) {
	id := cellValue(row, cols, colID)
	if id == "" {
		return nil, "missing id"
	}

	dateStr := cellValue(row, cols, colDate)
	if dateStr == "" {
		return nil, "missing date"
	}

	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return nil, fmt.Sprintf("unparseable date %q", dateStr)
	}

	amountStr := cellValue(row, cols, colAmount)
	if amountStr == "" {
		return nil, "missing amount"
	}

	amount, err := parseAmount(amountStr)
	if err != nil {
		return nil, fmt.Sprintf("unparseable amount %q", amountStr)
	}

	return &ledger.Record{
		ID:            id,
		Date:          date,
		CustomerID:    cellValue(row, cols, colCustomerID),
		CardID:        cellValue(row, cols, colCardID),
		Amount:        amount,
		Channel:       ledger.Channel(cellValue(row, cols, colChannel)),
		MerchantID:    cellValue(row, cols, colMerchantID),
		MerchantCity:  cellValue(row, cols, colMerchantCity),
		MerchantState: cellValue(row, cols, colMerchantState),
		PostalCode:    cellValue(row, cols, colPostalCode),
		CategoryCode:  cellValue(row, cols, colCategoryCode),
		ErrorFlags:    parseErrorFlags(cellValue(row, cols, colErrorFlags)),
	}, ""
}

// parseAmount accepts plain decimals plus the source's "$12.34" and
// "-$12.34" spellings. Decimal parsing keeps refund amounts exact.
func parseAmount(s string) (decimal.Decimal, error) {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimPrefix(s, "$")

	if neg {
		s = "-" + s
	}

	return decimal.NewFromString(s)
}

// parseErrorFlags splits the comma-separated error column. An empty cell
// means no flags.
func parseErrorFlags(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	flags := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			flags = append(flags, p)
		}
	}

	if len(flags) == 0 {
		return nil
	}

	return flags
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, cols colIndex, name string) string {
	idx, ok := cols[name]
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
