package transaction

import (
	"fmt"
	"time"
)

// Unknown is the sentinel the backend stores for fields the extraction could
// not fill. It is the literal string "null", not an absent value.
const Unknown = "null"

// Transaction is a single recorded spend or income event. Negative amounts
// are expenses, positive amounts income. Owned by the server; the client
// only ever holds a read-only copy.
type Transaction struct {
	ID              string  `json:"id"`
	PhoneNumber     string  `json:"phoneNumber"`
	Amount          float64 `json:"amount"`
	SpentCategory   string  `json:"spentCategory"`
	MethodOfPayment string  `json:"methodeOfPayment"` // wire spelling is fixed contract
	Receiver        string  `json:"receiver"`
	DateString      string  `json:"date"`      // server-assigned
	CreatedAtString string  `json:"createdAt"` // server-assigned
}

// IsExpense reports whether the amount denotes money going out.
func (t *Transaction) IsExpense() bool {
	return t.Amount < 0
}

// GetDate parses and returns the server-assigned date.
func (t *Transaction) GetDate() (*time.Time, error) {
	return parseServerTime(t.DateString)
}

// GetCreatedAt parses and returns the createdAt timestamp.
func (t *Transaction) GetCreatedAt() (*time.Time, error) {
	return parseServerTime(t.CreatedAtString)
}

// parseServerTime accepts the timestamp shapes the backend is known to emit.
func parseServerTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		// Zone-less format, e.g. "2024-01-01T12:00:00"
		parsed, err = time.Parse("2006-01-02T15:04:05", s)
		if err != nil {
			return nil, fmt.Errorf("failed to parse timestamp '%s': %w", s, err)
		}
	}
	return &parsed, nil
}

// CreateParams is the payload for creating a transaction. Every field must
// carry either an extracted value or its documented default; none may be
// left empty.
type CreateParams struct {
	PhoneNumber     string  `json:"phoneNumber"`
	Amount          float64 `json:"amount"`
	SpentCategory   string  `json:"spentCategory"`
	MethodOfPayment string  `json:"methodeOfPayment"`
	Receiver        string  `json:"receiver"`
}

// DeleteResult is the confirmation body of a delete call. The server may
// answer with an empty body; Message is "" then.
type DeleteResult struct {
	Message string `json:"message"`
}
