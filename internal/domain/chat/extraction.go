package chat

import (
	"encoding/json"
	"errors"
	"fmt"

	"lakshya/internal/domain/transaction"
)

// promptTemplate is the fixed system instruction. The %s is the language the
// confirmation message should be written in.
const promptTemplate = `You are a smart financial assistant. Extract spending information from this message and respond ONLY with a JSON object in this exact format (no other text). Some fields can be optional. Extract data that you can; if you cannot find that field, return null:
{
  "json": {
    "phoneNumber": "+1234567890",
    "amount": <extract number>,
    "spentCategory": "<extract category>",
    "methodeOfPayment": "<extract payment method or default to 'Cash'>",
    "receiver": "<extract receiver or store name>"
  },
  "message": "<write a friendly confirmation message in %s>"
}`

var promptLanguages = map[string]string{
	"en": "English",
	"hi": "Hindi",
	"gu": "Gujarati",
	"mr": "Marathi",
}

// SystemPrompt returns the instruction for the given language code.
func SystemPrompt(lang string) string {
	name, ok := promptLanguages[lang]
	if !ok {
		name = promptLanguages["en"]
	}
	return fmt.Sprintf(promptTemplate, name)
}

// Extraction is the structured record the model produced from free text.
// Pointer fields distinguish "model said null" from a present value, though
// defaulting later conflates null with zero values on purpose.
type Extraction struct {
	PhoneNumber     *string  `json:"phoneNumber"`
	Amount          *float64 `json:"amount"`
	SpentCategory   *string  `json:"spentCategory"`
	MethodOfPayment *string  `json:"methodeOfPayment"`
	Receiver        *string  `json:"receiver"`
}

// Envelope is the decoded model reply: the extraction, when the model found
// one, plus the human-readable confirmation.
type Envelope struct {
	Extraction *Extraction
	Message    string
}

// MalformedExtractionError reports a model reply that was not the expected
// JSON envelope, naming the field that failed.
type MalformedExtractionError struct {
	Field  string
	Reason string
	Err    error
}

func (e *MalformedExtractionError) Error() string {
	return fmt.Sprintf("malformed extraction: field %q: %s", e.Field, e.Reason)
}

func (e *MalformedExtractionError) Unwrap() error {
	return e.Err
}

// DecodeEnvelope parses the concatenated model output as the constrained
// envelope. Every shape violation comes back as *MalformedExtractionError;
// the caller decides how to recover.
func DecodeEnvelope(raw string) (*Envelope, error) {
	var wire struct {
		JSON    json.RawMessage `json:"json"`
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, malformed("envelope", "not a JSON object", err)
	}

	env := &Envelope{}

	if len(wire.Message) > 0 && !isJSONNull(wire.Message) {
		if err := json.Unmarshal(wire.Message, &env.Message); err != nil {
			return nil, malformed("message", "not a string", err)
		}
	}

	if len(wire.JSON) > 0 && !isJSONNull(wire.JSON) {
		var extraction Extraction
		if err := json.Unmarshal(wire.JSON, &extraction); err != nil {
			return nil, malformed(fieldOf(err, "json"), "wrong type", err)
		}
		env.Extraction = &extraction
	}

	return env, nil
}

func malformed(field, reason string, err error) *MalformedExtractionError {
	return &MalformedExtractionError{Field: field, Reason: reason, Err: err}
}

// fieldOf extracts the offending field name from a decode error when the
// standard library reports one.
func fieldOf(err error, fallback string) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return typeErr.Field
	}
	return fallback
}

func isJSONNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}

// CreateParams turns the extraction into a transaction payload, applying the
// documented per-field defaults independently. Defaulting is falsy-based:
// null and an explicit zero/empty value are indistinguishable.
//
// The prompt tells the model to default the payment method to 'Cash', but
// the client-side default has always been the "null" sentinel. The mismatch
// is kept until product says which one is right.
func (e *Extraction) CreateParams() transaction.CreateParams {
	params := transaction.CreateParams{
		PhoneNumber:     transaction.Unknown,
		Amount:          0,
		SpentCategory:   transaction.Unknown,
		MethodOfPayment: transaction.Unknown,
		Receiver:        transaction.Unknown,
	}

	if e.PhoneNumber != nil && *e.PhoneNumber != "" {
		params.PhoneNumber = *e.PhoneNumber
	}
	if e.Amount != nil {
		params.Amount = *e.Amount
	}
	if e.SpentCategory != nil && *e.SpentCategory != "" {
		params.SpentCategory = *e.SpentCategory
	}
	if e.MethodOfPayment != nil && *e.MethodOfPayment != "" {
		params.MethodOfPayment = *e.MethodOfPayment
	}
	if e.Receiver != nil && *e.Receiver != "" {
		params.Receiver = *e.Receiver
	}

	return params
}
