package portfolio

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/PaesslerAG/jsonpath"

	"github.com/cloud-ru/loanfolio-go/internal/calculations"
)

// FormatVersion is written in every export.
const FormatVersion = "1.0"

// requiredFields are checked in this order, the first missing one is reported.
var requiredFields = []string{
	"id",
	"name",
	"principal",
	"totalMonths",
	"annualRate",
	"graceMonths",
	"paymentFrequency",
	"loanType",
}

// ImportErrorKind classifies import failures.
type ImportErrorKind string

const (
	// ParseFailure means the file is not JSON or has no loans array.
	ParseFailure ImportErrorKind = "parse"
	// ValidationFailure means a loan object is incomplete or malformed.
	ValidationFailure ImportErrorKind = "validation"
)

const parseFailureMessage = `invalid portfolio file: expected a JSON object with a "loans" array`

// ImportError is returned by Import. Index is the 1-based loan position, 0
// when the failure is not about a single loan.
type ImportError struct {
	Kind    ImportErrorKind
	Index   int
	Field   string
	Message string
	Err     error
}

func (e *ImportError) Error() string { return e.Message }

func (e *ImportError) Unwrap() error { return e.Err }

func parseError(err error) *ImportError {
	return &ImportError{Kind: ParseFailure, Message: parseFailureMessage, Err: err}
}

func validationError(index int, field, format string, args ...any) *ImportError {
	return &ImportError{Kind: ValidationFailure, Index: index, Field: field, Message: fmt.Sprintf(format, args...)}
}

// exportFile is the on-disk envelope. activeId is written for workspace
// files and ignored by Import.
type exportFile struct {
	Version    string              `json:"version"`
	ExportedAt string              `json:"exportedAt"`
	Loans      []calculations.Loan `json:"loans"`
	ActiveID   int                 `json:"activeId,omitempty"`
}

// Export writes the portfolio to w in the import/export format.
func Export(w io.Writer, s State, now time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	loans := s.Loans
	if loans == nil {
		loans = []calculations.Loan{}
	}
	return enc.Encode(exportFile{
		Version:    FormatVersion,
		ExportedAt: now.UTC().Format(time.RFC3339),
		Loans:      loans,
		ActiveID:   s.ActiveID,
	})
}

// Import reads the loans of an exported portfolio. Failures are *ImportError.
func Import(r io.Reader) ([]calculations.Loan, error) {
	doc, err := decode(r)
	if err != nil {
		return nil, err
	}
	return doc.loans, nil
}

// Load restores a workspace file, keeping its active loan when it has one.
func Load(r io.Reader) (State, error) {
	doc, err := decode(r)
	if err != nil {
		return State{}, err
	}
	s := State{Loans: doc.loans, ActiveID: doc.loans[0].ID}
	if doc.activeID != 0 && s.index(doc.activeID) >= 0 {
		s.ActiveID = doc.activeID
	}
	return s, nil
}

type document struct {
	loans    []calculations.Loan
	activeID int
}

func decode(r io.Reader) (document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return document{}, parseError(err)
	}
	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return document{}, parseError(err)
	}

	raw, err := jsonpath.Get("$.loans", root)
	if err != nil {
		return document{}, parseError(err)
	}
	items, ok := raw.([]any)
	if !ok {
		return document{}, parseError(fmt.Errorf("loans is %T, not an array", raw))
	}
	if len(items) == 0 {
		return document{}, validationError(0, "loans", "portfolio file contains no loans")
	}

	var doc document
	seen := make(map[int]int, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return document{}, parseError(fmt.Errorf("loan %d is %T, not an object", i+1, item))
		}
		loan, err := decodeLoan(i+1, obj)
		if err != nil {
			return document{}, err
		}
		if first, dup := seen[loan.ID]; dup {
			return document{}, validationError(i+1, "id", "Loan %d has the same id %d as loan %d", i+1, loan.ID, first)
		}
		seen[loan.ID] = i + 1
		doc.loans = append(doc.loans, loan)
	}

	if v, err := jsonpath.Get("$.activeId", root); err == nil {
		if id, ok := v.(float64); ok {
			doc.activeID = int(id)
		}
	}
	return doc, nil
}

func decodeLoan(index int, obj map[string]any) (calculations.Loan, error) {
	for _, field := range requiredFields {
		if v, ok := obj[field]; !ok || v == nil {
			return calculations.Loan{}, validationError(index, field, "Loan %d is missing field %q", index, field)
		}
	}

	// obj came out of json.Unmarshal, so it always encodes
	encoded, _ := json.Marshal(obj)
	var loan calculations.Loan
	if err := json.Unmarshal(encoded, &loan); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			e := validationError(index, typeErr.Field, "Loan %d has invalid field %q", index, typeErr.Field)
			e.Err = err
			return calculations.Loan{}, e
		}
		return calculations.Loan{}, &ImportError{Kind: ValidationFailure, Index: index, Message: fmt.Sprintf("Loan %d is malformed", index), Err: err}
	}

	switch loan.LoanType {
	case calculations.Amortizing, calculations.Bullet:
	default:
		return calculations.Loan{}, validationError(index, "loanType", "Loan %d has invalid field %q", index, "loanType")
	}
	if loan.Name == "" {
		loan.Name = DefaultName(loan.ID)
	}
	return loan, nil
}
