package pipeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	nonDigitRe    = regexp.MustCompile(`\D`)
	amountNoiseRe = regexp.MustCompile(`[$£€,\s]`)
)

// dateLayouts are tried in order; the first successful parse wins and
// is re-emitted as YYYY-MM-DD. The ordering resolves ambiguous inputs
// (US slash before day-first slash).
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"02/01/2006",
	"01-02-2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2006/01/02",
}

// Validate coerces known fields of a raw statement record into
// canonical forms and collects advisory warnings. It never hard-fails:
// IsValid is always true and Errors stays empty; malformed values
// degrade to pass-through or removal, and only transactions lacking a
// description are dropped.
func Validate(data map[string]interface{}) *ValidationResult {
	result := &ValidationResult{
		IsValid:  true,
		Errors:   []string{},
		Warnings: []string{},
		Data:     make(map[string]interface{}, len(data)),
	}
	for k, v := range data {
		result.Data[k] = v
	}

	if v, ok := data[FieldCardLast4]; ok && !isMissing(v) {
		digits := nonDigitRe.ReplaceAllString(fmt.Sprint(v), "")
		if len(digits) == 4 {
			result.Data[FieldCardLast4] = digits
		} else {
			result.Warnings = append(result.Warnings, "Card last 4 digits format issue")
		}
	}

	for _, field := range dateFields {
		if v, ok := data[field]; ok && !isMissing(v) {
			result.Data[field] = cleanDate(fmt.Sprint(v))
		}
	}

	for _, field := range amountFields {
		if v, ok := data[field]; ok && v != nil {
			if amount, ok := cleanAmount(v); ok {
				result.Data[field] = amount
			} else {
				// Unconvertible amounts become absent, not errors.
				delete(result.Data, field)
			}
		}
	}

	if v, ok := data[FieldTransactions]; ok && v != nil {
		raw, _ := v.([]interface{})
		// A non-array value collapses to an empty cleaned list.
		result.Data[FieldTransactions] = cleanTransactions(raw)
	}

	if isMissing(data[FieldCardIssuer]) {
		result.Warnings = append(result.Warnings, "Could not identify card issuer")
	}
	if isMissing(data[FieldTotalBalance]) {
		result.Warnings = append(result.Warnings, "Could not find total balance")
	}

	return result
}

// cleanTransactions keeps only entries with a non-empty description,
// normalizes their amounts, and preserves the original ordering.
func cleanTransactions(raw []interface{}) []interface{} {
	cleaned := make([]interface{}, 0, len(raw))
	for _, item := range raw {
		txn, ok := item.(map[string]interface{})
		if !ok || isMissing(txn[FieldTxnDescription]) {
			continue
		}

		copied := make(map[string]interface{}, len(txn))
		for k, v := range txn {
			copied[k] = v
		}
		if v, ok := txn[FieldTxnAmount]; ok {
			if amount, ok := cleanAmount(v); ok {
				copied[FieldTxnAmount] = amount
			} else {
				delete(copied, FieldTxnAmount)
			}
		}
		cleaned = append(cleaned, copied)
	}
	return cleaned
}

// cleanDate normalizes a date string to ISO form. Unrecognized values
// pass through unchanged; this is best-effort, not an error.
func cleanDate(s string) string {
	trimmed := strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}

// cleanAmount coerces a monetary value to float64. Numbers pass
// through; strings lose currency symbols, commas, and whitespace, and
// a parenthesis-wrapped value is negative. Anything else reports
// failure without raising.
func cleanAmount(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case string:
		cleaned := amountNoiseRe.ReplaceAllString(strings.TrimSpace(val), "")
		if strings.Contains(cleaned, "(") && strings.Contains(cleaned, ")") {
			cleaned = "-" + strings.NewReplacer("(", "", ")", "").Replace(cleaned)
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// isMissing reports whether a field value counts as absent for the
// advisory completeness checks: null, empty or blank string, zero
// number, or false.
func isMissing(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case float64:
		return val == 0
	case int:
		return val == 0
	case bool:
		return !val
	default:
		return false
	}
}
