package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteTransactionsCSV writes one row per transaction with columns
// date, description, amount. Amounts are raw numerics, not
// currency-formatted; a transaction without an amount gets an empty
// cell.
func WriteTransactionsCSV(out io.Writer, transactions []interface{}) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	if err := writer.Write([]string{"date", "description", "amount"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, item := range transactions {
		txn, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		row := []string{
			stringField(txn, "date"),
			stringField(txn, "description"),
			amountField(txn),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return writer.Error()
}

func stringField(txn map[string]interface{}, key string) string {
	v, ok := txn[key]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func amountField(txn map[string]interface{}) string {
	v, ok := txn["amount"]
	if !ok || v == nil {
		return ""
	}
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
