// Package export renders normalized statement data for download:
// a pretty-printed JSON document, a delimited transaction table, and
// the derived aggregates shown alongside the transaction list.
package export

import "encoding/json"

// MarshalStatementJSON pretty-prints the normalized statement record.
func MarshalStatementJSON(data map[string]interface{}) ([]byte, error) {
	return json.MarshalIndent(data, "", "  ")
}
