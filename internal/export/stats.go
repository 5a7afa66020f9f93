package export

// TransactionStats holds the aggregates displayed next to the
// transaction table.
type TransactionStats struct {
	// Count is the number of transactions after cleaning.
	Count int `json:"count"`

	// TotalSpent is the sum of positive amounts.
	TotalSpent float64 `json:"total_spent"`

	// TotalCredits is the absolute sum of negative amounts.
	TotalCredits float64 `json:"total_credits"`

	// AvgTransaction is the mean of positive amounts, 0 when there
	// are none.
	AvgTransaction float64 `json:"avg_transaction"`
}

// ComputeStats derives spending aggregates from normalized
// transactions. Entries without a numeric amount are counted but do
// not contribute to the sums.
func ComputeStats(transactions []interface{}) TransactionStats {
	stats := TransactionStats{Count: len(transactions)}

	positive := 0
	for _, item := range transactions {
		txn, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		amount, ok := txn["amount"].(float64)
		if !ok {
			continue
		}
		if amount > 0 {
			stats.TotalSpent += amount
			positive++
		} else if amount < 0 {
			stats.TotalCredits += -amount
		}
	}

	if positive > 0 {
		stats.AvgTransaction = stats.TotalSpent / float64(positive)
	}
	return stats
}
