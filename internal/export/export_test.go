package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTransactionsCSV(t *testing.T) {
	transactions := []interface{}{
		map[string]interface{}{"date": "2024-03-02", "description": "GROCERY STORE", "amount": 82.14},
		map[string]interface{}{"date": "2024-03-05", "description": "PAYMENT, THANK YOU", "amount": -500.0},
		map[string]interface{}{"description": "NO DATE OR AMOUNT"},
		"not a transaction object",
	}

	var buf bytes.Buffer
	err := WriteTransactionsCSV(&buf, transactions)
	require.NoError(t, err)

	want := "date,description,amount\n" +
		"2024-03-02,GROCERY STORE,82.14\n" +
		"2024-03-05,\"PAYMENT, THANK YOU\",-500\n" +
		",NO DATE OR AMOUNT,\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteTransactionsCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTransactionsCSV(&buf, nil)
	require.NoError(t, err)
	assert.Equal(t, "date,description,amount\n", buf.String())
}

func TestComputeStats(t *testing.T) {
	transactions := []interface{}{
		map[string]interface{}{"description": "A", "amount": 100.0},
		map[string]interface{}{"description": "B", "amount": 50.0},
		map[string]interface{}{"description": "REFUND", "amount": -30.0},
		map[string]interface{}{"description": "NO AMOUNT"},
	}

	stats := ComputeStats(transactions)

	assert.Equal(t, 4, stats.Count)
	assert.Equal(t, 150.0, stats.TotalSpent)
	assert.Equal(t, 30.0, stats.TotalCredits)
	assert.Equal(t, 75.0, stats.AvgTransaction)
}

func TestComputeStats_Empty(t *testing.T) {
	stats := ComputeStats(nil)

	assert.Equal(t, 0, stats.Count)
	assert.Zero(t, stats.TotalSpent)
	assert.Zero(t, stats.TotalCredits)
	assert.Zero(t, stats.AvgTransaction)
}

func TestMarshalStatementJSON(t *testing.T) {
	out, err := MarshalStatementJSON(map[string]interface{}{
		"card_issuer": "Chase",
		"card_last_4": "4532",
	})
	require.NoError(t, err)

	want := "{\n  \"card_issuer\": \"Chase\",\n  \"card_last_4\": \"4532\"\n}"
	assert.Equal(t, want, string(out))
}
