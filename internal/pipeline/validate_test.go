package pipeline

import (
	"testing"
)

func TestValidate_CardLast4(t *testing.T) {
	tests := []struct {
		name        string
		input       interface{}
		want        interface{}
		wantWarning bool
	}{
		{
			name:  "clean four digits",
			input: "4532",
			want:  "4532",
		},
		{
			name:  "digits with noise",
			input: "**** 4532",
			want:  "4532",
		},
		{
			name:  "numeric value",
			input: float64(4532),
			want:  "4532",
		},
		{
			name:        "too few digits pass through with warning",
			input:       "453",
			want:        "453",
			wantWarning: true,
		},
		{
			name:        "too many digits pass through with warning",
			input:       "45321",
			want:        "45321",
			wantWarning: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(map[string]interface{}{
				FieldCardIssuer:   "Chase",
				FieldTotalBalance: 100.0,
				FieldCardLast4:    tt.input,
			})

			if got := result.Data[FieldCardLast4]; got != tt.want {
				t.Errorf("card_last_4 = %v, want %v", got, tt.want)
			}
			if got := containsWarning(result.Warnings, "Card last 4 digits format issue"); got != tt.wantWarning {
				t.Errorf("format warning present = %v, want %v", got, tt.wantWarning)
			}
		})
	}
}

func TestValidate_Dates(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2024-03-15", "2024-03-15"},
		{"03/15/2024", "2024-03-15"},
		{"15/03/2024", "2024-03-15"},
		{"03-15-2024", "2024-03-15"},
		{"March 15, 2024", "2024-03-15"},
		{"Mar 15, 2024", "2024-03-15"},
		{"2024/03/15", "2024-03-15"},
		// Ambiguous slash dates resolve month-first.
		{"01/02/2024", "2024-01-02"},
		// Unrecognized values pass through untouched.
		{"sometime in March", "sometime in March"},
		{"15.03.2024", "15.03.2024"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := Validate(map[string]interface{}{
				FieldCardIssuer:     "Chase",
				FieldTotalBalance:   100.0,
				FieldPaymentDueDate: tt.input,
			})
			if got := result.Data[FieldPaymentDueDate]; got != tt.want {
				t.Errorf("payment_due_date = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidate_Amounts(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		want    float64
		removed bool
	}{
		{name: "plain number", input: 1234.56, want: 1234.56},
		{name: "dollar sign and commas", input: "$1,234.56", want: 1234.56},
		{name: "pound sign", input: "£500.00", want: 500.0},
		{name: "euro sign", input: "€42.10", want: 42.10},
		{name: "internal whitespace", input: " 1 234.56 ", want: 1234.56},
		{name: "parentheses mean negative", input: "(200.00)", want: -200.0},
		{name: "negative with symbol", input: "-$50.25", want: -50.25},
		{name: "integer value", input: 300, want: 300.0},
		{name: "garbage string removed", input: "N/A", removed: true},
		{name: "wrong type removed", input: []interface{}{"x"}, removed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(map[string]interface{}{
				FieldCardIssuer:   "Chase",
				FieldTotalBalance: 100.0,
				FieldCreditLimit:  tt.input,
			})

			got, present := result.Data[FieldCreditLimit]
			if tt.removed {
				if present {
					t.Fatalf("credit_limit = %v, want removed", got)
				}
				return
			}
			if !present {
				t.Fatal("credit_limit missing, want value")
			}
			if got != tt.want {
				t.Errorf("credit_limit = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidate_Transactions(t *testing.T) {
	result := Validate(map[string]interface{}{
		FieldCardIssuer:   "Chase",
		FieldTotalBalance: 100.0,
		FieldTransactions: []interface{}{
			map[string]interface{}{"date": "03/01/2024", "description": "COFFEE SHOP", "amount": "$4.50"},
			map[string]interface{}{"date": "03/02/2024", "description": "", "amount": 10.0},
			map[string]interface{}{"date": "03/03/2024", "amount": 20.0},
			map[string]interface{}{"date": "03/04/2024", "description": "REFUND", "amount": "(15.00)"},
			map[string]interface{}{"date": "03/05/2024", "description": "MYSTERY", "amount": "???"},
			"not even an object",
		},
	})

	txns, ok := result.Data[FieldTransactions].([]interface{})
	if !ok {
		t.Fatalf("transactions have type %T, want []interface{}", result.Data[FieldTransactions])
	}
	if len(txns) != 3 {
		t.Fatalf("got %d transactions, want 3", len(txns))
	}

	first := txns[0].(map[string]interface{})
	if first["description"] != "COFFEE SHOP" {
		t.Errorf("first description = %v, want COFFEE SHOP", first["description"])
	}
	if first["amount"] != 4.50 {
		t.Errorf("first amount = %v, want 4.5", first["amount"])
	}

	second := txns[1].(map[string]interface{})
	if second["description"] != "REFUND" {
		t.Errorf("order not preserved, second description = %v", second["description"])
	}
	if second["amount"] != -15.0 {
		t.Errorf("refund amount = %v, want -15", second["amount"])
	}

	third := txns[2].(map[string]interface{})
	if third["description"] != "MYSTERY" {
		t.Errorf("third description = %v, want MYSTERY", third["description"])
	}
	if _, present := third["amount"]; present {
		t.Error("unconvertible transaction amount should be removed")
	}
}

func TestValidate_AdvisoryWarnings(t *testing.T) {
	tests := []struct {
		name         string
		data         map[string]interface{}
		wantWarnings []string
	}{
		{
			name: "complete statement",
			data: map[string]interface{}{
				FieldCardIssuer:   "Chase",
				FieldTotalBalance: 1250.0,
			},
			wantWarnings: []string{},
		},
		{
			name: "missing issuer",
			data: map[string]interface{}{
				FieldTotalBalance: 1250.0,
			},
			wantWarnings: []string{"Could not identify card issuer"},
		},
		{
			name: "blank issuer and null balance",
			data: map[string]interface{}{
				FieldCardIssuer:   "  ",
				FieldTotalBalance: nil,
			},
			wantWarnings: []string{
				"Could not identify card issuer",
				"Could not find total balance",
			},
		},
		{
			name: "zero balance counts as missing",
			data: map[string]interface{}{
				FieldCardIssuer:   "Amex",
				FieldTotalBalance: 0.0,
			},
			wantWarnings: []string{"Could not find total balance"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.data)

			if !result.IsValid {
				t.Error("IsValid = false, want true")
			}
			if len(result.Errors) != 0 {
				t.Errorf("Errors = %v, want empty", result.Errors)
			}
			if len(result.Warnings) != len(tt.wantWarnings) {
				t.Fatalf("Warnings = %v, want %v", result.Warnings, tt.wantWarnings)
			}
			for i, w := range tt.wantWarnings {
				if result.Warnings[i] != w {
					t.Errorf("Warnings[%d] = %q, want %q", i, result.Warnings[i], w)
				}
			}
		})
	}
}

func TestValidate_DoesNotMutateInput(t *testing.T) {
	input := map[string]interface{}{
		FieldCardIssuer:   "Chase",
		FieldTotalBalance: "$1,250.00",
		FieldTransactions: []interface{}{
			map[string]interface{}{"description": "STORE", "amount": "$10.00"},
		},
	}

	result := Validate(input)

	if input[FieldTotalBalance] != "$1,250.00" {
		t.Errorf("input total_balance mutated to %v", input[FieldTotalBalance])
	}
	txn := input[FieldTransactions].([]interface{})[0].(map[string]interface{})
	if txn["amount"] != "$10.00" {
		t.Errorf("input transaction amount mutated to %v", txn["amount"])
	}
	if result.Data[FieldTotalBalance] != 1250.0 {
		t.Errorf("normalized total_balance = %v, want 1250", result.Data[FieldTotalBalance])
	}
}

func TestValidate_NonArrayTransactions(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
	}{
		{"string value", "no transactions found"},
		{"object value", map[string]interface{}{"oops": true}},
		{"number value", 7.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(map[string]interface{}{
				FieldCardIssuer:   "Chase",
				FieldTotalBalance: 100.0,
				FieldTransactions: tt.input,
			})

			txns, ok := result.Data[FieldTransactions].([]interface{})
			if !ok {
				t.Fatalf("transactions have type %T, want []interface{}", result.Data[FieldTransactions])
			}
			if len(txns) != 0 {
				t.Errorf("got %d transactions, want 0", len(txns))
			}
		})
	}
}

func TestValidate_UnknownFieldsPassThrough(t *testing.T) {
	result := Validate(map[string]interface{}{
		FieldCardIssuer:   "Citi",
		FieldTotalBalance: 50.0,
		"rewards_points":  float64(9001),
	})

	if result.Data["rewards_points"] != float64(9001) {
		t.Errorf("rewards_points = %v, want 9001", result.Data["rewards_points"])
	}
}

func TestIsMissing(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  bool
	}{
		{"nil", nil, true},
		{"empty string", "", true},
		{"blank string", "   ", true},
		{"non-empty string", "Chase", false},
		{"zero float", 0.0, true},
		{"non-zero float", 1.5, false},
		{"zero int", 0, true},
		{"false", false, true},
		{"true", true, false},
		{"map is present", map[string]interface{}{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isMissing(tt.input); got != tt.want {
				t.Errorf("isMissing(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func containsWarning(warnings []string, want string) bool {
	for _, w := range warnings {
		if w == want {
			return true
		}
	}
	return false
}
