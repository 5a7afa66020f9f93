package pipeline

// Field names the prompt asks the model to emit. The model may omit,
// add, or mistype any of them; normalization deals with that.
const (
	FieldCardIssuer        = "card_issuer"
	FieldCardVariant       = "card_variant"
	FieldCardLast4         = "card_last_4"
	FieldBillingCycleStart = "billing_cycle_start"
	FieldBillingCycleEnd   = "billing_cycle_end"
	FieldPaymentDueDate    = "payment_due_date"
	FieldTotalBalance      = "total_balance"
	FieldMinimumPayment    = "minimum_payment"
	FieldPreviousBalance   = "previous_balance"
	FieldNewCharges        = "new_charges"
	FieldCreditLimit       = "credit_limit"
	FieldAvailableCredit   = "available_credit"
	FieldTransactions      = "transactions"

	FieldTxnDate        = "date"
	FieldTxnDescription = "description"
	FieldTxnAmount      = "amount"
)

// dateFields are normalized to ISO YYYY-MM-DD where possible.
var dateFields = []string{
	FieldPaymentDueDate,
	FieldBillingCycleStart,
	FieldBillingCycleEnd,
}

// amountFields are coerced to float64 where possible.
var amountFields = []string{
	FieldTotalBalance,
	FieldMinimumPayment,
	FieldPreviousBalance,
	FieldNewCharges,
	FieldCreditLimit,
	FieldAvailableCredit,
}

// ValidationResult is the outcome of normalizing a raw statement
// record. Per-field problems degrade to warnings or silent
// pass-through; nothing in normalization flips IsValid to false.
type ValidationResult struct {
	IsValid  bool                   `json:"is_valid"`
	Errors   []string               `json:"errors"`
	Warnings []string               `json:"warnings"`
	Data     map[string]interface{} `json:"data"`
}
