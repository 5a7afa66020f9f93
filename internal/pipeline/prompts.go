package pipeline

import "strings"

// maxPromptChars is a hard truncation of the statement text embedded
// in the prompt, not a streaming window.
const maxPromptChars = 20000

const promptTemplate = `Analyze this credit card statement and extract key information.

Return ONLY a valid JSON object with these fields (use null if not found):

{
  "card_issuer": "Bank/issuer name (Chase, Amex, Citi, etc.)",
  "card_variant": "Card type (Platinum, Gold, Rewards, etc.)",
  "card_last_4": "Last 4 digits",
  "billing_cycle_start": "Start date",
  "billing_cycle_end": "End date",
  "payment_due_date": "Due date in YYYY-MM-DD",
  "total_balance": "Total amount due (number only)",
  "minimum_payment": "Minimum payment (number only)",
  "previous_balance": "Previous balance (number only)",
  "new_charges": "New charges amount (number only)",
  "credit_limit": "Credit limit (number only)",
  "available_credit": "Available credit (number only)",
  "transactions": [
    {
      "date": "MM/DD/YYYY",
      "description": "Transaction description",
      "amount": "Amount (number, negative for credits)"
    }
  ]
}

Instructions:
- Extract ALL transactions you can find
- Convert amounts to numbers (remove $ and commas)
- Use null for missing data
- Return ONLY valid JSON

STATEMENT TEXT:
`

// buildStatementPrompt embeds the truncated statement text into the
// fixed extraction instruction.
func buildStatementPrompt(text string) string {
	return promptTemplate + truncateChars(text, maxPromptChars)
}

// truncateChars cuts s to at most n characters (runes, so a multi-byte
// character is never split).
func truncateChars(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// cleanModelJSON strips a markdown code fence from the model response.
// A block labeled json wins over a plain fence; text outside the fence
// is discarded either way.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if i := strings.Index(s, "```json"); i != -1 {
		s = s[i+len("```json"):]
		if j := strings.Index(s, "```"); j != -1 {
			s = s[:j]
		}
	} else if i := strings.Index(s, "```"); i != -1 {
		s = s[i+len("```"):]
		if j := strings.Index(s, "```"); j != -1 {
			s = s[:j]
		}
	}

	return strings.TrimSpace(s)
}
