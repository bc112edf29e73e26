// Package taxtag deterministically classifies a transaction into a tax
// category and treatment for reporting purposes. No I/O, no state: the same
// input always yields the same tag.
package taxtag

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Input carries the transaction fields the classifier inspects.
type Input struct {
	Description string
	Merchant    string
	Category    string
	Amount      decimal.Decimal
}

// Result is the classification outcome. ConfidenceScore is in [0, 1].
type Result struct {
	TaxCategory     string  `json:"tax_category"`
	TaxTreatment    string  `json:"tax_treatment"`
	ConfidenceScore float64 `json:"confidence_score"`
	Reasoning       string  `json:"reasoning"`
}

// rule is one keyword predicate. Rules are evaluated in declaration order and
// the first match wins; reordering changes classifications.
type rule struct {
	keywords   []string
	category   string
	treatment  string
	confidence float64
	reasoning  string
}

var rules = []rule{
	{
		keywords:   []string{"sales tax"},
		category:   "sales_tax_paid",
		treatment:  "non_deductible",
		confidence: 0.92,
		reasoning:  "matched sales tax keywords",
	},
	{
		keywords:   []string{"estimated tax", "quarterly tax", "irs payment"},
		category:   "estimated_tax_payment",
		treatment:  "non_deductible",
		confidence: 0.92,
		reasoning:  "matched estimated tax keywords",
	},
	{
		keywords:   []string{"payroll tax", "941 payment", "futa", "suta"},
		category:   "payroll_tax",
		treatment:  "deductible",
		confidence: 0.9,
		reasoning:  "matched payroll tax keywords",
	},
	{
		keywords:   []string{"payroll", "gusto", "adp", "wages", "salary"},
		category:   "payroll_wages",
		treatment:  "deductible",
		confidence: 0.85,
		reasoning:  "matched payroll wage keywords",
	},
	{
		keywords:   []string{"loan principal", "principal payment"},
		category:   "loan_principal",
		treatment:  "non_deductible",
		confidence: 0.88,
		reasoning:  "matched loan principal keywords",
	},
	{
		keywords:   []string{"loan interest", "interest payment", "interest charge"},
		category:   "loan_interest",
		treatment:  "deductible",
		confidence: 0.88,
		reasoning:  "matched loan interest keywords",
	},
	{
		keywords:   []string{"transfer", "xfer"},
		category:   "transfer",
		treatment:  "not_applicable",
		confidence: 0.9,
		reasoning:  "matched transfer keywords",
	},
	{
		keywords:   []string{"owner draw", "owner's draw", "owners draw", "member draw", "distribution to owner"},
		category:   "owner_draw",
		treatment:  "non_deductible",
		confidence: 0.9,
		reasoning:  "matched owner draw keywords",
	},
	{
		keywords:   []string{"equipment purchase", "capital expenditure", "capex", "asset purchase"},
		category:   "capital_expenditure",
		treatment:  "depreciable",
		confidence: 0.85,
		reasoning:  "matched capital expenditure keywords",
	},
}

var partial50Keywords = []string{"meal", "restaurant", "coffee", "lunch", "dinner", "entertainment"}

var nonDeductibleKeywords = []string{"fine", "penalty", "political", "donation to campaign"}

// Classify derives a tax tag from the transaction's text and amount sign.
func Classify(in Input) Result {
	blob := strings.ToLower(strings.TrimSpace(strings.Join([]string{in.Description, in.Merchant, in.Category}, " ")))

	if blob == "" {
		return Result{
			TaxCategory:     "uncategorized",
			TaxTreatment:    "review",
			ConfidenceScore: 0.2,
			Reasoning:       "no description, merchant, or category to classify",
		}
	}

	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(blob, kw) {
				return Result{
					TaxCategory:     r.category,
					TaxTreatment:    r.treatment,
					ConfidenceScore: r.confidence,
					Reasoning:       r.reasoning,
				}
			}
		}
	}

	// Sign-based defaults for unmatched text.
	if !in.Amount.IsNegative() {
		return Result{
			TaxCategory:     "gross_receipts",
			TaxTreatment:    "taxable",
			ConfidenceScore: 0.6,
			Reasoning:       "positive amount with no keyword match; assumed revenue",
		}
	}

	for _, kw := range partial50Keywords {
		if strings.Contains(blob, kw) {
			return Result{
				TaxCategory:     "meals_entertainment",
				TaxTreatment:    "partial_50",
				ConfidenceScore: 0.7,
				Reasoning:       "matched meals/entertainment keywords; 50% limitation applies",
			}
		}
	}

	for _, kw := range nonDeductibleKeywords {
		if strings.Contains(blob, kw) {
			return Result{
				TaxCategory:     "business_expense",
				TaxTreatment:    "non_deductible",
				ConfidenceScore: 0.7,
				Reasoning:       "matched non-deductible expense keywords",
			}
		}
	}

	return Result{
		TaxCategory:     "business_expense",
		TaxTreatment:    "deductible",
		ConfidenceScore: 0.55,
		Reasoning:       "negative amount with no keyword match; assumed ordinary business expense",
	}
}
