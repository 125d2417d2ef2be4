package classify

import (
	_ "embed"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"financepro/internal/core"
)

//go:embed keywords.yaml
var keywordsYAML []byte

// KeywordRule pairs a category display name with its ordered keyword
// list. The table is an ordered sequence, not a map: the entry order is
// what breaks ties between categories with equal match counts.
type KeywordRule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// keywordTable is loaded once at init and never mutated afterwards, so
// concurrent Classify calls need no synchronization.
var keywordTable = mustLoadKeywords(keywordsYAML)

func mustLoadKeywords(raw []byte) []KeywordRule {
	var rules []KeywordRule
	if err := yaml.Unmarshal(raw, &rules); err != nil {
		panic(fmt.Sprintf("classify: parse embedded keyword table: %v", err))
	}
	if len(rules) == 0 {
		panic("classify: embedded keyword table is empty")
	}
	return rules
}

// KeywordRules returns the classification rule table in match order.
func KeywordRules() []KeywordRule {
	return keywordTable
}

// deductibility maps tax category tags to the fraction of an expense
// considered deductible. Depreciation is simplified to fully deductible;
// real schedules are out of scope.
var deductibility = map[core.TaxCategory]decimal.Decimal{
	core.TaxBusinessExpense:    decimal.NewFromInt(1),
	core.TaxMealsEntertainment: decimal.NewFromFloat(0.5),
	core.TaxDepreciation:       decimal.NewFromInt(1),
	core.TaxMedicalExpense:     decimal.NewFromInt(1),
	core.TaxIncome:             decimal.Zero,
	core.TaxNotDeductible:      decimal.Zero,
	core.TaxPendingReview:      decimal.Zero,
}

// DeductibilityFactor returns the deduction factor for a tax category
// tag. Unknown tags are not deductible.
func DeductibilityFactor(tag core.TaxCategory) decimal.Decimal {
	if f, ok := deductibility[tag]; ok {
		return f
	}
	return decimal.Zero
}
