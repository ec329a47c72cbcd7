package models

// Budget is a monthly spending limit for one category. Uniqueness per
// (user, category, month, year) is not enforced.
type Budget struct {
	Base
	UserID       uint    `gorm:"not null;index" json:"userId"`
	Category     string  `gorm:"not null" json:"category"`
	LimitAmount  float64 `gorm:"type:numeric(14,2);not null" json:"limitAmount"`
	CurrentSpend float64 `gorm:"type:numeric(14,2);not null;default:0" json:"currentSpend"`
	Month        int     `gorm:"not null" json:"month"`
	Year         int     `gorm:"not null" json:"year"`
}

// BudgetPatch holds the updatable fields of a budget.
type BudgetPatch struct {
	Category     *string
	LimitAmount  *float64
	CurrentSpend *float64
}

// Apply returns b with the present fields of p merged in, and the names of
// the fields that changed.
func (p BudgetPatch) Apply(b Budget) (Budget, []string) {
	var fields []string
	if p.Category != nil {
		b.Category = *p.Category
		fields = append(fields, "Category")
	}
	if p.LimitAmount != nil {
		b.LimitAmount = *p.LimitAmount
		fields = append(fields, "LimitAmount")
	}
	if p.CurrentSpend != nil {
		b.CurrentSpend = *p.CurrentSpend
		fields = append(fields, "CurrentSpend")
	}
	return b, fields
}
