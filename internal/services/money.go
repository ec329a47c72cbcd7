package services

import "github.com/shopspring/decimal"

// money accumulates amounts exactly. Rounding to cents happens once, when the
// aggregate is read.
type money struct {
	d decimal.Decimal
}

func (m *money) add(v float64) {
	m.d = m.d.Add(decimal.NewFromFloat(v))
}

func (m money) float() float64 {
	f, _ := m.d.Round(2).Float64()
	return f
}

func (m money) minus(o money) float64 {
	f, _ := m.d.Sub(o.d).Round(2).Float64()
	return f
}

func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// percentOf returns part/whole*100, or 0 when whole is not positive.
func percentOf(part, whole float64) float64 {
	w := decimal.NewFromFloat(whole)
	if !w.IsPositive() {
		return 0
	}
	f, _ := decimal.NewFromFloat(part).Div(w).Mul(decimal.NewFromInt(100)).Float64()
	return f
}
