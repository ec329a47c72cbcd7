package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EntryKind discriminates the two ledger streams.
type EntryKind string

const (
	EntryKindExpense EntryKind = "expense"
	EntryKindIncome  EntryKind = "income"
)

// Valid reports whether k names a known stream.
func (k EntryKind) Valid() bool {
	return k == EntryKindExpense || k == EntryKindIncome
}

// Expense is an outflow record labelled by a category.
type Expense struct {
	SerialBase
	UserID     uint      `gorm:"not null;index" json:"userId"`
	Amount     float64   `gorm:"type:numeric(14,2);not null" json:"amount"`
	Category   string    `gorm:"not null" json:"category"`
	OccurredAt time.Time `gorm:"not null;index" json:"occurredAt"`
}

// Income is an inflow record labelled by a free-text description.
type Income struct {
	SerialBase
	UserID      uint      `gorm:"not null;index" json:"userId"`
	Amount      float64   `gorm:"type:numeric(14,2);not null" json:"amount"`
	Description string    `gorm:"not null" json:"description"`
	OccurredAt  time.Time `gorm:"not null;index" json:"occurredAt"`
}

// EntryRef identifies the source record of a Transaction. The prefixed string
// form ("expense_7") only exists at the JSON boundary.
type EntryRef struct {
	Kind EntryKind
	ID   uint
}

func (r EntryRef) String() string {
	return fmt.Sprintf("%s_%d", r.Kind, r.ID)
}

// MarshalText encodes the ref in its prefixed form.
func (r EntryRef) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a prefixed ref such as "income_12".
func (r *EntryRef) UnmarshalText(text []byte) error {
	parsed, err := ParseEntryRef(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseEntryRef parses the prefixed form produced by EntryRef.String.
func ParseEntryRef(s string) (EntryRef, error) {
	kind, rawID, ok := strings.Cut(s, "_")
	if !ok || !EntryKind(kind).Valid() {
		return EntryRef{}, fmt.Errorf("invalid entry ref %q", s)
	}
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || id == 0 {
		return EntryRef{}, fmt.Errorf("invalid entry ref %q", s)
	}
	return EntryRef{Kind: EntryKind(kind), ID: uint(id)}, nil
}

// Transaction is the unified, read-only view over one Expense or Income.
type Transaction struct {
	Ref        EntryRef  `json:"id"`
	Kind       EntryKind `json:"kind"`
	Amount     float64   `json:"amount"`
	Label      string    `json:"label"`
	OccurredAt time.Time `json:"occurredAt"`
	UserID     uint      `json:"userId"`
}

// ExpenseTransaction builds the ledger view of an expense.
func ExpenseTransaction(e Expense) Transaction {
	return Transaction{
		Ref:        EntryRef{Kind: EntryKindExpense, ID: e.ID},
		Kind:       EntryKindExpense,
		Amount:     e.Amount,
		Label:      e.Category,
		OccurredAt: e.OccurredAt,
		UserID:     e.UserID,
	}
}

// IncomeTransaction builds the ledger view of an income.
func IncomeTransaction(i Income) Transaction {
	return Transaction{
		Ref:        EntryRef{Kind: EntryKindIncome, ID: i.ID},
		Kind:       EntryKindIncome,
		Amount:     i.Amount,
		Label:      i.Description,
		OccurredAt: i.OccurredAt,
		UserID:     i.UserID,
	}
}

// ExpensePatch holds the fields of an expense update. Nil fields are left
// unchanged.
type ExpensePatch struct {
	Amount     *float64
	Category   *string
	OccurredAt *time.Time
}

// Apply returns e with the present fields of p merged in, and the names of
// the fields that changed.
func (p ExpensePatch) Apply(e Expense) (Expense, []string) {
	var fields []string
	if p.Amount != nil {
		e.Amount = *p.Amount
		fields = append(fields, "Amount")
	}
	if p.Category != nil {
		e.Category = *p.Category
		fields = append(fields, "Category")
	}
	if p.OccurredAt != nil {
		e.OccurredAt = *p.OccurredAt
		fields = append(fields, "OccurredAt")
	}
	return e, fields
}

// IncomePatch holds the fields of an income update.
type IncomePatch struct {
	Amount      *float64
	Description *string
	OccurredAt  *time.Time
}

// Apply returns i with the present fields of p merged in, and the names of
// the fields that changed.
func (p IncomePatch) Apply(i Income) (Income, []string) {
	var fields []string
	if p.Amount != nil {
		i.Amount = *p.Amount
		fields = append(fields, "Amount")
	}
	if p.Description != nil {
		i.Description = *p.Description
		fields = append(fields, "Description")
	}
	if p.OccurredAt != nil {
		i.OccurredAt = *p.OccurredAt
		fields = append(fields, "OccurredAt")
	}
	return i, fields
}
