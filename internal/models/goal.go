package models

import (
	"strings"
	"time"
)

// Goal is a savings or spending target. Active and Completed only change
// through explicit updates.
type Goal struct {
	Base
	UserID       uint      `gorm:"not null;index" json:"userId"`
	Name         string    `gorm:"not null" json:"name"`
	TargetAmount float64   `gorm:"type:numeric(14,2);not null" json:"targetAmount"`
	Category     string    `gorm:"not null" json:"category"`
	Deadline     time.Time `gorm:"not null" json:"deadline"`
	Kind         string    `gorm:"not null" json:"kind"`
	Description  *string   `json:"description,omitempty"`
	Active       bool      `gorm:"not null;default:true" json:"active"`
	Completed    bool      `gorm:"not null;default:false" json:"completed"`
}

// NormalizeGoalKind upper-cases a goal kind.
func NormalizeGoalKind(kind string) string {
	return strings.ToUpper(strings.TrimSpace(kind))
}

// GoalPatch holds the updatable fields of a goal.
type GoalPatch struct {
	Name         *string
	TargetAmount *float64
	Category     *string
	Deadline     *time.Time
	Kind         *string
	Description  *string
	Active       *bool
	Completed    *bool
}

// Apply returns g with the present fields of p merged in, and the names of
// the fields that changed. Kind is normalized to upper case.
func (p GoalPatch) Apply(g Goal) (Goal, []string) {
	var fields []string
	if p.Name != nil {
		g.Name = *p.Name
		fields = append(fields, "Name")
	}
	if p.TargetAmount != nil {
		g.TargetAmount = *p.TargetAmount
		fields = append(fields, "TargetAmount")
	}
	if p.Category != nil {
		g.Category = *p.Category
		fields = append(fields, "Category")
	}
	if p.Deadline != nil {
		g.Deadline = *p.Deadline
		fields = append(fields, "Deadline")
	}
	if p.Kind != nil {
		g.Kind = NormalizeGoalKind(*p.Kind)
		fields = append(fields, "Kind")
	}
	if p.Description != nil {
		desc := *p.Description
		g.Description = &desc
		fields = append(fields, "Description")
	}
	if p.Active != nil {
		g.Active = *p.Active
		fields = append(fields, "Active")
	}
	if p.Completed != nil {
		g.Completed = *p.Completed
		fields = append(fields, "Completed")
	}
	return g, fields
}
