// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package query

import (
	"strings"
)

// WhereBuilder accumulates AND-joined conditions and their bind arguments for
// the filtered preference queries. The zero value is ready to use.
type WhereBuilder struct {
	clauses []string
	args    []any
}

// NewWhereBuilder returns an empty builder.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{}
}

// AddClause adds a raw condition such as "p.preference > ?" with its arguments.
func (wb *WhereBuilder) AddClause(clause string, args ...any) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// In adds "column IN (?, ...)" to wb. An empty list adds nothing, so an unset
// filter matches everything.
func In[T string | int | float64](wb *WhereBuilder, column string, values []T) *WhereBuilder {
	if len(values) == 0 {
		return wb
	}
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
	return wb.AddClause(column+" IN ("+marks+")", args...)
}

// AtLeast adds "column >= ?".
func (wb *WhereBuilder) AtLeast(column string, v float64) *WhereBuilder {
	return wb.AddClause(column+" >= ?", v)
}

// Build joins the conditions with AND. With no conditions it returns "1=1".
func (wb *WhereBuilder) Build() (string, []any) {
	if len(wb.clauses) == 0 {
		return "1=1", []any{}
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix is Build with a leading "WHERE ".
func (wb *WhereBuilder) BuildWithPrefix() (string, []any) {
	where, args := wb.Build()
	return "WHERE " + where, args
}

// Len returns the number of conditions.
func (wb *WhereBuilder) Len() int {
	return len(wb.clauses)
}
