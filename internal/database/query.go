package database

import (
	"strings"
)

// QueryBuilder rewrites queries written with ? placeholders into the
// dialect's native form, so the save store is written once.
type QueryBuilder struct {
	dialect Dialect
}

// NewQueryBuilder creates a QueryBuilder for the given dialect.
func NewQueryBuilder(dialect Dialect) *QueryBuilder {
	return &QueryBuilder{dialect: dialect}
}

// Build converts ? placeholders to the dialect's markers. SQLite
// queries pass through unchanged; PostgreSQL gets $1, $2, ...
//
//	input:    SELECT payload FROM saves WHERE slot = ?
//	sqlite:   SELECT payload FROM saves WHERE slot = ?
//	postgres: SELECT payload FROM saves WHERE slot = $1
func (qb *QueryBuilder) Build(query string) string {
	if _, ok := qb.dialect.(*SQLiteDialect); ok {
		return query
	}

	var result strings.Builder
	position := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			result.WriteString(qb.dialect.Placeholder(position))
			position++
		} else {
			result.WriteByte(query[i])
		}
	}
	return result.String()
}
