package persistence

import (
	"fmt"
	"strings"
)

// validateSortOrder normalizes the sort direction to ASC or DESC,
// defaulting to DESC for anything unrecognized.
func validateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// validateSortField checks the sort field against a whitelist, falling
// back to defaultField. Sort fields reach ORDER BY as raw SQL; the
// whitelist is what keeps user input out of it.
func validateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" || !allowedFields[trimmed] {
		return defaultField
	}
	return trimmed
}

// sortClause builds a safe ORDER BY clause from filter input
func sortClause(sortField, orderDir string, allowedFields map[string]bool, defaultField string) string {
	return fmt.Sprintf("%s %s",
		validateSortField(sortField, allowedFields, defaultField),
		validateSortOrder(orderDir),
	)
}

var productSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"slug":       true,
	"price":      true,
	"stock":      true,
}
