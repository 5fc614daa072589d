package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// Common allowed sort fields for entities with base fields

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"email":         true,
	"full_name":     true,
	"role":          true,
	"status":        true,
	"last_login_at": true,
}

// PropertySortFields contains allowed sort fields for properties
var PropertySortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"title":        true,
	"city":         true,
	"type":         true,
	"listing_type": true,
	"status":       true,
	"price":        true,
	"area_sqm":     true,
	"bedrooms":     true,
	"listed_at":    true,
}

// OfferSortFields contains allowed sort fields for offers
var OfferSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"amount":     true,
	"status":     true,
}

// LoanSortFields contains allowed sort fields for loans
var LoanSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"principal":       true,
	"term_months":     true,
	"annual_rate_pct": true,
	"status":          true,
	"outstanding":     true,
	"submitted_at":    true,
	"disbursed_at":    true,
}

// PaymentSortFields contains allowed sort fields for loan payments
var PaymentSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"due_date":   true,
	"amount":     true,
	"status":     true,
	"paid_at":    true,
}

// SaleContractSortFields contains allowed sort fields for sale contracts
var SaleContractSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"price":      true,
	"status":     true,
	"signed_at":  true,
}

// RentalContractSortFields contains allowed sort fields for rental contracts
var RentalContractSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"monthly_rent": true,
	"status":       true,
	"start_date":   true,
	"end_date":     true,
	"signed_at":    true,
}

// BranchSortFields contains allowed sort fields for branches
var BranchSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"city":       true,
}

// EmployeeSortFields contains allowed sort fields for employees
var EmployeeSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"position":   true,
	"salary":     true,
	"status":     true,
	"hired_at":   true,
}

// PayrollSortFields contains allowed sort fields for payroll entries
var PayrollSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"period":     true,
	"gross":      true,
	"net":        true,
	"status":     true,
}

// AuditSortFields contains allowed sort fields for audit entries
var AuditSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"occurred_at": true,
	"action":      true,
	"entity_type": true,
}
