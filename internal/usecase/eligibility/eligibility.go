// Package eligibility maps the discount classes the host requests onto the
// categories an evaluation may emit.
package eligibility

import "github.com/Victor-armando18/discount-function/internal/domain"

var classCategory = map[domain.DiscountClass]domain.Category{
	domain.ClassOrder:    domain.CategoryOrder,
	domain.ClassProduct:  domain.CategoryProduct,
	domain.ClassShipping: domain.CategoryDelivery,
}

// Resolve opens one category per recognised class. Unknown classes are
// ignored.
func Resolve(classes []domain.DiscountClass) domain.Eligibility {
	var e domain.Eligibility
	for _, c := range classes {
		switch classCategory[c] {
		case domain.CategoryOrder:
			e.Order = true
		case domain.CategoryProduct:
			e.Product = true
		case domain.CategoryDelivery:
			e.Delivery = true
		}
	}
	return e
}

// IsEligible reports whether any requested class opens category.
func IsEligible(classes []domain.DiscountClass, category domain.Category) bool {
	for _, c := range classes {
		if cat, ok := classCategory[c]; ok && cat == category {
			return true
		}
	}
	return false
}

// ForTarget narrows eligibility to the categories a target can emit.
func ForTarget(classes []domain.DiscountClass, target domain.Target) domain.Eligibility {
	var out domain.Eligibility
	for _, c := range target.Categories() {
		if !IsEligible(classes, c) {
			continue
		}
		switch c {
		case domain.CategoryOrder:
			out.Order = true
		case domain.CategoryProduct:
			out.Product = true
		case domain.CategoryDelivery:
			out.Delivery = true
		}
	}
	return out
}
