package domain

import (
	"encoding/json"
	"fmt"

	"github.com/Victor-armando18/discount-function/internal/domain/operation"
	"github.com/shopspring/decimal"
)

// --- Discount classes and categories ---

// DiscountClass is the host-side gate for which discount types may be emitted.
type DiscountClass string

const (
	ClassOrder    DiscountClass = "ORDER"
	ClassProduct  DiscountClass = "PRODUCT"
	ClassShipping DiscountClass = "SHIPPING"
)

// Category is the kind of discount a candidate belongs to.
type Category string

const (
	CategoryOrder    Category = "order"
	CategoryProduct  Category = "product"
	CategoryDelivery Category = "delivery"
)

// CategoryOf maps an operation kind to its category. Code acceptance has none.
func CategoryOf(k operation.Kind) (Category, bool) {
	switch k {
	case operation.KindOrderDiscounts:
		return CategoryOrder, true
	case operation.KindProductDiscounts:
		return CategoryProduct, true
	case operation.KindDeliveryDiscounts:
		return CategoryDelivery, true
	}
	return "", false
}

// Eligibility records which categories the requested discount classes open.
type Eligibility struct {
	Order    bool
	Product  bool
	Delivery bool
}

func (e Eligibility) Allows(c Category) bool {
	switch c {
	case CategoryOrder:
		return e.Order
	case CategoryProduct:
		return e.Product
	case CategoryDelivery:
		return e.Delivery
	}
	return false
}

// AnyOf reports whether at least one of the given categories is open.
func (e Eligibility) AnyOf(categories ...Category) bool {
	for _, c := range categories {
		if e.Allows(c) {
			return true
		}
	}
	return false
}

// --- Targets ---

// Target names a host entry point. Each target is invoked independently.
type Target string

const (
	TargetCartLinesFetch Target = "cart.lines.discounts.generate.fetch"
	TargetCartLinesRun   Target = "cart.lines.discounts.generate.run"
	TargetDeliveryFetch  Target = "cart.delivery-options.discounts.generate.fetch"
	TargetDeliveryRun    Target = "cart.delivery-options.discounts.generate.run"
)

var targetCategories = map[Target][]Category{
	TargetCartLinesFetch: {CategoryOrder, CategoryProduct},
	TargetCartLinesRun:   {CategoryOrder, CategoryProduct},
	TargetDeliveryFetch:  {CategoryDelivery},
	TargetDeliveryRun:    {CategoryDelivery},
}

func Targets() []Target {
	return []Target{TargetCartLinesFetch, TargetCartLinesRun, TargetDeliveryFetch, TargetDeliveryRun}
}

func (t Target) Valid() bool {
	_, ok := targetCategories[t]
	return ok
}

func (t Target) IsFetch() bool {
	return t == TargetCartLinesFetch || t == TargetDeliveryFetch
}

// Categories lists the categories a target may emit, in output order.
func (t Target) Categories() []Category {
	return targetCategories[t]
}

// --- Configuration ---

// DiscountConfiguration is the merchant configuration stored in the discount
// node metafield. Absent percentages suppress their category.
type DiscountConfiguration struct {
	OrderPercentage      decimal.NullDecimal `json:"orderPercentage"`
	CartLinePercentage   decimal.NullDecimal `json:"cartLinePercentage"`
	ProductPercentage    decimal.NullDecimal `json:"productPercentage"`
	DeliveryPercentage   decimal.NullDecimal `json:"deliveryPercentage"`
	CollectionIDs        []string            `json:"collectionIds"`
	ExcludedCartLineIDs  []string            `json:"excludedCartLineIds"`
	ExcludedVariantIDs   []string            `json:"excludedVariantIds"`
	OrderMinimumSubtotal decimal.NullDecimal `json:"orderMinimumSubtotal"`
	CartLineRule         map[string]any      `json:"cartLineRule"`
	Request              *HTTPRequest        `json:"request"`
}

// Percentage returns the configured rate for a category, zero when unset.
func (c *DiscountConfiguration) Percentage(cat Category) decimal.Decimal {
	var v decimal.NullDecimal
	switch cat {
	case CategoryOrder:
		v = c.OrderPercentage
	case CategoryProduct:
		v = c.CartLinePercentage
		if !v.Valid {
			v = c.ProductPercentage
		}
	case CategoryDelivery:
		v = c.DeliveryPercentage
	}
	if !v.Valid {
		return decimal.Zero
	}
	return v.Decimal
}

var hundred = decimal.NewFromInt(100)

// Check enforces the invariants the schema cannot express.
func (c *DiscountConfiguration) Check() error {
	if c.CartLinePercentage.Valid && c.ProductPercentage.Valid {
		return fmt.Errorf("cartLinePercentage and productPercentage are mutually exclusive")
	}
	for _, cat := range []Category{CategoryOrder, CategoryProduct, CategoryDelivery} {
		if c.Percentage(cat).GreaterThan(hundred) {
			return fmt.Errorf("%s percentage %s exceeds 100", cat, c.Percentage(cat))
		}
	}
	if c.OrderMinimumSubtotal.Valid && c.OrderMinimumSubtotal.Decimal.IsNegative() {
		return fmt.Errorf("orderMinimumSubtotal must not be negative")
	}
	return nil
}

// --- HTTP request description (fetch phase output) ---

type HTTPRequestMethod string

const (
	MethodGet  HTTPRequestMethod = "GET"
	MethodPost HTTPRequestMethod = "POST"
)

type HTTPRequestHeader struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

type HTTPRequestPolicy struct {
	ReadTimeoutMs int `json:"readTimeoutMs" yaml:"readTimeoutMs"`
}

// HTTPRequest describes the single outbound call the host performs between
// the fetch and run phases.
type HTTPRequest struct {
	Headers  []HTTPRequestHeader `json:"headers"`
	Method   HTTPRequestMethod   `json:"method"`
	Policy   HTTPRequestPolicy   `json:"policy"`
	URL      string              `json:"url"`
	Body     *string             `json:"body"`
	JSONBody json.RawMessage     `json:"jsonBody"`
}

type FetchOutput struct {
	Request *HTTPRequest `json:"request"`
}
