package model

import (
	"encoding/json"

	"github.com/Victor-armando18/discount-function/internal/domain"
	"github.com/shopspring/decimal"
)

// Input is the envelope the host passes to every target.
type Input struct {
	Cart                 Cart          `json:"cart"`
	Discount             Discount      `json:"discount"`
	DiscountNode         *DiscountNode `json:"discountNode"`
	EnteredDiscountCodes []string      `json:"enteredDiscountCodes"`
	FetchResult          *FetchResult  `json:"fetchResult"`
}

// Metafield returns the configuration metafield. Older envelopes carry it on
// discountNode instead of discount.
func (in Input) Metafield() *Metafield {
	if in.Discount.Metafield != nil {
		return in.Discount.Metafield
	}
	if in.DiscountNode != nil {
		return in.DiscountNode.Metafield
	}
	return nil
}

type Discount struct {
	DiscountClasses []domain.DiscountClass `json:"discountClasses"`
	Metafield       *Metafield             `json:"metafield"`
}

type DiscountNode struct {
	Metafield *Metafield `json:"metafield"`
}

type Metafield struct {
	Value string `json:"value"`
}

type Cart struct {
	Lines          []CartLine      `json:"lines"`
	DeliveryGroups []DeliveryGroup `json:"deliveryGroups"`
}

type CartLine struct {
	ID          string       `json:"id"`
	Quantity    int          `json:"quantity"`
	Cost        CartLineCost `json:"cost"`
	Merchandise Merchandise  `json:"merchandise"`
}

type CartLineCost struct {
	SubtotalAmount    Money  `json:"subtotalAmount"`
	AmountPerQuantity *Money `json:"amountPerQuantity,omitempty"`
}

type Money struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode,omitempty"`
}

const TypenameProductVariant = "ProductVariant"

type Merchandise struct {
	Typename string   `json:"__typename"`
	ID       string   `json:"id"`
	SKU      string   `json:"sku,omitempty"`
	Product  *Product `json:"product,omitempty"`
}

// IsProductVariant reports whether the line holds a product variant, as
// opposed to a custom product.
func (m Merchandise) IsProductVariant() bool {
	if m.Typename != "" {
		return m.Typename == TypenameProductVariant
	}
	return m.Product != nil
}

type Product struct {
	ID              string       `json:"id"`
	Handle          string       `json:"handle,omitempty"`
	Vendor          string       `json:"vendor,omitempty"`
	ProductType     string       `json:"productType,omitempty"`
	InAnyCollection bool         `json:"inAnyCollection"`
	Collections     []Collection `json:"collections,omitempty"`
}

type Collection struct {
	ID string `json:"id"`
}

// InCollections reports membership in any of ids. The host may precompute it
// as inAnyCollection, or list the product's collections.
func (p *Product) InCollections(ids []string) bool {
	if p == nil {
		return false
	}
	if p.InAnyCollection {
		return true
	}
	for _, c := range p.Collections {
		for _, id := range ids {
			if c.ID == id {
				return true
			}
		}
	}
	return false
}

type DeliveryGroup struct {
	ID              string           `json:"id"`
	DeliveryOptions []DeliveryOption `json:"deliveryOptions,omitempty"`
}

type DeliveryOption struct {
	Handle string `json:"handle"`
}

// FetchResult is the host-carried response of the fetch phase request.
type FetchResult struct {
	Status   int             `json:"status"`
	Body     *string         `json:"body"`
	JSONBody json.RawMessage `json:"jsonBody"`
}

// ToMap renders a line as plain JSON-compatible values for rule evaluation.
func (l CartLine) ToMap() map[string]any {
	merchandise := map[string]any{
		"__typename": l.Merchandise.Typename,
		"id":         l.Merchandise.ID,
		"sku":        l.Merchandise.SKU,
	}
	if p := l.Merchandise.Product; p != nil {
		collections := make([]any, len(p.Collections))
		for i, c := range p.Collections {
			collections[i] = c.ID
		}
		merchandise["product"] = map[string]any{
			"id":              p.ID,
			"handle":          p.Handle,
			"vendor":          p.Vendor,
			"productType":     p.ProductType,
			"inAnyCollection": p.InAnyCollection,
			"collections":     collections,
		}
	}

	cost := map[string]any{
		"subtotalAmount": l.Cost.SubtotalAmount.Amount.InexactFloat64(),
	}
	if l.Cost.AmountPerQuantity != nil {
		cost["amountPerQuantity"] = l.Cost.AmountPerQuantity.Amount.InexactFloat64()
	}

	return map[string]any{
		"id":          l.ID,
		"quantity":    l.Quantity,
		"cost":        cost,
		"merchandise": merchandise,
	}
}

// ToMap summarises the cart for rule evaluation.
func (c Cart) ToMap() map[string]any {
	subtotal := decimal.Zero
	quantity := 0
	for _, l := range c.Lines {
		subtotal = subtotal.Add(l.Cost.SubtotalAmount.Amount)
		quantity += l.Quantity
	}
	return map[string]any{
		"lineCount":          len(c.Lines),
		"totalQuantity":      quantity,
		"subtotalAmount":     subtotal.InexactFloat64(),
		"deliveryGroupCount": len(c.DeliveryGroups),
	}
}
