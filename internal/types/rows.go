package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Category is the discriminator carried by every row of the summary query.
type Category int

const (
	CategoryPartner      Category = 0 // partner/corporate summary
	CategorySales        Category = 1 // cash/card sales and returns by bill type
	CategoryHealingCard  Category = 2 // healing-card collections
	CategoryGift         Category = 3 // GIFT bill type, same shape as CategorySales
	CategoryOMSCash      Category = 4 // OMS cash collection
	CategoryIPCollection Category = 5 // IP collection
)

// RawRow is one positional row of the summary query, before decoding.
// Column order matches the query: category, group key, label, amount,
// discount, return amount, return discount, count, return count.
type RawRow struct {
	Category       Category
	GroupKey       string
	Label          string
	Amount         decimal.Decimal
	Discount       decimal.Decimal
	ReturnAmount   decimal.Decimal
	ReturnDiscount decimal.Decimal
	Count          int64
	ReturnCount    int64
}

// Row is a decoded summary row. The concrete type is one of SalesRow,
// PartnerRow or CollectionRow.
type Row interface {
	Category() Category
}

// SalesRow is a bill-type sales/returns aggregate (categories 1 and 3).
type SalesRow struct {
	Kind        Category
	BillType    string
	SaleNet     decimal.Decimal
	SaleDisc    decimal.Decimal
	ReturnNet   decimal.Decimal
	ReturnDisc  decimal.Decimal
	SaleCount   int64
	ReturnCount int64
}

func (r SalesRow) Category() Category { return r.Kind }

// IsGift reports whether the row is the GIFT bill type, which is listed
// but excluded from totals.
func (r SalesRow) IsGift() bool {
	return strings.EqualFold(r.BillType, "GIFT")
}

// IsCash reports whether the row is the CASH bill type.
func (r SalesRow) IsCash() bool {
	return strings.EqualFold(r.BillType, "CASH")
}

// PartnerRow is a partner (corporate billing entity) summary (category 0).
type PartnerRow struct {
	CorpCode  string
	Name      string
	Amount    decimal.Decimal
	BillCount int64
}

func (r PartnerRow) Category() Category { return CategoryPartner }

// CollectionRow is a collection total (categories 2, 4 and 5, and any
// category this version does not know about). It is not rendered.
type CollectionRow struct {
	Kind   Category
	Code   string
	Label  string
	Amount decimal.Decimal
}

func (r CollectionRow) Category() Category { return r.Kind }

// Decode turns a positional row into its tagged variant.
func Decode(raw RawRow) Row {
	switch raw.Category {
	case CategorySales, CategoryGift:
		return SalesRow{
			Kind:        raw.Category,
			BillType:    raw.Label,
			SaleNet:     raw.Amount,
			SaleDisc:    raw.Discount,
			ReturnNet:   raw.ReturnAmount,
			ReturnDisc:  raw.ReturnDiscount,
			SaleCount:   raw.Count,
			ReturnCount: raw.ReturnCount,
		}
	case CategoryPartner:
		return PartnerRow{
			CorpCode:  raw.GroupKey,
			Name:      raw.Label,
			Amount:    raw.Amount,
			BillCount: raw.Count,
		}
	default:
		return CollectionRow{
			Kind:   raw.Category,
			Code:   raw.GroupKey,
			Label:  raw.Label,
			Amount: raw.Amount,
		}
	}
}

// DecodeAll decodes rows preserving their order.
func DecodeAll(raws []RawRow) []Row {
	rows := make([]Row, len(raws))
	for i, raw := range raws {
		rows[i] = Decode(raw)
	}
	return rows
}
