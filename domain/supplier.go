package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplierDelivery is one row of the supplier table. Delivered quantities
// are recorded only; they are never added back into item stock.
type SupplierDelivery struct {
	ID       int64           `json:"id"`
	ItemName string          `json:"item_name"`
	Brand    string          `json:"brand"`
	Size     string          `json:"size"`
	Quantity int64           `json:"quantity"`
	Supplier string          `json:"supplier"`
	Bill     decimal.Decimal `json:"bill"`
	Time     time.Time       `json:"time"`
}
