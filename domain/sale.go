package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is one row of the sales (penjualan) table. Item fields are a
// snapshot of the inventory row at the moment of sale, not a foreign key.
type Sale struct {
	ID       int64           `json:"id"`
	Customer string          `json:"customer"`
	Phone    string          `json:"phone"`
	Address  string          `json:"address"`
	ItemName string          `json:"item_name"`
	Size     string          `json:"size"`
	Brand    string          `json:"brand"`
	Quantity int64           `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
	Profit   decimal.Decimal `json:"profit"`
	Time     time.Time       `json:"time"`
}
