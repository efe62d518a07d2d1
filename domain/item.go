package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is one row of the stock (stok_barang) table.
type Item struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand"`
	Size      string          `json:"size"`
	Price     decimal.Decimal `json:"price"`
	Stock     int64           `json:"stock"`
	ProfitPct int64           `json:"profit_pct"`
	CreatedAt time.Time       `json:"created_at"`
}
