package ledger

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"warungpos/m/domain"
)

// MonthLayout is the calendar-month key used for supplier billing sums.
const MonthLayout = "2006-01"

// Summary bundles the owner view's financial aggregates. NetMargin compares
// the all-time sales total against a single month of supplier bills, exactly
// as the owner page always has; consumers that want a like-for-like margin
// must derive it themselves.
type Summary struct {
	TotalSales             decimal.Decimal `json:"total_sales"`
	Month                  string          `json:"month"`
	MonthlySupplierBilling decimal.Decimal `json:"monthly_supplier_billing"`
	NetMargin              decimal.Decimal `json:"net_margin"`
}

// ItemProfit is one bar of the profit-by-item chart.
type ItemProfit struct {
	Name   string          `json:"name"`
	Profit decimal.Decimal `json:"profit"`
}

// TotalSales sums Total Harga over all sales.
func (s *Store) TotalSales() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalSales()
}

func (s *Store) totalSales() decimal.Decimal {
	total := decimal.Zero
	for _, sale := range s.sales {
		total = total.Add(sale.Total)
	}
	return total
}

// MonthlySupplierBilling sums Tagihan over deliveries whose timestamp falls
// in the given "YYYY-MM" month. An empty month means the current month.
func (s *Store) MonthlySupplierBilling(month string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.monthlySupplierBilling(month)
}

func (s *Store) monthlySupplierBilling(month string) decimal.Decimal {
	if month == "" {
		month = s.now().Format(MonthLayout)
	}
	total := decimal.Zero
	for _, delivery := range s.suppliers {
		if delivery.Time.Format(MonthLayout) == month {
			total = total.Add(delivery.Bill)
		}
	}
	return total
}

// Summarize computes the owner view aggregates for the current month.
func (s *Store) Summarize() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	month := s.now().Format(MonthLayout)
	sales := s.totalSales()
	billing := s.monthlySupplierBilling(month)
	return Summary{
		TotalSales:             sales,
		Month:                  month,
		MonthlySupplierBilling: billing,
		NetMargin:              sales.Sub(billing),
	}
}

// ProfitByItem groups sales by item name and sums profit per group,
// alphabetically by name.
func (s *Store) ProfitByItem() []ItemProfit {
	s.mu.Lock()
	defer s.mu.Unlock()

	byName := make(map[string]decimal.Decimal)
	for _, sale := range s.sales {
		byName[sale.ItemName] = byName[sale.ItemName].Add(sale.Profit)
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	profits := make([]ItemProfit, len(names))
	for i, name := range names {
		profits[i] = ItemProfit{Name: name, Profit: byName[name]}
	}
	return profits
}

// SearchItems matches item names case-insensitively against the query
// substring.
func (s *Store) SearchItems(query string) []domain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(query)
	var matches []domain.Item
	for _, item := range s.items {
		if strings.Contains(strings.ToLower(item.Name), needle) {
			matches = append(matches, item)
		}
	}
	return matches
}
