package ledger

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"warungpos/m/domain"
)

// ErrItemNotFound is returned when a sale names an item with no inventory row.
var ErrItemNotFound = errors.New("item not found in inventory")

// defaultProfitPct is applied to every new item; it is editable only through
// the owner update operation.
const defaultProfitPct = 20

// AddItem appends an inventory row and persists the ledger.
func (s *Store) AddItem(name, brand, size string, price decimal.Decimal, stock int64) (domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := domain.Item{
		ID:        nextID(s.items, func(i domain.Item) int64 { return i.ID }),
		Name:      name,
		Brand:     brand,
		Size:      size,
		Price:     price,
		Stock:     stock,
		ProfitPct: defaultProfitPct,
		CreatedAt: s.now().Truncate(time.Second),
	}
	s.items = append(s.items, item)
	if err := s.save(); err != nil {
		return domain.Item{}, err
	}
	return item, nil
}

// RecordSale appends a sale row and decrements stock.
//
// Unit price and profit percentage come from the first inventory row whose
// name matches; the submitted size and brand do not narrow that lookup. The
// stock decrement instead hits every row matching name and size (brand is
// ignored) and is unconditional, so stock can go negative.
func (s *Store) RecordSale(customer, phone, address, itemName, size, brand string, quantity int64) (domain.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var priced *domain.Item
	for i := range s.items {
		if s.items[i].Name == itemName {
			priced = &s.items[i]
			break
		}
	}
	if priced == nil {
		return domain.Sale{}, ErrItemNotFound
	}

	total := priced.Price.Mul(decimal.NewFromInt(quantity))
	profit := total.Mul(decimal.NewFromInt(priced.ProfitPct)).Div(decimal.NewFromInt(100))

	sale := domain.Sale{
		ID:       nextID(s.sales, func(sl domain.Sale) int64 { return sl.ID }),
		Customer: customer,
		Phone:    phone,
		Address:  address,
		ItemName: itemName,
		Size:     size,
		Brand:    brand,
		Quantity: quantity,
		Total:    total,
		Profit:   profit,
		Time:     s.now().Truncate(time.Second),
	}
	s.sales = append(s.sales, sale)

	for i := range s.items {
		if s.items[i].Name == itemName && s.items[i].Size == size {
			s.items[i].Stock -= quantity
		}
	}

	if err := s.save(); err != nil {
		return domain.Sale{}, err
	}
	return sale, nil
}

// AddSupplierDelivery appends a supplier delivery row. Stock is not touched.
func (s *Store) AddSupplierDelivery(itemName, brand, size string, quantity int64, supplier string, bill decimal.Decimal) (domain.SupplierDelivery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delivery := domain.SupplierDelivery{
		ID:       nextID(s.suppliers, func(d domain.SupplierDelivery) int64 { return d.ID }),
		ItemName: itemName,
		Brand:    brand,
		Size:     size,
		Quantity: quantity,
		Supplier: supplier,
		Bill:     bill,
		Time:     s.now().Truncate(time.Second),
	}
	s.suppliers = append(s.suppliers, delivery)
	if err := s.save(); err != nil {
		return domain.SupplierDelivery{}, err
	}
	return delivery, nil
}

// UpdateItem overwrites the mutable fields of the row matching id and
// reports how many rows were touched. An unknown id touches zero rows and
// is not an error.
func (s *Store) UpdateItem(id int64, name, brand, size string, price decimal.Decimal, stock, profitPct int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := 0
	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		s.items[i].Name = name
		s.items[i].Brand = brand
		s.items[i].Size = size
		s.items[i].Price = price
		s.items[i].Stock = stock
		s.items[i].ProfitPct = profitPct
		updated++
	}
	if err := s.save(); err != nil {
		return 0, err
	}
	return updated, nil
}

// DeleteItem removes the row matching id and reports how many rows were
// removed. Sales keep their denormalized snapshot of deleted items.
func (s *Store) DeleteItem(id int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	removed := 0
	for _, item := range s.items {
		if item.ID == id {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept
	if err := s.save(); err != nil {
		return 0, err
	}
	return removed, nil
}

func nextID[T any](rows []T, id func(T) int64) int64 {
	var max int64
	for _, row := range rows {
		if id(row) > max {
			max = id(row)
		}
	}
	return max + 1
}
