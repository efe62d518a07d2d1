package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"warungpos/m/domain"
)

// TimeLayout is the date-time text format used in every persisted table.
const TimeLayout = "2006-01-02 15:04:05"

const (
	itemsFile     = "stok_barang.csv"
	salesFile     = "penjualan.csv"
	suppliersFile = "supplier.csv"
)

var (
	itemColumns     = []string{"ID", "Nama Barang", "Merk", "Ukuran/Kemasan", "Harga", "Stok", "Persentase Keuntungan", "Waktu Input"}
	saleColumns     = []string{"ID", "Nama Pelanggan", "Nomor Telepon", "Alamat", "Nama Barang", "Ukuran/Kemasan", "Merk", "Jumlah", "Total Harga", "Keuntungan", "Waktu"}
	supplierColumns = []string{"ID", "Nama Barang", "Merk", "Ukuran/Kemasan", "Jumlah Barang", "Nama Supplier", "Tagihan", "Waktu"}
)

// Store holds the three ledger tables in memory for the lifetime of the
// process. Every mutation runs under one exclusive lock and ends with a full
// overwrite of all three files.
type Store struct {
	mu sync.Mutex

	itemsPath     string
	salesPath     string
	suppliersPath string

	items     []domain.Item
	sales     []domain.Sale
	suppliers []domain.SupplierDelivery

	now func() time.Time
}

// NewStore prepares a store persisting under dir. Call Load before use.
func NewStore(dir string) *Store {
	return &Store{
		itemsPath:     filepath.Join(dir, itemsFile),
		salesPath:     filepath.Join(dir, salesFile),
		suppliersPath: filepath.Join(dir, suppliersFile),
		now:           time.Now,
	}
}

// Load reads the three tables from disk. A missing file yields an empty
// table; a malformed file is an error.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if s.items, err = readTable(s.itemsPath, len(itemColumns), parseItem); err != nil {
		return err
	}
	if s.sales, err = readTable(s.salesPath, len(saleColumns), parseSale); err != nil {
		return err
	}
	if s.suppliers, err = readTable(s.suppliersPath, len(supplierColumns), parseSupplier); err != nil {
		return err
	}
	return nil
}

// Save serializes all three tables in full, overwriting prior contents.
// Safe to call more than once with unchanged state.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// save must be called with the lock held.
func (s *Store) save() error {
	if err := writeTable(s.itemsPath, itemColumns, s.items, itemRecord); err != nil {
		return err
	}
	if err := writeTable(s.salesPath, saleColumns, s.sales, saleRecord); err != nil {
		return err
	}
	return writeTable(s.suppliersPath, supplierColumns, s.suppliers, supplierRecord)
}

// Items returns a copy of the inventory table.
func (s *Store) Items() []domain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Item(nil), s.items...)
}

// Sales returns a copy of the sales table.
func (s *Store) Sales() []domain.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Sale(nil), s.sales...)
}

// Suppliers returns a copy of the supplier delivery table.
func (s *Store) Suppliers() []domain.SupplierDelivery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.SupplierDelivery(nil), s.suppliers...)
}

func readTable[T any](path string, width int, parse func([]string) (T, error)) ([]T, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Skip header
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s header: %w", path, err)
	}

	var rows []T
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s line %d: %w", path, line, err)
		}
		if len(record) != width {
			return nil, fmt.Errorf("read %s line %d: expected %d columns, got %d", path, line, width, len(record))
		}
		row, err := parse(record)
		if err != nil {
			return nil, fmt.Errorf("read %s line %d: %w", path, line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func writeTable[T any](path string, columns []string, rows []T, record func(T) []string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	for _, row := range rows {
		if err := writer.Write(record(row)); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func parseItem(record []string) (domain.Item, error) {
	var item domain.Item
	var err error
	if item.ID, err = parseInt(record[0], "ID"); err != nil {
		return item, err
	}
	item.Name = record[1]
	item.Brand = record[2]
	item.Size = record[3]
	if item.Price, err = parseDecimal(record[4], "Harga"); err != nil {
		return item, err
	}
	if item.Stock, err = parseInt(record[5], "Stok"); err != nil {
		return item, err
	}
	if item.ProfitPct, err = parseInt(record[6], "Persentase Keuntungan"); err != nil {
		return item, err
	}
	if item.CreatedAt, err = parseTime(record[7], "Waktu Input"); err != nil {
		return item, err
	}
	return item, nil
}

func itemRecord(item domain.Item) []string {
	return []string{
		strconv.FormatInt(item.ID, 10),
		item.Name,
		item.Brand,
		item.Size,
		item.Price.String(),
		strconv.FormatInt(item.Stock, 10),
		strconv.FormatInt(item.ProfitPct, 10),
		item.CreatedAt.Format(TimeLayout),
	}
}

func parseSale(record []string) (domain.Sale, error) {
	var sale domain.Sale
	var err error
	if sale.ID, err = parseInt(record[0], "ID"); err != nil {
		return sale, err
	}
	sale.Customer = record[1]
	sale.Phone = record[2]
	sale.Address = record[3]
	sale.ItemName = record[4]
	sale.Size = record[5]
	sale.Brand = record[6]
	if sale.Quantity, err = parseInt(record[7], "Jumlah"); err != nil {
		return sale, err
	}
	if sale.Total, err = parseDecimal(record[8], "Total Harga"); err != nil {
		return sale, err
	}
	if sale.Profit, err = parseDecimal(record[9], "Keuntungan"); err != nil {
		return sale, err
	}
	if sale.Time, err = parseTime(record[10], "Waktu"); err != nil {
		return sale, err
	}
	return sale, nil
}

func saleRecord(sale domain.Sale) []string {
	return []string{
		strconv.FormatInt(sale.ID, 10),
		sale.Customer,
		sale.Phone,
		sale.Address,
		sale.ItemName,
		sale.Size,
		sale.Brand,
		strconv.FormatInt(sale.Quantity, 10),
		sale.Total.String(),
		sale.Profit.String(),
		sale.Time.Format(TimeLayout),
	}
}

func parseSupplier(record []string) (domain.SupplierDelivery, error) {
	var delivery domain.SupplierDelivery
	var err error
	if delivery.ID, err = parseInt(record[0], "ID"); err != nil {
		return delivery, err
	}
	delivery.ItemName = record[1]
	delivery.Brand = record[2]
	delivery.Size = record[3]
	if delivery.Quantity, err = parseInt(record[4], "Jumlah Barang"); err != nil {
		return delivery, err
	}
	delivery.Supplier = record[5]
	if delivery.Bill, err = parseDecimal(record[6], "Tagihan"); err != nil {
		return delivery, err
	}
	if delivery.Time, err = parseTime(record[7], "Waktu"); err != nil {
		return delivery, err
	}
	return delivery, nil
}

func supplierRecord(delivery domain.SupplierDelivery) []string {
	return []string{
		strconv.FormatInt(delivery.ID, 10),
		delivery.ItemName,
		delivery.Brand,
		delivery.Size,
		strconv.FormatInt(delivery.Quantity, 10),
		delivery.Supplier,
		delivery.Bill.String(),
		delivery.Time.Format(TimeLayout),
	}
}

func parseInt(value, column string) (int64, error) {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", column, err)
	}
	return n, nil
}

func parseDecimal(value, column string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("column %s: %w", column, err)
	}
	return d, nil
}

func parseTime(value, column string) (time.Time, error) {
	t, err := time.ParseInLocation(TimeLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("column %s: %w", column, err)
	}
	return t, nil
}
