package ledger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"warungpos/m/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(t.TempDir())
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	s.now = func() time.Time {
		return time.Date(2026, 8, 28, 10, 30, 0, 0, time.Local)
	}
	return s
}

func dec(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}

func TestLoadMissingFilesYieldsEmptyTables(t *testing.T) {
	s := newTestStore(t)
	if got := len(s.Items()); got != 0 {
		t.Fatalf("items: expected empty table, got %d rows", got)
	}
	if got := len(s.Sales()); got != 0 {
		t.Fatalf("sales: expected empty table, got %d rows", got)
	}
	if got := len(s.Suppliers()); got != 0 {
		t.Fatalf("suppliers: expected empty table, got %d rows", got)
	}
}

func TestSaveWritesHeadersForEmptyTables(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	raw, err := os.ReadFile(filepath.Join(dir, "stok_barang.csv"))
	if err != nil {
		t.Fatalf("read stok_barang.csv: %v", err)
	}
	want := "ID,Nama Barang,Merk,Ukuran/Kemasan,Harga,Stok,Persentase Keuntungan,Waktu Input\n"
	if string(raw) != want {
		t.Fatalf("stok_barang.csv = %q, want %q", raw, want)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	s.now = func() time.Time {
		return time.Date(2026, 8, 28, 10, 30, 0, 0, time.Local)
	}

	if _, err := s.AddItem("Sabun", "MerkA", "100g", dec("10000"), 50); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := s.AddItem("Minyak, Goreng", "Merk \"B\"", "1L", dec("20500.50"), 12); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := s.RecordSale("Budi", "0812345", "Jl. X", "Sabun", "100g", "MerkA", 5); err != nil {
		t.Fatalf("RecordSale: %v", err)
	}
	if _, err := s.AddSupplierDelivery("Sabun", "MerkA", "100g", 100, "SupplierX", dec("200000")); err != nil {
		t.Fatalf("AddSupplierDelivery: %v", err)
	}

	reload := NewStore(dir)
	if err := reload.Load(); err != nil {
		t.Fatalf("reload Load: %v", err)
	}

	wantItems, gotItems := s.Items(), reload.Items()
	if len(gotItems) != len(wantItems) {
		t.Fatalf("items: got %d rows, want %d", len(gotItems), len(wantItems))
	}
	for i := range wantItems {
		assertItemsEqual(t, gotItems[i], wantItems[i])
	}

	wantSales, gotSales := s.Sales(), reload.Sales()
	if len(gotSales) != len(wantSales) {
		t.Fatalf("sales: got %d rows, want %d", len(gotSales), len(wantSales))
	}
	for i := range wantSales {
		assertSalesEqual(t, gotSales[i], wantSales[i])
	}

	wantSup, gotSup := s.Suppliers(), reload.Suppliers()
	if len(gotSup) != len(wantSup) {
		t.Fatalf("suppliers: got %d rows, want %d", len(gotSup), len(wantSup))
	}
	for i := range wantSup {
		assertSuppliersEqual(t, gotSup[i], wantSup[i])
	}
}

func TestDoubleSaveIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	s.now = func() time.Time {
		return time.Date(2026, 8, 28, 10, 30, 0, 0, time.Local)
	}
	if _, err := s.AddItem("Sabun", "MerkA", "100g", dec("10000"), 50); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	first, err := os.ReadFile(filepath.Join(dir, "stok_barang.csv"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	second, err := os.ReadFile(filepath.Join(dir, "stok_barang.csv"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("repeated save changed file contents")
	}
}

func TestLoadRejectsMalformedRow(t *testing.T) {
	dir := t.TempDir()
	contents := "ID,Nama Barang,Merk,Ukuran/Kemasan,Harga,Stok,Persentase Keuntungan,Waktu Input\n" +
		"abc,Sabun,MerkA,100g,10000,50,20,2026-08-28 10:30:00\n"
	if err := os.WriteFile(filepath.Join(dir, "stok_barang.csv"), []byte(contents), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	s := NewStore(dir)
	if err := s.Load(); err == nil {
		t.Fatalf("Load accepted a non-numeric ID")
	}
}

func assertItemsEqual(t *testing.T, got, want domain.Item) {
	t.Helper()
	if got.ID != want.ID || got.Name != want.Name || got.Brand != want.Brand || got.Size != want.Size {
		t.Fatalf("item mismatch: got %+v, want %+v", got, want)
	}
	if !got.Price.Equal(want.Price) || got.Stock != want.Stock || got.ProfitPct != want.ProfitPct {
		t.Fatalf("item mismatch: got %+v, want %+v", got, want)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Fatalf("item time mismatch: got %v, want %v", got.CreatedAt, want.CreatedAt)
	}
}

func assertSalesEqual(t *testing.T, got, want domain.Sale) {
	t.Helper()
	if got.ID != want.ID || got.Customer != want.Customer || got.Phone != want.Phone || got.Address != want.Address {
		t.Fatalf("sale mismatch: got %+v, want %+v", got, want)
	}
	if got.ItemName != want.ItemName || got.Size != want.Size || got.Brand != want.Brand || got.Quantity != want.Quantity {
		t.Fatalf("sale mismatch: got %+v, want %+v", got, want)
	}
	if !got.Total.Equal(want.Total) || !got.Profit.Equal(want.Profit) || !got.Time.Equal(want.Time) {
		t.Fatalf("sale mismatch: got %+v, want %+v", got, want)
	}
}

func assertSuppliersEqual(t *testing.T, got, want domain.SupplierDelivery) {
	t.Helper()
	if got.ID != want.ID || got.ItemName != want.ItemName || got.Brand != want.Brand || got.Size != want.Size {
		t.Fatalf("delivery mismatch: got %+v, want %+v", got, want)
	}
	if got.Quantity != want.Quantity || got.Supplier != want.Supplier || !got.Bill.Equal(want.Bill) || !got.Time.Equal(want.Time) {
		t.Fatalf("delivery mismatch: got %+v, want %+v", got, want)
	}
}
