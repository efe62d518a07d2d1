package ledger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestReceiptRendersMostRecentSale(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.AddItem("Sabun", "MerkA", "100g", dec("10000"), 50); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := s.RecordSale("Budi", "0812", "Jl. X", "Sabun", "100g", "MerkA", 1); err != nil {
		t.Fatalf("RecordSale: %v", err)
	}
	if _, err := s.RecordSale("Siti", "0813", "Jl. Y", "Sabun", "100g", "MerkA", 5); err != nil {
		t.Fatalf("RecordSale: %v", err)
	}

	receipt, err := s.Receipt()
	if err != nil {
		t.Fatalf("Receipt: %v", err)
	}
	want := "=== STRUK PENJUALAN ===\n" +
		"Nama Pelanggan: Siti\n" +
		"Nomor Telepon: 0813\n" +
		"Alamat: Jl. Y\n" +
		"Nama Barang: Sabun\n" +
		"Ukuran/Kemasan: 100g\n" +
		"Merk: MerkA\n" +
		"Jumlah: 5\n" +
		"Total Harga: 50000\n" +
		"Waktu: 2026-08-28 10:30:00\n" +
		"=========================\n"
	if receipt != want {
		t.Fatalf("receipt = %q, want %q", receipt, want)
	}
}

func TestReceiptWithoutSalesRejected(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Receipt(); !errors.Is(err, ErrNoSales) {
		t.Fatalf("err = %v, want ErrNoSales", err)
	}
}

func TestPrintReceiptWritesFile(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.AddItem("Sabun", "MerkA", "100g", dec("10000"), 50); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := s.RecordSale("Budi", "0812", "Jl. X", "Sabun", "100g", "MerkA", 1); err != nil {
		t.Fatalf("RecordSale: %v", err)
	}

	path := filepath.Join(t.TempDir(), "struk_pembelian.txt")
	receipt, err := s.PrintReceipt(path)
	if err != nil {
		t.Fatalf("PrintReceipt: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read receipt file: %v", err)
	}
	if string(raw) != receipt {
		t.Fatalf("file contents differ from returned receipt")
	}
}

func TestWriteSalesCSV(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.AddItem("Sabun", "MerkA", "100g", dec("10000"), 50); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := s.RecordSale("Budi", "0812", "Jl. X", "Sabun", "100g", "MerkA", 5); err != nil {
		t.Fatalf("RecordSale: %v", err)
	}

	var buf bytes.Buffer
	if err := s.WriteSalesCSV(&buf); err != nil {
		t.Fatalf("WriteSalesCSV: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header + 1 row", len(lines))
	}
	wantHeader := "ID,Nama Pelanggan,Nomor Telepon,Alamat,Nama Barang,Ukuran/Kemasan,Merk,Jumlah,Total Harga,Keuntungan,Waktu"
	if lines[0] != wantHeader {
		t.Fatalf("header = %q, want %q", lines[0], wantHeader)
	}
	if !strings.HasPrefix(lines[1], "1,Budi,") {
		t.Fatalf("row = %q, want it to start with %q", lines[1], "1,Budi,")
	}
}

func TestWriteSalesXLSX(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.AddItem("Sabun", "MerkA", "100g", dec("10000"), 50); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := s.RecordSale("Budi", "0812", "Jl. X", "Sabun", "100g", "MerkA", 5); err != nil {
		t.Fatalf("RecordSale: %v", err)
	}

	var buf bytes.Buffer
	if err := s.WriteSalesXLSX(&buf); err != nil {
		t.Fatalf("WriteSalesXLSX: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	if got, _ := f.GetCellValue("Sheet1", "A1"); got != "ID" {
		t.Fatalf("A1 = %q, want ID", got)
	}
	if got, _ := f.GetCellValue("Sheet1", "B2"); got != "Budi" {
		t.Fatalf("B2 = %q, want Budi", got)
	}
	if got, _ := f.GetCellValue("Sheet1", "I2"); got != "50000" {
		t.Fatalf("I2 = %q, want 50000", got)
	}
}
