package ledger

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoSales is returned when a receipt is requested before any sale exists.
var ErrNoSales = errors.New("no sales recorded yet")

// Receipt renders the most recent sale as a printable plaintext slip.
func (s *Store) Receipt() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sales) == 0 {
		return "", ErrNoSales
	}
	sale := s.sales[len(s.sales)-1]

	var b strings.Builder
	b.WriteString("=== STRUK PENJUALAN ===\n")
	fmt.Fprintf(&b, "Nama Pelanggan: %s\n", sale.Customer)
	fmt.Fprintf(&b, "Nomor Telepon: %s\n", sale.Phone)
	fmt.Fprintf(&b, "Alamat: %s\n", sale.Address)
	fmt.Fprintf(&b, "Nama Barang: %s\n", sale.ItemName)
	fmt.Fprintf(&b, "Ukuran/Kemasan: %s\n", sale.Size)
	fmt.Fprintf(&b, "Merk: %s\n", sale.Brand)
	fmt.Fprintf(&b, "Jumlah: %d\n", sale.Quantity)
	fmt.Fprintf(&b, "Total Harga: %s\n", sale.Total.String())
	fmt.Fprintf(&b, "Waktu: %s\n", sale.Time.Format(TimeLayout))
	b.WriteString("=========================\n")
	return b.String(), nil
}

// PrintReceipt writes the most recent sale's receipt to path and returns its
// contents.
func (s *Store) PrintReceipt(path string) (string, error) {
	receipt, err := s.Receipt()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(receipt), 0o644); err != nil {
		return "", fmt.Errorf("write receipt %s: %w", path, err)
	}
	return receipt, nil
}
