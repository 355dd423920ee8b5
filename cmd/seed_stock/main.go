// seed_stock genera un script SQL con componentes y lotes iniciales a partir de un CSV
// exportado del sistema de compras (separador ';', ISO-8859-1 o UTF-8).
//
// Columnas: sku;nombre;categoria;minimo;proveedor;cantidad;costo_unitario;fecha_recepcion(YYYY-MM-DD)
//
// Uso: go run ./cmd/seed_stock [ruta/lotes.csv] [--latin1]
// Escribe: internal/infrastructure/postgres/migrations/900_seed_stock.sql
package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type seedRow struct {
	SKU          string
	Name         string
	Category     string
	Minimum      int
	VendorID     string
	Quantity     int
	UnitCost     decimal.Decimal
	DateReceived time.Time
}

func main() {
	csvPath := "lotes.csv"
	latin1 := false
	for _, a := range os.Args[1:] {
		if a == "--latin1" {
			latin1 = true
			continue
		}
		csvPath = a
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	var in io.Reader = f
	if latin1 {
		in = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	}
	rows, err := readRows(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	outPath := filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations", "900_seed_stock.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d lotes\n", outPath, len(rows))
}

// readRows parsea el CSV; la primera fila es encabezado.
func readRows(r io.Reader) ([]seedRow, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	var rows []seedRow
	for i, rec := range records {
		if i == 0 {
			continue
		}
		row, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("fila %d: %w", i+1, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRecord(rec []string) (seedRow, error) {
	if len(rec) != 8 {
		return seedRow{}, fmt.Errorf("se esperaban 8 columnas, hay %d", len(rec))
	}
	for i := range rec {
		rec[i] = strings.TrimSpace(rec[i])
	}
	minimum, err := strconv.Atoi(rec[3])
	if err != nil || minimum < 0 {
		return seedRow{}, fmt.Errorf("mínimo inválido %q", rec[3])
	}
	qty, err := strconv.Atoi(rec[5])
	if err != nil || qty <= 0 {
		return seedRow{}, fmt.Errorf("cantidad inválida %q", rec[5])
	}
	// El sistema de compras exporta costos con coma decimal.
	cost, err := decimal.NewFromString(strings.ReplaceAll(rec[6], ",", "."))
	if err != nil || cost.IsNegative() {
		return seedRow{}, fmt.Errorf("costo inválido %q", rec[6])
	}
	date, err := time.Parse("2006-01-02", rec[7])
	if err != nil {
		return seedRow{}, fmt.Errorf("fecha inválida %q", rec[7])
	}
	if rec[0] == "" || rec[4] == "" {
		return seedRow{}, fmt.Errorf("sku y proveedor son obligatorios")
	}
	return seedRow{
		SKU: rec[0], Name: rec[1], Category: rec[2], Minimum: minimum,
		VendorID: rec[4], Quantity: qty, UnitCost: cost, DateReceived: date,
	}, nil
}

// writeSQL componentes primero (uno por SKU) y luego lotes numerados SKU-0001, SKU-0002... en orden de fecha.
func writeSQL(w io.Writer, rows []seedRow) error {
	sorted := append([]seedRow(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].SKU != sorted[j].SKU {
			return sorted[i].SKU < sorted[j].SKU
		}
		return sorted[i].DateReceived.Before(sorted[j].DateReceived)
	})

	var b strings.Builder
	b.WriteString("-- Componentes y lotes iniciales\n-- Generado por cmd/seed_stock\n\n")
	b.WriteString("-- 1. Componentes\n")
	seen := make(map[string]bool)
	for _, r := range sorted {
		if seen[r.SKU] {
			continue
		}
		seen[r.SKU] = true
		fmt.Fprintf(&b, "INSERT INTO components (id, sku, name, category, minimum_quantity)\n")
		fmt.Fprintf(&b, "VALUES (gen_random_uuid(), '%s', '%s', '%s', %d)\n", escapeSQL(r.SKU), escapeSQL(r.Name), escapeSQL(r.Category), r.Minimum)
		b.WriteString("ON CONFLICT (sku) DO NOTHING;\n")
	}

	b.WriteString("\n-- 2. Lotes\n")
	for _, r := range sorted {
		sku := escapeSQL(r.SKU)
		fmt.Fprintf(&b, "INSERT INTO stock_batches (id, component_id, vendor_id, batch_number, initial_quantity, current_quantity, unit_cost, date_received)\n")
		fmt.Fprintf(&b, "SELECT gen_random_uuid(), c.id, '%s', c.sku || '-' || lpad((SELECT COUNT(*) + 1 FROM stock_batches sb WHERE sb.component_id = c.id)::text, 4, '0'), %d, %d, %s, '%s'\n",
			escapeSQL(r.VendorID), r.Quantity, r.Quantity, r.UnitCost.StringFixed(4), r.DateReceived.Format("2006-01-02"))
		fmt.Fprintf(&b, "FROM components c WHERE c.sku = '%s';\n", sku)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
