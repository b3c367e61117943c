// seed genera un script SQL con el catálogo inicial (categorías y productos) y un usuario
// administrador, a partir de un CSV exportado de la hoja de inventario.
//
// Uso: go run ./cmd/seed -in catalogo.csv -out seeds/001_catalogo.sql -admin-email admin@almacen.local
// La contraseña del administrador se lee de SEED_ADMIN_PASSWORD.
//
// Columnas (con encabezado, separador ',' o ';'):
//
//	codigo, nombre, categoria, marca, precio_compra, precio_venta, stock_minimo, descripcion
//
// El archivo puede venir en UTF-8 o en Latin-1 (exportación de Excel en Windows).
package main

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/calzado-fabianne/almacen-api/internal/application/auth"
	"github.com/calzado-fabianne/almacen-api/internal/application/usecase"
)

// namespace fijo para que las categorías reciban el mismo UUID en cada ejecución.
var categoryNamespace = uuid.MustParse("6f1d3c1e-2b8a-4d57-9a8e-0c6a1f3b7e21")

type catalogRow struct {
	Code          string
	Name          string
	Category      string
	Brand         string
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	MinStock      int
	Description   string
}

type adminSeed struct {
	Email        string
	Name         string
	PasswordHash string
}

func main() {
	in := pflag.StringP("in", "i", "catalogo.csv", "CSV de entrada")
	out := pflag.StringP("out", "o", filepath.Join("seeds", "001_catalogo.sql"), "script SQL de salida")
	adminEmail := pflag.String("admin-email", "admin@almacen.local", "email del administrador")
	adminName := pflag.String("admin-name", "Administrador", "nombre del administrador")
	pflag.Parse()

	f, err := os.Open(*in)
	if err != nil {
		fail("abrir CSV: %v", err)
	}
	defer f.Close()

	rows, err := parseCatalog(f)
	if err != nil {
		fail("leer CSV: %v", err)
	}

	var admin *adminSeed
	if pw := os.Getenv("SEED_ADMIN_PASSWORD"); pw != "" {
		hash, err := auth.HashPassword(pw, bcrypt.DefaultCost)
		if err != nil {
			fail("hash de contraseña: %v", err)
		}
		admin = &adminSeed{Email: auth.NormalizeEmail(*adminEmail), Name: *adminName, PasswordHash: hash}
	} else {
		fmt.Fprintln(os.Stderr, "SEED_ADMIN_PASSWORD vacío: no se genera usuario administrador")
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		fail("crear directorio: %v", err)
	}
	dst, err := os.Create(*out)
	if err != nil {
		fail("crear archivo: %v", err)
	}
	defer dst.Close()

	w := bufio.NewWriter(dst)
	categories, err := writeSeed(w, rows, admin, time.Now())
	if err != nil {
		fail("escribir SQL: %v", err)
	}
	if err := w.Flush(); err != nil {
		fail("escribir SQL: %v", err)
	}
	fmt.Printf("Generado %s: %d categorías, %d productos\n", *out, categories, len(rows))
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// decodeInput devuelve el contenido en UTF-8; si no es UTF-8 válido se asume Latin-1.
func decodeInput(raw []byte) ([]byte, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if utf8.Valid(raw) {
		return raw, nil
	}
	out, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), raw)
	return out, err
}

func parseCatalog(r io.Reader) ([]catalogRow, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	text, err := decodeInput(raw)
	if err != nil {
		return nil, fmt.Errorf("decodificar Latin-1: %w", err)
	}

	cr := csv.NewReader(bytes.NewReader(text))
	cr.Comma = detectSeparator(text)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("encabezado: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"codigo", "nombre", "categoria"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("falta la columna %q", required)
		}
	}
	get := func(rec []string, col string) string {
		i, ok := cols[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var rows []catalogRow
	seen := make(map[string]int)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		code := get(rec, "codigo")
		if code == "" {
			continue
		}
		if prev, dup := seen[code]; dup {
			return nil, fmt.Errorf("línea %d: código %q repetido (línea %d)", line, code, prev)
		}
		seen[code] = line

		row := catalogRow{
			Code:        code,
			Name:        get(rec, "nombre"),
			Category:    usecase.CleanCategoryName(get(rec, "categoria")),
			Brand:       get(rec, "marca"),
			Description: get(rec, "descripcion"),
		}
		if row.Name == "" || row.Category == "" {
			return nil, fmt.Errorf("línea %d: nombre y categoria son obligatorios", line)
		}
		if row.PurchasePrice, err = parsePrice(get(rec, "precio_compra")); err != nil {
			return nil, fmt.Errorf("línea %d: precio_compra: %w", line, err)
		}
		if row.SalePrice, err = parsePrice(get(rec, "precio_venta")); err != nil {
			return nil, fmt.Errorf("línea %d: precio_venta: %w", line, err)
		}
		if s := get(rec, "stock_minimo"); s != "" {
			if row.MinStock, err = strconv.Atoi(s); err != nil || row.MinStock < 0 {
				return nil, fmt.Errorf("línea %d: stock_minimo inválido %q", line, s)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func detectSeparator(text []byte) rune {
	first, _, _ := bytes.Cut(text, []byte("\n"))
	if bytes.Count(first, []byte(";")) > bytes.Count(first, []byte(",")) {
		return ';'
	}
	return ','
}

// parsePrice acepta "120000", "120000.50" y "120.000,50".
func parsePrice(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	s = strings.TrimPrefix(strings.ReplaceAll(s, " ", ""), "$")
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("valor %q no numérico", s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("valor %q negativo", s)
	}
	return d.Round(2), nil
}

// writeSeed escribe el script y devuelve el número de categorías distintas.
func writeSeed(w io.Writer, rows []catalogRow, admin *adminSeed, now time.Time) (int, error) {
	// Categorías únicas por nombre normalizado; se conserva la primera grafía vista.
	categories := make(map[string]string)
	for _, r := range rows {
		key := usecase.CategoryKey(r.Category)
		if _, ok := categories[key]; !ok {
			categories[key] = r.Category
		}
	}
	keys := make([]string, 0, len(categories))
	for k := range categories {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	bw := &errWriter{w: w}
	bw.printf("-- Catálogo inicial generado por cmd/seed el %s\n", now.Format(time.RFC3339))
	bw.printf("BEGIN;\n\n")

	if admin != nil {
		bw.printf("-- 1. Administrador\n")
		bw.printf("INSERT INTO users (id, email, password_hash, name, role, status)\nVALUES ('%s', '%s', '%s', '%s', 'admin', 'active')\nON CONFLICT (email) DO NOTHING;\n\n",
			uuid.New(), escapeSQL(admin.Email), escapeSQL(admin.PasswordHash), escapeSQL(admin.Name))
	}

	bw.printf("-- 2. Categorías\n")
	for _, k := range keys {
		bw.printf("INSERT INTO categories (id, name) VALUES ('%s', '%s') ON CONFLICT DO NOTHING;\n",
			uuid.NewSHA1(categoryNamespace, []byte(k)), escapeSQL(categories[k]))
	}

	bw.printf("\n-- 3. Productos\n")
	for _, r := range rows {
		bw.printf("INSERT INTO products (id, code, name, description, brand, category_id, purchase_price, sale_price, min_stock)\n")
		bw.printf("SELECT '%s', '%s', '%s', '%s', '%s', id, %s, %s, %d FROM categories WHERE lower(name) = lower('%s')\n",
			uuid.New(), escapeSQL(r.Code), escapeSQL(r.Name), escapeSQL(r.Description), escapeSQL(r.Brand),
			r.PurchasePrice.StringFixed(2), r.SalePrice.StringFixed(2), r.MinStock, escapeSQL(r.Category))
		bw.printf("ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, brand = EXCLUDED.brand,\n")
		bw.printf("  purchase_price = EXCLUDED.purchase_price, sale_price = EXCLUDED.sale_price, min_stock = EXCLUDED.min_stock;\n")
	}
	bw.printf("\nCOMMIT;\n")
	return len(keys), bw.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
