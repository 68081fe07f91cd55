// seed carga un catálogo inicial desde un CSV exportado de la hoja de cálculo de la tienda.
// Cada fila crea (o reutiliza) el producto por código de barras y da de alta un lote
// a través del libro de stock, así el historial de movimientos queda completo.
//
// Uso: go run ./cmd/seed [-latin1] [-actor <id>] catalogo.csv
//
// Columnas (separador ';'): nombre;codigo_barras;precio_venta;precio_compra;cantidad;ubicacion
// La primera fila es encabezado. Precios vacíos = sin precio; ubicación vacía = sin ubicación.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/application/inventory"
	"github.com/jhoicas/pos-inventario/internal/bootstrap"
	"github.com/jhoicas/pos-inventario/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-inventario/pkg/config"
	"github.com/jhoicas/pos-inventario/pkg/logger"
)

type row struct {
	line          int
	name          string
	barcode       string
	salePrice     *decimal.Decimal
	purchasePrice *decimal.Decimal
	quantity      int
	location      string
}

func main() {
	latin1 := flag.Bool("latin1", false, "el CSV viene en ISO-8859-1 (exportación de Excel)")
	actor := flag.String("actor", "", "usuario registrado como autor de los movimientos")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed [-latin1] [-actor id] catalogo.csv")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir CSV")
	}
	defer f.Close()

	var r io.Reader = f
	if *latin1 {
		r = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	}
	rows, err := readRows(r)
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	repos := bootstrap.PostgresRepos(pool)
	svc := bootstrap.Build(repos, bootstrap.Options{
		LowStockThreshold: cfg.Inventory.LowStockThreshold,
		Log:               log,
	})

	locations := map[string]string{}
	existing, err := svc.Locations.List(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("listar ubicaciones")
	}
	for _, l := range existing {
		locations[strings.ToLower(l.Name)] = l.ID
	}

	var created, failed int
	for _, rw := range rows {
		if err := seedRow(ctx, repos, svc, locations, rw, *actor); err != nil {
			failed++
			log.Warn().Err(err).Int("line", rw.line).Str("barcode", rw.barcode).Msg("fila omitida")
			continue
		}
		created++
	}
	log.Info().Int("lotes", created).Int("omitidas", failed).Msg("carga terminada")
}

func seedRow(ctx context.Context, repos bootstrap.Repos, svc *bootstrap.Services, locations map[string]string, rw row, actor string) error {
	productID, err := ensureProduct(ctx, repos, svc, rw)
	if err != nil {
		return err
	}
	var locationID *string
	if rw.location != "" {
		key := strings.ToLower(rw.location)
		id, ok := locations[key]
		if !ok {
			loc, err := svc.Locations.Create(ctx, dto.CreateLocationRequest{Name: rw.location})
			if err != nil {
				return fmt.Errorf("ubicación %q: %w", rw.location, err)
			}
			id = loc.ID
			locations[key] = id
		}
		locationID = &id
	}
	_, err = svc.Stock.Create(ctx, inventory.CreateStockInput{
		ProductID:     productID,
		Quantity:      rw.quantity,
		LocationID:    locationID,
		PurchasePrice: rw.purchasePrice,
		Notes:         "Carga inicial",
		Actor:         actor,
	})
	return err
}

func ensureProduct(ctx context.Context, repos bootstrap.Repos, svc *bootstrap.Services, rw row) (string, error) {
	if rw.barcode != "" {
		p, err := repos.Products.GetByBarcode(ctx, rw.barcode)
		if err != nil {
			return "", err
		}
		if p != nil {
			return p.ID, nil
		}
	}
	p, err := svc.Products.Create(ctx, dto.CreateProductRequest{
		Name:      rw.name,
		Barcode:   rw.barcode,
		CostPrice: rw.purchasePrice,
		SalePrice: rw.salePrice,
	})
	if err != nil {
		return "", fmt.Errorf("producto %q: %w", rw.name, err)
	}
	return p.ID, nil
}

func readRows(r io.Reader) ([]row, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = 6
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		return nil, fmt.Errorf("encabezado: %w", err)
	}
	var out []row
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		rw, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		rw.line = line
		out = append(out, rw)
	}
}

func parseRow(rec []string) (row, error) {
	rw := row{
		name:     strings.TrimSpace(rec[0]),
		barcode:  strings.TrimSpace(rec[1]),
		location: strings.TrimSpace(rec[5]),
	}
	if rw.name == "" {
		return rw, fmt.Errorf("nombre vacío")
	}
	var err error
	if rw.salePrice, err = parsePrice(rec[2]); err != nil {
		return rw, fmt.Errorf("precio_venta: %w", err)
	}
	if rw.purchasePrice, err = parsePrice(rec[3]); err != nil {
		return rw, fmt.Errorf("precio_compra: %w", err)
	}
	if rw.quantity, err = strconv.Atoi(strings.TrimSpace(rec[4])); err != nil {
		return rw, fmt.Errorf("cantidad: %w", err)
	}
	return rw, nil
}

// parsePrice acepta "1234.5" y "1.234,50".
func parsePrice(s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return nil, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
