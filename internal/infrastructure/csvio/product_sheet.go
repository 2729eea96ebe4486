package csvio

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/cremeria-api/internal/application/dto"
	"github.com/jhoicas/cremeria-api/internal/application/ports"
)

var _ ports.ProductSheet = (*ProductSheet)(nil)

// ProductColumns columnas reconocidas de la plantilla de productos.
var ProductColumns = []string{
	"sku", "name", "category", "unit", "wholesale_price",
	"price_list_1", "price_list_2", "price_list_3", "price_list_4", "price_list_5",
	"warehouse_type", "has_final_measurement", "final_measurement_unit",
	"is_master_product", "master_product_id", "variant_name", "variant_order", "is_active",
}

var templateRows = [][]string{
	{"QSO001", "Queso Oaxaca 1kg", "quesos", "kg", "145.00", "", "", "", "", "", "refrigerados", "true", "kg", "false", "", "", "", "true"},
	{"CRM001", "Crema Ácida 1L", "cremas", "litro", "52.00", "", "", "", "", "", "refrigerados", "false", "", "false", "", "", "", "true"},
	{"MNT001", "Mantequilla Sin Sal 250g", "mantequillas", "pieza", "45.00", "", "", "", "", "", "secos", "false", "", "false", "", "", "", "true"},
}

// ErrMissingSKUColumn el archivo no trae la columna sku.
var ErrMissingSKUColumn = errors.New("falta la columna sku")

// ProductSheet parser determinista de la plantilla. Acepta UTF-8 (con o sin BOM)
// y Windows-1252, que es lo que guarda Excel en español.
type ProductSheet struct{}

// NewProductSheet construye el parser.
func NewProductSheet() *ProductSheet { return &ProductSheet{} }

// ReadProducts lee el encabezado y mapea cada columna por nombre. Columnas
// desconocidas se ignoran y los renglones vacíos se saltan.
func (s *ProductSheet) ReadProducts(r io.Reader) ([]dto.ProductImportRow, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(raw) {
		if raw, err = charmap.Windows1252.NewDecoder().Bytes(raw); err != nil {
			return nil, fmt.Errorf("decodificar archivo: %w", err)
		}
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := index["sku"]; !ok {
		return nil, ErrMissingSKUColumn
	}

	var rows []dto.ProductImportRow
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if blank(rec) {
			continue
		}
		get := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		rows = append(rows, dto.ProductImportRow{
			SKU:                  get("sku"),
			Name:                 get("name"),
			Category:             get("category"),
			Unit:                 get("unit"),
			WholesalePrice:       get("wholesale_price"),
			PriceList1:           get("price_list_1"),
			PriceList2:           get("price_list_2"),
			PriceList3:           get("price_list_3"),
			PriceList4:           get("price_list_4"),
			PriceList5:           get("price_list_5"),
			WarehouseType:        get("warehouse_type"),
			HasFinalMeasurement:  get("has_final_measurement"),
			FinalMeasurementUnit: get("final_measurement_unit"),
			IsMasterProduct:      get("is_master_product"),
			MasterProductID:      get("master_product_id"),
			VariantName:          get("variant_name"),
			VariantOrder:         get("variant_order"),
			IsActive:             get("is_active"),
		})
	}
	return rows, nil
}

// Template plantilla UTF-8 con encabezados y tres productos de ejemplo.
func (s *ProductSheet) Template() ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(ProductColumns); err != nil {
		return nil, err
	}
	if err := writer.WriteAll(templateRows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
