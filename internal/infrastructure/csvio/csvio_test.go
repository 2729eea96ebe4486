package csvio_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/cremeria-api/internal/domain/aggregation"
	"github.com/jhoicas/cremeria-api/internal/infrastructure/csvio"
)

// ── Exportación ───────────────────────────────────────────────────────────────

func TestWriteOrders_EncabezadosYMontos(t *testing.T) {
	rows := []aggregation.ExportRow{{
		OrderNumber: "PED-A",
		ClientName:  "Abarrotes, La Güera",
		Date:        "07/03/2025 15:04",
		ProductName: "Queso Oaxaca",
		SKU:         "OAX",
		Unit:        "kg",
		Quantity:    decimal.RequireFromString("2.5"),
		UnitPrice:   decimal.RequireFromString("120"),
		Subtotal:    decimal.RequireFromString("300"),
		Notes:       `dice "urgente"`,
	}}

	var buf bytes.Buffer
	require.NoError(t, csvio.NewOrderSheet().WriteOrders(&buf, rows))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Número de Pedido,Cliente,Fecha,Producto,SKU,Unidad,Cantidad Surtida,Precio Unitario,Subtotal,Notas", lines[0])
	assert.Equal(t, `PED-A,"Abarrotes, La Güera",07/03/2025 15:04,Queso Oaxaca,OAX,kg,2.5,120.00,300.00,"dice ""urgente"""`, lines[1])

	// Al leerlo de vuelta se recupera el texto original.
	record, err := csv.NewReader(strings.NewReader(lines[1])).Read()
	require.NoError(t, err)
	require.Len(t, record, 10)
	assert.Equal(t, "Abarrotes, La Güera", record[1])
	assert.Equal(t, `dice "urgente"`, record[9])
}

// ── Importación ───────────────────────────────────────────────────────────────

func TestReadProducts_MapeaPorEncabezado(t *testing.T) {
	in := "\xef\xbb\xbfName, SKU ,wholesale_price,extra\nQueso Oaxaca,qso001,145.00,x\n,,,\nCrema,crm001,52,\n"

	rows, err := csvio.NewProductSheet().ReadProducts(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "qso001", rows[0].SKU)
	assert.Equal(t, "Queso Oaxaca", rows[0].Name)
	assert.Equal(t, "145.00", rows[0].WholesalePrice)
	assert.Equal(t, "", rows[1].Category)
}

func TestReadProducts_Windows1252(t *testing.T) {
	utf := "sku,name\nCRM001,Crema Ácida\n"
	latin, err := charmap.Windows1252.NewEncoder().String(utf)
	require.NoError(t, err)

	rows, err := csvio.NewProductSheet().ReadProducts(strings.NewReader(latin))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Crema Ácida", rows[0].Name)
}

func TestReadProducts_SinColumnaSKU(t *testing.T) {
	_, err := csvio.NewProductSheet().ReadProducts(strings.NewReader("name\nQueso\n"))
	assert.ErrorIs(t, err, csvio.ErrMissingSKUColumn)
}

func TestTemplate_SeLeeConElMismoParser(t *testing.T) {
	sheet := csvio.NewProductSheet()
	b, err := sheet.Template()
	require.NoError(t, err)

	rows, err := sheet.ReadProducts(bytes.NewReader(b))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "QSO001", rows[0].SKU)
	assert.Equal(t, "true", rows[0].HasFinalMeasurement)
}
