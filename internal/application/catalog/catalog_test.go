package catalog_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cremeria-api/internal/application/catalog"
	"github.com/jhoicas/cremeria-api/internal/application/dto"
	"github.com/jhoicas/cremeria-api/internal/application/ports"
	"github.com/jhoicas/cremeria-api/internal/domain"
	"github.com/jhoicas/cremeria-api/internal/domain/entity"
	"github.com/jhoicas/cremeria-api/internal/domain/repository"
	"github.com/jhoicas/cremeria-api/internal/infrastructure/csvio"
	"github.com/jhoicas/cremeria-api/internal/infrastructure/memory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

type fakeStorage struct {
	saved map[string][]byte
	err   error
}

func (f *fakeStorage) Save(_ context.Context, key string, content []byte, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.saved == nil {
		f.saved = map[string][]byte{}
	}
	f.saved[key] = content
	return "mem://" + key, nil
}

type fakeExtractor struct {
	rows []dto.ProductImportRow
}

func (f *fakeExtractor) ExtractProducts(context.Context, string, []byte) ([]dto.ProductImportRow, error) {
	return f.rows, nil
}

func seedClient(t *testing.T, store *memory.Store, list entity.PriceList) *entity.Client {
	t.Helper()
	c := &entity.Client{ID: uuid.New().String(), BusinessName: "La Esquina", AssignedPriceList: list, IsActive: true}
	require.NoError(t, store.Clients().Create(context.Background(), c))
	return c
}

// ── Productos ─────────────────────────────────────────────────────────────────

func TestProductUseCase_Create_NormalizaSKUYDefaults(t *testing.T) {
	store := memory.NewStore()
	uc := catalog.NewProductUseCase(store.Products(), store.Clients())

	out, err := uc.Create(context.Background(), dto.ProductRequest{SKU: " qso-1 ", Name: "Queso", WholesalePrice: d("120")})
	require.NoError(t, err)
	assert.Equal(t, "QSO-1", out.SKU)
	assert.Equal(t, "otros", out.Category)
	assert.Equal(t, "pieza", out.Unit)
	assert.Equal(t, "mixto", out.WarehouseType)
	assert.True(t, out.IsActive)
}

func TestProductUseCase_Create_SKUDuplicado(t *testing.T) {
	store := memory.NewStore()
	uc := catalog.NewProductUseCase(store.Products(), store.Clients())
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.ProductRequest{SKU: "Q1", Name: "Queso", WholesalePrice: d("1")})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.ProductRequest{SKU: "q1", Name: "Otro", WholesalePrice: d("1")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductUseCase_Create_VarianteRequiereMaestroExistente(t *testing.T) {
	store := memory.NewStore()
	uc := catalog.NewProductUseCase(store.Products(), store.Clients())
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.ProductRequest{
		SKU:             "V1", Name: "Oaxaca 1kg", WholesalePrice: d("100"),
		MasterProductID: uuid.New().String(), VariantName: "1 kg",
	})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "master_product_id", ve.Field)

	master, err := uc.Create(ctx, dto.ProductRequest{SKU: "OAX", Name: "Oaxaca", IsMasterProduct: true})
	require.NoError(t, err)
	v, err := uc.Create(ctx, dto.ProductRequest{
		SKU:             "V1", Name: "Oaxaca 1kg", WholesalePrice: d("100"),
		MasterProductID: master.ID, VariantName: "1 kg", VariantOrder: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, master.ID, v.MasterProductID)
}

func TestProductUseCase_Deactivate(t *testing.T) {
	store := memory.NewStore()
	uc := catalog.NewProductUseCase(store.Products(), store.Clients())
	ctx := context.Background()

	p, err := uc.Create(ctx, dto.ProductRequest{SKU: "Q1", Name: "Queso", WholesalePrice: d("1")})
	require.NoError(t, err)

	out, err := uc.Deactivate(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, out.IsActive)

	_, err = uc.Deactivate(ctx, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUseCase_Catalog_PrecioPorListaYVariantes(t *testing.T) {
	store := memory.NewStore()
	uc := catalog.NewProductUseCase(store.Products(), store.Clients())
	ctx := context.Background()
	client := seedClient(t, store, entity.PriceList2)

	master, err := uc.Create(ctx, dto.ProductRequest{SKU: "OAX", Name: "Oaxaca", Category: "quesos", IsMasterProduct: true})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.ProductRequest{
		SKU:             "OAX-2", Name: "Oaxaca 2kg", Category: "quesos", WholesalePrice: d("200"),
		MasterProductID: master.ID, VariantName: "2 kg", VariantOrder: 2,
	})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.ProductRequest{
		SKU:             "OAX-1", Name: "Oaxaca 1kg", Category: "quesos", WholesalePrice: d("100"), PriceList2: ptr("95"),
		MasterProductID: master.ID, VariantName: "1 kg", VariantOrder: 1,
	})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.ProductRequest{
		SKU:       "CRM", Name: "Crema", Category: "cremas", WholesalePrice: d("50"),
		IsOnOffer: true, OfferPrice: ptr("45"), OfferDescription: "2x1",
	})
	require.NoError(t, err)

	actor := entity.Actor{Role: entity.RoleCliente, AssignedClientID: client.ID}
	out, err := uc.Catalog(ctx, actor, "", dto.ProductListFilter{})
	require.NoError(t, err)
	assert.Equal(t, "price_list_2", out.PriceList)
	require.Len(t, out.Items, 2)

	byName := map[string]dto.PricedProduct{}
	for _, it := range out.Items {
		byName[it.SKU] = it
	}
	oax := byName["OAX"]
	require.Len(t, oax.Variants, 2)
	assert.Equal(t, "OAX-1", oax.Variants[0].SKU)
	assert.True(t, oax.Variants[0].Price.Equal(d("95")))
	assert.True(t, oax.Variants[1].Price.Equal(d("200")))

	crm := byName["CRM"]
	assert.True(t, crm.Discounted)
	assert.True(t, crm.Price.Equal(d("45")))
	assert.Equal(t, "2x1", crm.OfferDescription)
}

func TestProductUseCase_Catalog_BusquedaPorVariante(t *testing.T) {
	store := memory.NewStore()
	uc := catalog.NewProductUseCase(store.Products(), store.Clients())
	ctx := context.Background()

	master, err := uc.Create(ctx, dto.ProductRequest{SKU: "OAX", Name: "Oaxaca", IsMasterProduct: true})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.ProductRequest{
		SKU: "OAX-1", Name: "Oaxaca barra", WholesalePrice: d("100"), MasterProductID: master.ID, VariantName: "barra",
	})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.ProductRequest{SKU: "CRM", Name: "Crema", WholesalePrice: d("50")})
	require.NoError(t, err)

	out, err := uc.Catalog(ctx, entity.Actor{Role: entity.RoleAdmin}, "", dto.ProductListFilter{Search: "barra"})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "OAX", out.Items[0].SKU)
	assert.Equal(t, "price_list_1", out.PriceList)
}

func TestProductUseCase_Catalog_VendedorFueraDeCartera(t *testing.T) {
	store := memory.NewStore()
	uc := catalog.NewProductUseCase(store.Products(), store.Clients())
	client := seedClient(t, store, entity.PriceList1)

	_, err := uc.Catalog(context.Background(), entity.Actor{Role: entity.RoleVendedor}, client.ID, dto.ProductListFilter{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ── Importación ───────────────────────────────────────────────────────────────

func newImporter(store *memory.Store, st *fakeStorage, ex *fakeExtractor) *catalog.ImportUseCase {
	var extractor ports.ProductExtractor
	if ex != nil {
		extractor = ex
	}
	return catalog.NewImportUseCase(store, store.Products(), st, csvio.NewProductSheet(), extractor)
}

func TestImport_NormalizaYCreaMaestrosPrimero(t *testing.T) {
	store := memory.NewStore()
	st := &fakeStorage{}
	uc := newImporter(store, st, nil)
	csv := strings.Join([]string{
		"sku,name,category,unit,wholesale_price,is_master_product,master_product_id,variant_name,variant_order,is_active,price_list_2",
		"oax-1,Oaxaca 1kg,QUESOS,kg,$145.50,,oax,1 kg,1,,",
		"oax,Oaxaca,quesos,kg,,sí,,,,,",
		"crm,Crema,lacteos,galón,abc,,,,,false,48",
	}, "\n")

	res, err := uc.Import(context.Background(), "catalogo.CSV", []byte(csv), "")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 3, res.Created)
	assert.Equal(t, "csv", res.Mode)
	assert.Len(t, st.saved, 1)

	ctx := context.Background()
	master, err := store.Products().GetBySKU(ctx, "OAX")
	require.NoError(t, err)
	require.NotNil(t, master)
	assert.True(t, master.IsMasterProduct)

	variant, err := store.Products().GetBySKU(ctx, "OAX-1")
	require.NoError(t, err)
	require.NotNil(t, variant)
	assert.Equal(t, master.ID, variant.MasterProductID)
	assert.Equal(t, entity.CategoryQuesos, variant.Category)
	assert.True(t, variant.WholesalePrice.Equal(d("145.50")))
	assert.True(t, variant.IsActive)

	crm, err := store.Products().GetBySKU(ctx, "CRM")
	require.NoError(t, err)
	require.NotNil(t, crm)
	assert.Equal(t, entity.CategoryOtros, crm.Category)
	assert.Equal(t, entity.UnitPieza, crm.Unit)
	assert.Equal(t, entity.WarehouseMixto, crm.WarehouseType)
	assert.True(t, crm.WholesalePrice.IsZero())
	assert.False(t, crm.IsActive)
	assert.False(t, crm.PriceList1.Valid)
	assert.True(t, crm.PriceList2.Decimal.Equal(d("48")))
}

func TestImport_SoloCSV(t *testing.T) {
	store := memory.NewStore()
	_, err := newImporter(store, &fakeStorage{}, nil).Import(context.Background(), "catalogo.xlsx", []byte("x"), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestImport_ModoIASinProveedor(t *testing.T) {
	store := memory.NewStore()
	_, err := newImporter(store, &fakeStorage{}, nil).Import(context.Background(), "a.csv", []byte("sku\nA\n"), catalog.ImportModeAI)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestImport_ModoIAUsaExtractor(t *testing.T) {
	store := memory.NewStore()
	ex := &fakeExtractor{rows: []dto.ProductImportRow{{SKU: "q1", Name: "Queso", WholesalePrice: "10"}}}

	res, err := newImporter(store, &fakeStorage{}, ex).Import(context.Background(), "a.csv", []byte("cualquier cosa"), catalog.ImportModeAI)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	p, err := store.Products().GetBySKU(context.Background(), "Q1")
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestImport_AlmacenamientoCaidoEsUpstream(t *testing.T) {
	store := memory.NewStore()
	st := &fakeStorage{err: errors.New("timeout")}

	_, err := newImporter(store, st, nil).Import(context.Background(), "a.csv", []byte("sku\nA\n"), "")
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestImport_LoteFallidoSeCuentaYContinua(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	// Un SKU existente en el segundo lote hace fallar ese lote completo.
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: uuid.New().String(), SKU: "P060", Name: "x"}))

	var b strings.Builder
	b.WriteString("sku,name,wholesale_price\n")
	for i := 1; i <= 120; i++ {
		fmt.Fprintf(&b, "P%03d,Producto %d,10\n", i, i)
	}

	res, err := newImporter(store, &fakeStorage{}, nil).Import(ctx, "a.csv", []byte(b.String()), "")
	var pe *domain.PartialBatchError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 70, pe.Succeeded)
	assert.Equal(t, 120, pe.Total)
	assert.Equal(t, "70 de 120 registros procesados correctamente", pe.Error())
	require.NotNil(t, res)
	assert.Equal(t, 50, res.Skipped)
	require.Len(t, res.Failures, 1)
	assert.Contains(t, res.Failures[0], "lote 2/3")

	all, err := store.Products().List(ctx, repository.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 71)
}

func TestImport_MaestroInexistente(t *testing.T) {
	store := memory.NewStore()
	csv := "sku,name,wholesale_price,master_product_id,variant_name\nV1,Variante,10,NOEXISTE,1 kg\nS1,Suelto,5,,\n"

	res, err := newImporter(store, &fakeStorage{}, nil).Import(context.Background(), "a.csv", []byte(csv), "")
	var pe *domain.PartialBatchError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, res.Created)
	assert.Contains(t, res.Failures[0], "NOEXISTE")
}

func TestImport_Template(t *testing.T) {
	store := memory.NewStore()
	b, name, err := newImporter(store, &fakeStorage{}, nil).Template()
	require.NoError(t, err)
	assert.Equal(t, "plantilla_productos.csv", name)
	assert.True(t, strings.HasPrefix(string(b), "sku,name,category,unit,wholesale_price"))
}

func TestNormalizeImportRow_PreciosYBooleanos(t *testing.T) {
	p := catalog.NormalizeImportRow(dto.ProductImportRow{
		SKU:                 "a", WholesalePrice: "1,234.50", PriceList1: " ", PriceList3: "88",
		HasFinalMeasurement: "SI", FinalMeasurementUnit: "kg", IsActive: "0", VariantOrder: "x",
	})

	assert.True(t, p.WholesalePrice.Equal(d("1234.50")))
	assert.False(t, p.PriceList1.Valid)
	assert.True(t, p.PriceList3.Decimal.Equal(d("88")))
	assert.True(t, p.HasFinalMeasurement)
	assert.Equal(t, "kg", p.FinalMeasurementUnit)
	assert.False(t, p.IsActive)
	assert.Equal(t, 0, p.VariantOrder)
	assert.Equal(t, "A", p.Name)
}
