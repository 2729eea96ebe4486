package catalog

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cremeria-api/internal/application/dto"
	"github.com/jhoicas/cremeria-api/internal/application/ports"
	"github.com/jhoicas/cremeria-api/internal/domain"
	"github.com/jhoicas/cremeria-api/internal/domain/entity"
	"github.com/jhoicas/cremeria-api/internal/domain/repository"
)

const (
	ImportBatchSize  = 50
	ImportModeCSV    = "csv"
	ImportModeAI     = "ai"
	TemplateFilename = "plantilla_productos.csv"
)

// ImportUseCase importación masiva de productos desde CSV.
//
// Flujo:
//  1. Guarda el archivo original (local o Azure).
//  2. Obtiene los renglones: parser determinista o extracción con IA (mode=ai).
//  3. Normaliza, genera IDs y resuelve maestros por SKU o ID.
//  4. Inserta en lotes de 50; un lote fallido se cuenta y se sigue con el resto.
type ImportUseCase struct {
	tx        TxRunner
	products  repository.ProductRepository
	storage   ports.FileStorage
	sheet     ports.ProductSheet
	extractor ports.ProductExtractor // nil: mode=ai no disponible
	now       func() time.Time
}

// NewImportUseCase construye el caso de uso. extractor puede ser nil.
func NewImportUseCase(
	tx TxRunner,
	products repository.ProductRepository,
	storage ports.FileStorage,
	sheet ports.ProductSheet,
	extractor ports.ProductExtractor,
) *ImportUseCase {
	return &ImportUseCase{
		tx:        tx,
		products:  products,
		storage:   storage,
		sheet:     sheet,
		extractor: extractor,
		now:       time.Now,
	}
}

// Template plantilla CSV con encabezados y renglones de ejemplo.
func (uc *ImportUseCase) Template() ([]byte, string, error) {
	b, err := uc.sheet.Template()
	if err != nil {
		return nil, "", err
	}
	return b, TemplateFilename, nil
}

// Import procesa un archivo. Si algún renglón o lote falla devuelve el
// resultado junto con *domain.PartialBatchError.
func (uc *ImportUseCase) Import(ctx context.Context, filename string, content []byte, mode string) (*dto.ImportResult, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".csv") {
		return nil, domain.NewValidationError("file", "Solo se aceptan archivos .csv")
	}
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, domain.NewValidationError("file", "El archivo está vacío")
	}
	if mode == "" {
		mode = ImportModeCSV
	}
	if mode != ImportModeCSV && mode != ImportModeAI {
		return nil, domain.NewValidationError("mode", "modo de importación inválido")
	}
	if mode == ImportModeAI && uc.extractor == nil {
		return nil, domain.NewValidationError("mode", "la extracción con IA no está configurada")
	}

	key := fmt.Sprintf("imports/%s_%s.csv", uc.now().Format("20060102_150405"), uuid.New().String()[:8])
	url, err := uc.storage.Save(ctx, key, content, "text/csv")
	if err != nil {
		return nil, domain.Upstream("guardar archivo", err)
	}

	var rows []dto.ProductImportRow
	if mode == ImportModeAI {
		rows, err = uc.extractor.ExtractProducts(ctx, filename, content)
		if err != nil {
			return nil, domain.Upstream("extraer productos", err)
		}
	} else {
		rows, err = uc.sheet.ReadProducts(bytes.NewReader(content))
		if err != nil {
			return nil, domain.NewValidationError("file", "No se pudo leer el archivo: "+err.Error())
		}
	}
	if len(rows) == 0 {
		return nil, domain.NewValidationError("file", "No se encontraron productos en el archivo")
	}

	prepared, failures, err := uc.prepare(ctx, rows)
	if err != nil {
		return nil, err
	}
	res := &dto.ImportResult{FileURL: url, Mode: mode, Total: len(rows), Failures: failures}

	batches := chunk(prepared, ImportBatchSize)
	for i, batch := range batches {
		err := uc.tx.RunProducts(ctx, func(repo repository.ProductRepository) error {
			return repo.BulkCreate(ctx, batch)
		})
		if err != nil {
			res.Failures = append(res.Failures, fmt.Sprintf("lote %d/%d: %v", i+1, len(batches), err))
			continue
		}
		res.Created += len(batch)
	}
	res.Skipped = res.Total - res.Created
	res.Message = fmt.Sprintf("Se importaron %d de %d productos", res.Created, res.Total)
	if res.Created < res.Total {
		return res, &domain.PartialBatchError{Succeeded: res.Created, Total: res.Total, Failures: res.Failures}
	}
	return res, nil
}

// prepare normaliza los renglones. Los maestros quedan primero para que sus
// variantes encuentren la referencia al insertarse.
func (uc *ImportUseCase) prepare(ctx context.Context, rows []dto.ProductImportRow) ([]*entity.Product, []string, error) {
	now := uc.now()
	var (
		masters, rest []*entity.Product
		failures []string
	)
	refs := make(map[*entity.Product]string)
	bySKU := make(map[string]*entity.Product)

	for i, r := range rows {
		line := i + 1
		p := NormalizeImportRow(r)
		if p.SKU == "" {
			failures = append(failures, fmt.Sprintf("renglón %d: SKU vacío", line))
			continue
		}
		if _, dup := bySKU[p.SKU]; dup {
			failures = append(failures, fmt.Sprintf("renglón %d: SKU %s repetido", line, p.SKU))
			continue
		}
		p.ID = uuid.New().String()
		p.CreatedAt, p.UpdatedAt = now, now
		bySKU[p.SKU] = p
		if p.IsMasterProduct {
			masters = append(masters, p)
			continue
		}
		if ref := strings.TrimSpace(r.MasterProductID); ref != "" {
			refs[p] = ref
		}
		rest = append(rest, p)
	}

	resolved := rest[:0]
	for _, p := range rest {
		ref, ok := refs[p]
		if !ok {
			resolved = append(resolved, p)
			continue
		}
		id, err := uc.resolveMaster(ctx, ref, bySKU)
		if err != nil {
			return nil, nil, err
		}
		if id == "" {
			failures = append(failures, fmt.Sprintf("SKU %s: producto maestro %s no encontrado", p.SKU, ref))
			continue
		}
		p.MasterProductID = id
		if p.VariantName == "" {
			p.VariantName = p.Name
		}
		resolved = append(resolved, p)
	}
	return append(masters, resolved...), failures, nil
}

// resolveMaster busca el maestro primero en el archivo y luego en el catálogo, por SKU o ID.
func (uc *ImportUseCase) resolveMaster(ctx context.Context, ref string, inFile map[string]*entity.Product) (string, error) {
	sku := strings.ToUpper(ref)
	if m, ok := inFile[sku]; ok {
		if m.IsMasterProduct {
			return m.ID, nil
		}
		return "", nil
	}
	m, err := uc.products.GetBySKU(ctx, sku)
	if err != nil {
		return "", fmt.Errorf("importación: buscar maestro: %w", err)
	}
	if m == nil {
		if _, perr := uuid.Parse(ref); perr == nil {
			if m, err = uc.products.GetByID(ctx, ref); err != nil {
				return "", fmt.Errorf("importación: buscar maestro: %w", err)
			}
		}
	}
	if m == nil || !m.IsMasterProduct {
		return "", nil
	}
	return m.ID, nil
}

// NormalizeImportRow convierte un renglón de texto en producto: SKU en mayúsculas,
// categoría, unidad y bodega inválidas caen en otros, pieza y mixto; un precio
// ilegible vale 0 y las listas vacías quedan nulas.
func NormalizeImportRow(r dto.ProductImportRow) *entity.Product {
	p := &entity.Product{
		SKU:                  strings.ToUpper(strings.TrimSpace(r.SKU)),
		Name:                 strings.TrimSpace(r.Name),
		Category:             entity.Category(strings.ToLower(strings.TrimSpace(r.Category))),
		Unit:                 entity.Unit(strings.ToLower(strings.TrimSpace(r.Unit))),
		WarehouseType:        entity.WarehouseType(strings.ToLower(strings.TrimSpace(r.WarehouseType))),
		WholesalePrice:       parseDecimal(r.WholesalePrice).Decimal,
		HasFinalMeasurement:  parseBool(r.HasFinalMeasurement),
		FinalMeasurementUnit: strings.TrimSpace(r.FinalMeasurementUnit),
		IsMasterProduct:      parseBool(r.IsMasterProduct),
		VariantName:          strings.TrimSpace(r.VariantName),
		IsActive:             !isFalse(r.IsActive),
	}
	if !p.Category.Valid() {
		p.Category = entity.CategoryOtros
	}
	if !p.Unit.Valid() {
		p.Unit = entity.UnitPieza
	}
	if !p.WarehouseType.Valid() {
		p.WarehouseType = entity.WarehouseMixto
	}
	if p.Name == "" {
		p.Name = p.SKU
	}
	if !p.HasFinalMeasurement {
		p.FinalMeasurementUnit = ""
	}
	for i, raw := range []string{r.PriceList1, r.PriceList2, r.PriceList3, r.PriceList4, r.PriceList5} {
		p.SetListPrice(entity.PriceLists[i], parseDecimal(raw))
	}
	if n, err := strconv.Atoi(strings.TrimSpace(r.VariantOrder)); err == nil {
		p.VariantOrder = n
	}
	return p
}

// parseDecimal acepta "1,234.50" y "$145"; vacío o ilegible es nulo.
func parseDecimal(s string) decimal.NullDecimal {
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(s))
	if s == "" {
		return decimal.NullDecimal{}
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(v)
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "si", "sí", "yes":
		return true
	}
	return false
}

func isFalse(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "false", "0", "no":
		return true
	}
	return false
}

func chunk[T any](items []T, size int) [][]T {
	var out [][]T
	for size < len(items) {
		items, out = items[size:], append(out, items[0:size:size])
	}
	if len(items) > 0 {
		out = append(out, items)
	}
	return out
}
