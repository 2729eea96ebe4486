package dto

// ProductImportRow renglón de la plantilla de importación. Los valores llegan
// como texto y se normalizan en el caso de uso.
type ProductImportRow struct {
	SKU                  string `json:"sku" jsonschema:"description=Código único del producto"`
	Name                 string `json:"name"`
	Category             string `json:"category" jsonschema:"enum=quesos,enum=cremas,enum=mantequillas,enum=yogures,enum=leches,enum=otros"`
	Unit                 string `json:"unit" jsonschema:"enum=pieza,enum=caja,enum=paquete,enum=kg,enum=litro"`
	WholesalePrice       string `json:"wholesale_price"`
	PriceList1           string `json:"price_list_1"`
	PriceList2           string `json:"price_list_2"`
	PriceList3           string `json:"price_list_3"`
	PriceList4           string `json:"price_list_4"`
	PriceList5           string `json:"price_list_5"`
	WarehouseType        string `json:"warehouse_type" jsonschema:"enum=secos,enum=refrigerados,enum=barra,enum=mixto"`
	HasFinalMeasurement  string `json:"has_final_measurement"`
	FinalMeasurementUnit string `json:"final_measurement_unit"`
	IsMasterProduct      string `json:"is_master_product"`
	MasterProductID      string `json:"master_product_id" jsonschema:"description=ID o SKU del producto maestro"`
	VariantName          string `json:"variant_name"`
	VariantOrder         string `json:"variant_order"`
	IsActive             string `json:"is_active"`
}

// ProductImportRows raíz del esquema de extracción.
type ProductImportRows struct {
	Products []ProductImportRow `json:"products"`
}

// ImportResult resumen de una importación.
type ImportResult struct {
	FileURL  string   `json:"file_url"`
	Mode     string   `json:"mode"`
	Total    int      `json:"total"`
	Created  int      `json:"created"`
	Skipped  int      `json:"skipped"`
	Failures []string `json:"failures,omitempty"`
	Message  string   `json:"message"`
}
