package entity

// Category categoría comercial del producto.
type Category string

const (
	CategoryQuesos       Category = "quesos"
	CategoryCremas       Category = "cremas"
	CategoryMantequillas Category = "mantequillas"
	CategoryYogures      Category = "yogures"
	CategoryLeches       Category = "leches"
	CategoryOtros        Category = "otros"
)

// Categories en el orden en que se muestran.
var Categories = []Category{
	CategoryQuesos, CategoryCremas, CategoryMantequillas, CategoryYogures, CategoryLeches, CategoryOtros,
}

// Valid indica si la categoría es conocida.
func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Unit unidad de venta.
type Unit string

const (
	UnitPieza   Unit = "pieza"
	UnitCaja    Unit = "caja"
	UnitPaquete Unit = "paquete"
	UnitKg      Unit = "kg"
	UnitLitro   Unit = "litro"
)

var Units = []Unit{UnitPieza, UnitCaja, UnitPaquete, UnitKg, UnitLitro}

func (u Unit) Valid() bool {
	for _, v := range Units {
		if u == v {
			return true
		}
	}
	return false
}

// WarehouseType bodega que surte el producto. Mixto lo ven todas las bodegas.
type WarehouseType string

const (
	WarehouseSecos        WarehouseType = "secos"
	WarehouseRefrigerados WarehouseType = "refrigerados"
	WarehouseBarra        WarehouseType = "barra"
	WarehouseMixto        WarehouseType = "mixto"
)

var WarehouseTypes = []WarehouseType{WarehouseSecos, WarehouseRefrigerados, WarehouseBarra, WarehouseMixto}

func (w WarehouseType) Valid() bool {
	for _, v := range WarehouseTypes {
		if w == v {
			return true
		}
	}
	return false
}

// PriceList lista de precios asignada a un cliente.
type PriceList string

const (
	PriceList1 PriceList = "price_list_1"
	PriceList2 PriceList = "price_list_2"
	PriceList3 PriceList = "price_list_3"
	PriceList4 PriceList = "price_list_4"
	PriceList5 PriceList = "price_list_5"
)

var PriceLists = []PriceList{PriceList1, PriceList2, PriceList3, PriceList4, PriceList5}

func (p PriceList) Valid() bool {
	for _, v := range PriceLists {
		if p == v {
			return true
		}
	}
	return false
}

// ClientType segmento mayorista del cliente.
type ClientType string

const (
	ClientMayoristaA ClientType = "mayorista_a"
	ClientMayoristaB ClientType = "mayorista_b"
	ClientMayoristaC ClientType = "mayorista_c"
)

func (t ClientType) Valid() bool {
	switch t {
	case ClientMayoristaA, ClientMayoristaB, ClientMayoristaC:
		return true
	}
	return false
}
