package orderflow

import (
	"strconv"
	"strings"
	"time"
)

// OrderNumber "PED-" + marca de tiempo en milisegundos en base 36, mayúsculas.
func OrderNumber(t time.Time) string {
	return "PED-" + strings.ToUpper(strconv.FormatInt(t.UnixMilli(), 36))
}

// ShortNumber número de pedido o, si falta, los últimos 6 caracteres del id.
func ShortNumber(orderNumber, id string) string {
	if orderNumber != "" {
		return orderNumber
	}
	if len(id) > 6 {
		id = id[len(id)-6:]
	}
	return strings.ToUpper(id)
}
