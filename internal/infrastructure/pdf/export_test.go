package pdf

// FormatMoney expone formatMoney a las pruebas.
var FormatMoney = formatMoney
