package imposto

import "github.com/shopspring/decimal"

// Valores monetários saem com 2 casas, alíquotas e quantidades tributáveis
// com 4, conforme o leiaute da NF-e.

// Valor2 formata um valor monetário ("1234.50").
func Valor2(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}

// Aliquota4 formata uma alíquota ou quantidade ("18.0000").
func Aliquota4(d decimal.Decimal) string {
	return d.Round(4).StringFixed(4)
}
