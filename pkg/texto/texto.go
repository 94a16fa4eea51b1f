// Package texto normaliza texto livre para os campos da NF-e. Os
// webservices da SEFAZ aceitam acentuação, mas emissores de varejo
// costumam normalizar para evitar divergência de encoding entre ERP,
// impressora fiscal e DANFE.
package texto

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var removedorAcentos = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// RemoverAcentos substitui caracteres acentuados pela forma sem acento
// (decomposição NFD com descarte das marcas combinantes). Texto que não
// decompõe permanece como está.
func RemoverAcentos(s string) string {
	saida, _, err := transform.String(removedorAcentos, s)
	if err != nil {
		return s
	}
	return saida
}

// Sanitizar prepara um campo de texto livre: remove acentos, colapsa
// espaços consecutivos e apara as pontas.
func Sanitizar(s string) string {
	return strings.Join(strings.Fields(RemoverAcentos(s)), " ")
}
