package texto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GustavoOta/dfe/pkg/texto"
)

func TestRemoverAcentos(t *testing.T) {
	casos := map[string]string{
		"COMÉRCIO DE ALIMENTOS":  "COMERCIO DE ALIMENTOS",
		"São Paulo":              "Sao Paulo",
		"AÇÚCAR CRISTAL":         "ACUCAR CRISTAL",
		"PÃO FRANCÊS":            "PAO FRANCES",
		"SEM ACENTO":             "SEM ACENTO",
		"":                       "",
		"número 123 & símbolos!": "numero 123 & simbolos!",
	}
	for entrada, esperado := range casos {
		assert.Equal(t, esperado, texto.RemoverAcentos(entrada),
			"remoção de acentos de %q", entrada)
	}
}

func TestSanitizar_ColapsaEspacos(t *testing.T) {
	assert.Equal(t, "COMERCIO DE ALIMENTOS", texto.Sanitizar("  COMÉRCIO   DE\tALIMENTOS  "),
		"espaços consecutivos e das pontas devem sair junto com os acentos")
}
