package sefaz

import (
	"regexp"
	"strings"
)

var espacoEntreTags = regexp.MustCompile(`>\s+<`)

// LimparXML normaliza um fragmento XML para a forma canônica usada no cálculo
// do digest e da assinatura: remove a declaração XML, quebras de linha,
// tabulações, barras invertidas e o espaço em branco entre tags.
//
// A SEFAZ valida o digest sobre exatamente estes bytes; qualquer mudança nas
// regras de limpeza invalida a assinatura de todos os documentos emitidos.
// Não substituir por uma canonicalização XML genérica.
func LimparXML(s string) string {
	s = strings.ReplaceAll(s, `<?xml version="1.0" encoding="UTF-8"?>`, "")
	s = strings.ReplaceAll(s, "\n", "")
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\t", "")
	s = strings.ReplaceAll(s, `\`, "")
	s = espacoEntreTags.ReplaceAllString(s, "><")
	return strings.TrimSpace(s)
}
