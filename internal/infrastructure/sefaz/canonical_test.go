package sefaz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GustavoOta/dfe/internal/infrastructure/sefaz"
)

func TestLimparXML_RemoveDeclaracaoEEspacos(t *testing.T) {
	entrada := "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<raiz>\n\t<filho>valor</filho>\n</raiz>\n"

	assert.Equal(t, "<raiz><filho>valor</filho></raiz>", sefaz.LimparXML(entrada),
		"declaração, quebras de linha e tabulações devem sair; o conteúdo fica intacto")
}

func TestLimparXML_PreservaEspacosDentroDeTexto(t *testing.T) {
	// espaço significativo dentro de texto não pode ser tocado; só o
	// espaço entre tags é removido
	entrada := "<xNome>EMPRESA DE TESTE LTDA</xNome>  <xFant>TESTE</xFant>"

	assert.Equal(t, "<xNome>EMPRESA DE TESTE LTDA</xNome><xFant>TESTE</xFant>", sefaz.LimparXML(entrada),
		"espaços internos ao texto devem sobreviver à limpeza")
}

func TestLimparXML_RemoveBarrasInvertidas(t *testing.T) {
	assert.Equal(t, "<a>x</a>", sefaz.LimparXML("<a>\\x</a>"),
		"barras invertidas de escape herdadas da serialização devem sair")
}

func TestLimparXML_Idempotente(t *testing.T) {
	entrada := "<?xml version=\"1.0\" encoding=\"UTF-8\"?><a> <b>1</b> </a>"

	primeira := sefaz.LimparXML(entrada)
	assert.Equal(t, primeira, sefaz.LimparXML(primeira),
		"aplicar a limpeza duas vezes deve devolver o mesmo resultado")
}

func TestLimparXML_NaoTocaXMLJaLimpo(t *testing.T) {
	limpo := `<infNFe Id="NFe123" versao="4.00"><ide><cUF>35</cUF></ide></infNFe>`

	assert.Equal(t, limpo, sefaz.LimparXML(limpo),
		"a forma canônica é ponto fixo da limpeza")
}
