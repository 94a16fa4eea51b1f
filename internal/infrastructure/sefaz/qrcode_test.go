package sefaz_test

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GustavoOta/dfe/internal/infrastructure/sefaz"
	"github.com/GustavoOta/dfe/pkg/nfe"
)

var cscTeste = sefaz.CSC{Codigo: "CODIGO-SECRETO-DO-CONTRIBUINTE", ID: "000001"}

func TestGerarQRCode_Homologacao(t *testing.T) {
	url, err := sefaz.GerarQRCode(chaveEsperada, nfe.AmbienteHomologacao, cscTeste)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url,
		"https://www.homologacao.nfce.fazenda.sp.gov.br/NFCeConsultaPublica/Paginas/ConsultaQRCode.aspx?p="),
		"homologação usa a URL de consulta pública de homologação")

	parametros := chaveEsperada + "|2|2|000001"
	soma := sha1.Sum([]byte(parametros + cscTeste.Codigo))
	assert.True(t, strings.HasSuffix(url, "?p="+parametros+"|"+hex.EncodeToString(soma[:])),
		"o hash cobre os parâmetros públicos com o CSC anexado, sem expor o código")
	assert.NotContains(t, url, cscTeste.Codigo, "o CSC nunca aparece na URL")
}

func TestGerarQRCode_Producao(t *testing.T) {
	url, err := sefaz.GerarQRCode(chaveEsperada, nfe.AmbienteProducao, cscTeste)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "https://www.nfce.fazenda.sp.gov.br/qrcode?p="))
	assert.Contains(t, url, chaveEsperada+"|2|1|000001|")
}

func TestGerarQRCode_SemCSC(t *testing.T) {
	_, err := sefaz.GerarQRCode(chaveEsperada, nfe.AmbienteHomologacao, sefaz.CSC{ID: "000001"})
	assert.Error(t, err, "NFC-e sem CSC não tem como montar o QR Code")

	_, err = sefaz.GerarQRCode(chaveEsperada, nfe.AmbienteHomologacao, sefaz.CSC{Codigo: "X"})
	assert.Error(t, err, "NFC-e sem o identificador do CSC não tem como montar o QR Code")
}

func TestURLConsulta_PorAmbiente(t *testing.T) {
	assert.Equal(t, "https://www.nfce.fazenda.sp.gov.br/consulta", sefaz.URLConsulta(nfe.AmbienteProducao))
	assert.Equal(t, "https://www.homologacao.nfce.fazenda.sp.gov.br/consulta", sefaz.URLConsulta(nfe.AmbienteHomologacao))
}

func TestMontarInfNFeSupl_QRCodeEmCDATA(t *testing.T) {
	supl, err := sefaz.MontarInfNFeSupl(chaveEsperada, nfe.AmbienteHomologacao, cscTeste)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(supl, "<infNFeSupl><qrCode><![CDATA["),
		"o QR Code vai em CDATA para preservar os pipes")
	assert.Contains(t, supl, "]]></qrCode><urlChave>https://www.homologacao.nfce.fazenda.sp.gov.br/consulta</urlChave></infNFeSupl>")
}
