package sefaz_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GustavoOta/dfe/internal/domain/imposto"
	"github.com/GustavoOta/dfe/internal/domain/nota"
	"github.com/GustavoOta/dfe/internal/infrastructure/sefaz"
	"github.com/GustavoOta/dfe/pkg/nfe"
)

// ─────────────────────────────────────────────────────────────────────────────
// Base de testes: nota de venda de dezembro de 2024, emitente paulista,
// chave de acesso com dígito verificador conhecido.
// ─────────────────────────────────────────────────────────────────────────────

const chaveEsperada = "35241254515633000161550010000000011000000014"

var instanteEmissao = time.Date(2024, time.December, 15, 10, 30, 0, 0, time.FixedZone("-03:00", -3*60*60))

func relogioFixo() time.Time { return instanteEmissao }

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func pd(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func pi(n int) *int { return &n }

func itemTeste() nota.Item {
	return nota.Item{
		CProd:    "001",
		CEAN:     "SEM GTIN",
		XProd:    "CANETA ESFEROGRAFICA",
		NCM:      "96081000",
		CFOP:     "5102",
		UCom:     "UN",
		QCom:     d("10"),
		VUnCom:   d("10"),
		VProd:    d("100"),
		CEANTrib: "SEM GTIN",
		UTrib:    "UN",
		QTrib:    d("10"),
		VUnTrib:  d("10"),
		IndTot:   1,
		ICMS: imposto.CamposICMS{
			Seletor: "ICMS00",
			Orig:    pi(0),
			CST:     "00",
			ModBC:   pi(3),
			VBC:     pd("100"),
			PICMS:   pd("18"),
			VICMS:   pd("18"),
		},
	}
}

func documentoTeste() nota.Documento {
	return nota.Documento{
		Ide: nota.Identificacao{
			CUF:      35,
			CNF:      "00000001",
			NatOp:    "VENDA DE MERCADORIA",
			Modelo:   nfe.ModeloNFe,
			Serie:    1,
			Numero:   1,
			TpNF:     1,
			IdDest:   1,
			CMunFG:   "3550308",
			TpImp:    1,
			TpEmis:   nfe.EmissaoNormal,
			TpAmb:    nfe.AmbienteHomologacao,
			FinNFe:   1,
			IndFinal: 1,
			IndPres:  1,
			ProcEmi:  0,
			VerProc:  "1.0.0",
		},
		Emit: nota.Emitente{
			CNPJ:  "54515633000161",
			XNome: "EMPRESA DE TESTE LTDA",
			Endereco: nota.Endereco{
				XLgr:    "RUA DAS FLORES",
				Nro:     "100",
				XBairro: "CENTRO",
				CMun:    "3550308",
				XMun:    "SAO PAULO",
				UF:      "SP",
				CEP:     "01001000",
			},
			IE:  "123456789012",
			CRT: 3,
		},
		Itens: []nota.Item{itemTeste()},
		Total: nota.Total{
			VBC:      d("100"),
			VICMS:    d("18"),
			VProd:    d("100"),
			VNF:      d("100"),
			VTotTrib: d("18"),
		},
		Pag: nota.Pagamento{
			TPag: nfe.PagamentoDinheiro,
			VPag: d("100"),
		},
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Identificação e chave de acesso
// ─────────────────────────────────────────────────────────────────────────────

func TestMontar_ChaveEIdentificacao(t *testing.T) {
	montador := &sefaz.Montador{Relogio: relogioFixo}

	montado, err := montador.Montar(documentoTeste())
	require.NoError(t, err)

	assert.Equal(t, chaveEsperada, montado.Chave,
		"chave de acesso deve sair dos campos do documento e do relógio injetado")
	assert.Equal(t, byte('4'), montado.DV)
	assert.Equal(t, "00000001", montado.CNF)
	assert.Contains(t, montado.InfNFe, `<infNFe xmlns="http://www.portalfiscal.inf.br/nfe" Id="NFe`+chaveEsperada+`" versao="4.00">`)
	assert.Contains(t, montado.InfNFe, "<cDV>4</cDV>")
	assert.Contains(t, montado.InfNFe, "<dhEmi>2024-12-15T10:30:00-03:00</dhEmi>")
	assert.Contains(t, montado.InfNFe, "<dhSaiEnt>2024-12-15T10:30:00-03:00</dhSaiEnt>")
	assert.Empty(t, montado.Erros, "documento com tributação válida não deve acumular erros")
}

func TestMontar_OrdemDosGrupos(t *testing.T) {
	montador := &sefaz.Montador{Relogio: relogioFixo}

	montado, err := montador.Montar(documentoTeste())
	require.NoError(t, err)

	ordem := []string{"<ide>", "<emit>", `<det nItem="1">`, "<total>", "<transp>", "<pag>", "<infAdic>"}
	ultimo := -1
	for _, grupo := range ordem {
		pos := strings.Index(montado.InfNFe, grupo)
		require.GreaterOrEqual(t, pos, 0, "grupo %s deve estar presente", grupo)
		assert.Greater(t, pos, ultimo, "grupo %s fora da ordem do leiaute", grupo)
		ultimo = pos
	}
}

func TestMontar_NFCeOmiteDataDeSaida(t *testing.T) {
	doc := documentoTeste()
	doc.Ide.Modelo = nfe.ModeloNFCe
	montador := &sefaz.Montador{Relogio: relogioFixo}

	montado, err := montador.Montar(doc)
	require.NoError(t, err)

	assert.NotContains(t, montado.InfNFe, "<dhSaiEnt>",
		"NFC-e não leva data de saída")
	assert.Contains(t, montado.InfNFe, "<mod>65</mod>")
}

func TestMontar_GeraCodigoNumericoQuandoAusente(t *testing.T) {
	doc := documentoTeste()
	doc.Ide.CNF = ""
	montador := &sefaz.Montador{Relogio: relogioFixo}

	montado, err := montador.Montar(doc)
	require.NoError(t, err)

	assert.Len(t, montado.CNF, 8, "cNF gerado deve ter 8 dígitos")
	assert.Equal(t, montado.CNF, montado.Chave[35:43],
		"cNF gerado deve compor a chave de acesso")
}

// ─────────────────────────────────────────────────────────────────────────────
// Itens e degradação tributária
// ─────────────────────────────────────────────────────────────────────────────

func TestMontar_ItemComRegimeInvalidoNaoDerrubaODocumento(t *testing.T) {
	doc := documentoTeste()
	quebrado := itemTeste()
	quebrado.ICMS.VICMS = nil // regime ICMS00 exige vICMS
	doc.Itens = append(doc.Itens, quebrado)
	montador := &sefaz.Montador{Relogio: relogioFixo}

	montado, err := montador.Montar(doc)
	require.NoError(t, err, "erro de regime de um item não aborta a montagem")

	// o item 1 sai íntegro, o item 2 carrega o marcador de erro no lugar
	// do grupo de ICMS
	assert.Contains(t, montado.InfNFe, `<det nItem="1">`)
	assert.Contains(t, montado.InfNFe, `<det nItem="2">`)
	assert.Contains(t, montado.InfNFe, "<ICMS00>")
	assert.Contains(t, montado.InfNFe, "<ICMS><ICMSError>")

	require.Len(t, montado.Erros, 1)
	assert.Equal(t, 2, montado.Erros[0].Item, "o erro deve apontar o nItem do item quebrado")
	assert.Equal(t, "ICMS", montado.Erros[0].Tributo)
	var faltando *imposto.ErroCampoObrigatorio
	require.ErrorAs(t, montado.Erros[0].Erro, &faltando)
	assert.Equal(t, "vICMS", faltando.Campo)
}

func TestMontar_ErrosIndependentesPorTributoNoMesmoItem(t *testing.T) {
	doc := documentoTeste()
	doc.Itens[0].ICMS.Seletor = "ICMS10" // não suportado
	doc.Itens[0].PIS = imposto.CamposPIS{Seletor: "PISAliq", CST: "01"} // sem vBC
	montador := &sefaz.Montador{Relogio: relogioFixo}

	montado, err := montador.Montar(doc)
	require.NoError(t, err)

	assert.Contains(t, montado.InfNFe, "<ICMSError>")
	assert.Contains(t, montado.InfNFe, "<PISInvalid>")
	assert.Contains(t, montado.InfNFe, "<COFINSOutr>",
		"o COFINS sem seletor resolve para o grupo padrão mesmo com os demais tributos em erro")
	assert.Len(t, montado.Erros, 2)
}

func TestMontar_ContribuicoesPadraoSemSeletor(t *testing.T) {
	montador := &sefaz.Montador{Relogio: relogioFixo}

	montado, err := montador.Montar(documentoTeste())
	require.NoError(t, err)

	assert.Contains(t, montado.InfNFe, "<PIS><PISOutr><CST>99</CST>")
	assert.Contains(t, montado.InfNFe, "<COFINS><COFINSOutr><CST>99</CST>")
}

func TestMontar_EscapaCaracteresEspeciais(t *testing.T) {
	doc := documentoTeste()
	doc.Emit.XNome = "COMERCIO & CIA <LTDA>"
	montador := &sefaz.Montador{Relogio: relogioFixo}

	montado, err := montador.Montar(doc)
	require.NoError(t, err)

	assert.Contains(t, montado.InfNFe, "<xNome>COMERCIO &amp; CIA &lt;LTDA&gt;</xNome>")
}

// ─────────────────────────────────────────────────────────────────────────────
// Destinatário
// ─────────────────────────────────────────────────────────────────────────────

func TestMontar_DestinatarioCompleto(t *testing.T) {
	doc := documentoTeste()
	doc.Dest = &nota.Destinatario{
		CPF:   "12345678909",
		XNome: "CONSUMIDOR DE TESTE",
		Endereco: nota.EnderecoDest{
			XLgr:    "AVENIDA PAULISTA",
			Nro:     "1000",
			XBairro: "BELA VISTA",
			CMun:    "3550308",
			XMun:    "SAO PAULO",
			UF:      "SP",
			CEP:     "01310100",
		},
		IndIEDest: pi(9),
	}
	montador := &sefaz.Montador{Relogio: relogioFixo}

	montado, err := montador.Montar(doc)
	require.NoError(t, err)

	assert.Contains(t, montado.InfNFe, "<dest><CPF>12345678909</CPF><xNome>CONSUMIDOR DE TESTE</xNome>")
	assert.Contains(t, montado.InfNFe, "<cPais>1058</cPais><xPais>BRASIL</xPais>",
		"país ausente assume o Brasil")
	assert.Contains(t, montado.InfNFe, "<indIEDest>9</indIEDest>")
}

func TestMontar_DestinatarioIncompletoAbortaAMontagem(t *testing.T) {
	doc := documentoTeste()
	doc.Dest = &nota.Destinatario{CPF: "12345678909", XNome: "CONSUMIDOR"}
	montador := &sefaz.Montador{Relogio: relogioFixo}

	_, err := montador.Montar(doc)
	require.Error(t, err, "endereço do destinatário é obrigatório quando o grupo existe")
	assert.Contains(t, err.Error(), "xLgr")
}

// ─────────────────────────────────────────────────────────────────────────────
// Totais e IBS/CBS
// ─────────────────────────────────────────────────────────────────────────────

func TestMontar_TotaisNaOrdemDoLeiaute(t *testing.T) {
	montador := &sefaz.Montador{Relogio: relogioFixo}

	montado, err := montador.Montar(documentoTeste())
	require.NoError(t, err)

	assert.Contains(t, montado.InfNFe,
		"<ICMSTot><vBC>100.00</vBC><vICMS>18.00</vICMS><vICMSDeson>0.00</vICMSDeson>")
	assert.Contains(t, montado.InfNFe, "<vNF>100.00</vNF><vTotTrib>18.00</vTotTrib></ICMSTot>")
}

func TestMontar_IBSCBSAtivoNaTransicao(t *testing.T) {
	doc := documentoTeste()
	doc.Itens[0].BaseIBSCBS = pd("1000")
	montador := &sefaz.Montador{Relogio: relogioFixo}

	montado, err := montador.Montar(doc)
	require.NoError(t, err)

	assert.Contains(t, montado.InfNFe, "<IBSCBSTot><vBCIBSCBS>1000.00</vBCIBSCBS>")
	assert.Contains(t, montado.InfNFe, "<vIBSUF>1.00</vIBSUF>")
	assert.Contains(t, montado.InfNFe, "<vIBSMun>0.00</vIBSMun>")
	assert.Contains(t, montado.InfNFe, "<vCBS>9.00</vCBS>")
}

func TestMontar_IBSCBSDesativadoAntesDaObrigatoriedade(t *testing.T) {
	doc := documentoTeste()
	doc.Itens[0].BaseIBSCBS = pd("1000")
	montador := &sefaz.Montador{
		Relogio:  relogioFixo,
		Politica: imposto.PoliticaIBSCBS{Agora: instanteEmissao, Desativado: true},
	}

	montado, err := montador.Montar(doc)
	require.NoError(t, err)

	assert.NotContains(t, montado.InfNFe, "<IBSCBSTot>",
		"antes de 2026 a desativação explícita suprime o grupo")
}

func TestMontar_IBSCBSObrigatorioAposOCorte(t *testing.T) {
	doc := documentoTeste()
	doc.Itens[0].BaseIBSCBS = pd("1000")
	aposCorte := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.FixedZone("-03:00", -3*60*60))
	montador := &sefaz.Montador{
		Relogio:  func() time.Time { return aposCorte },
		Politica: imposto.PoliticaIBSCBS{Agora: aposCorte, Desativado: true},
	}

	montado, err := montador.Montar(doc)
	require.NoError(t, err)

	assert.Contains(t, montado.InfNFe, "<IBSCBSTot>",
		"a partir de 2026 a desativação deixa de ter efeito")
}

// ─────────────────────────────────────────────────────────────────────────────
// Pagamento e informações adicionais
// ─────────────────────────────────────────────────────────────────────────────

func TestMontar_PagamentoDinheiroSemCard(t *testing.T) {
	montador := &sefaz.Montador{Relogio: relogioFixo}

	montado, err := montador.Montar(documentoTeste())
	require.NoError(t, err)

	assert.Contains(t, montado.InfNFe, "<pag><detPag><indPag>0</indPag><tPag>01</tPag><vPag>100.00</vPag></detPag></pag>")
}

func TestMontar_CartaoIntegradoLevaDadosDaCredenciadora(t *testing.T) {
	doc := documentoTeste()
	doc.Pag = nota.Pagamento{
		TPag:      nfe.PagamentoCartaoCredito,
		VPag:      d("100"),
		TpIntegra: pi(1),
		CNPJ:      "11111111000111",
		TBand:     "01",
		CAut:      "123456",
	}
	montador := &sefaz.Montador{Relogio: relogioFixo}

	montado, err := montador.Montar(doc)
	require.NoError(t, err)

	assert.Contains(t, montado.InfNFe,
		"<card><tpIntegra>1</tpIntegra><CNPJ>11111111000111</CNPJ><tBand>01</tBand><cAut>123456</cAut><vTroco></vTroco></card>")
}

func TestMontar_CartaoNaoIntegradoSoTpIntegra(t *testing.T) {
	doc := documentoTeste()
	doc.Pag = nota.Pagamento{TPag: nfe.PagamentoCartaoDebito, VPag: d("100")}
	montador := &sefaz.Montador{Relogio: relogioFixo}

	montado, err := montador.Montar(doc)
	require.NoError(t, err)

	assert.Contains(t, montado.InfNFe, "<card><tpIntegra>2</tpIntegra></card>")
}

func TestMontar_InfAdicPadrao(t *testing.T) {
	montador := &sefaz.Montador{Relogio: relogioFixo}

	montado, err := montador.Montar(documentoTeste())
	require.NoError(t, err)

	assert.Contains(t, montado.InfNFe, "<infAdic><infCpl>Sem informações adicionais</infCpl></infAdic>")
}
