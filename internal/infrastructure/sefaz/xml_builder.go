// Montagem do fragmento infNFe: percorre o documento de entrada na ordem do
// leiaute 4.00 e produz o XML canônico que será digerido e assinado.

package sefaz

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GustavoOta/dfe/internal/domain/imposto"
	"github.com/GustavoOta/dfe/internal/domain/nota"
	"github.com/GustavoOta/dfe/pkg/nfe"
)

// NamespacePortalFiscal é o namespace de todos os documentos da NF-e.
const NamespacePortalFiscal = "http://www.portalfiscal.inf.br/nfe"

// VersaoLeiaute é a versão do leiaute da NF-e emitida.
const VersaoLeiaute = "4.00"

// Montador monta o fragmento infNFe a partir do documento de entrada.
// Relogio é injetado para datas determinísticas em teste; nulo usa o relógio
// do sistema.
type Montador struct {
	Relogio  func() time.Time
	Politica imposto.PoliticaIBSCBS
}

// ErroItem registra a falha de resolução tributária de um item. O documento
// segue sendo montado; o erro sai anexado ao item para inspeção do chamador.
type ErroItem struct {
	Item    int // nItem, a partir de 1
	Tributo string
	Erro    error
}

// DocumentoMontado é o resultado da montagem: o fragmento infNFe canônico,
// a chave de acesso e os erros tributários item a item, se houver.
type DocumentoMontado struct {
	Chave  string
	DV     byte
	CNF    string
	DhEmi  string
	InfNFe string
	Erros  []ErroItem
}

func (m *Montador) agora() time.Time {
	if m.Relogio != nil {
		return m.Relogio()
	}
	return time.Now()
}

// Montar valida a entrada, gera a chave de acesso e serializa os grupos do
// leiaute na ordem exigida. Erros de regime tributário de um item não abortam
// a montagem; erros estruturais (destinatário incompleto, chave inválida) sim.
func (m *Montador) Montar(doc nota.Documento) (*DocumentoMontado, error) {
	agora := m.agora()

	cnf := doc.Ide.CNF
	if cnf == "" {
		cnf = nfe.GerarCodigoNumerico()
	}

	docEmit := doc.Emit.CNPJ
	if docEmit == "" {
		docEmit = doc.Emit.CPF
	}

	ano, mes := nfe.AnoMes(agora)
	chave, err := nfe.Gerar(nfe.ChaveAcessoProps{
		UF:             doc.Ide.CUF,
		Ano:            ano,
		Mes:            mes,
		Doc:            docEmit,
		Modelo:         doc.Ide.Modelo,
		Serie:          doc.Ide.Serie,
		Numero:         doc.Ide.Numero,
		TpEmis:         doc.Ide.TpEmis,
		CodigoNumerico: cnf,
	})
	if err != nil {
		return nil, fmt.Errorf("sefaz: gerar chave de acesso: %w", err)
	}

	dhEmi := doc.Ide.DhEmi
	if dhEmi.IsZero() {
		dhEmi = agora
	}
	dhSaiEnt := doc.Ide.DhSaiEnt
	if dhSaiEnt.IsZero() {
		dhSaiEnt = agora
	}

	sb := &strings.Builder{}
	sb.WriteString(`<infNFe xmlns="` + NamespacePortalFiscal + `" Id="NFe` + chave.Chave + `" versao="` + VersaoLeiaute + `">`)

	escreverIde(sb, doc.Ide, cnf, chave.DV, dhEmi, dhSaiEnt)
	escreverEmit(sb, doc.Emit)
	if doc.Dest != nil {
		if err := escreverDest(sb, *doc.Dest); err != nil {
			return nil, err
		}
	}

	var erros []ErroItem
	var basesIBSCBS []decimal.Decimal
	for i, item := range doc.Itens {
		erros = append(erros, escreverDet(sb, i+1, item)...)
		if item.BaseIBSCBS != nil {
			basesIBSCBS = append(basesIBSCBS, *item.BaseIBSCBS)
		}
	}

	politica := m.Politica
	if politica.Agora.IsZero() {
		politica.Agora = agora
	}
	escreverTotal(sb, doc.Total, politica, basesIBSCBS)

	sb.WriteString(`<transp><modFrete>` + strconv.Itoa(doc.Transp.ModFrete) + `</modFrete></transp>`)
	escreverPag(sb, doc.Pag)
	escreverInfAdic(sb, doc.InfAdic)

	sb.WriteString(`</infNFe>`)

	return &DocumentoMontado{
		Chave:  chave.Chave,
		DV:     chave.DV,
		CNF:    cnf,
		DhEmi:  nfe.FormatarDataHora(dhEmi),
		InfNFe: LimparXML(sb.String()),
		Erros:  erros,
	}, nil
}

var escaparXML = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func tag(sb *strings.Builder, nome, valor string) {
	sb.WriteString("<" + nome + ">")
	sb.WriteString(escaparXML.Replace(valor))
	sb.WriteString("</" + nome + ">")
}

func tagInt(sb *strings.Builder, nome string, valor int) {
	tag(sb, nome, strconv.Itoa(valor))
}

func escreverIde(sb *strings.Builder, ide nota.Identificacao, cnf string, dv byte, dhEmi, dhSaiEnt time.Time) {
	sb.WriteString(`<ide>`)
	tagInt(sb, "cUF", ide.CUF)
	tag(sb, "cNF", cnf)
	tag(sb, "natOp", ide.NatOp)
	if ide.IndPag != nil {
		tagInt(sb, "indPag", *ide.IndPag)
	}
	tagInt(sb, "mod", ide.Modelo)
	tagInt(sb, "serie", ide.Serie)
	tag(sb, "nNF", strconv.FormatInt(ide.Numero, 10))
	tag(sb, "dhEmi", nfe.FormatarDataHora(dhEmi))
	// NFC-e não leva data de saída.
	if ide.Modelo != nfe.ModeloNFCe {
		tag(sb, "dhSaiEnt", nfe.FormatarDataHora(dhSaiEnt))
	}
	tagInt(sb, "tpNF", ide.TpNF)
	tagInt(sb, "idDest", ide.IdDest)
	tag(sb, "cMunFG", ide.CMunFG)
	tagInt(sb, "tpImp", ide.TpImp)
	tagInt(sb, "tpEmis", ide.TpEmis)
	tag(sb, "cDV", string(dv))
	tagInt(sb, "tpAmb", ide.TpAmb)
	tagInt(sb, "finNFe", ide.FinNFe)
	tagInt(sb, "indFinal", ide.IndFinal)
	tagInt(sb, "indPres", ide.IndPres)
	tagInt(sb, "procEmi", ide.ProcEmi)
	tag(sb, "verProc", ide.VerProc)
	sb.WriteString(`</ide>`)
}

func escreverEmit(sb *strings.Builder, emit nota.Emitente) {
	sb.WriteString(`<emit>`)
	if emit.CNPJ != "" {
		tag(sb, "CNPJ", emit.CNPJ)
	} else if emit.CPF != "" {
		tag(sb, "CPF", emit.CPF)
	}
	tag(sb, "xNome", emit.XNome)
	if emit.XFant != "" {
		tag(sb, "xFant", emit.XFant)
	}
	sb.WriteString(`<enderEmit>`)
	escreverEndereco(sb, emit.Endereco)
	sb.WriteString(`</enderEmit>`)
	if emit.IE != "" {
		tag(sb, "IE", emit.IE)
	}
	tagInt(sb, "CRT", emit.CRT)
	sb.WriteString(`</emit>`)
}

func escreverEndereco(sb *strings.Builder, e nota.Endereco) {
	tag(sb, "xLgr", e.XLgr)
	tag(sb, "nro", e.Nro)
	tag(sb, "xBairro", e.XBairro)
	tag(sb, "cMun", e.CMun)
	tag(sb, "xMun", e.XMun)
	tag(sb, "UF", e.UF)
	tag(sb, "CEP", e.CEP)
	tag(sb, "cPais", valorOuPadrao(e.CPais, "1058"))
	tag(sb, "xPais", valorOuPadrao(e.XPais, "BRASIL"))
}

func valorOuPadrao(v, padrao string) string {
	if v == "" {
		return padrao
	}
	return v
}

// escreverDest serializa o destinatário. Campos de identidade e endereço são
// obrigatórios quando o grupo está presente; a ausência aborta a montagem.
func escreverDest(sb *strings.Builder, d nota.Destinatario) error {
	for _, obrig := range []struct{ nome, valor string }{
		{"xNome", d.XNome},
		{"xLgr", d.Endereco.XLgr},
		{"nro", d.Endereco.Nro},
		{"xBairro", d.Endereco.XBairro},
		{"cMun", d.Endereco.CMun},
		{"xMun", d.Endereco.XMun},
		{"UF", d.Endereco.UF},
		{"CEP", d.Endereco.CEP},
	} {
		if obrig.valor == "" {
			return fmt.Errorf("sefaz: campo %s do destinatário não informado", obrig.nome)
		}
	}

	sb.WriteString(`<dest>`)
	switch {
	case d.CPF != "":
		tag(sb, "CPF", d.CPF)
	case d.CNPJ != "":
		tag(sb, "CNPJ", d.CNPJ)
	case d.IdEstrangeiro != "":
		tag(sb, "idEstrangeiro", d.IdEstrangeiro)
	default:
		return fmt.Errorf("sefaz: destinatário sem CPF, CNPJ ou idEstrangeiro")
	}
	tag(sb, "xNome", d.XNome)
	sb.WriteString(`<enderDest>`)
	tag(sb, "xLgr", d.Endereco.XLgr)
	tag(sb, "nro", d.Endereco.Nro)
	tag(sb, "xBairro", d.Endereco.XBairro)
	tag(sb, "cMun", d.Endereco.CMun)
	tag(sb, "xMun", d.Endereco.XMun)
	tag(sb, "UF", d.Endereco.UF)
	tag(sb, "CEP", d.Endereco.CEP)
	tag(sb, "cPais", valorOuPadrao(d.Endereco.CPais, "1058"))
	tag(sb, "xPais", valorOuPadrao(d.Endereco.XPais, "BRASIL"))
	if d.Endereco.Fone != "" {
		tag(sb, "fone", d.Endereco.Fone)
	}
	sb.WriteString(`</enderDest>`)
	if d.IndIEDest != nil {
		tagInt(sb, "indIEDest", *d.IndIEDest)
	}
	if d.IE != "" {
		tag(sb, "IE", d.IE)
	}
	if d.Email != "" {
		tag(sb, "email", d.Email)
	}
	sb.WriteString(`</dest>`)
	return nil
}

// escreverDet serializa um item. Um regime tributário que não resolve vira um
// elemento de erro no lugar do grupo (ICMSError, PISInvalid, COFINSInvalid) e
// entra na lista de erros do item; os demais tributos e itens seguem.
func escreverDet(sb *strings.Builder, nItem int, item nota.Item) []ErroItem {
	var erros []ErroItem

	sb.WriteString(`<det nItem="` + strconv.Itoa(nItem) + `">`)

	sb.WriteString(`<prod>`)
	tag(sb, "cProd", item.CProd)
	tag(sb, "cEAN", item.CEAN)
	tag(sb, "xProd", item.XProd)
	tag(sb, "NCM", item.NCM)
	if item.CEST != "" {
		tag(sb, "CEST", item.CEST)
	}
	tag(sb, "CFOP", item.CFOP)
	tag(sb, "uCom", item.UCom)
	tag(sb, "qCom", imposto.Valor2(item.QCom))
	tag(sb, "vUnCom", imposto.Valor2(item.VUnCom))
	tag(sb, "vProd", imposto.Valor2(item.VProd))
	tag(sb, "cEANTrib", item.CEANTrib)
	tag(sb, "uTrib", item.UTrib)
	tag(sb, "qTrib", imposto.Valor2(item.QTrib))
	tag(sb, "vUnTrib", imposto.Valor2(item.VUnTrib))
	tagInt(sb, "indTot", item.IndTot)
	if item.XPed != "" {
		tag(sb, "xPed", item.XPed)
	}
	sb.WriteString(`</prod>`)

	sb.WriteString(`<imposto>`)
	tag(sb, "vTotTrib", imposto.Valor2(item.VTotTrib))

	icms := imposto.ResolverICMS(item.ICMS)
	erros = append(erros, escreverTributo(sb, nItem, "ICMS", "ICMSError", icms)...)

	pis := imposto.ResolverPIS(item.PIS)
	erros = append(erros, escreverTributo(sb, nItem, "PIS", "PISInvalid", pis)...)

	cofins := imposto.ResolverCOFINS(item.COFINS)
	erros = append(erros, escreverTributo(sb, nItem, "COFINS", "COFINSInvalid", cofins)...)

	sb.WriteString(`</imposto>`)

	if item.InfAdProd != "" {
		tag(sb, "infAdProd", item.InfAdProd)
	}
	sb.WriteString(`</det>`)
	return erros
}

func escreverTributo(sb *strings.Builder, nItem int, tributo, tagErro string, r imposto.Resolucao) []ErroItem {
	sb.WriteString(`<` + tributo + `>`)
	defer sb.WriteString(`</` + tributo + `>`)

	if r.Erro != nil {
		tag(sb, tagErro, r.Erro.Error())
		return []ErroItem{{Item: nItem, Tributo: tributo, Erro: r.Erro}}
	}
	sb.WriteString(`<` + r.Grupo.Nome + `>`)
	for _, c := range r.Grupo.Campos {
		tag(sb, c.Nome, c.Valor)
	}
	sb.WriteString(`</` + r.Grupo.Nome + `>`)
	return nil
}

func escreverTotal(sb *strings.Builder, t nota.Total, politica imposto.PoliticaIBSCBS, bases []decimal.Decimal) {
	sb.WriteString(`<total><ICMSTot>`)
	tag(sb, "vBC", imposto.Valor2(t.VBC))
	tag(sb, "vICMS", imposto.Valor2(t.VICMS))
	tag(sb, "vICMSDeson", imposto.Valor2(t.VICMSDeson))
	tag(sb, "vFCPUFDest", imposto.Valor2(t.VFCPUFDest))
	tag(sb, "vICMSUFDest", imposto.Valor2(t.VICMSUFDest))
	tag(sb, "vICMSUFRemet", imposto.Valor2(t.VICMSUFRemet))
	tag(sb, "vFCP", imposto.Valor2(t.VFCP))
	tag(sb, "vBCST", imposto.Valor2(t.VBCST))
	tag(sb, "vST", imposto.Valor2(t.VST))
	tag(sb, "vFCPST", imposto.Valor2(t.VFCPST))
	tag(sb, "vFCPSTRet", imposto.Valor2(t.VFCPSTRet))
	tag(sb, "vProd", imposto.Valor2(t.VProd))
	tag(sb, "vFrete", imposto.Valor2(t.VFrete))
	tag(sb, "vSeg", imposto.Valor2(t.VSeg))
	tag(sb, "vDesc", imposto.Valor2(t.VDesc))
	tag(sb, "vII", imposto.Valor2(t.VII))
	tag(sb, "vIPI", imposto.Valor2(t.VIPI))
	tag(sb, "vIPIDevol", imposto.Valor2(t.VIPIDevol))
	tag(sb, "vPIS", imposto.Valor2(t.VPIS))
	tag(sb, "vCOFINS", imposto.Valor2(t.VCOFINS))
	tag(sb, "vOutro", imposto.Valor2(t.VOutro))
	tag(sb, "vNF", imposto.Valor2(t.VNF))
	tag(sb, "vTotTrib", imposto.Valor2(t.VTotTrib))
	sb.WriteString(`</ICMSTot>`)

	if politica.Aplicavel() {
		escreverIBSCBSTot(sb, imposto.CalcularTotaisIBSCBS(bases))
	}

	sb.WriteString(`</total>`)
}

func escreverIBSCBSTot(sb *strings.Builder, t imposto.TotaisIBSCBS) {
	const zero = "0.00"
	sb.WriteString(`<IBSCBSTot>`)
	tag(sb, "vBCIBSCBS", t.VBC)
	sb.WriteString(`<gIBS>`)
	sb.WriteString(`<gIBSUF>`)
	tag(sb, "vDif", zero)
	tag(sb, "vDevTrib", zero)
	tag(sb, "vIBSUF", t.VIBSUF)
	sb.WriteString(`</gIBSUF>`)
	sb.WriteString(`<gIBSMun>`)
	tag(sb, "vDif", zero)
	tag(sb, "vDevTrib", zero)
	tag(sb, "vIBSMun", t.VIBSMun)
	sb.WriteString(`</gIBSMun>`)
	tag(sb, "vIBS", t.VIBS)
	tag(sb, "vCredPres", zero)
	tag(sb, "vCredPresCondSus", zero)
	sb.WriteString(`</gIBS>`)
	sb.WriteString(`<gCBS>`)
	tag(sb, "vDif", zero)
	tag(sb, "vDevTrib", zero)
	tag(sb, "vCBS", t.VCBS)
	tag(sb, "vCredPres", zero)
	tag(sb, "vCredPresCondSus", zero)
	sb.WriteString(`</gCBS>`)
	sb.WriteString(`</IBSCBSTot>`)
}

func escreverPag(sb *strings.Builder, p nota.Pagamento) {
	sb.WriteString(`<pag><detPag>`)
	tagInt(sb, "indPag", p.IndPag)
	tag(sb, "tPag", p.TPag)
	if p.XPag != "" {
		tag(sb, "xPag", p.XPag)
	}
	tag(sb, "vPag", imposto.Valor2(p.VPag))

	// Cartão e PIX levam o grupo card: integrado (TEF) com os dados da
	// credenciadora, não integrado (POS) só com tpIntegra.
	if p.TPag == nfe.PagamentoCartaoCredito || p.TPag == nfe.PagamentoCartaoDebito || p.TPag == nfe.PagamentoPix {
		sb.WriteString(`<card>`)
		if p.TpIntegra != nil && *p.TpIntegra == 1 {
			tagInt(sb, "tpIntegra", 1)
			tag(sb, "CNPJ", p.CNPJ)
			tag(sb, "tBand", p.TBand)
			tag(sb, "cAut", p.CAut)
			tag(sb, "vTroco", p.VTroco)
		} else {
			tagInt(sb, "tpIntegra", 2)
		}
		sb.WriteString(`</card>`)
	}
	sb.WriteString(`</detPag></pag>`)
}

func escreverInfAdic(sb *strings.Builder, ia *nota.InfAdic) {
	infCpl := "Sem informações adicionais"
	if ia != nil && ia.InfCpl != "" {
		infCpl = ia.InfCpl
	}
	sb.WriteString(`<infAdic>`)
	tag(sb, "infCpl", infCpl)
	sb.WriteString(`</infAdic>`)
}
