// Interpretação das respostas SOAP da SEFAZ e montagem do nfeProc.

package sefaz

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/GustavoOta/dfe/internal/domain"
)

var (
	reProtNFe   = regexp.MustCompile(`(?s)<protNFe versao="4.00">(.*?)</protNFe>`)
	reInfEvento = regexp.MustCompile(`(?s)<infEvento.*?</infEvento>`)
)

// extrairCampo busca o conteúdo de um elemento simples na resposta. Devolve
// vazio quando o elemento não está presente.
func extrairCampo(xml, nome string) string {
	abre := "<" + nome + ">"
	ini := strings.Index(xml, abre)
	if ini == -1 {
		return ""
	}
	ini += len(abre)
	fim := strings.Index(xml[ini:], "</"+nome+">")
	if fim == -1 {
		return ""
	}
	return xml[ini : ini+fim]
}

// ExtrairProtocolo localiza o protNFe na resposta do NFeAutorizacao4 e
// decodifica o infProt. A ausência do protocolo indica resposta fora do
// contrato do serviço.
func ExtrairProtocolo(resposta string) (InfProt, error) {
	m := reProtNFe.FindStringSubmatch(resposta)
	if m == nil {
		return InfProt{}, fmt.Errorf("sefaz: protNFe ausente na resposta: %w", domain.ErrRespostaInesperada)
	}
	bloco := m[1]

	tpAmb, err := strconv.Atoi(extrairCampo(bloco, "tpAmb"))
	if err != nil {
		return InfProt{}, fmt.Errorf("sefaz: tpAmb inválido no protocolo: %w", domain.ErrRespostaInesperada)
	}
	cStat, err := strconv.Atoi(extrairCampo(bloco, "cStat"))
	if err != nil {
		return InfProt{}, fmt.Errorf("sefaz: cStat inválido no protocolo: %w", domain.ErrRespostaInesperada)
	}

	return InfProt{
		TpAmb:    tpAmb,
		VerAplic: extrairCampo(bloco, "verAplic"),
		ChNFe:    extrairCampo(bloco, "chNFe"),
		DhRecbto: extrairCampo(bloco, "dhRecbto"),
		NProt:    extrairCampo(bloco, "nProt"),
		DigVal:   extrairCampo(bloco, "digVal"),
		CStat:    cStat,
		XMotivo:  extrairCampo(bloco, "xMotivo"),
	}, nil
}

// MontarNFeProc anexa o protocolo de autorização à NFe assinada, produzindo
// o documento fiscal definitivo de distribuição.
func MontarNFeProc(nfeAssinada string, p InfProt) string {
	prot := &strings.Builder{}
	prot.WriteString(`</NFe>`)
	prot.WriteString(`<protNFe xmlns="` + NamespacePortalFiscal + `" versao="` + VersaoLeiaute + `">`)
	prot.WriteString(`<infProt>`)
	prot.WriteString(`<tpAmb>` + strconv.Itoa(p.TpAmb) + `</tpAmb>`)
	prot.WriteString(`<verAplic>` + p.VerAplic + `</verAplic>`)
	prot.WriteString(`<chNFe>` + p.ChNFe + `</chNFe>`)
	prot.WriteString(`<dhRecbto>` + p.DhRecbto + `</dhRecbto>`)
	prot.WriteString(`<nProt>` + p.NProt + `</nProt>`)
	prot.WriteString(`<digVal>` + p.DigVal + `</digVal>`)
	prot.WriteString(`<cStat>` + strconv.Itoa(p.CStat) + `</cStat>`)
	prot.WriteString(`<xMotivo>` + p.XMotivo + `</xMotivo>`)
	prot.WriteString(`</infProt></protNFe></nfeProc>`)

	corpo := strings.Replace(nfeAssinada, "</NFe>", prot.String(), 1)
	return `<?xml version="1.0" encoding="UTF-8"?><nfeProc xmlns="` + NamespacePortalFiscal + `" versao="` + VersaoLeiaute + `">` + corpo
}

// ExtrairInfEvento localiza o infEvento de retorno na resposta do
// NFeRecepcaoEvento4. Os campos seguem como texto; o chamador decide o que
// interpretar.
func ExtrairInfEvento(resposta string) (InfEvento, error) {
	bloco := reInfEvento.FindString(resposta)
	if bloco == "" {
		return InfEvento{}, fmt.Errorf("sefaz: infEvento ausente na resposta: %w", domain.ErrRespostaInesperada)
	}
	return InfEvento{
		TpAmb:       extrairCampo(bloco, "tpAmb"),
		VerAplic:    extrairCampo(bloco, "verAplic"),
		COrgao:      extrairCampo(bloco, "cOrgao"),
		CStat:       extrairCampo(bloco, "cStat"),
		XMotivo:     extrairCampo(bloco, "xMotivo"),
		ChNFe:       extrairCampo(bloco, "chNFe"),
		TpEvento:    extrairCampo(bloco, "tpEvento"),
		NSeqEvento:  extrairCampo(bloco, "nSeqEvento"),
		DhRegEvento: extrairCampo(bloco, "dhRegEvento"),
	}, nil
}
