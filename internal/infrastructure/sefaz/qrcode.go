// QR Code da NFC-e (infNFeSupl): hash do CSC e montagem da URL de consulta.

package sefaz

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"

	"github.com/GustavoOta/dfe/pkg/nfe"
)

// VersaoQRCode é a versão do leiaute do QR Code da NFC-e.
const VersaoQRCode = "2"

// URLs de consulta pública da NFC-e em São Paulo.
const (
	urlQRCodeProducao    = "https://www.nfce.fazenda.sp.gov.br/qrcode"
	urlQRCodeHomologacao = "https://www.homologacao.nfce.fazenda.sp.gov.br/NFCeConsultaPublica/Paginas/ConsultaQRCode.aspx"

	urlConsultaProducao    = "https://www.nfce.fazenda.sp.gov.br/consulta"
	urlConsultaHomologacao = "https://www.homologacao.nfce.fazenda.sp.gov.br/consulta"
)

// CSC é o Código de Segurança do Contribuinte fornecido pela SEFAZ, usado
// para autenticar o QR Code da NFC-e. O código nunca aparece na URL; só o
// hash calculado com ele.
type CSC struct {
	Codigo string
	ID     string // identificador do CSC no cadastro do contribuinte (ex: "000001")
}

// GerarQRCode monta a URL do QR Code da NFC-e: os parâmetros públicos
// separados por pipe mais o hash SHA-1 calculado com o CSC anexado.
func GerarQRCode(chave string, ambiente int, csc CSC) (string, error) {
	if csc.Codigo == "" {
		return "", fmt.Errorf("sefaz: CSC não informado para emissão de NFC-e")
	}
	if csc.ID == "" {
		return "", fmt.Errorf("sefaz: identificador do CSC não informado para emissão de NFC-e")
	}

	parametros := fmt.Sprintf("%s|%s|%d|%s", chave, VersaoQRCode, ambiente, csc.ID)
	soma := sha1.Sum([]byte(parametros + csc.Codigo))
	hash := hex.EncodeToString(soma[:])

	base := urlQRCodeHomologacao
	if ambiente == nfe.AmbienteProducao {
		base = urlQRCodeProducao
	}
	return fmt.Sprintf("%s?p=%s|%s", base, parametros, hash), nil
}

// URLConsulta devolve a URL de consulta pela chave de acesso que acompanha o
// QR Code no grupo infNFeSupl.
func URLConsulta(ambiente int) string {
	if ambiente == nfe.AmbienteProducao {
		return urlConsultaProducao
	}
	return urlConsultaHomologacao
}

// MontarInfNFeSupl monta o grupo infNFeSupl com o QR Code em CDATA e a URL
// de consulta. Entra no elemento NFe depois do infNFe e fora do digest da
// assinatura.
func MontarInfNFeSupl(chave string, ambiente int, csc CSC) (string, error) {
	qr, err := GerarQRCode(chave, ambiente, csc)
	if err != nil {
		return "", err
	}
	return "<infNFeSupl><qrCode><![CDATA[" + qr + "]]></qrCode><urlChave>" + URLConsulta(ambiente) + "</urlChave></infNFeSupl>", nil
}
