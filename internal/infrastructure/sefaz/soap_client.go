// Transporte SOAP 1.2 com certificado de cliente e montagem dos envelopes
// dos webservices da NF-e.

package sefaz

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"
)

// Namespaces WSDL dos serviços consumidos.
const (
	NamespaceWSDLAutorizacao    = "http://www.portalfiscal.inf.br/nfe/wsdl/NFeAutorizacao4"
	NamespaceWSDLRecepcaoEvento = "http://www.portalfiscal.inf.br/nfe/wsdl/NFeRecepcaoEvento4"
)

const tipoConteudoSOAP = "application/soap+xml; charset=utf-8"

// limite de leitura da resposta; as respostas da SEFAZ são pequenas.
const limiteResposta = 1 << 20

// Cliente envia envelopes SOAP para a SEFAZ autenticando com o certificado
// digital do emitente via TLS mútuo.
type Cliente struct {
	http *http.Client
}

// NovoCliente monta um cliente com o certificado do emitente na camada TLS.
func NovoCliente(cert *Certificado) *Cliente {
	return &Cliente{http: &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				Certificates: []tls.Certificate{cert.TLS},
				MinVersion:   tls.VersionTLS12,
			},
		},
	}}
}

// NovoClienteHTTP injeta um *http.Client pronto. Usado nos testes.
func NovoClienteHTTP(hc *http.Client) *Cliente {
	return &Cliente{http: hc}
}

// Enviar faz o POST do envelope e devolve o corpo da resposta. Status fora
// da faixa 2xx vira *ErroTransporte com o corpo devolvido pela SEFAZ.
func (c *Cliente) Enviar(ctx context.Context, url, envelope string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(envelope))
	if err != nil {
		return "", fmt.Errorf("sefaz: montar requisição: %w", err)
	}
	req.Header.Set("Content-Type", tipoConteudoSOAP)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("sefaz: enviar requisição: %w", err)
	}
	defer resp.Body.Close()

	corpo, err := io.ReadAll(io.LimitReader(resp.Body, limiteResposta))
	if err != nil {
		return "", fmt.Errorf("sefaz: ler resposta: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &ErroTransporte{Status: resp.StatusCode, Corpo: string(corpo)}
	}
	return string(corpo), nil
}

// EnvelopeAutorizacao embala a NFe assinada no envelope SOAP do serviço
// NFeAutorizacao4, em lote de um documento com processamento síncrono.
func EnvelopeAutorizacao(nfeAssinada, idLote string) string {
	sb := &strings.Builder{}
	sb.WriteString(`<soap12:Envelope xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xmlns:xsd="http://www.w3.org/2001/XMLSchema" xmlns:soap12="http://www.w3.org/2003/05/soap-envelope">`)
	sb.WriteString(`<soap12:Body>`)
	sb.WriteString(`<nfeDadosMsg xmlns="` + NamespaceWSDLAutorizacao + `">`)
	sb.WriteString(`<enviNFe xmlns="` + NamespacePortalFiscal + `" versao="` + VersaoLeiaute + `">`)
	sb.WriteString(`<idLote>` + idLote + `</idLote>`)
	sb.WriteString(`<indSinc>1</indSinc>`)
	sb.WriteString(nfeAssinada)
	sb.WriteString(`</enviNFe></nfeDadosMsg></soap12:Body></soap12:Envelope>`)

	envelope := sb.String()
	if !strings.HasPrefix(envelope, "<?xml") {
		envelope = "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" + envelope
	}
	return envelope
}

// EnvelopeEvento embala um evento assinado no envelope SOAP do serviço
// NFeRecepcaoEvento4.
func EnvelopeEvento(eventoAssinado, idLote string) string {
	sb := &strings.Builder{}
	sb.WriteString(`<?xml version="1.0" encoding="utf-8"?>`)
	sb.WriteString(`<soap12:Envelope xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xmlns:xsd="http://www.w3.org/2001/XMLSchema" xmlns:soap12="http://www.w3.org/2003/05/soap-envelope">`)
	sb.WriteString(`<soap12:Body>`)
	sb.WriteString(`<nfeDadosMsg xmlns="` + NamespaceWSDLRecepcaoEvento + `">`)
	sb.WriteString(`<envEvento xmlns="` + NamespacePortalFiscal + `" versao="1.00">`)
	sb.WriteString(`<idLote>` + idLote + `</idLote>`)
	sb.WriteString(`<evento xmlns="` + NamespacePortalFiscal + `" versao="1.00">`)
	sb.WriteString(eventoAssinado)
	sb.WriteString(`</evento></envEvento></nfeDadosMsg></soap12:Body></soap12:Envelope>`)
	return sb.String()
}

// GerarIDLote gera o identificador local do lote: data e hora compactas mais
// um dígito aleatório para evitar colisão de envios no mesmo segundo.
func GerarIDLote() string {
	return time.Now().Format("20060102150405") + fmt.Sprintf("%d", rand.Intn(10))
}
