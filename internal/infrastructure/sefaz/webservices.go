package sefaz

import (
	"fmt"

	"github.com/GustavoOta/dfe/internal/domain"
	"github.com/GustavoOta/dfe/pkg/nfe"
)

// Serviços da versão 4.00 dos webservices da NF-e.
const (
	ServicoInutilizacao      = "NfeInutilizacao"
	ServicoConsultaProtocolo = "NfeConsultaProtocolo"
	ServicoStatusServico     = "NfeStatusServico"
	ServicoConsultaCadastro  = "NfeConsultaCadastro"
	ServicoRecepcaoEvento    = "RecepcaoEvento"
	ServicoAutorizacao       = "NFeAutorizacao"
	ServicoRetAutorizacao    = "NFeRetAutorizacao"
)

type endpoint struct {
	servico  string
	ambiente int
	uf       string
	svcAN    bool
}

// Diretório estático dos webservices: SEFAZ-SP e SVC-AN (contingência).
var endpoints = map[endpoint]string{
	// ── SEFAZ-SP, produção ───────────────────────────────────────────────
	{ServicoInutilizacao, nfe.AmbienteProducao, "SP", false}:      "https://nfe.fazenda.sp.gov.br/ws/nfeinutilizacao4.asmx",
	{ServicoConsultaProtocolo, nfe.AmbienteProducao, "SP", false}: "https://nfe.fazenda.sp.gov.br/ws/nfeconsultaprotocolo4.asmx",
	{ServicoStatusServico, nfe.AmbienteProducao, "SP", false}:     "https://nfe.fazenda.sp.gov.br/ws/nfestatusservico4.asmx",
	{ServicoConsultaCadastro, nfe.AmbienteProducao, "SP", false}:  "https://nfe.fazenda.sp.gov.br/ws/cadconsultacadastro4.asmx",
	{ServicoRecepcaoEvento, nfe.AmbienteProducao, "SP", false}:    "https://nfe.fazenda.sp.gov.br/ws/nferecepcaoevento4.asmx",
	{ServicoAutorizacao, nfe.AmbienteProducao, "SP", false}:       "https://nfe.fazenda.sp.gov.br/ws/nfeautorizacao4.asmx",
	{ServicoRetAutorizacao, nfe.AmbienteProducao, "SP", false}:    "https://nfe.fazenda.sp.gov.br/ws/nferetautorizacao4.asmx",

	// ── SEFAZ-SP, homologação ────────────────────────────────────────────
	{ServicoInutilizacao, nfe.AmbienteHomologacao, "SP", false}:      "https://homologacao.nfe.fazenda.sp.gov.br/ws/nfeinutilizacao4.asmx",
	{ServicoConsultaProtocolo, nfe.AmbienteHomologacao, "SP", false}: "https://homologacao.nfe.fazenda.sp.gov.br/ws/nfeconsultaprotocolo4.asmx",
	{ServicoStatusServico, nfe.AmbienteHomologacao, "SP", false}:     "https://homologacao.nfe.fazenda.sp.gov.br/ws/nfestatusservico4.asmx",
	{ServicoConsultaCadastro, nfe.AmbienteHomologacao, "SP", false}:  "https://homologacao.nfe.fazenda.sp.gov.br/ws/cadconsultacadastro4.asmx",
	{ServicoRecepcaoEvento, nfe.AmbienteHomologacao, "SP", false}:    "https://homologacao.nfe.fazenda.sp.gov.br/ws/nferecepcaoevento4.asmx",
	{ServicoAutorizacao, nfe.AmbienteHomologacao, "SP", false}:       "https://homologacao.nfe.fazenda.sp.gov.br/ws/nfeautorizacao4.asmx",
	{ServicoRetAutorizacao, nfe.AmbienteHomologacao, "SP", false}:    "https://homologacao.nfe.fazenda.sp.gov.br/ws/nferetautorizacao4.asmx",

	// ── SVC-AN, produção ─────────────────────────────────────────────────
	{ServicoConsultaProtocolo, nfe.AmbienteProducao, "SP", true}: "https://www.svc.fazenda.gov.br/NFeConsultaProtocolo4/NFeConsultaProtocolo4.asmx",
	{ServicoStatusServico, nfe.AmbienteProducao, "SP", true}:     "https://www.svc.fazenda.gov.br/NFeStatusServico4/NFeStatusServico4.asmx",
	{ServicoRecepcaoEvento, nfe.AmbienteProducao, "SP", true}:    "https://www.svc.fazenda.gov.br/NFeRecepcaoEvento4/NFeRecepcaoEvento4.asmx",
	{ServicoAutorizacao, nfe.AmbienteProducao, "SP", true}:       "https://www.svc.fazenda.gov.br/NFeAutorizacao4/NFeAutorizacao4.asmx",
	{ServicoRetAutorizacao, nfe.AmbienteProducao, "SP", true}:    "https://www.svc.fazenda.gov.br/NFeRetAutorizacao4/NFeRetAutorizacao4.asmx",

	// ── SVC-AN, homologação ──────────────────────────────────────────────
	{ServicoConsultaProtocolo, nfe.AmbienteHomologacao, "SP", true}: "https://hom.svc.fazenda.gov.br/NFeConsultaProtocolo4/NFeConsultaProtocolo4.asmx",
	{ServicoStatusServico, nfe.AmbienteHomologacao, "SP", true}:     "https://hom.svc.fazenda.gov.br/NFeStatusServico4/NFeStatusServico4.asmx",
	{ServicoRecepcaoEvento, nfe.AmbienteHomologacao, "SP", true}:    "https://hom.svc.fazenda.gov.br/NFeRecepcaoEvento4/NFeRecepcaoEvento4.asmx",
	{ServicoAutorizacao, nfe.AmbienteHomologacao, "SP", true}:       "https://hom.svc.fazenda.gov.br/NFeAutorizacao4/NFeAutorizacao4.asmx",
	{ServicoRetAutorizacao, nfe.AmbienteHomologacao, "SP", true}:    "https://hom.svc.fazenda.gov.br/NFeRetAutorizacao4/NFeRetAutorizacao4.asmx",
}

// URLServico resolve a URL do webservice para o serviço, ambiente (1=produção,
// 2=homologação), UF e modo de contingência SVC-AN. Combinação fora do
// diretório devolve ErrEndpointNaoEncontrado.
func URLServico(servico string, ambiente int, uf string, svcAN bool) (string, error) {
	url, ok := endpoints[endpoint{servico, ambiente, uf, svcAN}]
	if !ok {
		return "", fmt.Errorf("sefaz: %w: %s ambiente=%d uf=%s svc=%t",
			domain.ErrEndpointNaoEncontrado, servico, ambiente, uf, svcAN)
	}
	return url, nil
}

// URLAutorizacao resolve o endpoint de autorização da NF-e/NFC-e.
func URLAutorizacao(ambiente int, uf string, svcAN bool) (string, error) {
	return URLServico(ServicoAutorizacao, ambiente, uf, svcAN)
}

// URLRecepcaoEvento resolve o endpoint de recepção de eventos (cancelamento).
func URLRecepcaoEvento(ambiente int, uf string, svcAN bool) (string, error) {
	return URLServico(ServicoRecepcaoEvento, ambiente, uf, svcAN)
}

// URLStatusServico resolve o endpoint de consulta de status do serviço.
func URLStatusServico(ambiente int, uf string, svcAN bool) (string, error) {
	return URLServico(ServicoStatusServico, ambiente, uf, svcAN)
}
