package emissao

import (
	"context"
	"fmt"

	"github.com/GustavoOta/dfe/internal/domain/nota"
	"github.com/GustavoOta/dfe/internal/infrastructure/sefaz"
	"github.com/GustavoOta/dfe/pkg/logger"
	"github.com/GustavoOta/dfe/pkg/nfe"
)

// Servico executa os fluxos de emissão e de cancelamento contra a SEFAZ.
//
// Montador e Eventos ficam expostos para injeção de relógio e de política
// nos testes; os valores padrão servem para produção.
type Servico struct {
	cert      *sefaz.Certificado
	assinador *sefaz.Assinador
	cliente   Transportador
	validador ValidadorSchema
	csc       sefaz.CSC
	log       *logger.Logger

	Montador *sefaz.Montador
	Eventos  *sefaz.MontadorEvento
}

// NovoServico monta o serviço com o certificado do emitente e as portas de
// transporte e validação. O CSC só é exigido na emissão de NFC-e.
func NovoServico(cert *sefaz.Certificado, cliente Transportador, validador ValidadorSchema, csc sefaz.CSC, log *logger.Logger) *Servico {
	return &Servico{
		cert:      cert,
		assinador: sefaz.NovoAssinador(cert),
		cliente:   cliente,
		validador: validador,
		csc:       csc,
		log:       log,
		Montador:  &sefaz.Montador{},
		Eventos:   &sefaz.MontadorEvento{},
	}
}

// Resultado é o desfecho de uma emissão que chegou à SEFAZ. XML carrega o
// nfeProc quando autorizada; quando rejeitada, carrega a NFe assinada para
// diagnóstico e reenvio.
type Resultado struct {
	Chave     string
	Protocolo sefaz.InfProt
	XML       string
	ErrosItem []sefaz.ErroItem
}

// Autorizada informa se a SEFAZ autorizou o uso do documento.
func (r *Resultado) Autorizada() bool { return r.Protocolo.Autorizada() }

// Emitir executa o ciclo completo de autorização de uma NF-e/NFC-e.
// Erros tributários por item não interrompem o fluxo; seguem anexados ao
// resultado. Erros estruturais, de assinatura, de validação ou de transporte
// encerram com erro.
func (s *Servico) Emitir(ctx context.Context, doc nota.Documento) (*Resultado, error) {
	// ═══════════════════════════════════════════════════════════════════
	// 1. Montagem do infNFe e da chave de acesso
	// ═══════════════════════════════════════════════════════════════════
	montado, err := s.Montador.Montar(doc)
	if err != nil {
		return nil, fmt.Errorf("emissao: montar documento: %w", err)
	}
	for _, e := range montado.Erros {
		s.log.Warn().Int("item", e.Item).Str("tributo", e.Tributo).Err(e.Erro).
			Msg("tributação do item não resolvida; documento segue com marcador de erro")
	}
	s.log.Info().Str("chave", montado.Chave).Msg("documento montado")

	// ═══════════════════════════════════════════════════════════════════
	// 2. Assinatura digital sobre o infNFe
	// ═══════════════════════════════════════════════════════════════════
	assinatura, err := s.assinador.Assinar(montado.InfNFe, "#NFe"+montado.Chave)
	if err != nil {
		return nil, fmt.Errorf("emissao: assinar documento: %w", err)
	}

	// ═══════════════════════════════════════════════════════════════════
	// 3. Elemento NFe: infNFe + infNFeSupl (NFC-e) + Signature
	// ═══════════════════════════════════════════════════════════════════
	supl := ""
	if doc.Ide.Modelo == nfe.ModeloNFCe {
		// o infNFeSupl entra depois do infNFe e fora do conteúdo assinado
		supl, err = sefaz.MontarInfNFeSupl(montado.Chave, doc.Ide.TpAmb, s.csc)
		if err != nil {
			return nil, fmt.Errorf("emissao: montar QR Code: %w", err)
		}
	}
	nfeAssinada := `<NFe xmlns="` + sefaz.NamespacePortalFiscal + `">` + montado.InfNFe + supl + assinatura + `</NFe>`

	// ═══════════════════════════════════════════════════════════════════
	// 4. Validação estrutural antes da viagem de rede
	// ═══════════════════════════════════════════════════════════════════
	if err := s.validador.Validar(nfeAssinada); err != nil {
		return nil, &ErroValidacao{XML: nfeAssinada, Causa: err}
	}

	// ═══════════════════════════════════════════════════════════════════
	// 5. Seleção do webservice e envio
	// ═══════════════════════════════════════════════════════════════════
	uf := nfe.SiglasUF[montado.Chave[:2]]
	svcAN := doc.Ide.TpEmis == nfe.EmissaoContingenciaAN
	url, err := sefaz.URLAutorizacao(doc.Ide.TpAmb, uf, svcAN)
	if err != nil {
		return nil, fmt.Errorf("emissao: selecionar webservice: %w", err)
	}

	idLote := sefaz.GerarIDLote()
	envelope := sefaz.EnvelopeAutorizacao(nfeAssinada, idLote)
	s.log.Debug().Str("url", url).Str("idLote", idLote).Msg("enviando lote para a SEFAZ")

	resposta, err := s.cliente.Enviar(ctx, url, envelope)
	if err != nil {
		return nil, fmt.Errorf("emissao: enviar lote: %w", err)
	}

	// ═══════════════════════════════════════════════════════════════════
	// 6. Protocolo de resposta e documento de distribuição
	// ═══════════════════════════════════════════════════════════════════
	protocolo, err := sefaz.ExtrairProtocolo(resposta)
	if err != nil {
		return nil, fmt.Errorf("emissao: interpretar resposta: %w", err)
	}

	resultado := &Resultado{
		Chave:     montado.Chave,
		Protocolo: protocolo,
		ErrosItem: montado.Erros,
	}
	if protocolo.Autorizada() {
		resultado.XML = sefaz.MontarNFeProc(nfeAssinada, protocolo)
		s.log.Info().Str("chave", montado.Chave).Str("nProt", protocolo.NProt).
			Msg("documento autorizado")
	} else {
		resultado.XML = nfeAssinada
		s.log.Warn().Str("chave", montado.Chave).Int("cStat", protocolo.CStat).
			Str("xMotivo", protocolo.XMotivo).Msg("documento rejeitado pela SEFAZ")
	}
	return resultado, nil
}
