package emissao

import (
	"context"
	"fmt"

	"github.com/GustavoOta/dfe/internal/infrastructure/sefaz"
	"github.com/GustavoOta/dfe/pkg/nfe"
)

// Cancelar registra o evento de cancelamento de um documento autorizado.
// A SEFAZ aceita o registro quando devolve cStat 135 no infEvento de
// retorno; qualquer outro código segue no retorno para decisão do chamador.
func (s *Servico) Cancelar(ctx context.Context, c sefaz.Cancelamento) (*sefaz.RetornoEvento, error) {
	// ═══════════════════════════════════════════════════════════════════
	// 1. Montagem e assinatura do evento
	// ═══════════════════════════════════════════════════════════════════
	evento, err := s.Eventos.MontarCancelamento(c, s.assinador)
	if err != nil {
		return nil, fmt.Errorf("emissao: montar cancelamento: %w", err)
	}
	s.log.Info().Str("chave", c.Chave).Int("sequencia", evento.Sequencia).
		Msg("evento de cancelamento montado")

	// ═══════════════════════════════════════════════════════════════════
	// 2. Envelope e seleção do webservice de eventos
	// ═══════════════════════════════════════════════════════════════════
	envelope := sefaz.EnvelopeEvento(evento.XML, sefaz.GerarIDLote())

	comp, err := nfe.Decompor(c.Chave)
	if err != nil {
		return nil, fmt.Errorf("emissao: chave do cancelamento: %w", err)
	}
	url, err := sefaz.URLRecepcaoEvento(c.TpAmb, nfe.SiglasUF[comp.UF], false)
	if err != nil {
		return nil, fmt.Errorf("emissao: selecionar webservice de eventos: %w", err)
	}

	// ═══════════════════════════════════════════════════════════════════
	// 3. Envio e interpretação do retorno
	// ═══════════════════════════════════════════════════════════════════
	resposta, err := s.cliente.Enviar(ctx, url, envelope)
	if err != nil {
		return nil, fmt.Errorf("emissao: enviar evento: %w", err)
	}

	infEvento, err := sefaz.ExtrairInfEvento(resposta)
	if err != nil {
		return nil, fmt.Errorf("emissao: interpretar retorno do evento: %w", err)
	}

	if infEvento.Registrado() {
		s.log.Info().Str("chave", c.Chave).Msg("cancelamento registrado e vinculado")
	} else {
		s.log.Warn().Str("chave", c.Chave).Str("cStat", infEvento.CStat).
			Str("xMotivo", infEvento.XMotivo).Msg("evento de cancelamento não registrado")
	}

	return &sefaz.RetornoEvento{
		Evento:     infEvento,
		XMLEnvio:   envelope,
		XMLRetorno: resposta,
	}, nil
}
