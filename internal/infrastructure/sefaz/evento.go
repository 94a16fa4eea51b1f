// Eventos da NF-e: montagem e assinatura do evento de cancelamento.

package sefaz

import (
	"fmt"
	"strings"
	"time"

	"github.com/GustavoOta/dfe/pkg/nfe"
)

// TipoEventoCancelamento é o código do evento de cancelamento no registro
// de eventos da NF-e.
const TipoEventoCancelamento = "110111"

// VersaoEvento é a versão do leiaute de eventos.
const VersaoEvento = "1.00"

// ContadorSequencia fornece o nSeqEvento do próximo evento de uma chave.
// O mesmo tipo de evento pode ser registrado mais de uma vez por documento
// e a SEFAZ exige sequência crescente.
type ContadorSequencia interface {
	Proximo(chave string) (int, error)
}

// SequenciaFixa devolve sempre a sequência 1. Serve para emissores que
// registram no máximo um cancelamento por documento; emissores com
// reenvio de eventos devem fornecer um contador persistente.
type SequenciaFixa struct{}

func (SequenciaFixa) Proximo(string) (int, error) { return 1, nil }

// Cancelamento dados de entrada do evento de cancelamento.
type Cancelamento struct {
	Chave         string
	Protocolo     string // nProt da autorização que será cancelada
	Justificativa string
	TpAmb         int
}

// EventoMontado resultado da montagem: o identificador do evento e o XML
// do infEvento com a assinatura anexada, pronto para o envelope.
type EventoMontado struct {
	ID        string
	Sequencia int
	XML       string
}

// MontadorEvento monta eventos assinados. Relogio nulo usa o relógio do
// sistema; Sequencia nula usa SequenciaFixa.
type MontadorEvento struct {
	Relogio   func() time.Time
	Sequencia ContadorSequencia
}

func (m *MontadorEvento) agora() time.Time {
	if m.Relogio != nil {
		return m.Relogio()
	}
	return time.Now()
}

// MontarCancelamento monta o infEvento do cancelamento, assina com a
// referência ao identificador do evento e devolve o conjunto pronto para
// o envelope do NFeRecepcaoEvento4.
func (m *MontadorEvento) MontarCancelamento(c Cancelamento, assinador *Assinador) (*EventoMontado, error) {
	comp, err := nfe.Decompor(c.Chave)
	if err != nil {
		return nil, fmt.Errorf("sefaz: chave do cancelamento: %w", err)
	}
	if c.Protocolo == "" {
		return nil, fmt.Errorf("sefaz: protocolo de autorização não informado para cancelamento")
	}
	if n := len(c.Justificativa); n < 15 || n > 255 {
		return nil, fmt.Errorf("sefaz: justificativa deve ter entre 15 e 255 caracteres, recebidos %d", n)
	}

	contador := m.Sequencia
	if contador == nil {
		contador = SequenciaFixa{}
	}
	seq, err := contador.Proximo(c.Chave)
	if err != nil {
		return nil, fmt.Errorf("sefaz: sequência do evento: %w", err)
	}

	id := fmt.Sprintf("ID%s%s%02d", TipoEventoCancelamento, c.Chave, seq)
	dhEvento := nfe.FormatarDataHora(m.agora())

	sb := &strings.Builder{}
	sb.WriteString(`<infEvento xmlns="` + NamespacePortalFiscal + `" Id="` + id + `">`)
	tag(sb, "cOrgao", comp.UF)
	tagInt(sb, "tpAmb", c.TpAmb)
	tag(sb, "CNPJ", comp.Doc)
	tag(sb, "chNFe", c.Chave)
	tag(sb, "dhEvento", dhEvento)
	tag(sb, "tpEvento", TipoEventoCancelamento)
	tagInt(sb, "nSeqEvento", seq)
	tag(sb, "verEvento", VersaoEvento)
	sb.WriteString(`<detEvento versao="` + VersaoEvento + `">`)
	tag(sb, "descEvento", "Cancelamento")
	tag(sb, "nProt", c.Protocolo)
	tag(sb, "xJust", c.Justificativa)
	sb.WriteString(`</detEvento>`)
	sb.WriteString(`</infEvento>`)

	infEvento := LimparXML(sb.String())
	assinatura, err := assinador.Assinar(infEvento, "#"+id)
	if err != nil {
		return nil, fmt.Errorf("sefaz: assinar evento: %w", err)
	}

	return &EventoMontado{
		ID:        id,
		Sequencia: seq,
		XML:       infEvento + assinatura,
	}, nil
}
