package sefaz

import (
	"fmt"
	"strconv"

	"github.com/GustavoOta/dfe/pkg/nfe"
)

// InfProt é o protocolo de processamento devolvido pela SEFAZ na autorização
// (tag infProt de protNFe). cStat 100 significa autorizada; qualquer outro
// código é rejeição de negócio, não falha de transporte.
type InfProt struct {
	TpAmb    int
	VerAplic string
	ChNFe    string
	DhRecbto string
	NProt    string
	DigVal   string
	CStat    int
	XMotivo  string
}

// Autorizada informa se a nota foi autorizada pela SEFAZ.
func (p InfProt) Autorizada() bool {
	return p.CStat == nfe.StatusAutorizado
}

// RetornoAutorizacao é o resultado da emissão: o protocolo da SEFAZ e o XML
// final. Quando autorizada, XML é o nfeProc completo (nota + protocolo);
// quando rejeitada, é o XML assinado enviado, sem protocolo mesclado.
type RetornoAutorizacao struct {
	Protocolo InfProt
	XML       string
}

// InfEvento é a resposta da SEFAZ a um evento (tag infEvento do retorno de
// recepção de evento). cStat 135 significa evento registrado e vinculado.
type InfEvento struct {
	TpAmb       string
	VerAplic    string
	COrgao      string
	CStat       string
	XMotivo     string
	ChNFe       string
	TpEvento    string
	NSeqEvento  string
	DhRegEvento string
}

// Registrado informa se a SEFAZ registrou o evento e o vinculou à nota.
func (e InfEvento) Registrado() bool {
	cStat, err := strconv.Atoi(e.CStat)
	return err == nil && cStat == nfe.StatusEventoVinculado
}

// RetornoEvento é o resultado de um evento de cancelamento, com os XMLs
// trafegados para auditoria.
type RetornoEvento struct {
	Evento     InfEvento
	XMLEnvio   string
	XMLRetorno string
}

// ErroTransporte indica que a chamada nunca foi processada pela SEFAZ
// (HTTP fora da faixa 2xx). É distinto de rejeição de negócio: rejeição chega
// como RetornoAutorizacao/RetornoEvento com cStat de erro.
type ErroTransporte struct {
	Status int
	Corpo  string
}

func (e *ErroTransporte) Error() string {
	return fmt.Sprintf("sefaz: requisição recusada: status %d -> %s", e.Status, e.Corpo)
}
