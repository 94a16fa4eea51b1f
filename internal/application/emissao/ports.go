// Package emissao orquestra o ciclo de emissão e cancelamento de NF-e/NFC-e:
//
//	montagem do infNFe → assinatura → validação → envelope SOAP → SEFAZ
//
// As dependências de rede e de validação entram por portas, para permitir
// testes sem tocar os webservices reais.
package emissao

import "context"

// Transportador envia um envelope SOAP e devolve o corpo da resposta.
type Transportador interface {
	Enviar(ctx context.Context, url, envelope string) (string, error)
}

// ValidadorSchema confere o documento montado antes do envio.
type ValidadorSchema interface {
	Validar(xml string) error
}

// ErroValidacao carrega o documento reprovado na validação pré-envio, para
// inspeção do markup que causou a falha.
type ErroValidacao struct {
	XML   string
	Causa error
}

func (e *ErroValidacao) Error() string {
	return "emissao: documento reprovado na validação: " + e.Causa.Error()
}

func (e *ErroValidacao) Unwrap() error { return e.Causa }
