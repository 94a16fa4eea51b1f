package domain

import "errors"

// Erros de domínio (sem dependências externas).
var (
	ErrEntradaInvalida       = errors.New("entrada inválida")
	ErrCertificadoInvalido   = errors.New("certificado digital inválido ou sem chave privada RSA")
	ErrSchemaInvalido        = errors.New("documento não passou na validação de schema")
	ErrEndpointNaoEncontrado = errors.New("webservice não encontrado para a combinação informada")
	ErrRespostaInesperada    = errors.New("resposta da SEFAZ em formato inesperado")
)
