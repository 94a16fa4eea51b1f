package nfe

// =============================================================================
// Modelos de documento fiscal (layout 4.00, campo mod da tag ide)
// =============================================================================

const (
	ModeloNFe  = 55 // NF-e emitida em substituição ao modelo 1 ou 1A
	ModeloNFCe = 65 // NFC-e, utilizada nas operações de venda no varejo
)

// =============================================================================
// Identificação do ambiente (campo tpAmb)
// =============================================================================

const (
	AmbienteProducao    = 1
	AmbienteHomologacao = 2
)

// =============================================================================
// Tipo de emissão (campo tpEmis) - valores de uso corrente
// =============================================================================

const (
	EmissaoNormal         = 1 // Emissão normal (não em contingência)
	EmissaoContingenciaAN = 6 // Contingência SVC-AN (SEFAZ Virtual de Contingência do AN)
)

// =============================================================================
// Códigos de status de retorno (cStat) que encerram o fluxo com sucesso
// =============================================================================

const (
	StatusAutorizado      = 100 // Autorizado o uso da NF-e
	StatusEventoVinculado = 135 // Evento registrado e vinculado a NF-e
)

// =============================================================================
// Meios de pagamento (campo tPag da tag detPag) - códigos de uso frequente
// =============================================================================

const (
	PagamentoDinheiro      = "01" // Dinheiro
	PagamentoCheque        = "02" // Cheque
	PagamentoCartaoCredito = "03" // Cartão de Crédito
	PagamentoCartaoDebito  = "04" // Cartão de Débito
	PagamentoPix           = "17" // Pagamento Instantâneo (PIX)
	PagamentoSemPagamento  = "90" // Sem pagamento
)

// SiglasUF mapeia o código IBGE da UF (2 dígitos da chave de acesso) para a
// sigla usada na seleção de webservice.
var SiglasUF = map[string]string{
	"11": "RO", "12": "AC", "13": "AM", "14": "RR", "15": "PA", "16": "AP",
	"17": "TO", "21": "MA", "22": "PI", "23": "CE", "24": "RN", "25": "PB",
	"26": "PE", "27": "AL", "28": "SE", "29": "BA", "31": "MG", "32": "ES",
	"33": "RJ", "35": "SP", "41": "PR", "42": "SC", "43": "RS", "50": "MS",
	"51": "MT", "52": "GO", "53": "DF",
}
