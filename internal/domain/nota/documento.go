// Package nota define o modelo de entrada da NF-e/NFC-e: os dados que o
// emissor informa antes da montagem, assinatura e transmissão do documento.
package nota

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/GustavoOta/dfe/internal/domain/imposto"
)

// Documento reúne tudo que o emissor informa para uma NF-e (modelo 55) ou
// NFC-e (modelo 65). Dest é opcional: NFC-e pode sair sem destinatário.
type Documento struct {
	Ide     Identificacao
	Emit    Emitente
	Dest    *Destinatario
	Itens   []Item
	Total   Total
	Transp  Transporte
	Pag     Pagamento
	InfAdic *InfAdic
}

// Identificacao corresponde ao grupo ide do leiaute.
type Identificacao struct {
	// Código IBGE da UF do emitente. Ex: 35 = São Paulo.
	CUF int
	// Código numérico da chave de acesso (8 dígitos). Vazio gera aleatório.
	CNF string
	// Descrição da natureza da operação. Ex: "Venda de mercadorias".
	NatOp string
	// 0=à vista, 1=a prazo, 2=outros. Nulo omite a tag.
	IndPag *int
	// 55=NF-e, 65=NFC-e.
	Modelo int
	Serie  int
	Numero int64
	// Zero usa o relógio na emissão, em horário de Brasília.
	DhEmi time.Time
	// Ignorado no modelo 65. Zero usa o relógio na emissão.
	DhSaiEnt time.Time
	// 0=entrada, 1=saída.
	TpNF int
	// 1=interna, 2=interestadual, 3=exterior.
	IdDest int
	// Código IBGE do município do fato gerador. Ex: 3550308.
	CMunFG string
	// Formato do DANFE. 1=retrato, 4=DANFE NFC-e.
	TpImp int
	// 1=normal, 6=contingência SVC-AN, 9=off-line NFC-e.
	TpEmis int
	// 1=produção, 2=homologação.
	TpAmb int
	// 1=normal, 2=complementar, 3=ajuste, 4=devolução.
	FinNFe int
	// 1=consumidor final.
	IndFinal int
	// 1=operação presencial.
	IndPres int
	// 0=aplicativo do contribuinte.
	ProcEmi int
	// Versão do aplicativo emissor. Ex: "1.0.0".
	VerProc string
}

// Emitente corresponde ao grupo emit.
type Emitente struct {
	CNPJ string
	CPF  string
	// Razão social.
	XNome string
	// Nome fantasia (opcional).
	XFant    string
	Endereco Endereco
	// Inscrição estadual.
	IE string
	// Código de regime tributário. 1=Simples Nacional, 3=regime normal.
	CRT int
}

// Endereco é o endereço do emitente (enderEmit).
type Endereco struct {
	XLgr    string
	Nro     string
	XBairro string
	// Código IBGE do município.
	CMun string
	XMun string
	UF   string
	CEP  string
	// Vazio assume 1058/BRASIL.
	CPais string
	XPais string
}

// Destinatario corresponde ao grupo dest. Exatamente um entre CPF, CNPJ e
// IdEstrangeiro identifica o destinatário.
type Destinatario struct {
	CPF           string
	CNPJ          string
	IdEstrangeiro string
	XNome         string
	Endereco      EnderecoDest
	// 1=contribuinte, 2=isento, 9=não contribuinte. Nulo omite a tag.
	IndIEDest *int
	IE        string
	Email     string
}

// EnderecoDest é o endereço do destinatário (enderDest).
type EnderecoDest struct {
	XLgr    string
	Nro     string
	XBairro string
	CMun    string
	XMun    string
	UF      string
	CEP     string
	CPais   string
	XPais   string
	Fone    string
}

// Item é uma linha da nota: o produto mais os seletores de regime de cada
// tributo, resolvidos item a item pelo pacote imposto.
type Item struct {
	CProd string
	// "SEM GTIN" quando o produto não tem código de barras.
	CEAN  string
	XProd string
	NCM   string
	CEST  string
	CFOP  string
	UCom  string
	QCom  decimal.Decimal
	// Informativo; o valor do item é VProd.
	VUnCom   decimal.Decimal
	VProd    decimal.Decimal
	CEANTrib string
	UTrib    string
	QTrib    decimal.Decimal
	VUnTrib  decimal.Decimal
	// 1=compõe o total da nota.
	IndTot int
	XPed   string

	ICMS   imposto.CamposICMS
	PIS    imposto.CamposPIS
	COFINS imposto.CamposCOFINS

	// Base de cálculo do IBS/CBS do item, quando o grupo estiver ativo.
	BaseIBSCBS *decimal.Decimal

	VTotTrib  decimal.Decimal
	InfAdProd string
}

// Total corresponde ao grupo ICMSTot, na ordem do leiaute.
type Total struct {
	VBC          decimal.Decimal
	VICMS        decimal.Decimal
	VICMSDeson   decimal.Decimal
	VFCPUFDest   decimal.Decimal
	VICMSUFDest  decimal.Decimal
	VICMSUFRemet decimal.Decimal
	VFCP         decimal.Decimal
	VBCST        decimal.Decimal
	VST          decimal.Decimal
	VFCPST       decimal.Decimal
	VFCPSTRet    decimal.Decimal
	VProd        decimal.Decimal
	VFrete       decimal.Decimal
	VSeg         decimal.Decimal
	VDesc        decimal.Decimal
	VII          decimal.Decimal
	VIPI         decimal.Decimal
	VIPIDevol    decimal.Decimal
	VPIS         decimal.Decimal
	VCOFINS      decimal.Decimal
	VOutro       decimal.Decimal
	VNF          decimal.Decimal
	VTotTrib     decimal.Decimal
}

// Transporte corresponde ao grupo transp.
type Transporte struct {
	// 0=emitente, 1=destinatário, 2=terceiros, 9=sem frete.
	ModFrete int
}

// Pagamento corresponde ao grupo pag/detPag.
type Pagamento struct {
	// 0=à vista, 1=a prazo.
	IndPag int
	// Forma de pagamento. Ex: "01" dinheiro, "17" PIX.
	TPag string
	XPag string
	VPag decimal.Decimal
	// Preenchido em pagamento com cartão ou PIX: 1=integrado (TEF),
	// qualquer outro valor vira 2=não integrado (POS).
	TpIntegra *int
	CNPJ      string
	TBand     string
	CAut      string
	VTroco    string
}

// InfAdic corresponde ao grupo infAdic.
type InfAdic struct {
	InfCpl string
}
