package imposto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Alíquotas de teste do período de transição da reforma tributária.
var (
	aliquotaIBSUF  = decimal.New(1, -3) // 0,1%
	aliquotaIBSMun = decimal.New(0, -3) // 0,0%
	aliquotaCBS    = decimal.New(9, -3) // 0,9%
)

// A partir desta data o grupo IBSCBSTot passa a ser obrigatório e deixa de
// poder ser desligado por configuração.
var inicioObrigatorioIBSCBS = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.Local)

// PoliticaIBSCBS decide se os totais de IBS/CBS entram na nota. Antes da data
// de corte o grupo é opcional (ativo por padrão, desligável por configuração);
// a partir dela é sempre emitido. Agora é injetado para a decisão ser
// determinística em teste; zero usa o relógio do sistema.
type PoliticaIBSCBS struct {
	Agora      time.Time
	Desativado bool
}

// Aplicavel informa se o grupo IBSCBSTot deve ser emitido.
func (p PoliticaIBSCBS) Aplicavel() bool {
	agora := p.Agora
	if agora.IsZero() {
		agora = time.Now()
	}
	if !agora.Before(inicioObrigatorioIBSCBS) {
		return true
	}
	return !p.Desativado
}

// TotaisIBSCBS carrega os totais calculados do grupo, já formatados. Os campos
// fixos do leiaute (vDif, vDevTrib, vCredPres) são sempre zero nesta fase e
// ficam a cargo do serializador.
type TotaisIBSCBS struct {
	VBC     string // base de cálculo somada dos itens
	VIBSUF  string
	VIBSMun string
	VIBS    string
	VCBS    string
}

// CalcularTotaisIBSCBS aplica as alíquotas de transição sobre a soma das bases
// de cálculo informadas nos itens.
func CalcularTotaisIBSCBS(bases []decimal.Decimal) TotaisIBSCBS {
	base := decimal.Zero
	for _, b := range bases {
		base = base.Add(b)
	}
	ibsUF := base.Mul(aliquotaIBSUF)
	ibsMun := base.Mul(aliquotaIBSMun)
	return TotaisIBSCBS{
		VBC:     Valor2(base),
		VIBSUF:  Valor2(ibsUF),
		VIBSMun: Valor2(ibsMun),
		VIBS:    Valor2(ibsUF.Add(ibsMun)),
		VCBS:    Valor2(base.Mul(aliquotaCBS)),
	}
}
