// Package imposto resolve o regime de tributação de cada item da nota.
//
// O chamador informa um seletor de regime (ICMS00, ICMSSN102, PISAliq...) e um
// conjunto de campos opcionais; o resolvedor valida os campos obrigatórios do
// regime escolhido e devolve o grupo pronto para serialização, já com os
// valores formatados. Um item com regime inválido não aborta a nota: o erro
// tipado fica anexado àquele item e os demais seguem normalmente.
package imposto

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Campo é um par tag/valor já formatado para serialização.
type Campo struct {
	Nome  string
	Valor string
}

// Grupo é um sub-grupo de tributação resolvido, com os campos na ordem em que
// devem ser serializados.
type Grupo struct {
	Nome   string
	Campos []Campo
}

// Resolucao carrega o grupo resolvido ou o erro tipado do item. Exatamente um
// dos dois é preenchido.
type Resolucao struct {
	Grupo *Grupo
	Erro  error
}

// CamposICMS reúne o seletor de regime do ICMS e os campos que os regimes
// podem exigir. Ponteiro nulo significa campo não informado.
type CamposICMS struct {
	Seletor string
	Orig    *int
	CST     string
	CSOSN   string
	ModBC   *int
	VBC     *decimal.Decimal
	PICMS   *decimal.Decimal
	VICMS   *decimal.Decimal

	// Simples Nacional
	PCredSN     *decimal.Decimal
	VCredICMSSN *decimal.Decimal
	VBCSTRet    *decimal.Decimal
	VICMSSTRet  *decimal.Decimal

	// Substituição tributária (ICMSSN900)
	PRedBC   *decimal.Decimal
	ModBCST  *int
	PMVAST   *decimal.Decimal
	PRedBCST *decimal.Decimal
	VBCST    *decimal.Decimal
	PICMSST  *decimal.Decimal
	VICMSST  *decimal.Decimal
}

// CamposPIS reúne o seletor de regime do PIS e os campos possíveis.
type CamposPIS struct {
	Seletor   string
	CST       string
	VBC       *decimal.Decimal
	PPIS      *decimal.Decimal
	VPIS      *decimal.Decimal
	QBCProd   *decimal.Decimal
	VAliqProd *decimal.Decimal
}

// CamposCOFINS reúne o seletor de regime da COFINS e os campos possíveis.
type CamposCOFINS struct {
	Seletor   string
	CST       string
	VBC       *decimal.Decimal
	PCOFINS   *decimal.Decimal
	VCOFINS   *decimal.Decimal
	QBCProd   *decimal.Decimal
	VAliqProd *decimal.Decimal
}

func campo(nome, valor string) Campo {
	return Campo{Nome: nome, Valor: valor}
}

func grupo(nome string, campos ...Campo) Resolucao {
	return Resolucao{Grupo: &Grupo{Nome: nome, Campos: campos}}
}

func falta(tributo, regime, nome string) Resolucao {
	return Resolucao{Erro: &ErroCampoObrigatorio{Tributo: tributo, Regime: regime, Campo: nome}}
}

// ResolverICMS mapeia o seletor de regime do ICMS para o grupo correspondente.
func ResolverICMS(c CamposICMS) Resolucao {
	switch c.Seletor {
	case "ICMS00":
		return resolverICMS00(c)
	case "ICMS40":
		// Isenta/não tributada: grupo fixo, sem campos do chamador.
		return grupo("ICMS40", campo("orig", "0"), campo("CST", "41"))
	case "ICMS90":
		return resolverICMS90(c)
	case "ICMSSN101":
		return resolverICMSSN101(c)
	case "ICMSSN102":
		return resolverICMSSN102(c)
	case "ICMSSN500":
		return resolverICMSSN500(c)
	case "ICMSSN900":
		return resolverICMSSN900(c)
	default:
		return Resolucao{Erro: &ErroRegimeNaoSuportado{Tributo: "ICMS", Seletor: c.Seletor}}
	}
}

// Tributação integral pela alíquota normal.
func resolverICMS00(c CamposICMS) Resolucao {
	if c.Orig == nil {
		return falta("ICMS", "ICMS00", "orig")
	}
	if c.CST == "" {
		return falta("ICMS", "ICMS00", "CST")
	}
	if c.ModBC == nil {
		return falta("ICMS", "ICMS00", "modBC")
	}
	if c.VBC == nil {
		return falta("ICMS", "ICMS00", "vBC")
	}
	if c.PICMS == nil {
		return falta("ICMS", "ICMS00", "pICMS")
	}
	if c.VICMS == nil {
		return falta("ICMS", "ICMS00", "vICMS")
	}
	return grupo("ICMS00",
		campo("orig", strconv.Itoa(*c.Orig)),
		campo("CST", c.CST),
		campo("modBC", strconv.Itoa(*c.ModBC)),
		campo("vBC", Valor2(*c.VBC)),
		campo("pICMS", Aliquota4(*c.PICMS)),
		campo("vICMS", Valor2(*c.VICMS)),
	)
}

func resolverICMS90(c CamposICMS) Resolucao {
	if c.Orig == nil {
		return falta("ICMS", "ICMS90", "orig")
	}
	if c.CST == "" {
		return falta("ICMS", "ICMS90", "CST")
	}
	return grupo("ICMS90",
		campo("orig", strconv.Itoa(*c.Orig)),
		campo("CST", c.CST),
	)
}

// Tributada pelo Simples Nacional com permissão de crédito.
func resolverICMSSN101(c CamposICMS) Resolucao {
	if c.Orig == nil {
		return falta("ICMS", "ICMSSN101", "orig")
	}
	if c.CSOSN == "" {
		return falta("ICMS", "ICMSSN101", "CSOSN")
	}
	return grupo("ICMSSN101",
		campo("orig", strconv.Itoa(*c.Orig)),
		campo("CSOSN", c.CSOSN),
	)
}

// Tributada pelo Simples Nacional sem permissão de crédito.
func resolverICMSSN102(c CamposICMS) Resolucao {
	if c.Orig == nil {
		return falta("ICMS", "ICMSSN102", "orig")
	}
	if c.CSOSN == "" {
		return falta("ICMS", "ICMSSN102", "CSOSN")
	}
	if c.PCredSN == nil {
		return falta("ICMS", "ICMSSN102", "pCredSN")
	}
	if c.VCredICMSSN == nil {
		return falta("ICMS", "ICMSSN102", "vCredICMSSN")
	}
	return grupo("ICMSSN102",
		campo("orig", strconv.Itoa(*c.Orig)),
		campo("CSOSN", c.CSOSN),
		campo("pCredSN", Aliquota4(*c.PCredSN)),
		campo("vCredICMSSN", Valor2(*c.VCredICMSSN)),
	)
}

// ICMS cobrado anteriormente por substituição tributária.
func resolverICMSSN500(c CamposICMS) Resolucao {
	if c.Orig == nil {
		return falta("ICMS", "ICMSSN500", "orig")
	}
	if c.CSOSN == "" {
		return falta("ICMS", "ICMSSN500", "CSOSN")
	}
	campos := []Campo{
		campo("orig", strconv.Itoa(*c.Orig)),
		campo("CSOSN", c.CSOSN),
	}
	if c.VBCSTRet != nil {
		campos = append(campos, campo("vBCSTRet", Valor2(*c.VBCSTRet)))
	}
	if c.VICMSSTRet != nil {
		campos = append(campos, campo("vICMSSTRet", Valor2(*c.VICMSSTRet)))
	}
	return grupo("ICMSSN500", campos...)
}

// "Outros" do Simples Nacional: só origem e CSOSN são obrigatórios, o resto
// entra na ordem do leiaute quando informado.
func resolverICMSSN900(c CamposICMS) Resolucao {
	if c.Orig == nil {
		return falta("ICMS", "ICMSSN900", "orig")
	}
	if c.CSOSN == "" {
		return falta("ICMS", "ICMSSN900", "CSOSN")
	}
	campos := []Campo{
		campo("orig", strconv.Itoa(*c.Orig)),
		campo("CSOSN", c.CSOSN),
	}
	if c.ModBC != nil {
		campos = append(campos, campo("modBC", strconv.Itoa(*c.ModBC)))
	}
	if c.VBC != nil {
		campos = append(campos, campo("vBC", Valor2(*c.VBC)))
	}
	if c.PRedBC != nil {
		campos = append(campos, campo("pRedBC", Aliquota4(*c.PRedBC)))
	}
	if c.PICMS != nil {
		campos = append(campos, campo("pICMS", Aliquota4(*c.PICMS)))
	}
	if c.VICMS != nil {
		campos = append(campos, campo("vICMS", Valor2(*c.VICMS)))
	}
	if c.ModBCST != nil {
		campos = append(campos, campo("modBCST", strconv.Itoa(*c.ModBCST)))
	}
	if c.PMVAST != nil {
		campos = append(campos, campo("pMVAST", Aliquota4(*c.PMVAST)))
	}
	if c.PRedBCST != nil {
		campos = append(campos, campo("pRedBCST", Aliquota4(*c.PRedBCST)))
	}
	if c.VBCST != nil {
		campos = append(campos, campo("vBCST", Valor2(*c.VBCST)))
	}
	if c.PICMSST != nil {
		campos = append(campos, campo("pICMSST", Aliquota4(*c.PICMSST)))
	}
	if c.VICMSST != nil {
		campos = append(campos, campo("vICMSST", Valor2(*c.VICMSST)))
	}
	if c.PCredSN != nil {
		campos = append(campos, campo("pCredSN", Aliquota4(*c.PCredSN)))
	}
	if c.VCredICMSSN != nil {
		campos = append(campos, campo("vCredICMSSN", Valor2(*c.VCredICMSSN)))
	}
	return grupo("ICMSSN900", campos...)
}

// ResolverPIS mapeia o seletor de regime do PIS para o grupo correspondente.
// Seletor vazio usa o padrão PISOutr com CST 99 e valores zerados.
func ResolverPIS(c CamposPIS) Resolucao {
	return resolverContribuicao("PIS", camposContribuicao{
		Seletor:   c.Seletor,
		CST:       c.CST,
		VBC:       c.VBC,
		PAliq:     c.PPIS,
		VTrib:     c.VPIS,
		QBCProd:   c.QBCProd,
		VAliqProd: c.VAliqProd,
	})
}

// ResolverCOFINS mapeia o seletor de regime da COFINS para o grupo
// correspondente. Seletor vazio usa o padrão COFINSOutr com CST 99 e valores
// zerados.
func ResolverCOFINS(c CamposCOFINS) Resolucao {
	return resolverContribuicao("COFINS", camposContribuicao{
		Seletor:   c.Seletor,
		CST:       c.CST,
		VBC:       c.VBC,
		PAliq:     c.PCOFINS,
		VTrib:     c.VCOFINS,
		QBCProd:   c.QBCProd,
		VAliqProd: c.VAliqProd,
	})
}

// PIS e COFINS compartilham os mesmos regimes (Aliq, Qtde, NT, Outr, ST),
// mudando só o nome da alíquota e do valor (pPIS/vPIS, pCOFINS/vCOFINS).
type camposContribuicao struct {
	Seletor   string
	CST       string
	VBC       *decimal.Decimal
	PAliq     *decimal.Decimal
	VTrib     *decimal.Decimal
	QBCProd   *decimal.Decimal
	VAliqProd *decimal.Decimal
}

func resolverContribuicao(tributo string, c camposContribuicao) Resolucao {
	pNome := "p" + tributo
	vNome := "v" + tributo

	switch c.Seletor {
	case "":
		// Padrão para notas sem destaque da contribuição.
		return grupo(tributo+"Outr",
			campo("CST", "99"),
			campo("qBCProd", "0.00"),
			campo("vAliqProd", "0.00"),
			campo(vNome, "0.00"),
		)

	case tributo + "Aliq":
		regime := tributo + "Aliq"
		if c.CST == "" {
			return falta(tributo, regime, "CST")
		}
		if c.VBC == nil {
			return falta(tributo, regime, "vBC")
		}
		if c.PAliq == nil {
			return falta(tributo, regime, pNome)
		}
		if c.VTrib == nil {
			return falta(tributo, regime, vNome)
		}
		return grupo(regime,
			campo("CST", c.CST),
			campo("vBC", Valor2(*c.VBC)),
			campo(pNome, Aliquota4(*c.PAliq)),
			campo(vNome, Valor2(*c.VTrib)),
		)

	case tributo + "Qtde":
		regime := tributo + "Qtde"
		if c.CST == "" {
			return falta(tributo, regime, "CST")
		}
		if c.QBCProd == nil {
			return falta(tributo, regime, "qBCProd")
		}
		if c.VAliqProd == nil {
			return falta(tributo, regime, "vAliqProd")
		}
		if c.VTrib == nil {
			return falta(tributo, regime, vNome)
		}
		return grupo(regime,
			campo("CST", c.CST),
			campo("qBCProd", Aliquota4(*c.QBCProd)),
			campo("vAliqProd", Aliquota4(*c.VAliqProd)),
			campo(vNome, Valor2(*c.VTrib)),
		)

	case tributo + "NT":
		if c.CST == "" {
			return falta(tributo, tributo+"NT", "CST")
		}
		return grupo(tributo+"NT", campo("CST", c.CST))

	case tributo + "Outr":
		regime := tributo + "Outr"
		if c.CST == "" {
			return falta(tributo, regime, "CST")
		}
		campos := []Campo{campo("CST", c.CST)}
		if c.QBCProd != nil {
			campos = append(campos, campo("qBCProd", Aliquota4(*c.QBCProd)))
		}
		if c.VAliqProd != nil {
			campos = append(campos, campo("vAliqProd", Aliquota4(*c.VAliqProd)))
		}
		if c.VTrib != nil {
			campos = append(campos, campo(vNome, Valor2(*c.VTrib)))
		}
		return grupo(regime, campos...)

	case tributo + "ST":
		var campos []Campo
		if c.VBC != nil {
			campos = append(campos, campo("vBC", Valor2(*c.VBC)))
		}
		if c.PAliq != nil {
			campos = append(campos, campo(pNome, Aliquota4(*c.PAliq)))
		}
		if c.QBCProd != nil {
			campos = append(campos, campo("qBCProd", Aliquota4(*c.QBCProd)))
		}
		if c.VAliqProd != nil {
			campos = append(campos, campo("vAliqProd", Aliquota4(*c.VAliqProd)))
		}
		if c.VTrib != nil {
			campos = append(campos, campo(vNome, Valor2(*c.VTrib)))
		}
		return grupo(tributo+"ST", campos...)

	default:
		return Resolucao{Erro: &ErroRegimeNaoSuportado{Tributo: tributo, Seletor: c.Seletor}}
	}
}
