// Package nfe contém os algoritmos de identificação da NF-e/NFC-e:
// geração e decomposição da chave de acesso de 44 dígitos e o cálculo
// do dígito verificador módulo 11.
package nfe

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// pesos do dígito verificador da chave de acesso. Aplicam-se ciclicamente
// da direita para a esquerda sobre os 43 primeiros dígitos.
var pesosDV = [8]int{2, 3, 4, 5, 6, 7, 8, 9}

// ChaveAcessoProps campos que compõem a chave de acesso, na ordem do layout 4.00.
type ChaveAcessoProps struct {
	UF             int    // Código IBGE da UF do emitente. Ex: 35 = São Paulo
	Ano            string // Ano de emissão com 2 dígitos. Ex: 24
	Mes            string // Mês de emissão MM. Ex: 12
	Doc            string // CNPJ ou CPF do emitente (será completado com zeros até 14 dígitos)
	Modelo         int    // 55 = NF-e, 65 = NFC-e
	Serie          int    // Série do documento (3 dígitos na chave)
	Numero         int64  // Número do documento (9 dígitos na chave)
	TpEmis         int    // Tipo de emissão. 1 = normal
	CodigoNumerico string // cNF com 8 dígitos; vazio = gerado aleatoriamente
}

// ChaveAcesso resultado da geração: os 44 dígitos e o DV em separado.
type ChaveAcesso struct {
	Chave string
	DV    byte
}

// Composicao campos extraídos de uma chave de acesso existente.
// Decompor(Gerar(p).Chave) reproduz exatamente os campos de entrada.
type Composicao struct {
	UF             string
	Ano            string
	Mes            string
	Doc            string
	Modelo         string
	Serie          string
	Numero         string
	TpEmis         string
	CodigoNumerico string
}

// Gerar monta a chave de acesso de 44 dígitos: concatena os campos na ordem
// fixa do layout, calcula o DV sobre os 43 primeiros dígitos e o anexa.
func Gerar(p ChaveAcessoProps) (ChaveAcesso, error) {
	codigo := p.CodigoNumerico
	if codigo == "" {
		codigo = GerarCodigoNumerico()
	}
	if len(codigo) != 8 || !somenteDigitos(codigo) {
		return ChaveAcesso{}, fmt.Errorf("nfe: código numérico deve ter 8 dígitos, recebido %q", codigo)
	}
	if len(p.Ano) != 2 || len(p.Mes) != 2 {
		return ChaveAcesso{}, fmt.Errorf("nfe: ano e mês devem ter 2 dígitos (AA/MM), recebido %q/%q", p.Ano, p.Mes)
	}

	doc := p.Doc
	for len(doc) < 14 {
		doc = "0" + doc
	}
	chave43 := fmt.Sprintf("%02d%s%s%s%02d%03d%09d%d%s",
		p.UF, p.Ano, p.Mes, doc, p.Modelo, p.Serie, p.Numero, p.TpEmis, codigo)
	if len(chave43) != 43 || !somenteDigitos(chave43) {
		return ChaveAcesso{}, fmt.Errorf("nfe: composição da chave inválida: %q", chave43)
	}

	dv, err := CalcularDV(chave43)
	if err != nil {
		return ChaveAcesso{}, err
	}
	return ChaveAcesso{Chave: chave43 + string(dv), DV: dv}, nil
}

// CalcularDV calcula o dígito verificador módulo 11 dos 43 primeiros dígitos
// da chave. Pesos 2..9 cíclicos da direita para a esquerda; resto 0 ou 1
// resulta em DV 0, caso contrário DV = 11 - resto.
func CalcularDV(chave43 string) (byte, error) {
	if len(chave43) != 43 {
		return 0, fmt.Errorf("nfe: chave sem DV deve ter 43 dígitos, recebidos %d", len(chave43))
	}
	var soma int
	for i := 0; i < 43; i++ {
		c := chave43[42-i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("nfe: chave contém caractere não numérico %q na posição %d", c, 42-i)
		}
		soma += int(c-'0') * pesosDV[i%8]
	}
	resto := soma % 11
	if resto == 0 || resto == 1 {
		return '0', nil
	}
	return byte('0' + (11 - resto)), nil
}

// Decompor extrai os 9 campos de uma chave de acesso de 44 dígitos por
// posições fixas. Falha explicitamente para comprimento ou conteúdo inválido.
func Decompor(chave string) (Composicao, error) {
	if len(chave) != 44 {
		return Composicao{}, fmt.Errorf("nfe: chave de acesso deve ter 44 dígitos, recebidos %d", len(chave))
	}
	if !somenteDigitos(chave) {
		return Composicao{}, fmt.Errorf("nfe: chave de acesso contém caracteres não numéricos")
	}
	return Composicao{
		UF:             chave[0:2],
		Ano:            chave[2:4],
		Mes:            chave[4:6],
		Doc:            chave[6:20],
		Modelo:         chave[20:22],
		Serie:          chave[22:25],
		Numero:         chave[25:34],
		TpEmis:         chave[34:35],
		CodigoNumerico: chave[35:43],
	}, nil
}

// GerarCodigoNumerico gera um cNF aleatório de 8 dígitos (10000000..99999999).
func GerarCodigoNumerico() string {
	n, err := rand.Int(rand.Reader, big.NewInt(90000000))
	if err != nil {
		// rand.Reader não falha em plataformas suportadas; fallback determinístico
		return "10000000"
	}
	return fmt.Sprintf("%08d", n.Int64()+10000000)
}

func somenteDigitos(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
