package sefaz

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/GustavoOta/dfe/internal/domain"
	"github.com/GustavoOta/dfe/pkg/nfe"
)

// ValidadorEstrutural confere a boa-formação e os pontos fixos do leiaute
// antes do envio: raiz NFe, Id e versão do infNFe, assinatura presente.
// Não substitui a validação XSD completa, que a SEFAZ executa na recepção;
// barra os defeitos de montagem mais comuns antes da viagem de rede.
type ValidadorEstrutural struct{}

// Validar analisa o documento e devolve um erro embrulhando
// domain.ErrSchemaInvalido quando a estrutura foge do leiaute.
func (ValidadorEstrutural) Validar(xml string) error {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xml); err != nil {
		return fmt.Errorf("sefaz: %w: %v", domain.ErrSchemaInvalido, err)
	}

	raiz := doc.Root()
	if raiz == nil || raiz.Tag != "NFe" {
		return fmt.Errorf("sefaz: %w: elemento raiz deve ser NFe", domain.ErrSchemaInvalido)
	}

	infNFe := raiz.SelectElement("infNFe")
	if infNFe == nil {
		return fmt.Errorf("sefaz: %w: infNFe ausente", domain.ErrSchemaInvalido)
	}

	id := infNFe.SelectAttrValue("Id", "")
	if !strings.HasPrefix(id, "NFe") {
		return fmt.Errorf("sefaz: %w: atributo Id deve iniciar com NFe", domain.ErrSchemaInvalido)
	}
	if _, err := nfe.Decompor(strings.TrimPrefix(id, "NFe")); err != nil {
		return fmt.Errorf("sefaz: %w: chave de acesso do Id inválida: %v", domain.ErrSchemaInvalido, err)
	}

	if versao := infNFe.SelectAttrValue("versao", ""); versao != VersaoLeiaute {
		return fmt.Errorf("sefaz: %w: versão %q fora do leiaute %s", domain.ErrSchemaInvalido, versao, VersaoLeiaute)
	}

	if raiz.SelectElement("Signature") == nil {
		return fmt.Errorf("sefaz: %w: documento sem assinatura", domain.ErrSchemaInvalido)
	}
	return nil
}
