package imposto

import "fmt"

// ErroCampoObrigatorio indica que o regime escolhido exige um campo que o
// chamador não preencheu. O erro fica preso ao item que o originou; os demais
// itens do documento seguem sendo processados.
type ErroCampoObrigatorio struct {
	Tributo string // ICMS, PIS ou COFINS
	Regime  string // ICMS00, ICMSSN102, PISAliq...
	Campo   string // nome do campo na nomenclatura fiscal (vBC, pICMS...)
}

func (e *ErroCampoObrigatorio) Error() string {
	return fmt.Sprintf("campo %s não informado para %s", e.Campo, e.Regime)
}

// ErroRegimeNaoSuportado indica um seletor de regime fora do conjunto
// conhecido para o tributo.
type ErroRegimeNaoSuportado struct {
	Tributo string
	Seletor string
}

func (e *ErroRegimeNaoSuportado) Error() string {
	return fmt.Sprintf("regime %q não suportado para %s", e.Seletor, e.Tributo)
}
