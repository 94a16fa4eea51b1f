package nota

import "github.com/GustavoOta/dfe/pkg/texto"

// Normalizar sanitiza os campos de texto livre do documento: remove
// acentuação e colapsa espaços. Chamado na borda de entrada (CLI, API)
// antes da montagem; a montagem em si aceita o texto como veio.
func (d *Documento) Normalizar() {
	d.Ide.NatOp = texto.Sanitizar(d.Ide.NatOp)

	d.Emit.XNome = texto.Sanitizar(d.Emit.XNome)
	d.Emit.XFant = texto.Sanitizar(d.Emit.XFant)
	normalizarEndereco(&d.Emit.Endereco)

	if d.Dest != nil {
		d.Dest.XNome = texto.Sanitizar(d.Dest.XNome)
		d.Dest.Endereco.XLgr = texto.Sanitizar(d.Dest.Endereco.XLgr)
		d.Dest.Endereco.XBairro = texto.Sanitizar(d.Dest.Endereco.XBairro)
		d.Dest.Endereco.XMun = texto.Sanitizar(d.Dest.Endereco.XMun)
	}

	for i := range d.Itens {
		d.Itens[i].XProd = texto.Sanitizar(d.Itens[i].XProd)
		d.Itens[i].InfAdProd = texto.Sanitizar(d.Itens[i].InfAdProd)
	}

	if d.InfAdic != nil {
		d.InfAdic.InfCpl = texto.Sanitizar(d.InfAdic.InfCpl)
	}
}

func normalizarEndereco(e *Endereco) {
	e.XLgr = texto.Sanitizar(e.XLgr)
	e.XBairro = texto.Sanitizar(e.XBairro)
	e.XMun = texto.Sanitizar(e.XMun)
}
