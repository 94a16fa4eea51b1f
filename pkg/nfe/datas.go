package nfe

import "time"

// fusoBrasilia fuso fixo -03:00 exigido nos campos dhEmi, dhSaiEnt e dhEvento.
// Zona fixa em vez de America/Sao_Paulo: o layout exige o offset literal e o
// horário de verão foi abolido em 2019.
var fusoBrasilia = time.FixedZone("-03:00", -3*60*60)

// FormatarDataHora formata um instante como AAAA-MM-DDThh:mm:ss-03:00.
func FormatarDataHora(t time.Time) string {
	return t.In(fusoBrasilia).Format("2006-01-02T15:04:05-07:00")
}

// AnoMes devolve o ano (2 dígitos) e o mês (MM) de um instante, para a
// composição da chave de acesso.
func AnoMes(t time.Time) (ano string, mes string) {
	local := t.In(fusoBrasilia)
	return local.Format("06"), local.Format("01")
}
