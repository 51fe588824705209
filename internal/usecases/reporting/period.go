package reporting

import (
	"time"

	"github.com/vfarma/sales-force-api/internal/domain"
)

// MonthRef identifica um mês civil dentro de uma série
type MonthRef struct {
	Year  int
	Month int
}

// MonthWindow retorna a janela [primeiro dia, último instante] do mês civil.
// Valores fora do intervalo 1–12 seguem a aritmética de calendário do time.Date
// (mês 0 vira dezembro do ano anterior).
func MonthWindow(year, month int) domain.Period {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0).Add(-time.Nanosecond)

	return domain.Period{From: from, To: to}
}

// PreviousWindow retorna a janela do mês imediatamente anterior ao solicitado
func PreviousWindow(year, month int) domain.Period {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	prev := first.AddDate(0, -1, 0)

	return MonthWindow(prev.Year(), int(prev.Month()))
}

// TrailingMonths retorna n meses consecutivos terminando no mês solicitado,
// do mais antigo para o mais recente
func TrailingMonths(year, month, n int) []MonthRef {
	if n <= 0 {
		return []MonthRef{}
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)

	refs := make([]MonthRef, 0, n)
	for i := n - 1; i >= 0; i-- {
		m := first.AddDate(0, -i, 0)
		refs = append(refs, MonthRef{Year: m.Year(), Month: int(m.Month())})
	}

	return refs
}
