package domain

import "time"

// Period é uma janela de tempo inclusiva [From, To]
type Period struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains verifica se o instante está dentro da janela (limites inclusivos)
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.From) && !t.After(p.To)
}

// ReportFilters são os parâmetros de entrada de um relatório
type ReportFilters struct {
	Year         int  `json:"year"`
	Month        int  `json:"month"`
	CommercialID *int `json:"commercial_id,omitempty"`
}
