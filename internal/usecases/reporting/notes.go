package reporting

import (
	"sort"
	"strings"

	"github.com/vfarma/sales-force-api/internal/domain"
)

// ReasonParser extrai o motivo estruturado embutido na nota livre de uma
// visita. Isolado em interface para o padrão poder mudar sem tocar na agregação.
type ReasonParser interface {
	Parse(note string) (string, bool)
}

// MarkerReasonParser reconhece um marcador fixo seguido do texto do motivo,
// encerrado por linha em branco ou fim da nota
type MarkerReasonParser struct {
	Marker string
}

// NewCancellationParser retorna o parser do marcador usado pelo app de campo
func NewCancellationParser() *MarkerReasonParser {
	return &MarkerReasonParser{Marker: "Motivo do cancelamento:"}
}

func (p *MarkerReasonParser) Parse(note string) (string, bool) {
	idx := strings.Index(note, p.Marker)
	if idx < 0 {
		return "", false
	}

	rest := note[idx+len(p.Marker):]
	if end := strings.Index(rest, "\n\n"); end >= 0 {
		rest = rest[:end]
	}

	reason := strings.TrimSpace(rest)
	if reason == "" {
		return "", false
	}

	return reason, true
}

// CancellationReasons tabula os motivos de cancelamento extraídos das notas
// das visitas canceladas, em ordem decrescente de ocorrências; empates em
// ordem de primeira aparição
func CancellationReasons(visits []*domain.Visit, parser ReasonParser) []*domain.CancellationReason {
	counts := make(map[string]*domain.CancellationReason)
	order := make([]string, 0)

	for _, visit := range visits {
		if visit == nil || visit.Status != domain.VisitStatusCanceled || visit.Note == "" {
			continue
		}

		reason, found := parser.Parse(visit.Note)
		if !found {
			continue
		}

		entry, exists := counts[reason]
		if !exists {
			entry = &domain.CancellationReason{Reason: reason}
			counts[reason] = entry
			order = append(order, reason)
		}
		entry.Count++
	}

	reasons := make([]*domain.CancellationReason, 0, len(order))
	for _, reason := range order {
		reasons = append(reasons, counts[reason])
	}

	sort.SliceStable(reasons, func(i, j int) bool {
		return reasons[i].Count > reasons[j].Count
	})

	return reasons
}
