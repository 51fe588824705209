package reporting

import (
	"fmt"
	"sort"
	"time"

	"github.com/vfarma/sales-force-api/internal/domain"
	"github.com/vfarma/sales-force-api/pkg/utils"
)

const (
	churnRiskLimit       = 50
	unvisitedBranchLimit = 100
	lifetimeClientLimit  = 20

	// Sentinela de filial nunca visitada
	neverVisitedMonths = 999

	silenceMonths = 3
)

// clientHistory condensa o histórico completo de pedidos concretizados de um cliente
type clientHistory struct {
	ClientID   int
	Name       string
	FirstOrder time.Time
	LastOrder  time.Time
	Revenue    float64
	Orders     int
}

// foldHistory reduz o histórico inteiro (não limitado à janela) a um resumo
// por cliente. Pedidos não concretizados são ignorados.
func foldHistory(history []*domain.Order) map[int]*clientHistory {
	byClient := make(map[int]*clientHistory)

	for _, order := range history {
		if order == nil || order.CreatedAt.IsZero() || !order.Status.Realized() {
			continue
		}

		summary, exists := byClient[order.ClientID]
		if !exists {
			name := fmt.Sprintf("Cliente %d", order.ClientID)
			if order.Client != nil {
				name = order.Client.Name
			}

			summary = &clientHistory{
				ClientID:   order.ClientID,
				Name:       name,
				FirstOrder: order.CreatedAt,
				LastOrder:  order.CreatedAt,
			}
			byClient[order.ClientID] = summary
		}

		if order.CreatedAt.Before(summary.FirstOrder) {
			summary.FirstOrder = order.CreatedAt
		}
		if order.CreatedAt.After(summary.LastOrder) {
			summary.LastOrder = order.CreatedAt
		}

		summary.Revenue += order.TotalAmount
		summary.Orders++
	}

	return byClient
}

// AnalyzeCohort particiona os pedidos da janela entre clientes novos e
// existentes: novo quando o primeiro pedido concretizado do cliente, sobre o
// histórico inteiro, também cai na janela
func AnalyzeCohort(history []*domain.Order, window domain.Period) *domain.CohortSummary {
	byClient := foldHistory(history)

	summary := &domain.CohortSummary{}
	newClients := make(map[int]bool)

	for _, order := range history {
		if order == nil || order.CreatedAt.IsZero() || !order.Status.Realized() {
			continue
		}
		if !window.Contains(order.CreatedAt) {
			continue
		}

		client, exists := byClient[order.ClientID]
		if exists && window.Contains(client.FirstOrder) {
			summary.NewClientOrders++
			summary.NewClientRevenue += order.TotalAmount
			newClients[order.ClientID] = true
		} else {
			summary.ExistingClientOrders++
			summary.ExistingClientRevenue += order.TotalAmount
		}
	}

	summary.NewClients = len(newClients)
	summary.NewClientRevenue = utils.RoundWithTwoDecimalPlace(summary.NewClientRevenue)
	summary.ExistingClientRevenue = utils.RoundWithTwoDecimalPlace(summary.ExistingClientRevenue)

	return summary
}

// ChurnRisk lista os clientes silenciosos: último pedido concretizado anterior
// a três meses antes do início do mês do relatório. Ordena por months_since
// decrescente e limita a 50 entradas.
func ChurnRisk(history []*domain.Order, monthStart, now time.Time) []*domain.ChurnRiskClient {
	cutoff := monthStart.AddDate(0, -silenceMonths, 0)

	atRisk := make([]*domain.ChurnRiskClient, 0)
	for _, client := range sortedHistories(foldHistory(history)) {
		if !client.LastOrder.Before(cutoff) {
			continue
		}

		atRisk = append(atRisk, &domain.ChurnRiskClient{
			ClientID:      client.ClientID,
			Name:          client.Name,
			LastOrderDate: client.LastOrder,
			MonthsSince:   monthsSince(client.LastOrder, now),
		})
	}

	sort.SliceStable(atRisk, func(i, j int) bool {
		return atRisk[i].MonthsSince > atRisk[j].MonthsSince
	})

	if len(atRisk) > churnRiskLimit {
		atRisk = atRisk[:churnRiskLimit]
	}

	return atRisk
}

// LifetimeValue resume o valor de vida de cada cliente sobre o histórico
// inteiro, ordenado por receita decrescente e limitado a 20 entradas
func LifetimeValue(history []*domain.Order) []*domain.ClientLifetimeValue {
	clients := make([]*domain.ClientLifetimeValue, 0)
	for _, client := range sortedHistories(foldHistory(history)) {
		clients = append(clients, &domain.ClientLifetimeValue{
			ClientID:       client.ClientID,
			Name:           client.Name,
			TotalRevenue:   utils.RoundWithTwoDecimalPlace(client.Revenue),
			Orders:         client.Orders,
			AvgOrderValue:  utils.SafeDiv(client.Revenue, float64(client.Orders)),
			FirstOrderDate: client.FirstOrder,
			LastOrderDate:  client.LastOrder,
		})
	}

	sort.SliceStable(clients, func(i, j int) bool {
		return clients[i].TotalRevenue > clients[j].TotalRevenue
	})

	if len(clients) > lifetimeClientLimit {
		clients = clients[:lifetimeClientLimit]
	}

	return clients
}

// UnvisitedBranches aponta as filiais sem visita concluída nos últimos três
// meses. Filiais jamais visitadas recebem a sentinela 999; a lista sai em
// ordem decrescente de months_since, limitada a 100.
func UnvisitedBranches(branches []*domain.Branch, visits []*domain.Visit, now time.Time) []*domain.UnvisitedBranch {
	lastVisit := make(map[int]time.Time)
	for _, visit := range visits {
		if visit == nil || visit.Status != domain.VisitStatusDone || visit.ScheduledAt.IsZero() {
			continue
		}

		for _, branchID := range visit.BranchIDs {
			if visit.ScheduledAt.After(lastVisit[branchID]) {
				lastVisit[branchID] = visit.ScheduledAt
			}
		}
	}

	cutoff := now.AddDate(0, -silenceMonths, 0)

	flagged := make([]*domain.UnvisitedBranch, 0)
	for _, branch := range branches {
		if branch == nil {
			continue
		}

		entry := &domain.UnvisitedBranch{
			BranchID:    branch.ID,
			Name:        branch.Name,
			ClientID:    branch.ClientID,
			MonthsSince: neverVisitedMonths,
		}
		if branch.Client != nil {
			entry.ClientName = branch.Client.Name
		}

		last, visited := lastVisit[branch.ID]
		if visited {
			if !last.Before(cutoff) {
				continue
			}

			lastCopy := last
			entry.LastVisitDate = &lastCopy
			entry.MonthsSince = monthsSince(last, now)
		}

		flagged = append(flagged, entry)
	}

	sort.SliceStable(flagged, func(i, j int) bool {
		return flagged[i].MonthsSince > flagged[j].MonthsSince
	})

	if len(flagged) > unvisitedBranchLimit {
		flagged = flagged[:unvisitedBranchLimit]
	}

	return flagged
}

// monthsSince aproxima meses corridos como blocos de 30 dias
func monthsSince(last, now time.Time) int {
	if !now.After(last) {
		return 0
	}

	return int(now.Sub(last).Hours() / 24 / 30)
}

// sortedHistories devolve os resumos em ordem determinística de client_id,
// já que a iteração de mapas em Go não tem ordem definida
func sortedHistories(byClient map[int]*clientHistory) []*clientHistory {
	ids := make([]int, 0, len(byClient))
	for id := range byClient {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	histories := make([]*clientHistory, 0, len(ids))
	for _, id := range ids {
		histories = append(histories, byClient[id])
	}

	return histories
}
