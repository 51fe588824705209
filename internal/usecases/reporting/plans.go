package reporting

import (
	"fmt"

	"github.com/vfarma/sales-force-api/internal/domain"
	"github.com/vfarma/sales-force-api/pkg/utils"
)

const (
	planSourceDirect     = "plan"
	planSourceAssignment = "assignment"

	// Realização por produto é limitada a 100%; a meta total não
	productPercentageCap = 100
)

// Achievements calcula a realização de todas as metas do mês: planos diretos
// primeiro, depois as atribuições legadas, na ordem de entrada. Metas com alvo
// nulo ou não positivo aparecem com percentual zero em vez de serem omitidas.
func Achievements(plans []*domain.Plan, assignments []*domain.PlanAssignment, orders []*domain.Order, month, year int) []*domain.PlanAchievement {
	realized := realizedOrders(orders)

	results := make([]*domain.PlanAchievement, 0, len(plans)+len(assignments))

	for _, plan := range plans {
		if plan == nil || plan.Month != month || plan.Year != year {
			continue
		}

		results = append(results, planAchievement(plan, realized))
	}

	for _, assignment := range assignments {
		if assignment == nil {
			continue
		}

		results = append(results, assignmentAchievement(assignment, realized, month, year))
	}

	return results
}

func realizedOrders(orders []*domain.Order) []*domain.Order {
	realized := make([]*domain.Order, 0, len(orders))
	for _, order := range orders {
		if order == nil || !order.Status.Realized() {
			continue
		}

		realized = append(realized, order)
	}

	return realized
}

func planAchievement(plan *domain.Plan, orders []*domain.Order) *domain.PlanAchievement {
	achievement := &domain.PlanAchievement{
		PlanID:       plan.ID,
		Source:       planSourceDirect,
		CommercialID: plan.CommercialID,
		Month:        plan.Month,
		Year:         plan.Year,
	}

	if plan.Commercial != nil {
		achievement.CommercialName = plan.Commercial.Name
	}
	if plan.Brand != nil {
		achievement.Brand = plan.Brand.Name
	}

	scoped := scopeOrders(orders, plan.CommercialID)

	// Meta com marca mede somente as linhas daquela marca; sem marca, o valor
	// cheio dos pedidos
	var achieved float64
	if plan.BrandID != nil {
		achieved = brandAmount(scoped, *plan.BrandID)
	} else {
		for _, order := range scoped {
			achieved += order.TotalAmount
		}
	}

	achievement.Achieved = utils.RoundWithTwoDecimalPlace(achieved)

	if plan.TotalTarget != nil && *plan.TotalTarget > 0 {
		achievement.Target = *plan.TotalTarget
		achievement.Percentage = utils.SafePercent(achieved, *plan.TotalTarget)
	}

	achievement.Products = productAchievements(plan.ProductTargets, scoped)

	return achievement
}

func assignmentAchievement(assignment *domain.PlanAssignment, orders []*domain.Order, month, year int) *domain.PlanAchievement {
	commercialID := assignment.CommercialID
	achievement := &domain.PlanAchievement{
		PlanID:       assignment.PlanID,
		Source:       planSourceAssignment,
		CommercialID: &commercialID,
		Month:        month,
		Year:         year,
	}

	if assignment.Commercial != nil {
		achievement.CommercialName = assignment.Commercial.Name
	}

	var achieved float64
	for _, order := range scopeOrders(orders, &commercialID) {
		achieved += order.TotalAmount
	}

	achievement.Achieved = utils.RoundWithTwoDecimalPlace(achieved)

	if assignment.Target > 0 {
		achievement.Target = assignment.Target
		achievement.Percentage = utils.SafePercent(achieved, assignment.Target)
	}

	return achievement
}

// scopeOrders restringe os pedidos ao comercial da meta; nil significa equipe inteira
func scopeOrders(orders []*domain.Order, commercialID *int) []*domain.Order {
	if commercialID == nil {
		return orders
	}

	scoped := make([]*domain.Order, 0, len(orders))
	for _, order := range orders {
		if order.CommercialID == *commercialID {
			scoped = append(scoped, order)
		}
	}

	return scoped
}

func brandAmount(orders []*domain.Order, brandID int) float64 {
	var amount float64
	for _, order := range orders {
		for _, item := range order.Items {
			if item == nil || item.Quantity <= 0 {
				continue
			}

			if item.Product == nil || item.Product.BrandID == nil || *item.Product.BrandID != brandID {
				continue
			}

			amount += item.LineTotal().InexactFloat64()
		}
	}

	return amount
}

func productAchievements(targets []*domain.PlanProductTarget, orders []*domain.Order) []*domain.ProductAchievement {
	if len(targets) == 0 {
		return nil
	}

	ordered := make(map[int]int)
	for _, order := range orders {
		for _, item := range order.Items {
			if item == nil || item.Quantity <= 0 {
				continue
			}

			ordered[item.ProductID] += item.Quantity
		}
	}

	achievements := make([]*domain.ProductAchievement, 0, len(targets))
	for _, target := range targets {
		if target == nil {
			continue
		}

		achievement := &domain.ProductAchievement{
			ProductID:       target.ProductID,
			Name:            fmt.Sprintf("Produto %d", target.ProductID),
			QuantityTarget:  target.QuantityTarget,
			QuantityOrdered: ordered[target.ProductID],
		}

		if target.Product != nil {
			achievement.Name = target.Product.Name
		}

		if target.QuantityTarget > 0 {
			pct := utils.SafePercent(float64(achievement.QuantityOrdered), float64(target.QuantityTarget))
			if pct > productPercentageCap {
				pct = productPercentageCap
			}
			achievement.Percentage = pct
		}

		achievements = append(achievements, achievement)
	}

	return achievements
}
