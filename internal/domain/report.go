package domain

import "time"

// DailySales é um ponto da série diária de vendas
type DailySales struct {
	Date   string  `json:"date"` // Formato yyyy-mm-dd
	Amount float64 `json:"amount"`
	Orders int     `json:"orders"`
}

// WeekdaySales agrega vendas e visitas por dia da semana (0 = domingo)
type WeekdaySales struct {
	Weekday int     `json:"weekday"`
	Amount  float64 `json:"amount"`
	Orders  int     `json:"orders"`
	Visits  int     `json:"visits"`
}

// HourlySales agrega vendas por hora do dia (0–23)
type HourlySales struct {
	Hour   int     `json:"hour"`
	Amount float64 `json:"amount"`
	Orders int     `json:"orders"`
}

type BrandSales struct {
	Brand  string  `json:"brand"`
	Amount float64 `json:"amount"`
}

type ProductSales struct {
	ProductID int     `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Amount    float64 `json:"amount"`
	Orders    int     `json:"orders"` // Pedidos distintos que contêm o produto
}

type ClientSales struct {
	ClientID int     `json:"client_id"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Orders   int     `json:"orders"`
}

// CommercialPerformance consolida as métricas de um comercial no período,
// incluindo as taxas derivadas e a posição no ranking
type CommercialPerformance struct {
	CommercialID        int     `json:"commercial_id"`
	Name                string  `json:"name"`
	Amount              float64 `json:"amount"`
	Orders              int     `json:"orders"`
	AvgOrderValue       float64 `json:"avg_order_value"`
	Visits              int     `json:"visits"`
	VisitsDone          int     `json:"visits_done"`
	VisitsWithOrder     int     `json:"visits_with_order"`
	ConversionRate      float64 `json:"conversion_rate"`
	VisitCompletionRate float64 `json:"visit_completion_rate"`
	AvgDaysToOrder      float64 `json:"avg_days_to_order"`
	Score               float64 `json:"score"`
	Rank                int     `json:"rank"`
}

// PlanAchievement é o resultado de uma meta no período.
// Source indica a origem da meta: "plan" ou "assignment" (formato legado).
type PlanAchievement struct {
	PlanID         int                   `json:"plan_id"`
	Source         string                `json:"source"`
	CommercialID   *int                  `json:"commercial_id,omitempty"`
	CommercialName string                `json:"commercial_name,omitempty"`
	Brand          string                `json:"brand,omitempty"`
	Month          int                   `json:"month"`
	Year           int                   `json:"year"`
	Target         float64               `json:"target"`
	Achieved       float64               `json:"achieved"`
	Percentage     float64               `json:"percentage"` // Não limitado a 100 (sobre-realização visível)
	Products       []*ProductAchievement `json:"products,omitempty"`
}

type ProductAchievement struct {
	ProductID       int     `json:"product_id"`
	Name            string  `json:"name"`
	QuantityTarget  int     `json:"quantity_target"`
	QuantityOrdered int     `json:"quantity_ordered"`
	Percentage      float64 `json:"percentage"` // Limitado a 100
}

// CohortSummary particiona os pedidos da janela entre clientes novos e existentes
type CohortSummary struct {
	NewClientOrders       int     `json:"new_client_orders"`
	NewClientRevenue      float64 `json:"new_client_revenue"`
	NewClients            int     `json:"new_clients"`
	ExistingClientOrders  int     `json:"existing_client_orders"`
	ExistingClientRevenue float64 `json:"existing_client_revenue"`
}

type ChurnRiskClient struct {
	ClientID      int       `json:"client_id"`
	Name          string    `json:"name"`
	LastOrderDate time.Time `json:"last_order_date"`
	MonthsSince   int       `json:"months_since"`
}

type CancellationReason struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

// UnvisitedBranch é uma filial sem visita concluída recente.
// MonthsSince = 999 quando a filial nunca foi visitada.
type UnvisitedBranch struct {
	BranchID      int        `json:"branch_id"`
	Name          string     `json:"name"`
	ClientID      int        `json:"client_id"`
	ClientName    string     `json:"client_name"`
	LastVisitDate *time.Time `json:"last_visit_date,omitempty"`
	MonthsSince   int        `json:"months_since"`
}

// ClientLifetimeValue resume o histórico completo de compras de um cliente
type ClientLifetimeValue struct {
	ClientID       int       `json:"client_id"`
	Name           string    `json:"name"`
	TotalRevenue   float64   `json:"total_revenue"`
	Orders         int       `json:"orders"`
	AvgOrderValue  float64   `json:"avg_order_value"`
	FirstOrderDate time.Time `json:"first_order_date"`
	LastOrderDate  time.Time `json:"last_order_date"`
}

// Funnel são os contadores de estágio Visita Planejada → Realizada →
// Visita-com-Pedido → Pedido Aprovado → Pedido Concluído, com as taxas de
// conversão entre estágios consecutivos
type Funnel struct {
	PlannedVisits       int     `json:"planned_visits"`
	DoneVisits          int     `json:"done_visits"`
	VisitsWithOrder     int     `json:"visits_with_order"`
	ApprovedOrders      int     `json:"approved_orders"`
	CompletedOrders     int     `json:"completed_orders"`
	VisitCompletionRate float64 `json:"visit_completion_rate"`
	VisitToOrderRate    float64 `json:"visit_to_order_rate"`
	OrderApprovalRate   float64 `json:"order_approval_rate"`
	OrderCompletionRate float64 `json:"order_completion_rate"`
	VisitsWithoutOrder  int     `json:"visits_without_order"`
	AvgDaysVisitToOrder float64 `json:"avg_days_visit_to_order"`
}

type TrendPoint struct {
	Year   int     `json:"year"`
	Month  int     `json:"month"`
	Sales  float64 `json:"sales"`
	Orders int     `json:"orders"`
	Visits int     `json:"visits"`
}

// ReportSummary compara os totais da janela atual com o período anterior
type ReportSummary struct {
	TotalSales     float64 `json:"total_sales"`
	PreviousSales  float64 `json:"previous_sales"`
	SalesChange    float64 `json:"sales_change"` // Percentual, 0 quando o período anterior é 0
	TotalOrders    int     `json:"total_orders"`
	PreviousOrders int     `json:"previous_orders"`
	OrdersChange   float64 `json:"orders_change"`
	AvgOrderValue  float64 `json:"avg_order_value"`
	TotalVisits    int     `json:"total_visits"`
	VisitsDone     int     `json:"visits_done"`
}

// ManagerReport é o relatório gerencial com as quebras comerciais do período
type ManagerReport struct {
	Filters         *ReportFilters           `json:"filters"`
	Period          Period                   `json:"period"`
	Summary         *ReportSummary           `json:"summary"`
	SalesByDay      []*DailySales            `json:"sales_by_day"`
	SalesByWeekday  []*WeekdaySales          `json:"sales_by_weekday"`
	SalesByHour     []*HourlySales           `json:"sales_by_hour"`
	SalesByBrand    []*BrandSales            `json:"sales_by_brand"`
	TopProducts     []*ProductSales          `json:"top_products"`
	TopClients      []*ClientSales           `json:"top_clients"`
	Ranking         []*CommercialPerformance `json:"ranking"`
	PlanAchievement []*PlanAchievement       `json:"plan_achievement"`
}

// DirectorReport estende o relatório gerencial com coorte, churn, funil,
// valor de vida do cliente e tendência de 6 meses
type DirectorReport struct {
	ManagerReport
	Cohort              *CohortSummary         `json:"cohort"`
	ChurnRisk           []*ChurnRiskClient     `json:"churn_risk"`
	CancellationReasons []*CancellationReason  `json:"cancellation_reasons"`
	UnvisitedBranches   []*UnvisitedBranch     `json:"unvisited_branches"`
	Funnel              *Funnel                `json:"funnel"`
	TopLifetimeClients  []*ClientLifetimeValue `json:"top_lifetime_clients"`
	Trend               []*TrendPoint          `json:"trend"`
}

// CommercialReport é o recorte individual de um comercial
type CommercialReport struct {
	Filters         *ReportFilters         `json:"filters"`
	Period          Period                 `json:"period"`
	Summary         *ReportSummary         `json:"summary"`
	SalesByDay      []*DailySales          `json:"sales_by_day"`
	SalesByWeekday  []*WeekdaySales        `json:"sales_by_weekday"`
	Funnel          *Funnel                `json:"funnel"`
	Performance     *CommercialPerformance `json:"performance,omitempty"`
	PlanAchievement []*PlanAchievement     `json:"plan_achievement"`
}
