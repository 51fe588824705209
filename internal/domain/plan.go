package domain

// Plan é uma meta comercial mensal, opcionalmente restrita a um comercial e/ou marca.
// CommercialID nulo significa meta para toda a equipe; BrandID nulo, todas as marcas.
type Plan struct {
	ID             int                  `json:"id"`
	CommercialID   *int                 `json:"commercial_id,omitempty"`
	Commercial     *Commercial          `json:"commercial,omitempty"`
	BrandID        *int                 `json:"brand_id,omitempty"`
	Brand          *Brand               `json:"brand,omitempty"`
	Month          int                  `json:"month"`
	Year           int                  `json:"year"`
	TotalTarget    *float64             `json:"total_target,omitempty"`
	ProductTargets []*PlanProductTarget `json:"product_targets,omitempty"`
}

type PlanProductTarget struct {
	ProductID      int      `json:"product_id"`
	Product        *Product `json:"product,omitempty"`
	QuantityTarget int      `json:"quantity_target"`
}

// PlanAssignment é o formato legado de meta por comercial, que coexiste com Plan.CommercialID
type PlanAssignment struct {
	PlanID       int         `json:"plan_id"`
	CommercialID int         `json:"commercial_id"`
	Commercial   *Commercial `json:"commercial,omitempty"`
	Target       float64     `json:"target"`
}
