package reporting

import (
	"github.com/vfarma/sales-force-api/internal/domain"
)

// Reporter define a interface de montagem dos relatórios analíticos
type Reporter interface {
	// ManagerReport monta o relatório gerencial do mês com as quebras comerciais
	ManagerReport(filters *domain.ReportFilters) (*domain.ManagerReport, error)

	// DirectorReport monta o relatório da diretoria: gerencial + coorte, churn,
	// funil, valor de vida e tendência de 6 meses
	DirectorReport(filters *domain.ReportFilters) (*domain.DirectorReport, error)

	// CommercialReport monta o recorte individual de um comercial
	CommercialReport(filters *domain.ReportFilters) (*domain.CommercialReport, error)
}
