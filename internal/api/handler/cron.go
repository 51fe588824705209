package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfarma/sales-force-api/internal/domain"
	"github.com/vfarma/sales-force-api/internal/scheduler"
	"github.com/vfarma/sales-force-api/pkg/apiErrors"
	"github.com/vfarma/sales-force-api/pkg/middleware"
)

// CronJobType define o tipo de cron job que será executada
const (
	CronJobTypePlanProgress = "plan-progress"
	CronJobTypeAll          = "all"
)

// CronJobServices contém os serviços de cron necessários para executar manualmente
type CronJobServices struct {
	PlanProgressService *scheduler.PlanProgressService
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunCronJob")

		// Verificar permissões - apenas a diretoria pode executar cron jobs
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok || userClaims.UserRoleID != middleware.RoleDirector {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Apenas a diretoria pode executar cron jobs", nil)
			return
		}

		// Obter o tipo de cron job da URL
		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de cron job não especificado", nil)
			return
		}

		// Validar o tipo de cron job
		switch cronType {
		case CronJobTypePlanProgress, CronJobTypeAll:
			if services.PlanProgressService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de acompanhamento de metas não disponível", nil)
				return
			}
			services.PlanProgressService.TriggerManualSync()

		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: plan-progress, all", nil)
			return
		}

		// Responder com sucesso
		response := map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		}
		json.NewEncoder(w).Encode(response)
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetCronStatus")

		// Verificar permissões - apenas a diretoria pode ver status das crons
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok || userClaims.UserRoleID != middleware.RoleDirector {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Apenas a diretoria pode verificar status de cron jobs", nil)
			return
		}

		status := map[string]any{}
		if services.PlanProgressService != nil {
			status["plan_progress"] = services.PlanProgressService.GetStatus()
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(status)
	}
}
