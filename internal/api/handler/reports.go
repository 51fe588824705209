package handler

import (
	"net/http"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"github.com/vfarma/sales-force-api/internal/domain"
	"github.com/vfarma/sales-force-api/internal/usecases/reporting"
	"github.com/vfarma/sales-force-api/pkg/apiErrors"
	"github.com/vfarma/sales-force-api/pkg/middleware"
	"github.com/vfarma/sales-force-api/pkg/utils"
)

// Os relatórios podem ser grandes; o jsoniter serializa mais rápido que o encoding/json
var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// GetManagerReport monta o relatório gerencial do mês informado na query string
func GetManagerReport(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, ok := parseReportFilters(w, r)
		if !ok {
			return
		}

		report, err := service.ManagerReport(filters)
		if err != nil {
			logrus.WithError(err).Error("Erro ao montar o relatório gerencial")
			apiErrors.WriteError(w, apiErrors.ErrReportAssembly, "Erro ao montar o relatório", nil)
			return
		}

		writeReport(w, report)
	}
}

// GetDirectorReport monta o relatório da diretoria do mês informado
func GetDirectorReport(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, ok := parseReportFilters(w, r)
		if !ok {
			return
		}

		report, err := service.DirectorReport(filters)
		if err != nil {
			logrus.WithError(err).Error("Erro ao montar o relatório da diretoria")
			apiErrors.WriteError(w, apiErrors.ErrReportAssembly, "Erro ao montar o relatório", nil)
			return
		}

		writeReport(w, report)
	}
}

// GetMyCommercialReport monta o recorte individual do comercial logado
func GetMyCommercialReport(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		if userClaims.UserCommercialID == nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Usuário não está vinculado a um comercial", nil)
			return
		}

		filters, ok := parseReportFilters(w, r)
		if !ok {
			return
		}

		// O recorte individual é sempre do próprio comercial, independente do filtro
		filters.CommercialID = userClaims.UserCommercialID

		report, err := service.CommercialReport(filters)
		if err != nil {
			logrus.WithError(err).Error("Erro ao montar o relatório do comercial")
			apiErrors.WriteError(w, apiErrors.ErrReportAssembly, "Erro ao montar o relatório", nil)
			return
		}

		writeReport(w, report)
	}
}

// parseReportFilters lê ano, mês e o filtro opcional de comercial da query string
func parseReportFilters(w http.ResponseWriter, r *http.Request) (*domain.ReportFilters, bool) {
	query := r.URL.Query()

	year, err := utils.ParseYear(query.Get("year"))
	if err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidPeriod, err.Error(), nil)
		return nil, false
	}

	month, err := utils.ParseMonth(query.Get("month"))
	if err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidPeriod, err.Error(), nil)
		return nil, false
	}

	filters := &domain.ReportFilters{Year: year, Month: month}

	if commercialIDStr := query.Get("commercial_id"); commercialIDStr != "" {
		commercialID, err := strconv.Atoi(commercialIDStr)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Identificador de comercial inválido", nil)
			return nil, false
		}
		filters.CommercialID = &commercialID
	}

	return filters, true
}

func writeReport(w http.ResponseWriter, report any) {
	w.Header().Set("Content-Type", "application/json")
	if err := jsonAPI.NewEncoder(w).Encode(report); err != nil {
		logrus.WithError(err).Error("Erro ao enviar o relatório")
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
	}
}
