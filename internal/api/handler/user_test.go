package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/vfarma/sales-force-api/internal/domain"
	"github.com/vfarma/sales-force-api/internal/usecases/authenticating/mocks"
	"github.com/vfarma/sales-force-api/pkg/apiErrors"
	"github.com/vfarma/sales-force-api/pkg/middleware"
)

// withClaims injeta as claims do usuário logado no contexto da requisição,
// como o middleware de autenticação faz em produção
func withClaims(r *http.Request, claims *domain.Claims) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.ContextKeyUser, claims)
	return r.WithContext(ctx)
}

// withRouteID injeta o parâmetro :id da rota no contexto da requisição
func withRouteID(r *http.Request, id string) *http.Request {
	params := httprouter.Params{{Key: "id", Value: id}}
	ctx := context.WithValue(r.Context(), httprouter.ParamsKey, params)
	return r.WithContext(ctx)
}

func decodeAPIError(t *testing.T, rec *httptest.ResponseRecorder) apiErrors.APIError {
	t.Helper()

	var apiErr apiErrors.APIError
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
	return apiErr
}

func TestCreateUser(t *testing.T) {
	t.Run("Perfil comercial exige vínculo com um comercial", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		service := mocks.NewMockAuthenticator(ctrl)

		body := `{"name":"Ana","lastname":"Souza","email":"ana@vfarma.com.br","password":"Forte@123","role_id":3}`
		req := httptest.NewRequest(http.MethodPost, "/v1/users", strings.NewReader(body))
		rec := httptest.NewRecorder()

		CreateUser(service)(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, apiErrors.ErrMissingRequiredData, decodeAPIError(t, rec).Code)
	})

	t.Run("Perfil de gestão não pode carregar vínculo comercial", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		service := mocks.NewMockAuthenticator(ctrl)

		body := `{"name":"Ana","lastname":"Souza","email":"ana@vfarma.com.br","password":"Forte@123","role_id":2,"commercial_id":4}`
		req := httptest.NewRequest(http.MethodPost, "/v1/users", strings.NewReader(body))
		rec := httptest.NewRecorder()

		CreateUser(service)(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, apiErrors.ErrInvalidRequest, decodeAPIError(t, rec).Code)
	})

	t.Run("Comercial criado devolve o rótulo do perfil e o vínculo", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		service := mocks.NewMockAuthenticator(ctrl)

		commercialID := 4
		created := &domain.User{
			ID:           9,
			Name:         "Ana",
			Lastname:     "Souza",
			Email:        "ana@vfarma.com.br",
			RoleID:       3,
			CommercialID: &commercialID,
		}
		service.EXPECT().CreateUser(gomock.Any()).Return(created, nil)

		body := `{"name":"Ana","lastname":"Souza","email":"ana@vfarma.com.br","password":"Forte@123","role_id":3,"commercial_id":4}`
		req := httptest.NewRequest(http.MethodPost, "/v1/users", strings.NewReader(body))
		rec := httptest.NewRecorder()

		CreateUser(service)(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp UserResponse
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, 9, resp.ID)
		assert.Equal(t, "Comercial", resp.Role)
		assert.NotNil(t, resp.CommercialID)
		assert.Equal(t, 4, *resp.CommercialID)
	})
}

func TestListUsers(t *testing.T) {
	t.Run("Apenas a diretoria pode listar a equipe", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		service := mocks.NewMockAuthenticator(ctrl)

		req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
		req = withClaims(req, &domain.Claims{UserID: 2, UserRoleID: middleware.RoleManager})
		rec := httptest.NewRecorder()

		ListUsers(service)(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, apiErrors.ErrInsufficientPrivilege, decodeAPIError(t, rec).Code)
	})

	t.Run("Listagem resolve o rótulo do perfil e o vínculo de cada membro", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		service := mocks.NewMockAuthenticator(ctrl)

		commercialID := 4
		service.EXPECT().ListUser().Return([]*domain.User{
			{ID: 1, Name: "Direção", RoleID: 1},
			{ID: 2, Name: "Gerente", RoleID: 2},
			{ID: 3, Name: "Ana", RoleID: 3, CommercialID: &commercialID},
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
		req = withClaims(req, &domain.Claims{UserID: 1, UserRoleID: middleware.RoleDirector})
		rec := httptest.NewRecorder()

		ListUsers(service)(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var team []*UserResponse
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&team))
		assert.Len(t, team, 3)
		assert.Equal(t, "Diretoria", team[0].Role)
		assert.Equal(t, "Gerência", team[1].Role)
		assert.Equal(t, "Comercial", team[2].Role)
		assert.NotNil(t, team[2].CommercialID)
		assert.Equal(t, 4, *team[2].CommercialID)
	})
}

func TestGetUser(t *testing.T) {
	t.Run("Quem não é da diretoria só consulta o próprio perfil", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		service := mocks.NewMockAuthenticator(ctrl)

		req := httptest.NewRequest(http.MethodGet, "/v1/users/9", nil)
		req = withRouteID(req, "9")
		req = withClaims(req, &domain.Claims{UserID: 3, UserRoleID: middleware.RoleCommercial})
		rec := httptest.NewRecorder()

		GetUser(service)(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Consulta do próprio perfil devolve a projeção sem a senha", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		service := mocks.NewMockAuthenticator(ctrl)

		commercialID := 4
		service.EXPECT().GetUserProfile(3).Return(&domain.User{
			ID:           3,
			Name:         "Ana",
			RoleID:       3,
			CommercialID: &commercialID,
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/users/3", nil)
		req = withRouteID(req, "3")
		req = withClaims(req, &domain.Claims{UserID: 3, UserRoleID: middleware.RoleCommercial})
		rec := httptest.NewRecorder()

		GetUser(service)(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp UserResponse
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "Comercial", resp.Role)
		assert.NotContains(t, rec.Body.String(), "password")
	})
}

func TestUpdateUser(t *testing.T) {
	t.Run("Só a diretoria altera perfil ou vínculo comercial", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		service := mocks.NewMockAuthenticator(ctrl)

		body := `{"commercial_id":8}`
		req := httptest.NewRequest(http.MethodPut, "/v1/users/3", strings.NewReader(body))
		req = withRouteID(req, "3")
		req = withClaims(req, &domain.Claims{UserID: 3, UserRoleID: middleware.RoleCommercial})
		rec := httptest.NewRecorder()

		UpdateUser(service)(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, apiErrors.ErrInsufficientPrivilege, decodeAPIError(t, rec).Code)
	})

	t.Run("Usuário edita o próprio cadastro", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		service := mocks.NewMockAuthenticator(ctrl)
		service.EXPECT().UpdateUser(gomock.Any()).Return(nil)

		body := `{"name":"Ana Paula"}`
		req := httptest.NewRequest(http.MethodPut, "/v1/users/3", strings.NewReader(body))
		req = withRouteID(req, "3")
		req = withClaims(req, &domain.Claims{UserID: 3, UserRoleID: middleware.RoleCommercial})
		rec := httptest.NewRecorder()

		UpdateUser(service)(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
