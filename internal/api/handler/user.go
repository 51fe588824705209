package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfarma/sales-force-api/internal/domain"
	"github.com/vfarma/sales-force-api/internal/usecases/authenticating"
	"github.com/vfarma/sales-force-api/pkg/apiErrors"
	"github.com/vfarma/sales-force-api/pkg/middleware"
)

// CreateUserRequest é o corpo de criação de usuário. O vínculo com um
// comercial é obrigatório para o perfil comercial e proibido para os demais.
type CreateUserRequest struct {
	Name         string `json:"name"`
	Lastname     string `json:"lastname"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	RoleID       int    `json:"role_id"`
	CommercialID *int   `json:"commercial_id"`
}

// UserResponse é a projeção de usuário devolvida pela API, sem o hash de
// senha e com o rótulo do perfil resolvido
type UserResponse struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Lastname     string `json:"lastname"`
	Email        string `json:"email"`
	Active       bool   `json:"active"`
	RoleID       int    `json:"role_id"`
	Role         string `json:"role"`
	CommercialID *int   `json:"commercial_id,omitempty"`
}

func roleLabel(roleID int) string {
	switch roleID {
	case middleware.RoleDirector:
		return "Diretoria"
	case middleware.RoleManager:
		return "Gerência"
	case middleware.RoleCommercial:
		return "Comercial"
	default:
		return "Desconhecido"
	}
}

func newUserResponse(user *domain.User) *UserResponse {
	return &UserResponse{
		ID:           user.ID,
		Name:         user.Name,
		Lastname:     user.Lastname,
		Email:        user.Email,
		Active:       user.Active,
		RoleID:       user.RoleID,
		Role:         roleLabel(user.RoleID),
		CommercialID: user.CommercialID,
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.WithError(err).Error("Erro ao enviar resposta")
	}
}

// userIDFromPath extrai o :id da rota de usuários
func userIDFromPath(w http.ResponseWriter, r *http.Request) (int, bool) {
	idStr := httprouter.ParamsFromContext(r.Context()).ByName("id")
	if idStr == "" {
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do usuário não fornecido", nil)
		return 0, false
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "ID do usuário inválido", nil)
		return 0, false
	}

	return id, true
}

// GetUser retorna o perfil de um usuário. Quem não é da diretoria só
// enxerga o próprio perfil.
func GetUser(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := userIDFromPath(w, r)
		if !ok {
			return
		}

		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		if userClaims.UserID != id && userClaims.UserRoleID != middleware.RoleDirector {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Você não tem permissão para consultar este usuário", nil)
			return
		}

		user, err := service.GetUserProfile(id)
		if err != nil {
			logrus.WithError(err).Error("Erro ao buscar usuário")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar usuário", nil)
			return
		}

		if user == nil {
			apiErrors.WriteError(w, apiErrors.ErrUserNotFound, "Usuário não encontrado", nil)
			return
		}

		respondJSON(w, http.StatusOK, newUserResponse(user))
	}
}

// CreateUser cadastra um membro da equipe de vendas
func CreateUser(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - CreateUser")

		var req CreateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.WithError(err).Error("Erro ao decodificar requisição")
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		if req.Name == "" || req.Email == "" || req.Password == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Nome, email e senha são obrigatórios", nil)
			return
		}

		// O recorte individual dos relatórios depende do vínculo do usuário
		// com um comercial; perfis de gestão não carregam vínculo. Perfil
		// omitido entra como comercial.
		isCommercial := req.RoleID == middleware.RoleCommercial || req.RoleID == 0
		if isCommercial && req.CommercialID == nil {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Vínculo com um comercial é obrigatório para o perfil comercial", nil)
			return
		}
		if !isCommercial && req.CommercialID != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Apenas o perfil comercial pode ter vínculo com um comercial", nil)
			return
		}

		user, err := service.CreateUser(&domain.User{
			Name:         req.Name,
			Lastname:     req.Lastname,
			Email:        req.Email,
			PasswordHash: req.Password,
			RoleID:       req.RoleID,
			CommercialID: req.CommercialID,
		})
		if err != nil {
			logrus.WithError(err).Error("Erro ao criar usuário")
			writeAuthenticatingError(w, err)
			return
		}

		respondJSON(w, http.StatusCreated, newUserResponse(user))
	}
}

// writeAuthenticatingError traduz os erros do caso de uso de autenticação
// para a resposta padronizada da API
func writeAuthenticatingError(w http.ResponseWriter, err error) {
	var authErr *authenticating.AuthError
	if errors.As(err, &authErr) {
		apiErrors.WriteError(w, authErr.Code, authErr.Details, nil)
		return
	}

	apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao processar a operação", nil)
}

// ListUsers lista a equipe inteira com o rótulo do perfil e o vínculo
// comercial resolvidos. Restrito à diretoria.
func ListUsers(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok || userClaims.UserRoleID != middleware.RoleDirector {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Apenas a diretoria pode listar todos os usuários", nil)
			return
		}

		users, err := service.ListUser()
		if err != nil {
			logrus.WithError(err).Error("Erro ao buscar usuários")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar usuários", nil)
			return
		}

		team := make([]*UserResponse, 0, len(users))
		for _, user := range users {
			team = append(team, newUserResponse(user))
		}

		respondJSON(w, http.StatusOK, team)
	}
}

// UpdateUser atualiza o cadastro. Cada usuário edita o próprio perfil;
// perfil e vínculo comercial só mudam pela mão da diretoria.
func UpdateUser(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - UpdateUser")

		id, ok := userIDFromPath(w, r)
		if !ok {
			return
		}

		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok || (userClaims.UserID != id && userClaims.UserRoleID != middleware.RoleDirector) {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Você não tem permissão para editar este usuário", nil)
			return
		}

		var updateReq domain.UpdateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
			logrus.WithError(err).Error("Erro ao decodificar requisição")
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		updateReq.ID = id

		if (updateReq.RoleID != nil || updateReq.CommercialID != nil) && userClaims.UserRoleID != middleware.RoleDirector {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Apenas a diretoria pode alterar o perfil ou o vínculo comercial", nil)
			return
		}

		if err := service.UpdateUser(&updateReq); err != nil {
			logrus.WithError(err).Error("Erro ao atualizar usuário")
			writeAuthenticatingError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
	}
}
