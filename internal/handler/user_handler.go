package handler

import (
	"context"
	"net/http"
	"strings"

	"workorder/internal/auth"
	"workorder/internal/middleware"
	"workorder/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, role model.Role) ([]model.User, error)
}

type UserHandler struct {
	repo   UserStore
	tokens *auth.TokenManager
}

func NewUserHandler(repo UserStore, tokens *auth.TokenManager) *UserHandler {
	return &UserHandler{repo: repo, tokens: tokens}
}

// RegisterRequest представляет запрос на регистрацию
type RegisterRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Name       string `json:"name" binding:"required,min=2"`
	Password   string `json:"password" binding:"required,min=6"`
	Phone      string `json:"phone"`
	Department string `json:"department"`
}

// CreateUserRequest используется администратором и задает роль
type CreateUserRequest struct {
	RegisterRequest
	Role model.Role `json:"role" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	Role       model.Role `json:"role"`
	Phone      string     `json:"phone,omitempty"`
	Department string     `json:"department,omitempty"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func newUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:         u.ID.String(),
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		Phone:      u.Phone,
		Department: u.Department,
	}
}

// Register создает технический аккаунт и сразу выдает токен
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user, ok := h.create(c, req, model.RoleTechnician)
	if !ok {
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusCreated, AuthResponse{Token: token, User: newUserResponse(user)})
}

// CreateUser создает пользователя с произвольной ролью (только admin)
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user, ok := h.create(c, req.RegisterRequest, req.Role)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, newUserResponse(user))
}

func (h *UserHandler) create(c *gin.Context, req RegisterRequest, role model.Role) (*model.User, bool) {
	email := strings.ToLower(req.Email)

	existing, err := h.repo.FindByEmail(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return nil, false
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User with this email already exists"})
		return nil, false
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Hash error"})
		return nil, false
	}

	user := &model.User{
		ID:             uuid.New(),
		Email:          email,
		Name:           req.Name,
		Phone:          req.Phone,
		Department:     req.Department,
		Role:           role,
		HashedPassword: string(hash),
	}
	if err := h.repo.Create(c.Request.Context(), user); err != nil {
		writeError(c, err)
		return nil, false
	}
	return user, true
}

// Login проверяет пароль и выдает JWT
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user, err := h.repo.FindByEmail(c.Request.Context(), strings.ToLower(req.Email))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, AuthResponse{Token: token, User: newUserResponse(user)})
}

// Me возвращает профиль текущего пользователя
func (h *UserHandler) Me(c *gin.Context) {
	actor := middleware.Actor(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	c.JSON(http.StatusOK, newUserResponse(actor))
}

// List возвращает пользователей, опционально по роли (?role=technician)
func (h *UserHandler) List(c *gin.Context) {
	role := model.Role(c.Query("role"))
	if role != "" && !role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}
	users, err := h.repo.List(c.Request.Context(), role)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = newUserResponse(&users[i])
	}
	c.JSON(http.StatusOK, out)
}
