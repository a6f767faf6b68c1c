package auth_test

import (
	"testing"
	"time"

	"workorder/internal/auth"
	"workorder/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func TestGenerateAndParseToken(t *testing.T) {
	manager := auth.NewTokenManager(testSecret, 24*time.Hour)
	user := &model.User{ID: uuid.New(), Role: model.RolePlanner}

	// Генерируем токен
	token, err := manager.Generate(user)

	// Проверяем, что токен создан без ошибок
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// Парсим токен
	claims, err := manager.Parse(token)

	// Проверяем, что из токена извлечены ID пользователя и роль
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, model.RolePlanner, claims.Role)
}

func TestParseToken_InvalidToken(t *testing.T) {
	manager := auth.NewTokenManager(testSecret, time.Hour)

	_, err := manager.Parse("invalid-token")

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseToken_WrongSecret(t *testing.T) {
	other := auth.NewTokenManager("another-secret", time.Hour)
	token, err := other.Generate(&model.User{ID: uuid.New()})
	require.NoError(t, err)

	_, err = auth.NewTokenManager(testSecret, time.Hour).Parse(token)

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseToken_ExpiredToken(t *testing.T) {
	manager := auth.NewTokenManager(testSecret, time.Hour)

	// Создаем токен с истекшим сроком действия
	claims := jwt.MapClaims{
		"user_id": uuid.NewString(),
		"exp":     time.Now().Add(-1 * time.Hour).Unix(), // Токен истек 1 час назад
	}
	expiredToken, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))

	_, err := manager.Parse(expiredToken)

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseToken_MissingClaims(t *testing.T) {
	manager := auth.NewTokenManager(testSecret, time.Hour)

	// Создаем токен без ID пользователя
	claims := jwt.MapClaims{
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))

	_, err := manager.Parse(token)

	assert.ErrorIs(t, err, auth.ErrInvalidClaims)
}

func TestParseUserID_NotAUUID(t *testing.T) {
	manager := auth.NewTokenManager(testSecret, time.Hour)
	claims := jwt.MapClaims{
		"user_id": "not-a-valid-uuid",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))

	_, _, err := manager.ParseUserID(token)

	assert.ErrorIs(t, err, auth.ErrInvalidClaims)
}
