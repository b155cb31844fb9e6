//go:build api
// +build api

// Package api 认证 API 测试
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dumeirei/hotel-booking-backend/internal/common/jwt"
	authHandler "github.com/dumeirei/hotel-booking-backend/internal/handler/auth"
	"github.com/dumeirei/hotel-booking-backend/internal/models"
	"github.com/dumeirei/hotel-booking-backend/internal/repository"
	authService "github.com/dumeirei/hotel-booking-backend/internal/service/auth"
	customerService "github.com/dumeirei/hotel-booking-backend/internal/service/customer"
	"github.com/dumeirei/hotel-booking-backend/tests/helpers"
)

func setupAuthAPIRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	r := gin.New()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Customer{})
	require.NoError(t, err)

	jwtManager := jwt.NewManager(&jwt.Config{
		Secret:            "test-secret-key-auth-api",
		AccessExpireTime:  time.Hour,
		RefreshExpireTime: 2 * time.Hour,
		Issuer:            "test",
	})

	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)

	authSvc := authService.NewAuthService(userRepo, customerRepo, jwtManager)
	customerSvc := customerService.NewCustomerService(customerRepo)

	authH := authHandler.NewAuthHandler(authSvc, customerSvc)

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authH.Register)
			auth.POST("/login", authH.CustomerLogin)
			auth.POST("/refresh", authH.RefreshToken)
		}
		v1.POST("/admin/auth/login", authH.StaffLogin)
	}

	return r, db
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, _ := http.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthAPI_RegisterAndLogin(t *testing.T) {
	router, _ := setupAuthAPIRouter(t)

	t.Run("注册后可登录", func(t *testing.T) {
		w := postJSON(t, router, "/api/v1/auth/register", gin.H{
			"email":      "guest@example.com",
			"password":   "password123",
			"first_name": "三",
			"last_name":  "张",
		})
		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, float64(0), resp["code"])

		w = postJSON(t, router, "/api/v1/auth/login", gin.H{
			"email":    "guest@example.com",
			"password": "password123",
		})
		assert.Equal(t, http.StatusOK, w.Code)

		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, float64(0), resp["code"])

		data := resp["data"].(map[string]interface{})
		token := data["token"].(map[string]interface{})
		assert.NotEmpty(t, token["access_token"])
		assert.NotEmpty(t, token["refresh_token"])
	})

	t.Run("重复邮箱注册被拒绝", func(t *testing.T) {
		w := postJSON(t, router, "/api/v1/auth/register", gin.H{
			"email":      "guest@example.com",
			"password":   "password123",
			"first_name": "三",
			"last_name":  "张",
		})
		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEqual(t, float64(0), resp["code"])
	})

	t.Run("错误密码登录失败", func(t *testing.T) {
		w := postJSON(t, router, "/api/v1/auth/login", gin.H{
			"email":    "guest@example.com",
			"password": "wrong-password",
		})

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEqual(t, float64(0), resp["code"])
	})
}

func TestAuthAPI_StaffLogin(t *testing.T) {
	router, db := setupAuthAPIRouter(t)

	staff := helpers.NewTestStaff(models.RoleAdmin)
	require.NoError(t, db.Create(staff).Error)

	t.Run("员工登录成功", func(t *testing.T) {
		w := postJSON(t, router, "/api/v1/admin/auth/login", gin.H{
			"username": staff.Username,
			"password": "password123",
		})
		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, float64(0), resp["code"])
	})

	t.Run("停用员工登录被拒绝", func(t *testing.T) {
		require.NoError(t, db.Model(&models.User{}).Where("id = ?", staff.ID).Update("is_active", false).Error)

		w := postJSON(t, router, "/api/v1/admin/auth/login", gin.H{
			"username": staff.Username,
			"password": "password123",
		})

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEqual(t, float64(0), resp["code"])
	})
}

func TestAuthAPI_RefreshToken(t *testing.T) {
	router, _ := setupAuthAPIRouter(t)

	w := postJSON(t, router, "/api/v1/auth/register", gin.H{
		"email":      "refresh@example.com",
		"password":   "password123",
		"first_name": "四",
		"last_name":  "李",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, router, "/api/v1/auth/login", gin.H{
		"email":    "refresh@example.com",
		"password": "password123",
	})

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	token := data["token"].(map[string]interface{})
	refreshToken := token["refresh_token"].(string)

	t.Run("刷新令牌成功", func(t *testing.T) {
		w := postJSON(t, router, "/api/v1/auth/refresh", gin.H{
			"refresh_token": refreshToken,
		})
		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, float64(0), resp["code"])

		data := resp["data"].(map[string]interface{})
		assert.NotEmpty(t, data["access_token"])
	})

	t.Run("非法令牌刷新失败", func(t *testing.T) {
		w := postJSON(t, router, "/api/v1/auth/refresh", gin.H{
			"refresh_token": "not-a-token",
		})

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEqual(t, float64(0), resp["code"])
	})
}
