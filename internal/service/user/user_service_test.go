// Package user 员工服务单元测试
package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	appErrors "github.com/dumeirei/hotel-booking-backend/internal/common/errors"
	"github.com/dumeirei/hotel-booking-backend/internal/models"
	"github.com/dumeirei/hotel-booking-backend/internal/repository"
)

func setupUserService(t *testing.T) *UserService {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{})
	require.NoError(t, err)

	return NewUserService(repository.NewUserRepository(db))
}

func TestUserService_CreateUser(t *testing.T) {
	service := setupUserService(t)
	ctx := context.Background()

	user, err := service.CreateUser(ctx, &CreateUserRequest{
		Username:    "manager01",
		Email:       "manager@example.com",
		Password:    "secret-password",
		DisplayName: "前台经理",
		Role:        models.RoleAdmin,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.True(t, user.IsActive)

	// 用户名冲突
	_, err = service.CreateUser(ctx, &CreateUserRequest{
		Username:    "manager01",
		Email:       "other@example.com",
		Password:    "secret-password",
		DisplayName: "别人",
		Role:        models.RoleEditor,
	})
	assert.ErrorIs(t, err, appErrors.ErrUsernameExists)

	// 邮箱冲突
	_, err = service.CreateUser(ctx, &CreateUserRequest{
		Username:    "manager02",
		Email:       "manager@example.com",
		Password:    "secret-password",
		DisplayName: "别人",
		Role:        models.RoleEditor,
	})
	assert.ErrorIs(t, err, appErrors.ErrEmailExists)

	// 非法角色
	_, err = service.CreateUser(ctx, &CreateUserRequest{
		Username:    "manager03",
		Email:       "m3@example.com",
		Password:    "secret-password",
		DisplayName: "别人",
		Role:        "SUPERUSER",
	})
	assert.ErrorIs(t, err, appErrors.ErrRoleInvalid)
}

func TestUserService_UpdateUser(t *testing.T) {
	service := setupUserService(t)
	ctx := context.Background()

	user, err := service.CreateUser(ctx, &CreateUserRequest{
		Username:    "editor01",
		Email:       "editor@example.com",
		Password:    "secret-password",
		DisplayName: "编辑",
		Role:        models.RoleEditor,
	})
	require.NoError(t, err)

	role := models.RoleAdmin
	name := "运营主管"
	updated, err := service.UpdateUser(ctx, user.ID, &UpdateUserRequest{
		Role:        &role,
		DisplayName: &name,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)
	assert.Equal(t, "运营主管", updated.DisplayName)

	bad := "ROOT"
	_, err = service.UpdateUser(ctx, user.ID, &UpdateUserRequest{Role: &bad})
	assert.ErrorIs(t, err, appErrors.ErrRoleInvalid)

	_, err = service.UpdateUser(ctx, "missing", &UpdateUserRequest{DisplayName: &name})
	assert.ErrorIs(t, err, appErrors.ErrUserNotFound)
}

func TestUserService_SetActiveAndList(t *testing.T) {
	service := setupUserService(t)
	ctx := context.Background()

	user, err := service.CreateUser(ctx, &CreateUserRequest{
		Username:    "staff01",
		Email:       "staff01@example.com",
		Password:    "secret-password",
		DisplayName: "前台",
		Role:        models.RoleEditor,
	})
	require.NoError(t, err)

	updated, err := service.SetActive(ctx, user.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	inactive := false
	_, total, err := service.ListUsers(ctx, &ListUsersParams{IsActive: &inactive, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
