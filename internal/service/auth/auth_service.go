// Package auth 提供认证服务
package auth

import (
	"context"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-booking-backend/internal/common/crypto"
	"github.com/dumeirei/hotel-booking-backend/internal/common/errors"
	"github.com/dumeirei/hotel-booking-backend/internal/common/jwt"
	"github.com/dumeirei/hotel-booking-backend/internal/models"
	"github.com/dumeirei/hotel-booking-backend/internal/repository"
)

// AuthService 认证服务（员工与客户两类主体）
type AuthService struct {
	userRepo     *repository.UserRepository
	customerRepo *repository.CustomerRepository
	jwtManager   *jwt.Manager
}

// NewAuthService 创建认证服务
func NewAuthService(
	userRepo *repository.UserRepository,
	customerRepo *repository.CustomerRepository,
	jwtManager *jwt.Manager,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		customerRepo: customerRepo,
		jwtManager:   jwtManager,
	}
}

// StaffLoginRequest 员工登录请求
type StaffLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CustomerLoginRequest 客户登录请求
type CustomerLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest 刷新令牌请求
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// StaffLoginResponse 员工登录响应
type StaffLoginResponse struct {
	User  *models.User   `json:"user"`
	Token *jwt.TokenPair `json:"token"`
}

// CustomerLoginResponse 客户登录响应
type CustomerLoginResponse struct {
	Customer *models.Customer `json:"customer"`
	Token    *jwt.TokenPair   `json:"token"`
}

// StaffLogin 员工登录
func (s *AuthService) StaffLogin(ctx context.Context, req *StaffLoginRequest) (*StaffLoginResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrPasswordError
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if !crypto.VerifyPassword(req.Password, user.PasswordHash) {
		return nil, errors.ErrPasswordError
	}
	if !user.IsActive {
		return nil, errors.ErrAccountDisabled
	}

	tokenPair, err := s.jwtManager.GenerateTokenPair(user.ID, jwt.UserTypeStaff, user.Role)
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}

	_ = s.userRepo.UpdateLastLogin(ctx, user.ID)

	return &StaffLoginResponse{User: user, Token: tokenPair}, nil
}

// CustomerLogin 客户登录
func (s *AuthService) CustomerLogin(ctx context.Context, req *CustomerLoginRequest) (*CustomerLoginResponse, error) {
	customer, err := s.customerRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrPasswordError
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if !crypto.VerifyPassword(req.Password, customer.PasswordHash) {
		return nil, errors.ErrPasswordError
	}
	if !customer.IsActive {
		return nil, errors.ErrAccountDisabled
	}

	tokenPair, err := s.jwtManager.GenerateTokenPair(customer.ID, jwt.UserTypeCustomer, "")
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}

	_ = s.customerRepo.UpdateLastLogin(ctx, customer.ID)

	return &CustomerLoginResponse{Customer: customer, Token: tokenPair}, nil
}

// RefreshToken 用刷新令牌换取新令牌对
func (s *AuthService) RefreshToken(ctx context.Context, req *RefreshRequest) (*jwt.TokenPair, error) {
	claims, err := s.jwtManager.ParseToken(req.RefreshToken)
	if err != nil {
		return nil, errors.ErrTokenRefreshFail.WithError(err)
	}

	// 刷新前确认主体仍然有效
	switch claims.UserType {
	case jwt.UserTypeStaff:
		user, err := s.userRepo.GetByID(ctx, claims.UserID)
		if err != nil || !user.IsActive {
			return nil, errors.ErrTokenRefreshFail
		}
	case jwt.UserTypeCustomer:
		customer, err := s.customerRepo.GetByID(ctx, claims.UserID)
		if err != nil || !customer.IsActive {
			return nil, errors.ErrTokenRefreshFail
		}
	default:
		return nil, errors.ErrTokenInvalid
	}

	tokenPair, err := s.jwtManager.GenerateTokenPair(claims.UserID, claims.UserType, claims.Role)
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}
	return tokenPair, nil
}

// ChangeStaffPassword 员工修改密码
func (s *AuthService) ChangeStaffPassword(ctx context.Context, userID string, req *ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrUserNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}

	if !crypto.VerifyPassword(req.OldPassword, user.PasswordHash) {
		return errors.ErrPasswordError
	}

	hash, err := crypto.HashPassword(req.NewPassword)
	if err != nil {
		return errors.ErrInternalError.WithError(err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// ChangeCustomerPassword 客户修改密码
func (s *AuthService) ChangeCustomerPassword(ctx context.Context, customerID string, req *ChangePasswordRequest) error {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrCustomerNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}

	if !crypto.VerifyPassword(req.OldPassword, customer.PasswordHash) {
		return errors.ErrPasswordError
	}

	hash, err := crypto.HashPassword(req.NewPassword)
	if err != nil {
		return errors.ErrInternalError.WithError(err)
	}
	if err := s.customerRepo.UpdatePassword(ctx, customerID, hash); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}
