// Package customer 提供客户账户服务
package customer

import (
	"context"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-booking-backend/internal/common/crypto"
	"github.com/dumeirei/hotel-booking-backend/internal/common/errors"
	"github.com/dumeirei/hotel-booking-backend/internal/common/utils"
	"github.com/dumeirei/hotel-booking-backend/internal/models"
	"github.com/dumeirei/hotel-booking-backend/internal/repository"
)

// CustomerService 客户服务
type CustomerService struct {
	customerRepo *repository.CustomerRepository
}

// NewCustomerService 创建客户服务
func NewCustomerService(customerRepo *repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// RegisterRequest 客户注册请求
type RegisterRequest struct {
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=8,max=72"`
	FirstName string  `json:"first_name" binding:"required,max=100"`
	LastName  string  `json:"last_name" binding:"required,max=100"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
	City      *string `json:"city,omitempty"`
	Country   *string `json:"country,omitempty"`
}

// UpdateCustomerRequest 更新客户资料请求（仅更新提供的字段）
type UpdateCustomerRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
	City      *string `json:"city,omitempty"`
	Country   *string `json:"country,omitempty"`
	IDNumber  *string `json:"id_number,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// ListCustomersParams 客户列表查询参数
type ListCustomersParams struct {
	Email    string
	Name     string
	City     string
	IsActive *bool
	Offset   int
	Limit    int
}

// Register 注册客户
func (s *CustomerService) Register(ctx context.Context, req *RegisterRequest) (*models.Customer, error) {
	if !utils.ValidateEmail(req.Email) {
		return nil, errors.ErrInvalidParams.WithMessage("无效的邮箱地址")
	}

	exists, err := s.customerRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if exists {
		return nil, errors.ErrEmailExists
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}

	customer := &models.Customer{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Address:      req.Address,
		City:         req.City,
		Country:      req.Country,
		IsActive:     true,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return customer, nil
}

// GetCustomer 获取客户详情
func (s *CustomerService) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrCustomerNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return customer, nil
}

// UpdateCustomer 更新客户资料
func (s *CustomerService) UpdateCustomer(ctx context.Context, id string, req *UpdateCustomerRequest) (*models.Customer, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		customer.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		customer.LastName = *req.LastName
	}
	if req.Phone != nil {
		customer.Phone = req.Phone
	}
	if req.Address != nil {
		customer.Address = req.Address
	}
	if req.City != nil {
		customer.City = req.City
	}
	if req.Country != nil {
		customer.Country = req.Country
	}
	if req.IDNumber != nil {
		customer.IDNumber = req.IDNumber
	}
	if req.Notes != nil {
		customer.Notes = req.Notes
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return customer, nil
}

// SetActive 启用或停用客户账号
func (s *CustomerService) SetActive(ctx context.Context, id string, active bool) (*models.Customer, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.customerRepo.SetActive(ctx, id, active); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	customer.IsActive = active
	return customer, nil
}

// ListCustomers 获取客户列表（后台）
func (s *CustomerService) ListCustomers(ctx context.Context, params *ListCustomersParams) ([]*models.Customer, int64, error) {
	filters := make(map[string]interface{})
	if params.Email != "" {
		filters["email"] = params.Email
	}
	if params.Name != "" {
		filters["name"] = params.Name
	}
	if params.City != "" {
		filters["city"] = params.City
	}
	if params.IsActive != nil {
		filters["is_active"] = *params.IsActive
	}

	customers, total, err := s.customerRepo.List(ctx, params.Offset, params.Limit, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return customers, total, nil
}
