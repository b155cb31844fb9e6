package billing

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-booking-backend/internal/common/errors"
	"github.com/dumeirei/hotel-booking-backend/internal/common/metrics"
	"github.com/dumeirei/hotel-booking-backend/internal/models"
	"github.com/dumeirei/hotel-booking-backend/internal/repository"
)

// PaymentService 支付记录服务
type PaymentService struct {
	db          *gorm.DB
	paymentRepo *repository.PaymentRepository
	invoiceRepo *repository.InvoiceRepository
}

// NewPaymentService 创建支付记录服务
func NewPaymentService(db *gorm.DB, paymentRepo *repository.PaymentRepository, invoiceRepo *repository.InvoiceRepository) *PaymentService {
	return &PaymentService{
		db:          db,
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
	}
}

// CreatePaymentRequest 登记支付请求
type CreatePaymentRequest struct {
	InvoiceID     string  `json:"invoice_id" binding:"required"`
	Amount        float64 `json:"amount"`
	Method        string  `json:"method" binding:"required"`
	PaymentDate   *string `json:"payment_date,omitempty"`
	TransactionID *string `json:"transaction_id,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// ListPaymentsParams 支付记录查询参数
type ListPaymentsParams struct {
	InvoiceID string
	Method    string
	StartDate *time.Time
	EndDate   *time.Time
	Offset    int
	Limit     int
}

// CreatePayment 登记一笔支付并在同一事务内更新账单台账
func (s *PaymentService) CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*models.Payment, error) {
	if req.Amount < 0 {
		return nil, errors.ErrPaymentAmountInvalid
	}
	if !models.ValidPaymentMethod(req.Method) {
		return nil, errors.ErrPaymentMethodInvalid
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, req.InvoiceID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrInvoiceNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if invoice.Status == models.InvoiceStatusCancelled {
		return nil, errors.ErrInvoiceCancelled
	}

	paymentDate := time.Now()
	if req.PaymentDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.PaymentDate)
		if err != nil {
			return nil, errors.ErrInvalidParams.WithMessage("无效的支付日期")
		}
		paymentDate = parsed
	}

	payment := &models.Payment{
		InvoiceID:     req.InvoiceID,
		Amount:        req.Amount,
		Method:        req.Method,
		PaymentDate:   paymentDate,
		TransactionID: req.TransactionID,
		Notes:         req.Notes,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payment).Error; err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		_, err := applyPayment(ctx, tx, s.invoiceRepo, req.InvoiceID, req.Amount)
		return err
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	metrics.GetMetrics().RecordPayment(payment.Method, "recorded")
	return payment, nil
}

// GetPayment 获取支付记录
func (s *PaymentService) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrPaymentNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return payment, nil
}

// ListInvoicePayments 获取账单的支付记录
func (s *PaymentService) ListInvoicePayments(ctx context.Context, invoiceID string) ([]*models.Payment, error) {
	if _, err := s.invoiceRepo.GetByID(ctx, invoiceID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrInvoiceNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	payments, err := s.paymentRepo.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return payments, nil
}

// ListPayments 获取支付记录列表（后台）
func (s *PaymentService) ListPayments(ctx context.Context, params *ListPaymentsParams) ([]*models.Payment, int64, error) {
	filters := make(map[string]interface{})
	if params.InvoiceID != "" {
		filters["invoice_id"] = params.InvoiceID
	}
	if params.Method != "" {
		filters["method"] = params.Method
	}
	if params.StartDate != nil {
		filters["start_date"] = *params.StartDate
	}
	if params.EndDate != nil {
		filters["end_date"] = *params.EndDate
	}

	payments, total, err := s.paymentRepo.List(ctx, params.Offset, params.Limit, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return payments, total, nil
}

// DeletePayment 删除支付记录并在同一事务内对称冲正账单台账
func (s *PaymentService) DeletePayment(ctx context.Context, id string) error {
	payment, err := s.GetPayment(ctx, id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := applyPayment(ctx, tx, s.invoiceRepo, payment.InvoiceID, -payment.Amount); err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Payment{}).Error
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return appErr
		}
		return errors.ErrDatabaseError.WithError(err)
	}

	metrics.GetMetrics().RecordPayment(payment.Method, "reversed")
	return nil
}
