// Package billing 提供账单台账与支付应用服务
// 账单与支付共用一个包，支付对台账的冲正在同一事务内完成
package billing

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-booking-backend/internal/common/errors"
	"github.com/dumeirei/hotel-booking-backend/internal/common/metrics"
	"github.com/dumeirei/hotel-booking-backend/internal/common/utils"
	"github.com/dumeirei/hotel-booking-backend/internal/models"
	"github.com/dumeirei/hotel-booking-backend/internal/repository"
)

// 账单号生成冲突时的最大重试次数
const maxInvoiceNoAttempts = 5

// Options 账单服务业务参数
type Options struct {
	NumberPrefix   string // 账单号前缀
	DefaultDueDays int    // 默认付款期限（天）
}

// InvoiceService 账单服务
type InvoiceService struct {
	db           *gorm.DB
	invoiceRepo  *repository.InvoiceRepository
	paymentRepo  *repository.PaymentRepository
	customerRepo *repository.CustomerRepository
	bookingRepo  *repository.BookingRepository
	opts         Options
}

// NewInvoiceService 创建账单服务
func NewInvoiceService(
	db *gorm.DB,
	invoiceRepo *repository.InvoiceRepository,
	paymentRepo *repository.PaymentRepository,
	customerRepo *repository.CustomerRepository,
	bookingRepo *repository.BookingRepository,
	opts Options,
) *InvoiceService {
	if opts.NumberPrefix == "" {
		opts.NumberPrefix = "INV"
	}
	if opts.DefaultDueDays <= 0 {
		opts.DefaultDueDays = 14
	}
	return &InvoiceService{
		db:           db,
		invoiceRepo:  invoiceRepo,
		paymentRepo:  paymentRepo,
		customerRepo: customerRepo,
		bookingRepo:  bookingRepo,
		opts:         opts,
	}
}

// InvoiceItemRequest 账单明细行
type InvoiceItemRequest struct {
	Description string   `json:"description" binding:"required,max=255"`
	Quantity    int      `json:"quantity" binding:"required,min=1"`
	UnitPrice   float64  `json:"unit_price" binding:"min=0"`
	Amount      *float64 `json:"amount,omitempty"`
}

// CreateInvoiceRequest 创建账单请求
type CreateInvoiceRequest struct {
	CustomerID    string               `json:"customer_id" binding:"required"`
	BookingID     *string              `json:"booking_id,omitempty"`
	InvoiceNumber *string              `json:"invoice_number,omitempty"`
	IssueDate     *string              `json:"issue_date,omitempty"`
	DueDate       *string              `json:"due_date,omitempty"`
	Items         []InvoiceItemRequest `json:"items"`
	TotalAmount   *float64             `json:"total_amount,omitempty"`
	PaidAmount    *float64             `json:"paid_amount,omitempty"`
	Status        *string              `json:"status,omitempty"`
	Notes         *string              `json:"notes,omitempty"`
}

// UpdateInvoiceRequest 更新账单请求（仅更新提供的字段）
type UpdateInvoiceRequest struct {
	InvoiceNumber *string              `json:"invoice_number,omitempty"`
	IssueDate     *string              `json:"issue_date,omitempty"`
	DueDate       *string              `json:"due_date,omitempty"`
	Items         []InvoiceItemRequest `json:"items,omitempty"`
	TotalAmount   *float64             `json:"total_amount,omitempty"`
	PaidAmount    *float64             `json:"paid_amount,omitempty"`
	Status        *string              `json:"status,omitempty"`
	Notes         *string              `json:"notes,omitempty"`
}

// ListInvoicesParams 账单列表查询参数
type ListInvoicesParams struct {
	CustomerID    string
	BookingID     string
	Status        string
	InvoiceNumber string
	StartDate     *time.Time
	EndDate       *time.Time
	Offset        int
	Limit         int
}

// CreateInvoice 创建账单
func (s *InvoiceService) CreateInvoice(ctx context.Context, req *CreateInvoiceRequest) (*models.Invoice, error) {
	if _, err := s.customerRepo.GetByID(ctx, req.CustomerID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrCustomerNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if req.BookingID != nil {
		if _, err := s.bookingRepo.GetByID(ctx, *req.BookingID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, errors.ErrBookingNotFound
			}
			return nil, errors.ErrDatabaseError.WithError(err)
		}
	}

	now := time.Now()
	issueDate := now.Truncate(24 * time.Hour)
	if req.IssueDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.IssueDate)
		if err != nil {
			return nil, errors.ErrInvalidParams.WithMessage("无效的开票日期")
		}
		issueDate = parsed
	}
	dueDate := issueDate.AddDate(0, 0, s.opts.DefaultDueDays)
	if req.DueDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			return nil, errors.ErrInvalidParams.WithMessage("无效的到期日期")
		}
		dueDate = parsed
	}

	items, itemsTotal := buildInvoiceItems(req.Items)

	total := itemsTotal
	if req.TotalAmount != nil {
		total = *req.TotalAmount
	}
	paid := 0.0
	if req.PaidAmount != nil {
		paid = *req.PaidAmount
	}
	balance := total - paid

	invoice := &models.Invoice{
		CustomerID:  req.CustomerID,
		BookingID:   req.BookingID,
		IssueDate:   issueDate,
		DueDate:     dueDate,
		TotalAmount: total,
		PaidAmount:  paid,
		BalanceDue:  balance,
		Notes:       req.Notes,
		Items:       items,
	}

	if req.Status != nil {
		if !models.ValidInvoiceStatus(*req.Status) {
			return nil, errors.ErrInvoiceStatusInvalid
		}
		invoice.Status = *req.Status
	} else {
		invoice.Status = models.DeriveInvoiceStatus(invoice, now)
	}
	if invoice.Status == models.InvoiceStatusPaid {
		invoice.PaidAt = &now
	}

	number, err := s.resolveInvoiceNumber(ctx, req.InvoiceNumber)
	if err != nil {
		return nil, err
	}
	invoice.InvoiceNumber = number

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		// 预检查与插入之间并发占用同号时由唯一索引兜底
		if isDuplicateInvoiceNumber(err) {
			return nil, errors.ErrInvoiceNumberUsed
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	metrics.GetMetrics().RecordInvoice(invoice.Status)
	return invoice, nil
}

// GetInvoice 获取账单详情（含明细与支付记录）
func (s *InvoiceService) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByIDWithDetails(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrInvoiceNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return invoice, nil
}

// GetCustomerInvoice 获取客户自己的账单，归属不符按不存在处理
func (s *InvoiceService) GetCustomerInvoice(ctx context.Context, customerID, invoiceID string) (*models.Invoice, error) {
	invoice, err := s.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.CustomerID != customerID {
		return nil, errors.ErrInvoiceNotFound
	}
	return invoice, nil
}

// UpdateInvoice 更新账单
// 提供明细或省略总额时按明细重算总额，余额总是重算；
// 显式给出的状态优先（含作废），否则按规则推导
func (s *InvoiceService) UpdateInvoice(ctx context.Context, id string, req *UpdateInvoiceRequest) (*models.Invoice, error) {
	if req.Status != nil && !models.ValidInvoiceStatus(*req.Status) {
		return nil, errors.ErrInvoiceStatusInvalid
	}

	var updated *models.Invoice
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.invoiceRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrInvoiceNotFound
			}
			return errors.ErrDatabaseError.WithError(err)
		}

		if req.InvoiceNumber != nil && *req.InvoiceNumber != invoice.InvoiceNumber {
			var count int64
			err := tx.Model(&models.Invoice{}).
				Where("invoice_number = ? AND id <> ?", *req.InvoiceNumber, id).
				Count(&count).Error
			if err != nil {
				return errors.ErrDatabaseError.WithError(err)
			}
			if count > 0 {
				return errors.ErrInvoiceNumberUsed
			}
			invoice.InvoiceNumber = *req.InvoiceNumber
		}
		if req.IssueDate != nil {
			parsed, err := time.Parse("2006-01-02", *req.IssueDate)
			if err != nil {
				return errors.ErrInvalidParams.WithMessage("无效的开票日期")
			}
			invoice.IssueDate = parsed
		}
		if req.DueDate != nil {
			parsed, err := time.Parse("2006-01-02", *req.DueDate)
			if err != nil {
				return errors.ErrInvalidParams.WithMessage("无效的到期日期")
			}
			invoice.DueDate = parsed
		}
		if req.Notes != nil {
			invoice.Notes = req.Notes
		}

		if req.Items != nil {
			items, itemsTotal := buildInvoiceItems(req.Items)
			if err := tx.Where("invoice_id = ?", id).Delete(&models.InvoiceItem{}).Error; err != nil {
				return errors.ErrDatabaseError.WithError(err)
			}
			for i := range items {
				items[i].InvoiceID = id
			}
			if len(items) > 0 {
				if err := tx.Create(&items).Error; err != nil {
					return errors.ErrDatabaseError.WithError(err)
				}
			}
			invoice.Items = items
			invoice.TotalAmount = itemsTotal
		}
		if req.TotalAmount != nil {
			invoice.TotalAmount = *req.TotalAmount
		}
		if req.PaidAmount != nil {
			invoice.PaidAmount = *req.PaidAmount
		}
		invoice.BalanceDue = invoice.TotalAmount - invoice.PaidAmount

		now := time.Now()
		if req.Status != nil {
			invoice.Status = *req.Status
		} else {
			invoice.Status = models.DeriveInvoiceStatus(invoice, now)
		}
		syncPaidAt(invoice, now)

		if err := tx.Omit("Items", "Payments", "Customer").Save(invoice).Error; err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		updated = invoice
		return nil
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return updated, nil
}

// UpdateInvoiceStatus 显式变更账单状态（作废入口）
func (s *InvoiceService) UpdateInvoiceStatus(ctx context.Context, id string, status string) (*models.Invoice, error) {
	if !models.ValidInvoiceStatus(status) {
		return nil, errors.ErrInvoiceStatusInvalid
	}
	return s.UpdateInvoice(ctx, id, &UpdateInvoiceRequest{Status: &status})
}

// DeleteInvoice 删除账单（明细与支付记录级联删除）
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id string) error {
	if _, err := s.invoiceRepo.GetByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrInvoiceNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", id).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Invoice{}).Error
	})
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// ListInvoices 获取账单列表（后台）
func (s *InvoiceService) ListInvoices(ctx context.Context, params *ListInvoicesParams) ([]*models.Invoice, int64, error) {
	filters := make(map[string]interface{})
	if params.CustomerID != "" {
		filters["customer_id"] = params.CustomerID
	}
	if params.BookingID != "" {
		filters["booking_id"] = params.BookingID
	}
	if params.Status != "" {
		filters["status"] = params.Status
	}
	if params.InvoiceNumber != "" {
		filters["invoice_number"] = params.InvoiceNumber
	}
	if params.StartDate != nil {
		filters["start_date"] = *params.StartDate
	}
	if params.EndDate != nil {
		filters["end_date"] = *params.EndDate
	}

	invoices, total, err := s.invoiceRepo.List(ctx, params.Offset, params.Limit, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return invoices, total, nil
}

// ListCustomerInvoices 获取客户的账单列表
func (s *InvoiceService) ListCustomerInvoices(ctx context.Context, customerID string, offset, limit int) ([]*models.Invoice, int64, error) {
	invoices, total, err := s.invoiceRepo.ListByCustomer(ctx, customerID, offset, limit)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return invoices, total, nil
}

// SweepOverdueInvoices 将到期未付的待支付账单标记为逾期，返回处理数量
func (s *InvoiceService) SweepOverdueInvoices(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 100
	}
	due, err := s.invoiceRepo.ListDueOverdue(ctx, time.Now(), batchSize)
	if err != nil {
		return 0, errors.ErrDatabaseError.WithError(err)
	}

	marked := 0
	for _, invoice := range due {
		err := s.invoiceRepo.UpdateFields(ctx, invoice.ID, map[string]interface{}{
			"status": models.InvoiceStatusOverdue,
		})
		if err != nil {
			return marked, errors.ErrDatabaseError.WithError(err)
		}
		metrics.GetMetrics().RecordInvoice(models.InvoiceStatusOverdue)
		marked++
	}
	return marked, nil
}

// applyPayment 调整账单的已付金额并重算余额与状态
// 作废账单保持作废，支付不会使其重新生效
func applyPayment(ctx context.Context, tx *gorm.DB, invoiceRepo *repository.InvoiceRepository, invoiceID string, delta float64) (*models.Invoice, error) {
	invoice, err := invoiceRepo.GetByIDForUpdate(ctx, tx, invoiceID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrInvoiceNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	invoice.PaidAmount += delta
	invoice.BalanceDue = invoice.TotalAmount - invoice.PaidAmount

	now := time.Now()
	invoice.Status = models.DeriveInvoiceStatus(invoice, now)
	syncPaidAt(invoice, now)

	err = tx.Model(&models.Invoice{}).Where("id = ?", invoiceID).Updates(map[string]interface{}{
		"paid_amount": invoice.PaidAmount,
		"balance_due": invoice.BalanceDue,
		"status":      invoice.Status,
		"paid_at":     invoice.PaidAt,
	}).Error
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return invoice, nil
}

// syncPaidAt 按状态维护结清时间戳
func syncPaidAt(invoice *models.Invoice, now time.Time) {
	if invoice.Status == models.InvoiceStatusPaid {
		if invoice.PaidAt == nil {
			invoice.PaidAt = &now
		}
	} else {
		invoice.PaidAt = nil
	}
}

// resolveInvoiceNumber 确定账单号：外部给定时校验唯一，否则生成并在冲突时重试
func (s *InvoiceService) resolveInvoiceNumber(ctx context.Context, given *string) (string, error) {
	if given != nil && *given != "" {
		exists, err := s.invoiceRepo.ExistsByNumber(ctx, *given)
		if err != nil {
			return "", errors.ErrDatabaseError.WithError(err)
		}
		if exists {
			return "", errors.ErrInvoiceNumberUsed
		}
		return *given, nil
	}

	for attempt := 0; attempt < maxInvoiceNoAttempts; attempt++ {
		number := utils.GenerateInvoiceNo(s.opts.NumberPrefix)
		exists, err := s.invoiceRepo.ExistsByNumber(ctx, number)
		if err != nil {
			return "", errors.ErrDatabaseError.WithError(err)
		}
		if !exists {
			return number, nil
		}
	}
	return "", errors.ErrOperationFailed.WithMessage("账单号生成失败")
}

// isDuplicateInvoiceNumber 识别账单号唯一索引冲突
func isDuplicateInvoiceNumber(err error) bool {
	if err == gorm.ErrDuplicatedKey {
		return true
	}
	msg := err.Error()
	if !strings.Contains(msg, "invoice_number") {
		return false
	}
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key")
}

// buildInvoiceItems 构造明细行并汇总金额，未显式给出金额时按数量×单价计算
func buildInvoiceItems(reqs []InvoiceItemRequest) ([]models.InvoiceItem, float64) {
	items := make([]models.InvoiceItem, 0, len(reqs))
	total := 0.0
	for _, req := range reqs {
		amount := float64(req.Quantity) * req.UnitPrice
		if req.Amount != nil {
			amount = *req.Amount
		}
		items = append(items, models.InvoiceItem{
			Description: req.Description,
			Quantity:    req.Quantity,
			UnitPrice:   req.UnitPrice,
			Amount:      amount,
		})
		total += amount
	}
	return items, total
}
