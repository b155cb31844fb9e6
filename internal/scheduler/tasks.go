// Package scheduler 提供定时任务
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/dumeirei/hotel-booking-backend/internal/repository"
	billingService "github.com/dumeirei/hotel-booking-backend/internal/service/billing"
	bookingService "github.com/dumeirei/hotel-booking-backend/internal/service/booking"
)

// 单轮任务处理的批量上限
const taskBatchSize = 100

// 操作日志保留天数
const operationLogRetentionDays = 90

// TaskHandler 任务处理器
type TaskHandler struct {
	bookingService   *bookingService.BookingService
	invoiceService   *billingService.InvoiceService
	operationLogRepo *repository.OperationLogRepository
}

// NewTaskHandler 创建任务处理器
func NewTaskHandler(
	bookingSvc *bookingService.BookingService,
	invoiceSvc *billingService.InvoiceService,
	operationLogRepo *repository.OperationLogRepository,
) *TaskHandler {
	return &TaskHandler{
		bookingService:   bookingSvc,
		invoiceService:   invoiceSvc,
		operationLogRepo: operationLogRepo,
	}
}

// MarkNoShowBookings 将逾期未入住的已确认预订标记为未到店
func (h *TaskHandler) MarkNoShowBookings(ctx context.Context) error {
	marked, err := h.bookingService.MarkOverdueNoShows(ctx, taskBatchSize)
	if err != nil {
		return err
	}
	if marked > 0 {
		log.Printf("[Task] Marked %d bookings as no-show", marked)
	}
	return nil
}

// SweepOverdueInvoices 将过期未结清的账单标记为逾期
func (h *TaskHandler) SweepOverdueInvoices(ctx context.Context) error {
	swept, err := h.invoiceService.SweepOverdueInvoices(ctx, taskBatchSize)
	if err != nil {
		return err
	}
	if swept > 0 {
		log.Printf("[Task] Marked %d invoices as overdue", swept)
	}
	return nil
}

// PurgeOldOperationLogs 清理超过保留期的操作日志
func (h *TaskHandler) PurgeOldOperationLogs(ctx context.Context) error {
	before := time.Now().AddDate(0, 0, -operationLogRetentionDays)
	deleted, err := h.operationLogRepo.DeleteBefore(ctx, before)
	if err != nil {
		return err
	}
	if deleted > 0 {
		log.Printf("[Task] Purged %d operation logs older than %s", deleted, before.Format("2006-01-02"))
	}
	return nil
}

// SetupTasks 设置所有任务
func SetupTasks(scheduler *Scheduler, handler *TaskHandler) {
	// 每小时标记未到店预订
	scheduler.AddTask("MarkNoShowBookings", 1*time.Hour, handler.MarkNoShowBookings)

	// 每小时标记逾期账单
	scheduler.AddTask("SweepOverdueInvoices", 1*time.Hour, handler.SweepOverdueInvoices)

	// 每天清理过期操作日志
	scheduler.AddTask("PurgeOldOperationLogs", 24*time.Hour, handler.PurgeOldOperationLogs)
}
