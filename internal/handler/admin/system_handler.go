package admin

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-booking-backend/internal/common/handler"
	"github.com/dumeirei/hotel-booking-backend/internal/common/response"
	"github.com/dumeirei/hotel-booking-backend/internal/repository"
)

// SystemHandler 后台系统管理处理器（操作日志等）
type SystemHandler struct {
	operationLogRepo *repository.OperationLogRepository
}

// NewSystemHandler 创建后台系统管理处理器
func NewSystemHandler(operationLogRepo *repository.OperationLogRepository) *SystemHandler {
	return &SystemHandler{operationLogRepo: operationLogRepo}
}

// ListOperationLogs 获取操作日志列表
// @Summary 获取操作日志列表
// @Tags 后台-系统
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param user_id query string false "操作人ID"
// @Param module query string false "模块"
// @Param action query string false "动作"
// @Param start_date query string false "开始日期"
// @Param end_date query string false "结束日期"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/admin/system/logs [get]
func (h *SystemHandler) ListOperationLogs(c *gin.Context) {
	p := handler.BindPagination(c)

	start, end, ok := handler.ParseQueryDateRange(c)
	if !ok {
		return
	}

	filters := make(map[string]interface{})
	if v := c.Query("user_id"); v != "" {
		filters["user_id"] = v
	}
	if v := c.Query("module"); v != "" {
		filters["module"] = v
	}
	if v := c.Query("action"); v != "" {
		filters["action"] = v
	}
	if start != nil {
		filters["start_time"] = *start
	}
	if end != nil {
		filters["end_time"] = *end
	}

	logs, total, err := h.operationLogRepo.List(c.Request.Context(), p.GetOffset(), p.GetLimit(), filters)
	handler.MustSucceedPage(c, err, logs, total, p.Page, p.PageSize)
}

// ListTargetLogs 获取某个对象的操作日志
// @Summary 获取对象操作日志
// @Tags 后台-系统
// @Produce json
// @Security Bearer
// @Param target_type query string true "对象类型"
// @Param target_id query string true "对象ID"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/admin/system/logs/target [get]
func (h *SystemHandler) ListTargetLogs(c *gin.Context) {
	targetType, ok := handler.GetRequiredQueryID(c, "target_type", "对象类型")
	if !ok {
		return
	}
	targetID, ok := handler.GetRequiredQueryID(c, "target_id", "对象")
	if !ok {
		return
	}

	p := handler.BindPagination(c)
	logs, total, err := h.operationLogRepo.ListByTarget(c.Request.Context(), targetType, targetID, p.GetOffset(), p.GetLimit())
	handler.MustSucceedPage(c, err, logs, total, p.Page, p.PageSize)
}

// GetModuleStats 获取近期各模块操作量统计
// @Summary 获取模块操作量统计
// @Tags 后台-系统
// @Produce json
// @Security Bearer
// @Param days query int false "统计天数，默认7"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/system/logs/stats [get]
func (h *SystemHandler) GetModuleStats(c *gin.Context) {
	days := 7
	if v := c.Query("days"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			days = parsed
		}
	}

	since := time.Now().AddDate(0, 0, -days)
	stats, err := h.operationLogRepo.GetModuleStats(c.Request.Context(), since)
	if handler.HandleError(c, err) {
		return
	}
	response.Success(c, gin.H{"since": since, "stats": stats})
}
