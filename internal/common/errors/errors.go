// Package errors 定义业务错误码和错误处理
package errors

import (
	"fmt"
)

// AppError 应用错误
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 实现 errors.Unwrap
func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建新的应用错误
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装错误
func Wrap(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithMessage 修改错误消息
func (e *AppError) WithMessage(message string) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: message,
		Err:     e.Err,
	}
}

// WithError 添加原始错误
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
	}
}

// 通用错误码 (1000-1999)
var (
	ErrUnknown         = New(1000, "未知错误")
	ErrInvalidParams   = New(1001, "参数错误")
	ErrNotFound        = New(1002, "资源不存在")
	ErrAlreadyExists   = New(1003, "资源已存在")
	ErrDatabaseError   = New(1004, "数据库错误")
	ErrCacheError      = New(1005, "缓存错误")
	ErrInternalError   = New(1006, "内部错误")
	ErrExternalService = New(1007, "外部服务错误")
	ErrRateLimitExceed = New(1008, "请求过于频繁")
	ErrOperationFailed = New(1009, "操作失败")
	ErrStorageError    = New(1010, "文件存储错误")
)

// 认证错误码 (2000-2999)
var (
	ErrUnauthorized     = New(2000, "未登录")
	ErrTokenExpired     = New(2001, "登录已过期")
	ErrTokenInvalid     = New(2002, "无效的令牌")
	ErrTokenRefreshFail = New(2003, "刷新令牌失败")
	ErrPermissionDenied = New(2004, "权限不足")
	ErrAccountDisabled  = New(2005, "账号已禁用")
	ErrPasswordError    = New(2006, "密码错误")
)

// 客户与员工错误码 (3000-3999)
var (
	ErrCustomerNotFound = New(3000, "客户不存在")
	ErrEmailExists      = New(3001, "邮箱已被注册")
	ErrCustomerDisabled = New(3002, "客户账号已停用")
	ErrUserNotFound     = New(3003, "员工不存在")
	ErrUsernameExists   = New(3004, "用户名已存在")
	ErrRoleInvalid      = New(3005, "无效的角色")
)

// 房间错误码 (4000-4999)
var (
	ErrRoomNotFound      = New(4000, "房间不存在")
	ErrRoomNumberUsed    = New(4001, "房间号已存在")
	ErrRoomStatusInvalid = New(4002, "无效的房间状态")
	ErrRoomNotPublished  = New(4003, "房间未上架")
	ErrRoomHasBookings   = New(4004, "房间存在未完结预订")
)

// 预订错误码 (5000-5999)
var (
	ErrBookingNotFound   = New(5000, "预订不存在")
	ErrRoomNotAvailable  = New(5001, "房间在该时段不可预订")
	ErrInvalidDateRange  = New(5002, "无效的入住时段")
	ErrBookingTransition = New(5003, "预订状态不允许该变更")
	ErrBookingFinished   = New(5004, "预订已完结")
	ErrGuestCountExceed  = New(5005, "入住人数超出房间容量")
)

// 账单与支付错误码 (6000-6999)
var (
	ErrInvoiceNotFound      = New(6000, "账单不存在")
	ErrInvoiceNumberUsed    = New(6001, "账单号已存在")
	ErrInvoiceCancelled     = New(6002, "账单已作废")
	ErrInvoiceStatusInvalid = New(6003, "无效的账单状态")
	ErrPaymentNotFound      = New(6004, "支付记录不存在")
	ErrPaymentAmountInvalid = New(6005, "无效的支付金额")
	ErrPaymentMethodInvalid = New(6006, "无效的支付方式")
)

// 物资库存错误码 (7000-7999)
var (
	ErrInventoryNotFound = New(7000, "物资不存在")
	ErrSKUExists         = New(7001, "SKU 已存在")
	ErrStockInsufficient = New(7002, "库存不足")
)

// IsAppError 判断是否为应用错误
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetAppError 获取应用错误
func GetAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return ErrUnknown.WithError(err)
}
