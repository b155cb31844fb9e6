// Package upload 提供文件上传 HTTP Handler
package upload

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-booking-backend/internal/common/handler"
	"github.com/dumeirei/hotel-booking-backend/internal/common/response"
	"github.com/dumeirei/hotel-booking-backend/pkg/oss"
)

// 图片大小上限 10MB
const maxImageSize = 10 << 20

// UploadHandler 文件上传处理器
type UploadHandler struct {
	uploader oss.Uploader
}

// NewUploadHandler 创建文件上传处理器
func NewUploadHandler(uploader oss.Uploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

// UploadRoomImage 上传房间图片
// @Summary 上传房间图片
// @Tags 后台-上传
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param file formData file true "图片文件"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/upload/room-image [post]
func (h *UploadHandler) UploadRoomImage(c *gin.Context) {
	if _, ok := handler.RequireStaffID(c); !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "请选择要上传的文件")
		return
	}
	if fileHeader.Size > maxImageSize {
		response.BadRequest(c, "图片大小不能超过 10MB")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "读取文件失败")
		return
	}
	defer file.Close()

	if err := oss.ValidateImageFile(fileHeader.Filename, maxImageSize, file); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if _, err := file.Seek(0, 0); err != nil {
		response.InternalError(c, "读取文件失败")
		return
	}

	objectKey := oss.GenerateObjectKey("rooms", fileHeader.Filename)
	url, err := h.uploader.Upload(c.Request.Context(), objectKey, file)
	if handler.HandleError(c, err) {
		return
	}

	response.Success(c, gin.H{
		"url":        url,
		"object_key": objectKey,
	})
}
