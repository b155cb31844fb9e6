package oss

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalConfig 本地文件存储配置
type LocalConfig struct {
	BaseDir string // 文件存放根目录
	BaseURL string // 对外访问地址前缀，如 "http://localhost:8080/uploads"
}

// LocalUploader 本地文件系统上传器（单机部署或开发环境使用）
type LocalUploader struct {
	config *LocalConfig
}

// NewLocalUploader 创建本地文件上传器
func NewLocalUploader(config *LocalConfig) (*LocalUploader, error) {
	if config.BaseDir == "" {
		return nil, fmt.Errorf("存储目录不能为空")
	}
	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("创建存储目录失败: %v", err)
	}
	return &LocalUploader{config: config}, nil
}

// Upload 写入文件
func (u *LocalUploader) Upload(ctx context.Context, objectKey string, reader io.Reader) (string, error) {
	fullPath := filepath.Join(u.config.BaseDir, filepath.FromSlash(objectKey))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("创建目录失败: %v", err)
	}

	f, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("创建文件失败: %v", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, reader); err != nil {
		return "", fmt.Errorf("写入文件失败: %v", err)
	}
	return u.GetURL(objectKey), nil
}

// UploadFile 复制本地文件
func (u *LocalUploader) UploadFile(ctx context.Context, objectKey, filePath string) (string, error) {
	src, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("打开文件失败: %v", err)
	}
	defer src.Close()
	return u.Upload(ctx, objectKey, src)
}

// Delete 删除文件
func (u *LocalUploader) Delete(ctx context.Context, objectKey string) error {
	fullPath := filepath.Join(u.config.BaseDir, filepath.FromSlash(objectKey))
	err := os.Remove(fullPath)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// GetURL 获取文件访问 URL
func (u *LocalUploader) GetURL(objectKey string) string {
	return fmt.Sprintf("%s/%s", strings.TrimSuffix(u.config.BaseURL, "/"), objectKey)
}

// GetSignedURL 本地存储不做签名，直接返回 URL
func (u *LocalUploader) GetSignedURL(objectKey string, expires time.Duration) (string, error) {
	return u.GetURL(objectKey), nil
}
