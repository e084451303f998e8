package service

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vms/backend/config"
	"vms/backend/internal/dto"
)

var (
	ErrFileTooLarge   = errors.New("文件超出大小限制")
	ErrBadImageFormat = errors.New("不支持的图片格式")
	ErrBadImagePath   = errors.New("非法的图片路径")
)

// 允许的图片扩展名 → Content-Type
var imageContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// ImageService 访客照片 / 物品照片本地存储业务接口
type ImageService interface {
	Upload(fh *multipart.FileHeader) (*dto.UploadImageResponse, error)
	// Fetch 读取图片为 base64；文件不存在返回空结果而非错误
	Fetch(filePath string) (*dto.FetchImageResponse, error)
}

type imageService struct {
	cfg    *config.StorageConfig
	logger *zap.Logger
}

// NewImageService 创建 ImageService 实例
func NewImageService(cfg *config.StorageConfig, logger *zap.Logger) ImageService {
	return &imageService{cfg: cfg, logger: logger}
}

func (s *imageService) Upload(fh *multipart.FileHeader) (*dto.UploadImageResponse, error) {
	if fh.Size > s.cfg.MaxFileSize {
		return nil, ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if _, ok := imageContentTypes[ext]; !ok {
		return nil, ErrBadImageFormat
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("创建上传目录失败: %w", err)
	}

	name := uuid.New().String() + ext
	dst := filepath.Join(s.cfg.UploadDir, name)

	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return nil, err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		os.Remove(dst)
		return nil, err
	}

	s.logger.Info("图片上传成功", zap.String("file", name), zap.Int64("size", fh.Size))
	return &dto.UploadImageResponse{FilePath: name}, nil
}

// Fetch 读取图片为 base64
// 文件缺失是正常业务状态（历史记录的照片可能已清理），返回空结果
func (s *imageService) Fetch(filePath string) (*dto.FetchImageResponse, error) {
	// 只允许访问上传目录内的文件
	clean := filepath.Base(filepath.Clean(filePath))
	if clean == "." || clean == ".." || clean == "" {
		return nil, ErrBadImagePath
	}

	ext := strings.ToLower(filepath.Ext(clean))
	contentType, ok := imageContentTypes[ext]
	if !ok {
		return nil, ErrBadImageFormat
	}

	data, err := os.ReadFile(filepath.Join(s.cfg.UploadDir, clean))
	if err != nil {
		if os.IsNotExist(err) {
			return &dto.FetchImageResponse{}, nil
		}
		return nil, err
	}

	return &dto.FetchImageResponse{
		Data:        base64.StdEncoding.EncodeToString(data),
		ContentType: contentType,
	}, nil
}
