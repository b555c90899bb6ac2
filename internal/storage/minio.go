package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"

	"resume-fit-go/internal/config"
	"resume-fit-go/internal/logger"
)

// ObjectStorage 对象存储接口，保存用户授权留存的原始文件
type ObjectStorage interface {
	// UploadOriginal 上传原始文档，返回对象路径
	UploadOriginal(ctx context.Context, clientID, docUUID, filename string, data []byte) (string, error)

	// DownloadOriginal 下载原始文档
	DownloadOriginal(ctx context.Context, objectName string) ([]byte, error)

	// DeleteOriginal 删除原始文档
	DeleteOriginal(ctx context.Context, objectName string) error

	// DeleteClientOriginals 删除某客户端的全部原始文档，返回删除数量
	DeleteClientOriginals(ctx context.Context, clientID string) (int, error)
}

var _ ObjectStorage = (*MinIO)(nil)

// MinIO 提供原始文档的对象存储
type MinIO struct {
	client          *minio.Client
	originalsBucket string
}

// NewMinIO 创建MinIO客户端，确保存储桶存在并配置过期规则
func NewMinIO(cfg *config.MinIOConfig) (*MinIO, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MinIO配置不能为空")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("创建MinIO客户端失败: %w", err)
	}

	bucket := cfg.OriginalsBucket
	if bucket == "" {
		bucket = "originals"
	}

	m := &MinIO{client: client, originalsBucket: bucket}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("检查存储桶 %s 失败: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: cfg.Location}); err != nil {
			return nil, fmt.Errorf("创建存储桶 %s 失败: %w", bucket, err)
		}
		logger.Info().Str("bucket", bucket).Msg("创建了原始文档存储桶")
	}

	if cfg.OriginalFileExpireDays > 0 {
		if err := m.setupLifecycle(ctx, cfg.OriginalFileExpireDays); err != nil {
			logger.Warn().Err(err).Msg("配置对象生命周期规则失败")
		}
	}

	return m, nil
}

// setupLifecycle 按天数配置原始文档的自动过期
func (m *MinIO) setupLifecycle(ctx context.Context, expireDays int) error {
	cfg := lifecycle.NewConfiguration()
	cfg.Rules = []lifecycle.Rule{
		{
			ID:     "expire-originals",
			Status: "Enabled",
			Expiration: lifecycle.Expiration{
				Days: lifecycle.ExpirationDays(expireDays),
			},
		},
	}
	return m.client.SetBucketLifecycle(ctx, m.originalsBucket, cfg)
}

// objectName 按客户端分目录存放，便于按客户端批量删除
func objectName(clientID, docUUID, filename string) string {
	return fmt.Sprintf("%s/%s/%s", clientID, docUUID, filename)
}

// UploadOriginal 实现 ObjectStorage
func (m *MinIO) UploadOriginal(ctx context.Context, clientID, docUUID, filename string, data []byte) (string, error) {
	name := objectName(clientID, docUUID, filename)
	_, err := m.client.PutObject(ctx, m.originalsBucket, name, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/octet-stream"})
	if err != nil {
		return "", fmt.Errorf("上传原始文档失败: %w", err)
	}
	logger.Debug().Str("object", name).Int("bytes", len(data)).Msg("原始文档已上传")
	return name, nil
}

// DownloadOriginal 实现 ObjectStorage
func (m *MinIO) DownloadOriginal(ctx context.Context, objectName string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, m.originalsBucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("获取原始文档失败: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("读取原始文档失败: %w", err)
	}
	return data, nil
}

// DeleteOriginal 实现 ObjectStorage
func (m *MinIO) DeleteOriginal(ctx context.Context, objectName string) error {
	if err := m.client.RemoveObject(ctx, m.originalsBucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("删除原始文档失败: %w", err)
	}
	return nil
}

// DeleteClientOriginals 实现 ObjectStorage，按客户端前缀批量删除
func (m *MinIO) DeleteClientOriginals(ctx context.Context, clientID string) (int, error) {
	prefix := clientID + "/"
	objects := m.client.ListObjects(ctx, m.originalsBucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	deleted := 0
	for obj := range objects {
		if obj.Err != nil {
			return deleted, fmt.Errorf("遍历客户端对象失败: %w", obj.Err)
		}
		if err := m.client.RemoveObject(ctx, m.originalsBucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return deleted, fmt.Errorf("删除对象 %s 失败: %w", obj.Key, err)
		}
		deleted++
	}
	return deleted, nil
}
