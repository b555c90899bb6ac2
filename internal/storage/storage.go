package storage

import (
	"context"
	"fmt"
	"strings"

	"resume-fit-go/internal/config"
	"resume-fit-go/internal/logger"
)

// Storage 存储管理器，聚合所有存储相关依赖
type Storage struct {
	// 对象存储（授权留存的原始文件）
	MinIO *MinIO

	// 消息队列（匹配完成事件）
	RabbitMQ *RabbitMQ

	// 关系型数据库（授权保存的文档与匹配留痕）
	MySQL *MySQL

	// 键值存储（工作存储与向量缓存）
	Redis *Redis
}

// NewStorage 创建存储管理器。
// 各组件按配置逐个初始化，单个失败只告警；全部失败才报错。
func NewStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	if cfg == nil {
		return nil, fmt.Errorf("配置不能为空")
	}

	storage := &Storage{}
	var initErrors []string

	if cfg.MinIO.Endpoint != "" {
		m, err := NewMinIO(&cfg.MinIO)
		if err != nil {
			logger.Warn().Err(err).Msg("初始化MinIO失败")
			initErrors = append(initErrors, fmt.Sprintf("MinIO: %v", err))
		} else {
			storage.MinIO = m
			logger.Info().Msg("MinIO客户端初始化成功")
		}
	}

	if cfg.RabbitMQ.URL != "" {
		mq, err := NewRabbitMQ(&cfg.RabbitMQ)
		if err != nil {
			logger.Warn().Err(err).Msg("初始化RabbitMQ失败")
			initErrors = append(initErrors, fmt.Sprintf("RabbitMQ: %v", err))
		} else {
			storage.RabbitMQ = mq
		}
	}

	if cfg.MySQL.Host != "" {
		db, err := NewMySQL(&cfg.MySQL)
		if err != nil {
			logger.Warn().Err(err).Msg("初始化MySQL失败")
			initErrors = append(initErrors, fmt.Sprintf("MySQL: %v", err))
		} else {
			storage.MySQL = db
		}
	}

	if cfg.Redis.Address != "" {
		rdb, err := NewRedis(&cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("初始化Redis失败")
			initErrors = append(initErrors, fmt.Sprintf("Redis: %v", err))
		} else {
			storage.Redis = rdb
		}
	} else {
		logger.Info().Msg("Redis未配置, 跳过初始化")
	}

	if storage.MinIO == nil && storage.RabbitMQ == nil && storage.MySQL == nil && storage.Redis == nil {
		return nil, fmt.Errorf("所有存储组件初始化失败: %s", strings.Join(initErrors, "; "))
	}
	if len(initErrors) > 0 {
		logger.Warn().Str("errors", strings.Join(initErrors, "; ")).Msg("部分存储组件初始化失败")
	}

	return storage, nil
}

// Close 关闭所有连接
func (s *Storage) Close() {
	if s.RabbitMQ != nil {
		if err := s.RabbitMQ.Close(); err != nil {
			logger.Error().Err(err).Msg("关闭RabbitMQ连接失败")
		}
	}
	if s.MySQL != nil {
		if err := s.MySQL.Close(); err != nil {
			logger.Error().Err(err).Msg("关闭MySQL连接失败")
		}
	}
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			logger.Error().Err(err).Msg("关闭Redis连接失败")
		}
	}
	// MinIO客户端无需显式关闭
}
