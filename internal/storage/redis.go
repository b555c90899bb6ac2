package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"resume-fit-go/internal/config"
	"resume-fit-go/internal/constants"
	"resume-fit-go/internal/logger"
)

// ErrNotFound 键不存在时返回，包装底层的 redis.Nil
var ErrNotFound = redis.Nil

// Redis 工作存储：解析后的文档、匹配结果、向量缓存都放在这里。
// 未授权保存的文档靠TTL自动过期，不需要后台清理任务。
type Redis struct {
	Client *redis.Client
}

// NewRedis 创建Redis客户端并注册链路追踪钩子
func NewRedis(cfg *config.RedisConfig) (*Redis, error) {
	if cfg == nil || cfg.Address == "" {
		return nil, fmt.Errorf("redis地址不能为空")
	}

	opt := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.PoolSize > 0 {
		opt.PoolSize = cfg.PoolSize
	}
	if cfg.MinIdleConns > 0 {
		opt.MinIdleConns = cfg.MinIdleConns
	}
	if cfg.DialTimeoutSeconds > 0 {
		opt.DialTimeout = time.Duration(cfg.DialTimeoutSeconds) * time.Second
	}
	if cfg.ReadTimeoutSeconds > 0 {
		opt.ReadTimeout = time.Duration(cfg.ReadTimeoutSeconds) * time.Second
	}
	if cfg.WriteTimeoutSeconds > 0 {
		opt.WriteTimeout = time.Duration(cfg.WriteTimeoutSeconds) * time.Second
	}

	client := redis.NewClient(opt)
	if err := redisotel.InstrumentTracing(client); err != nil {
		logger.Warn().Err(err).Msg("注册Redis追踪钩子失败")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("连接Redis失败 (%s): %w", cfg.Address, err)
	}

	return &Redis{Client: client}, nil
}

// GetBytes 实现向量缓存读取，第二个返回值表示是否命中
func (r *Redis) GetBytes(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.Client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// SetBytes 实现向量缓存写入
func (r *Redis) SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.Client.Set(ctx, key, value, ttl).Err()
}

// SaveParsedDoc 保存解析后的文档JSON，并把文档登记到客户端的归属集合。
// ttl 控制留存时长：未授权保存用短TTL，授权保存用长TTL。
func (r *Redis) SaveParsedDoc(ctx context.Context, clientID, docID string, payload []byte, ttl time.Duration) error {
	key := constants.ParsedDocPrefix + docID
	if err := r.Client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("保存解析文档失败: %w", err)
	}

	ownerKey := constants.DocOwnerSetPrefix + clientID
	pipe := r.Client.Pipeline()
	pipe.SAdd(ctx, ownerKey, docID)
	pipe.Expire(ctx, ownerKey, constants.SavedDocTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("登记文档归属失败: %w", err)
	}
	return nil
}

// GetParsedDoc 读取解析后的文档JSON，不存在时返回 ErrNotFound
func (r *Redis) GetParsedDoc(ctx context.Context, docID string) ([]byte, error) {
	data, err := r.Client.Get(ctx, constants.ParsedDocPrefix+docID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("读取解析文档失败: %w", err)
	}
	return data, nil
}

// SaveMatchResult 保存匹配结果JSON并登记归属
func (r *Redis) SaveMatchResult(ctx context.Context, clientID, matchID string, payload []byte, ttl time.Duration) error {
	if err := r.Client.Set(ctx, constants.MatchResultPrefix+matchID, payload, ttl).Err(); err != nil {
		return fmt.Errorf("保存匹配结果失败: %w", err)
	}
	ownerKey := constants.DocOwnerSetPrefix + clientID
	pipe := r.Client.Pipeline()
	pipe.SAdd(ctx, ownerKey, matchKeyMarker+matchID)
	pipe.Expire(ctx, ownerKey, constants.SavedDocTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("登记匹配结果归属失败: %w", err)
	}
	return nil
}

// GetMatchResult 读取匹配结果JSON，不存在时返回 ErrNotFound
func (r *Redis) GetMatchResult(ctx context.Context, matchID string) ([]byte, error) {
	data, err := r.Client.Get(ctx, constants.MatchResultPrefix+matchID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("读取匹配结果失败: %w", err)
	}
	return data, nil
}

// matchKeyMarker 归属集合中区分匹配结果与文档的前缀
const matchKeyMarker = "m/"

// DeleteClientData 删除客户端在工作存储中的全部文档与匹配结果，返回删除的键数
func (r *Redis) DeleteClientData(ctx context.Context, clientID string) (int64, error) {
	ownerKey := constants.DocOwnerSetPrefix + clientID
	members, err := r.Client.SMembers(ctx, ownerKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("读取文档归属集合失败: %w", err)
	}

	keys := make([]string, 0, len(members)+1)
	for _, member := range members {
		if len(member) > len(matchKeyMarker) && member[:len(matchKeyMarker)] == matchKeyMarker {
			keys = append(keys, constants.MatchResultPrefix+member[len(matchKeyMarker):])
		} else {
			keys = append(keys, constants.ParsedDocPrefix+member)
		}
	}
	keys = append(keys, ownerKey)

	deleted, err := r.Client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("删除客户端数据失败: %w", err)
	}
	return deleted, nil
}

// Close 关闭Redis连接
func (r *Redis) Close() error {
	return r.Client.Close()
}
