package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644), "无法写入临时配置文件")
	return configPath
}

// TestLoadConfigFull 验证完整配置文件的加载
func TestLoadConfigFull(t *testing.T) {
	configPath := writeTempConfig(t, `
aliyun:
  api_key: "sk-test"
  model: "qwen-plus"
  embedding:
    model: "text-embedding-v3"
    dimensions: 1024

redis:
  address: "localhost:6379"
  db: 1
  pool_size: 20

mysql:
  host: "localhost"
  port: 3306
  username: "root"
  database: "resume_fit"

scoring:
  delta: 0.4
  similarity_threshold: 0.8

server:
  address: ":9090"

tracing:
  enabled: true
  endpoint: "localhost:4317"
  sample_ratio: 0.5
`)

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "sk-test", cfg.Aliyun.APIKey)
	assert.Equal(t, "text-embedding-v3", cfg.Aliyun.Embedding.Model)
	assert.Equal(t, 1024, cfg.Aliyun.Embedding.Dimensions)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, 20, cfg.Redis.PoolSize)
	assert.Equal(t, 3306, cfg.MySQL.Port)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, 0.5, cfg.Tracing.SampleRatio)

	// 显式配置的打分参数保留，未配置的落默认值
	assert.Equal(t, 0.4, cfg.Scoring.Delta)
	assert.Equal(t, 0.8, cfg.Scoring.SimilarityThreshold)
	assert.Equal(t, DefaultEta, cfg.Scoring.Eta)
	assert.Equal(t, DefaultEps, cfg.Scoring.Eps)
	assert.Equal(t, DefaultLambdaDecay, cfg.Scoring.LambdaDecay)
}

// TestLoadConfigDefaults 验证空配置文件也能得到可用的默认值
func TestLoadConfigDefaults(t *testing.T) {
	configPath := writeTempConfig(t, "server:\n  address: \"\"\n")

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, DefaultDelta, cfg.Scoring.Delta)
	assert.Equal(t, DefaultEta, cfg.Scoring.Eta)
	assert.Equal(t, DefaultEps, cfg.Scoring.Eps)
	assert.Equal(t, DefaultLambdaDecay, cfg.Scoring.LambdaDecay)
	assert.Equal(t, DefaultSimilarityThreshold, cfg.Scoring.SimilarityThreshold)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "internal/taxonomy/skills.yaml", cfg.Taxonomy.Path)
	assert.Equal(t, "match.events", cfg.RabbitMQ.MatchEventsExchange)
	assert.Equal(t, "match.completed", cfg.RabbitMQ.CompletedRoutingKey)
}

// TestLoadConfigMissingFile 验证配置文件不存在时报错
func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

// TestLoadConfigEnvOverride 验证环境变量覆盖文件配置
func TestLoadConfigEnvOverride(t *testing.T) {
	configPath := writeTempConfig(t, "aliyun:\n  api_key: \"from-file\"\n")
	t.Setenv("ALIYUN_API_KEY", "from-env")

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Aliyun.APIKey)
}
