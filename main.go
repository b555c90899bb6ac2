package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	hertzzerolog "github.com/hertz-contrib/logger/zerolog"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
	"github.com/spf13/pflag"

	"resume-fit-go/internal/agent"
	"resume-fit-go/internal/api/handler"
	"resume-fit-go/internal/api/router"
	"resume-fit-go/internal/config"
	"resume-fit-go/internal/embedder"
	"resume-fit-go/internal/logger"
	"resume-fit-go/internal/matcher"
	"resume-fit-go/internal/parser"
	"resume-fit-go/internal/rewriter"
	"resume-fit-go/internal/storage"
	"resume-fit-go/internal/taxonomy"
	"resume-fit-go/internal/tracing"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "配置文件路径")
	pflag.Parse()

	// 1. 加载配置
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Init(logger.Config{Level: "info", Format: "json"})
		logger.Fatal().Err(err).Msg("加载配置失败")
	}

	// 2. 初始化日志
	logger.Init(logger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
	})
	hlog.SetLogger(hertzzerolog.New())

	ctx := context.Background()

	// 3. 初始化链路追踪
	shutdownTracing, err := tracing.Init(ctx, &cfg.Tracing)
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化链路追踪失败")
	}

	// 4. 初始化存储层
	st, err := storage.NewStorage(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化存储层失败")
	}
	defer st.Close()
	if st.Redis == nil {
		logger.Fatal().Msg("Redis是必需的工作存储, 无法继续")
	}

	// 5. 加载技能分类表
	tax, err := taxonomy.Load(cfg.Taxonomy.Path)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Taxonomy.Path).Msg("加载技能分类表失败")
	}
	logger.Info().
		Int("skills", tax.SkillCount()).
		Int("aliases", tax.AliasCount()).
		Msg("技能分类表加载成功")

	// 6. 初始化Embedding客户端，带Redis向量缓存
	var emb embedding.Embedder
	if cfg.Aliyun.APIKey != "" {
		aliyunEmb, err := embedder.NewAliyunEmbedder(cfg.Aliyun.APIKey, cfg.Aliyun.Embedding)
		if err != nil {
			logger.Fatal().Err(err).Msg("初始化Embedding客户端失败")
		}
		emb = embedder.NewCachedEmbedder(aliyunEmb, st.Redis, aliyunEmb.Model())
	} else {
		logger.Warn().Msg("未配置阿里云API密钥, 技能匹配只做名称/别名精确命中")
	}

	// 7. 初始化技能匹配器并预热向量
	m := matcher.New(tax, emb, cfg.Scoring.SimilarityThreshold)
	if err := m.WarmUp(ctx); err != nil {
		logger.Warn().Err(err).Msg("技能向量预热失败, 运行期将惰性计算")
	}

	// 8. 初始化LLM要点改写器
	var rw *rewriter.Rewriter
	if cfg.Aliyun.APIKey != "" {
		llm, err := agent.NewAliyunQwenChatModel(cfg.Aliyun.APIKey, cfg.Aliyun.Model, cfg.Aliyun.APIURL)
		if err != nil {
			logger.Warn().Err(err).Msg("初始化LLM客户端失败, 要点改写不可用")
		} else {
			rw = rewriter.New(llm, cfg.Aliyun.Model)
		}
	}

	// 9. 初始化PDF提取器，配置了Tika则优先走Tika通道
	var extractor parser.TextExtractor
	if cfg.Tika.ServerURL != "" {
		opts := []parser.TikaOption{}
		if cfg.Tika.Timeout > 0 {
			opts = append(opts, parser.WithTikaTimeout(time.Duration(cfg.Tika.Timeout)*time.Second))
		}
		extractor = parser.NewTikaExtractor(cfg.Tika.ServerURL, opts...)
		logger.Info().Str("server", cfg.Tika.ServerURL).Msg("使用Tika提取器")
	} else {
		pdfExtractor, err := parser.NewEinoPDFExtractor(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("初始化PDF提取器失败, 只接受纯文本简历")
		} else {
			extractor = pdfExtractor
		}
	}

	// 10. 组装HTTP处理器，可选依赖缺失时传nil降级
	var records handler.RecordStore
	if st.MySQL != nil {
		records = st.MySQL
	}
	var objects storage.ObjectStorage
	if st.MinIO != nil {
		objects = st.MinIO
	}
	var events storage.EventPublisher
	if st.RabbitMQ != nil {
		events = st.RabbitMQ
	}
	h := handler.NewMatchHandler(cfg, tax, m, extractor, rw, st.Redis, records, objects, events)

	// 11. 启动Hertz HTTP服务器
	tracer, tracerCfg := hertztracing.NewServerTracer()
	srv := server.Default(tracer, server.WithHostPorts(cfg.Server.Address))
	srv.Use(hertztracing.ServerMiddleware(tracerCfg))
	router.Register(srv.Engine, h)

	go srv.Spin()
	logger.Info().Str("address", cfg.Server.Address).Msg("HTTP服务器已启动")

	// 12. 等待信号退出
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info().Msg("收到退出信号, 正在关闭资源")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("关闭HTTP服务器失败")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("关闭链路追踪失败")
	}
}
