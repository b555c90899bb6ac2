package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"resume-fit-go/internal/config"
	"resume-fit-go/internal/storage/models"
)

var mysqlTracer = otel.Tracer("resume-fit-go/storage/mysql")

type gormSpanKey struct{}

// gormTracingPlugin 为GORM的CRUD操作打OpenTelemetry追踪点
type gormTracingPlugin struct {
	tracer trace.Tracer
	dbName string
}

func (p *gormTracingPlugin) Name() string {
	return "GormOpenTelemetryPlugin"
}

// Initialize 注册GORM回调
func (p *gormTracingPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	if err := cb.Create().Before("gorm:create").Register("otel:before_create", p.before("CREATE")); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("otel:after_create", p.after()); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("otel:before_query", p.before("SELECT")); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("otel:after_query", p.after()); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("otel:before_update", p.before("UPDATE")); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("otel:after_update", p.after()); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("otel:before_delete", p.before("DELETE")); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("otel:after_delete", p.after()); err != nil {
		return err
	}
	return nil
}

func (p *gormTracingPlugin) before(operation string) func(db *gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}
		tableName := db.Statement.Table
		if tableName == "" {
			tableName = "unknown"
		}
		newCtx, span := p.tracer.Start(ctx, operation+" "+tableName,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				semconv.DBSystemMySQL,
				attribute.String("db.name", p.dbName),
				attribute.String("db.operation", operation),
				attribute.String("db.sql.table", tableName),
			),
		)
		db.Statement.Context = context.WithValue(newCtx, gormSpanKey{}, span)
	}
}

func (p *gormTracingPlugin) after() func(db *gorm.DB) {
	return func(db *gorm.DB) {
		span, ok := db.Statement.Context.Value(gormSpanKey{}).(trace.Span)
		if !ok {
			return
		}
		defer span.End()

		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
		if db.Error != nil {
			if errors.Is(db.Error, gorm.ErrRecordNotFound) {
				// 未找到记录属于正常业务分支
				span.SetStatus(codes.Ok, "record not found")
				return
			}
			span.RecordError(db.Error)
			span.SetStatus(codes.Error, db.Error.Error())
		}
	}
}

// MySQL 关系型数据库访问层，承载授权保存的文档与匹配留痕
type MySQL struct {
	db  *gorm.DB
	cfg *config.MySQLConfig
}

// NewMySQL 创建MySQL连接并迁移表结构
func NewMySQL(cfg *config.MySQLConfig) (*MySQL, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MySQL配置不能为空")
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	logLevel := gormlogger.LogLevel(cfg.LogLevel)
	if logLevel == 0 {
		logLevel = gormlogger.Warn
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("连接MySQL失败: %w", err)
	}

	if err := db.Use(&gormTracingPlugin{tracer: mysqlTracer, dbName: cfg.Database}); err != nil {
		return nil, fmt.Errorf("注册GORM追踪插件失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层连接池失败: %w", err)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	}

	if err := db.AutoMigrate(&models.Document{}, &models.MatchRecord{}); err != nil {
		return nil, fmt.Errorf("迁移表结构失败: %w", err)
	}

	return &MySQL{db: db, cfg: cfg}, nil
}

// DB 暴露底层GORM实例，供需要事务的调用方使用
func (m *MySQL) DB() *gorm.DB {
	return m.db
}

// SaveDocument 持久化授权保存的文档，主键冲突时覆盖
func (m *MySQL) SaveDocument(ctx context.Context, doc *models.Document) error {
	if err := m.db.WithContext(ctx).Save(doc).Error; err != nil {
		return fmt.Errorf("保存文档失败: %w", err)
	}
	return nil
}

// GetDocument 按UUID读取文档
func (m *MySQL) GetDocument(ctx context.Context, docUUID string) (*models.Document, error) {
	var doc models.Document
	err := m.db.WithContext(ctx).First(&doc, "doc_uuid = ?", docUUID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("读取文档失败: %w", err)
	}
	return &doc, nil
}

// SaveMatchRecord 写入匹配留痕
func (m *MySQL) SaveMatchRecord(ctx context.Context, record *models.MatchRecord) error {
	if err := m.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("保存匹配记录失败: %w", err)
	}
	return nil
}

// DeleteClientData 删除某客户端的全部持久化数据，返回删除的行数
func (m *MySQL) DeleteClientData(ctx context.Context, clientID string) (int64, error) {
	var total int64
	res := m.db.WithContext(ctx).Where("client_id = ?", clientID).Delete(&models.Document{})
	if res.Error != nil {
		return 0, fmt.Errorf("删除客户端文档失败: %w", res.Error)
	}
	total += res.RowsAffected

	res = m.db.WithContext(ctx).Where("client_id = ?", clientID).Delete(&models.MatchRecord{})
	if res.Error != nil {
		return total, fmt.Errorf("删除客户端匹配记录失败: %w", res.Error)
	}
	total += res.RowsAffected
	return total, nil
}

// Close 关闭底层连接池
func (m *MySQL) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
