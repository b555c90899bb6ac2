package models

import (
	"time"

	"gorm.io/datatypes"
)

// Document 经用户授权后持久化的解析文档（简历或岗位描述）
type Document struct {
	DocUUID          string         `gorm:"type:char(36);primaryKey"`
	ClientID         string         `gorm:"type:varchar(64);not null;index:idx_documents_client_id"`
	DocType          string         `gorm:"type:varchar(20);not null;index:idx_documents_doc_type"` // resume 或 job
	OriginalFilename string         `gorm:"type:varchar(255)"`
	OriginalPathOSS  string         `gorm:"type:varchar(1024)"` // 原始文件在对象存储中的路径，可为空
	ParsedJSON       datatypes.JSON `gorm:"type:json;not null"`
	ParserVersion    string         `gorm:"type:varchar(50)"`
	CreatedAt        time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt        time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (Document) TableName() string {
	return "documents"
}

// MatchRecord 一次匹配的留痕，只有在用户授权保存时写入
type MatchRecord struct {
	MatchUUID       string         `gorm:"type:char(36);primaryKey"`
	ClientID        string         `gorm:"type:varchar(64);not null;index:idx_match_records_client_id"`
	ResumeDocUUID   string         `gorm:"type:char(36);not null"`
	JobDocUUID      string         `gorm:"type:char(36);not null"`
	Score           float64        `gorm:"type:double;not null"`
	Label           string         `gorm:"type:varchar(20);not null"`
	ExplanationJSON datatypes.JSON `gorm:"type:json;not null"`
	ScorerVersion   string         `gorm:"type:varchar(50)"`
	CreatedAt       time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);index:idx_match_records_created_at"`
}

func (MatchRecord) TableName() string {
	return "match_records"
}
