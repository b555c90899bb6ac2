package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/gofrs/uuid/v5"
	googleuuid "github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"

	"resume-fit-go/internal/config"
	"resume-fit-go/internal/constants"
	"resume-fit-go/internal/logger"
	"resume-fit-go/internal/matcher"
	"resume-fit-go/internal/parser"
	"resume-fit-go/internal/rewriter"
	"resume-fit-go/internal/scoring"
	"resume-fit-go/internal/storage"
	"resume-fit-go/internal/storage/models"
	"resume-fit-go/internal/taxonomy"
	"resume-fit-go/internal/tracing"
	"resume-fit-go/internal/types"
)

// ClientIDKey 认证中间件写入RequestContext的客户端标识键
const ClientIDKey = "client_id"

// ConsentSaveHeader 用户授权留存数据的请求头
const ConsentSaveHeader = "X-Consent-Save"

const (
	docTypeResume = "resume"
	docTypeJob    = "job"
)

// DocStore 工作存储接口，未授权保存的数据靠TTL自动过期
type DocStore interface {
	SaveParsedDoc(ctx context.Context, clientID, docID string, payload []byte, ttl time.Duration) error
	GetParsedDoc(ctx context.Context, docID string) ([]byte, error)
	SaveMatchResult(ctx context.Context, clientID, matchID string, payload []byte, ttl time.Duration) error
	GetMatchResult(ctx context.Context, matchID string) ([]byte, error)
	DeleteClientData(ctx context.Context, clientID string) (int64, error)
}

// RecordStore 持久化存储接口，只在用户授权保存时写入
type RecordStore interface {
	SaveDocument(ctx context.Context, doc *models.Document) error
	GetDocument(ctx context.Context, docUUID string) (*models.Document, error)
	SaveMatchRecord(ctx context.Context, record *models.MatchRecord) error
	DeleteClientData(ctx context.Context, clientID string) (int64, error)
}

// MatchHandler 匹配服务的HTTP处理器
type MatchHandler struct {
	cfg       *config.Config
	tax       *taxonomy.Taxonomy
	matcher   *matcher.Matcher
	extractor parser.TextExtractor
	rewriter  *rewriter.Rewriter

	docs    DocStore
	records RecordStore
	objects storage.ObjectStorage
	events  storage.EventPublisher

	now func() time.Time
}

// NewMatchHandler 创建匹配处理器。
// records、objects、events 均可为nil，对应能力缺失时降级而不是报错。
func NewMatchHandler(
	cfg *config.Config,
	tax *taxonomy.Taxonomy,
	m *matcher.Matcher,
	extractor parser.TextExtractor,
	rw *rewriter.Rewriter,
	docs DocStore,
	records RecordStore,
	objects storage.ObjectStorage,
	events storage.EventPublisher,
) *MatchHandler {
	h := &MatchHandler{
		cfg:       cfg,
		tax:       tax,
		matcher:   m,
		extractor: extractor,
		rewriter:  rw,
		docs:      docs,
		records:   records,
		objects:   objects,
		events:    events,
		now:       time.Now,
	}
	if h.events != nil {
		if err := h.events.EnsureExchange(cfg.RabbitMQ.MatchEventsExchange, "topic", true); err != nil {
			logger.Warn().Err(err).Msg("声明匹配事件交换机失败")
		}
	}
	return h
}

// storedDocument 工作存储里的文档载荷
type storedDocument struct {
	DocID   string          `json:"doc_id"`
	DocType string          `json:"doc_type"`
	Data    json.RawMessage `json:"data"`
}

// ParseJobRequest 岗位解析请求
type ParseJobRequest struct {
	Source string `json:"source"`
}

// MatchRequest 匹配请求
type MatchRequest struct {
	ResumeDocID string `json:"resume_doc_id"`
	JobDocID    string `json:"job_doc_id"`
}

// MatchResponse 匹配响应
type MatchResponse struct {
	MatchID     string            `json:"match_id"`
	ResumeDocID string            `json:"resume_doc_id"`
	JobDocID    string            `json:"job_doc_id"`
	Explanation types.Explanation `json:"explanation"`
}

// MetricsRequest 前端埋点上报请求
type MetricsRequest struct {
	Event string `json:"event"`
}

// ParseResume 解析简历原始文件（PDF或纯文本），返回结构化数据和文档ID。
// POST /api/v1/parse/resume
func (h *MatchHandler) ParseResume(ctx context.Context, c *app.RequestContext) {
	clientID := c.GetString(ClientIDKey)
	body := c.Request.Body()
	if len(body) == 0 {
		abortWithError(ctx, c, consts.StatusBadRequest, tracing.ErrorTypeValidation,
			errors.New("请求体为空"), "empty request body")
		return
	}
	if len(body) > constants.MaxResumeBytes {
		abortWithError(ctx, c, consts.StatusRequestEntityTooLarge, tracing.ErrorTypeValidation,
			fmt.Errorf("简历文件超过 %d 字节", constants.MaxResumeBytes), "resume too large")
		return
	}

	filename := c.Query("filename")
	text := string(body)
	switch kind := uploadKind(string(c.ContentType()), filename); kind {
	case uploadKindPDF, uploadKindDocx:
		if h.extractor == nil || (kind == uploadKindDocx && !h.extractor.SupportsDocx()) {
			abortWithError(ctx, c, consts.StatusUnsupportedMediaType, tracing.ErrorTypeParsing,
				fmt.Errorf("没有可用的%s提取器", kind), "unsupported resume format")
			return
		}
		if filename == "" {
			filename = "resume." + kind
		}
		extracted, err := h.extractor.ExtractText(ctx, body, filename)
		if err != nil {
			abortWithError(ctx, c, consts.StatusUnprocessableEntity, tracing.ErrorTypeParsing,
				err, "failed to extract text from document")
			return
		}
		text = extracted
	}
	if filename == "" {
		filename = "resume.txt"
	}

	profile := parser.ParseResumeText(text)
	data, err := json.Marshal(profile)
	if err != nil {
		abortWithError(ctx, c, consts.StatusInternalServerError, tracing.ErrorTypeInternal, err, "internal error")
		return
	}

	doc := storedDocument{
		DocID:   newUUID(),
		DocType: docTypeResume,
		Data:    data,
	}
	if err := h.storeDocument(ctx, c, clientID, doc); err != nil {
		abortWithError(ctx, c, consts.StatusInternalServerError, tracing.ErrorTypeRedis, err, "failed to store document")
		return
	}

	if consentSave(c) {
		h.persistDocument(ctx, clientID, doc, filename, body)
	}

	logger.Info().
		Str("client_id", clientID).
		Str("doc_id", doc.DocID).
		Int("skills", len(profile.Skills)).
		Int("experiences", len(profile.Experiences)).
		Msg("简历解析完成")
	c.JSON(consts.StatusOK, doc)
}

// ParseJob 解析岗位描述文本，返回结构化数据和文档ID。
// POST /api/v1/parse/job
func (h *MatchHandler) ParseJob(ctx context.Context, c *app.RequestContext) {
	clientID := c.GetString(ClientIDKey)
	if len(c.Request.Body()) > constants.MaxJobBytes {
		abortWithError(ctx, c, consts.StatusRequestEntityTooLarge, tracing.ErrorTypeValidation,
			fmt.Errorf("岗位描述超过 %d 字节", constants.MaxJobBytes), "job posting too large")
		return
	}

	var req ParseJobRequest
	if err := json.Unmarshal(c.Request.Body(), &req); err != nil {
		abortWithError(ctx, c, consts.StatusBadRequest, tracing.ErrorTypeValidation, err, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Source) == "" {
		abortWithError(ctx, c, consts.StatusBadRequest, tracing.ErrorTypeValidation,
			errors.New("source字段为空"), "source is required")
		return
	}

	// source可以是岗位纯文本，也可以是岗位页面URL
	text := req.Source
	if parser.IsURLSource(req.Source) {
		fetched, err := parser.FetchJobText(ctx, req.Source)
		if err != nil {
			abortWithError(ctx, c, consts.StatusUnprocessableEntity, tracing.ErrorTypeParsing,
				err, "failed to fetch job source")
			return
		}
		text = fetched
	}

	posting := parser.ParseJob(text)
	data, err := json.Marshal(posting)
	if err != nil {
		abortWithError(ctx, c, consts.StatusInternalServerError, tracing.ErrorTypeInternal, err, "internal error")
		return
	}

	doc := storedDocument{
		DocID:   newUUID(),
		DocType: docTypeJob,
		Data:    data,
	}
	if err := h.storeDocument(ctx, c, clientID, doc); err != nil {
		abortWithError(ctx, c, consts.StatusInternalServerError, tracing.ErrorTypeRedis, err, "failed to store document")
		return
	}

	if consentSave(c) {
		h.persistDocument(ctx, clientID, doc, "", nil)
	}

	logger.Info().
		Str("client_id", clientID).
		Str("doc_id", doc.DocID).
		Str("title", posting.Title).
		Int("required", len(posting.RequiredSkills)).
		Msg("岗位解析完成")
	c.JSON(consts.StatusOK, doc)
}

// Match 对一份简历和一个岗位执行匹配打分，返回完整的解释结构。
// POST /api/v1/match
func (h *MatchHandler) Match(ctx context.Context, c *app.RequestContext) {
	start := h.now()
	clientID := c.GetString(ClientIDKey)

	var req MatchRequest
	if err := json.Unmarshal(c.Request.Body(), &req); err != nil {
		abortWithError(ctx, c, consts.StatusBadRequest, tracing.ErrorTypeValidation, err, "invalid request body")
		return
	}
	if req.ResumeDocID == "" || req.JobDocID == "" {
		abortWithError(ctx, c, consts.StatusBadRequest, tracing.ErrorTypeValidation,
			errors.New("缺少文档ID"), "resume_doc_id and job_doc_id are required")
		return
	}

	profile, posting, err := h.loadPair(ctx, req.ResumeDocID, req.JobDocID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			abortWithError(ctx, c, consts.StatusNotFound, tracing.ErrorTypeValidation, err, "documents not found")
			return
		}
		abortWithError(ctx, c, consts.StatusBadRequest, tracing.ErrorTypeValidation, err, err.Error())
		return
	}

	explanation := h.scorePair(ctx, profile, posting)
	matchID := newUUID()
	resp := MatchResponse{
		MatchID:     matchID,
		ResumeDocID: req.ResumeDocID,
		JobDocID:    req.JobDocID,
		Explanation: explanation,
	}
	payload, err := json.Marshal(resp)
	if err != nil {
		abortWithError(ctx, c, consts.StatusInternalServerError, tracing.ErrorTypeInternal, err, "internal error")
		return
	}

	consent := consentSave(c)
	ttl := constants.UnsavedDocTTL
	if consent {
		ttl = constants.SavedDocTTL
	}
	if err := h.docs.SaveMatchResult(ctx, clientID, matchID, payload, ttl); err != nil {
		abortWithError(ctx, c, consts.StatusInternalServerError, tracing.ErrorTypeRedis, err, "failed to store match result")
		return
	}

	if consent && h.records != nil {
		explJSON, _ := json.Marshal(explanation)
		record := &models.MatchRecord{
			MatchUUID:       matchID,
			ClientID:        clientID,
			ResumeDocUUID:   req.ResumeDocID,
			JobDocUUID:      req.JobDocID,
			Score:           explanation.Score,
			Label:           explanation.Label,
			ExplanationJSON: datatypes.JSON(explJSON),
			ScorerVersion:   constants.DefaultScorerVer,
		}
		if err := h.records.SaveMatchRecord(ctx, record); err != nil {
			logger.Error().Err(err).Str("match_id", matchID).Msg("匹配留痕写入失败")
		}
	}

	h.publishMatchCompleted(ctx, clientID, matchID, explanation)

	logger.Info().
		Str("client_id", clientID).
		Str("match_id", matchID).
		Str("score_bucket", scoreBucket(explanation.Score)).
		Str("label", explanation.Label).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Int("cached_vectors", h.matcher.CachedVectors()).
		Interface("model_usage", h.modelUsage()).
		Msg("匹配完成")
	c.JSON(consts.StatusOK, resp)
}

// GetMatch 按ID读取已完成的匹配结果。
// GET /api/v1/match/:match_id
func (h *MatchHandler) GetMatch(ctx context.Context, c *app.RequestContext) {
	matchID := c.Param("match_id")
	payload, err := h.docs.GetMatchResult(ctx, matchID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			abortWithError(ctx, c, consts.StatusNotFound, tracing.ErrorTypeValidation,
				fmt.Errorf("匹配结果 %s 不存在", matchID), "match not found")
			return
		}
		abortWithError(ctx, c, consts.StatusInternalServerError, tracing.ErrorTypeRedis, err, "failed to load match result")
		return
	}
	c.Data(consts.StatusOK, "application/json; charset=utf-8", payload)
}

// GetDocument 按ID读取解析后的文档。工作存储过期后，
// 授权保存过的文档从持久层兜底读取。
// GET /api/v1/doc/:doc_id
func (h *MatchHandler) GetDocument(ctx context.Context, c *app.RequestContext) {
	clientID := c.GetString(ClientIDKey)
	docID := c.Param("doc_id")

	payload, err := h.docs.GetParsedDoc(ctx, docID)
	if err == nil {
		c.Data(consts.StatusOK, "application/json; charset=utf-8", payload)
		return
	}
	if !errors.Is(err, storage.ErrNotFound) {
		abortWithError(ctx, c, consts.StatusInternalServerError, tracing.ErrorTypeRedis, err, "failed to load document")
		return
	}

	if h.records != nil {
		record, err := h.records.GetDocument(ctx, docID)
		if err != nil {
			abortWithError(ctx, c, consts.StatusInternalServerError, tracing.ErrorTypeDB, err, "failed to load document")
			return
		}
		if record != nil && record.ClientID == clientID {
			c.JSON(consts.StatusOK, storedDocument{
				DocID:   record.DocUUID,
				DocType: record.DocType,
				Data:    json.RawMessage(record.ParsedJSON),
			})
			return
		}
	}
	abortWithError(ctx, c, consts.StatusNotFound, tracing.ErrorTypeValidation,
		fmt.Errorf("文档 %s 不存在", docID), "document not found")
}

// DeleteUserData 删除客户端的全部数据：工作存储、持久化留痕和原始文件。
// DELETE /api/v1/user/data
func (h *MatchHandler) DeleteUserData(ctx context.Context, c *app.RequestContext) {
	clientID := c.GetString(ClientIDKey)

	deletedKeys, err := h.docs.DeleteClientData(ctx, clientID)
	if err != nil {
		abortWithError(ctx, c, consts.StatusInternalServerError, tracing.ErrorTypeRedis, err, "failed to delete working data")
		return
	}

	var deletedRows int64
	if h.records != nil {
		deletedRows, err = h.records.DeleteClientData(ctx, clientID)
		if err != nil {
			abortWithError(ctx, c, consts.StatusInternalServerError, tracing.ErrorTypeDB, err, "failed to delete persisted data")
			return
		}
	}

	deletedObjects := 0
	if h.objects != nil {
		deletedObjects, err = h.objects.DeleteClientOriginals(ctx, clientID)
		if err != nil {
			abortWithError(ctx, c, consts.StatusInternalServerError, tracing.ErrorTypeInternal, err, "failed to delete original files")
			return
		}
	}

	logger.Info().
		Str("client_id", clientID).
		Int64("deleted_keys", deletedKeys).
		Int64("deleted_rows", deletedRows).
		Int("deleted_objects", deletedObjects).
		Msg("客户端数据已删除")
	c.JSON(consts.StatusOK, utils.H{
		"deleted_keys":    deletedKeys,
		"deleted_rows":    deletedRows,
		"deleted_objects": deletedObjects,
	})
}

// ReportMetrics 接收前端埋点事件，仅落结构化日志。
// POST /api/v1/metrics
func (h *MatchHandler) ReportMetrics(ctx context.Context, c *app.RequestContext) {
	clientID := c.GetString(ClientIDKey)

	var req MetricsRequest
	if err := json.Unmarshal(c.Request.Body(), &req); err != nil {
		abortWithError(ctx, c, consts.StatusBadRequest, tracing.ErrorTypeValidation, err, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Event) == "" {
		abortWithError(ctx, c, consts.StatusBadRequest, tracing.ErrorTypeValidation,
			errors.New("event字段为空"), "event is required")
		return
	}

	logger.Info().
		Str("client_id", clientID).
		Str("event", req.Event).
		Msg("前端埋点")
	c.JSON(consts.StatusOK, utils.H{"status": "ok"})
}

// loadPair 从工作存储读取并校验一对文档
func (h *MatchHandler) loadPair(ctx context.Context, resumeDocID, jobDocID string) (types.ResumeProfile, types.JobPosting, error) {
	var profile types.ResumeProfile
	var posting types.JobPosting

	resumeRaw, err := h.docs.GetParsedDoc(ctx, resumeDocID)
	if err != nil {
		return profile, posting, err
	}
	jobRaw, err := h.docs.GetParsedDoc(ctx, jobDocID)
	if err != nil {
		return profile, posting, err
	}

	var resumeDoc, jobDoc storedDocument
	if err := json.Unmarshal(resumeRaw, &resumeDoc); err != nil {
		return profile, posting, fmt.Errorf("简历文档损坏: %w", err)
	}
	if err := json.Unmarshal(jobRaw, &jobDoc); err != nil {
		return profile, posting, fmt.Errorf("岗位文档损坏: %w", err)
	}
	if resumeDoc.DocType != docTypeResume {
		return profile, posting, fmt.Errorf("文档 %s 不是简历", resumeDocID)
	}
	if jobDoc.DocType != docTypeJob {
		return profile, posting, fmt.Errorf("文档 %s 不是岗位描述", jobDocID)
	}

	if err := json.Unmarshal(resumeDoc.Data, &profile); err != nil {
		return profile, posting, fmt.Errorf("简历数据损坏: %w", err)
	}
	if err := json.Unmarshal(jobDoc.Data, &posting); err != nil {
		return profile, posting, fmt.Errorf("岗位数据损坏: %w", err)
	}
	return profile, posting, nil
}

// scorePair 执行技能映射、向量构建与打分，产出完整解释
func (h *MatchHandler) scorePair(ctx context.Context, profile types.ResumeProfile, posting types.JobPosting) types.Explanation {
	requiredMatches := h.matcher.Match(ctx, mentionsFromSkills(posting.RequiredSkills), "job")
	preferredMatches := h.matcher.Match(ctx, mentionsFromSkills(posting.PreferredSkills), "job")
	resumeMatches := h.matcher.Match(ctx, parser.SkillMentions(profile), "resume")

	required := canonicalNames(requiredMatches)
	preferred := canonicalNames(preferredMatches)
	instances := resumeInstances(resumeMatches)

	now := h.now()
	jobVec, resumeVec, evidence := scoring.BuildVectors(
		parser.PostingText(posting), required, preferred, instances,
		h.cfg.Scoring.LambdaDecay, now)
	clusterMap := scoring.BuildClusterMap(jobVec, resumeVec, h.tax)

	params := scoring.Params{
		Delta: h.cfg.Scoring.Delta,
		Eta:   h.cfg.Scoring.Eta,
		Eps:   h.cfg.Scoring.Eps,
	}
	score, terms := scoring.ScorePair(resumeVec, jobVec, required, 0, clusterMap, params)
	explanation := scoring.BuildExplanation(jobVec, resumeVec, required, score, terms, evidence, clusterMap)

	if h.rewriter != nil && len(explanation.Gaps) > 0 {
		explanation.Rewrites = h.rewriter.SuggestRewrites(ctx, resumeBullets(profile), gapSkills(explanation.Gaps))
	}
	return explanation
}

// storeDocument 序列化并写入工作存储，授权保存的文档留存更久
func (h *MatchHandler) storeDocument(ctx context.Context, c *app.RequestContext, clientID string, doc storedDocument) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	ttl := constants.UnsavedDocTTL
	if consentSave(c) {
		ttl = constants.SavedDocTTL
	}
	return h.docs.SaveParsedDoc(ctx, clientID, doc.DocID, payload, ttl)
}

// persistDocument 把授权保存的文档写入持久层，原始文件上传对象存储。
// 持久化失败只记录日志，不影响解析响应。
func (h *MatchHandler) persistDocument(ctx context.Context, clientID string, doc storedDocument, filename string, original []byte) {
	ossPath := ""
	if h.objects != nil && len(original) > 0 {
		path, err := h.objects.UploadOriginal(ctx, clientID, doc.DocID, filename, original)
		if err != nil {
			logger.Error().Err(err).Str("doc_id", doc.DocID).Msg("原始文件上传失败")
		} else {
			ossPath = path
		}
	}

	if h.records == nil {
		return
	}
	record := &models.Document{
		DocUUID:          doc.DocID,
		ClientID:         clientID,
		DocType:          doc.DocType,
		OriginalFilename: filename,
		OriginalPathOSS:  ossPath,
		ParsedJSON:       datatypes.JSON(doc.Data),
		ParserVersion:    constants.DefaultParserVer,
	}
	if err := h.records.SaveDocument(ctx, record); err != nil {
		logger.Error().Err(err).Str("doc_id", doc.DocID).Msg("文档持久化失败")
	}
}

// publishMatchCompleted 发布匹配完成事件，失败只记录日志
func (h *MatchHandler) publishMatchCompleted(ctx context.Context, clientID, matchID string, explanation types.Explanation) {
	if h.events == nil {
		return
	}
	event := map[string]any{
		"event_id":     googleuuid.NewString(),
		"match_id":     matchID,
		"client_id":    clientID,
		"score":        explanation.Score,
		"label":        explanation.Label,
		"completed_at": h.now().UTC().Format(time.RFC3339),
	}
	err := h.events.PublishJSON(ctx,
		h.cfg.RabbitMQ.MatchEventsExchange,
		h.cfg.RabbitMQ.CompletedRoutingKey,
		event, true)
	if err != nil {
		logger.Error().Err(err).Str("match_id", matchID).Msg("发布匹配完成事件失败")
	}
}

func (h *MatchHandler) modelUsage() map[string]int {
	if h.rewriter == nil {
		return nil
	}
	return h.rewriter.Usage()
}

// scoreBucket 得分分桶，用于日志聚合，避免记录精确得分
func scoreBucket(score float64) string {
	switch {
	case score < 25:
		return "0-25"
	case score < 50:
		return "25-50"
	case score < 75:
		return "50-75"
	default:
		return "75-100"
	}
}

func consentSave(c *app.RequestContext) bool {
	return strings.EqualFold(string(c.GetHeader(ConsentSaveHeader)), "true")
}

const (
	uploadKindText = "text"
	uploadKindPDF  = "pdf"
	uploadKindDocx = "docx"
)

// uploadKind 根据内容类型和文件名识别上传的简历格式，兜底按纯文本处理
func uploadKind(contentType, filename string) string {
	ct := strings.ToLower(contentType)
	name := strings.ToLower(filename)
	switch {
	case strings.Contains(ct, "application/pdf") || strings.HasSuffix(name, ".pdf"):
		return uploadKindPDF
	case strings.Contains(ct, "wordprocessingml") || strings.Contains(ct, "application/msword") ||
		strings.HasSuffix(name, ".docx") || strings.HasSuffix(name, ".doc"):
		return uploadKindDocx
	default:
		return uploadKindText
	}
}

func mentionsFromSkills(skills []string) []types.SkillMention {
	mentions := make([]types.SkillMention, 0, len(skills))
	for _, s := range skills {
		mentions = append(mentions, types.SkillMention{Text: s, Snippet: s})
	}
	return mentions
}

// canonicalNames 提取去重后的标准技能名，保持首次出现的顺序
func canonicalNames(matches []types.MatchedSkill) []string {
	seen := make(map[string]bool, len(matches))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if !seen[m.Name] {
			seen[m.Name] = true
			names = append(names, m.Name)
		}
	}
	return names
}

// resumeInstances 把简历侧的匹配结果转成技能实例，带上证据里的时间范围
func resumeInstances(matches []types.MatchedSkill) []types.SkillInstance {
	instances := make([]types.SkillInstance, 0, len(matches))
	for _, m := range matches {
		instances = append(instances, types.SkillInstance{
			Name:  m.Name,
			Start: m.Evidence.Start,
			End:   m.Evidence.End,
		})
	}
	return instances
}

func resumeBullets(profile types.ResumeProfile) []string {
	var bullets []string
	for _, exp := range profile.Experiences {
		bullets = append(bullets, exp.Bullets...)
	}
	return bullets
}

func gapSkills(gaps []types.GapItem) []string {
	skills := make([]string, 0, len(gaps))
	for _, g := range gaps {
		skills = append(skills, g.Skill)
	}
	return skills
}

func newUUID() string {
	return uuid.Must(uuid.NewV4()).String()
}

// abortWithError 统一的错误响应：打追踪点、记日志、返回JSON错误体
func abortWithError(ctx context.Context, c *app.RequestContext, status int, errType tracing.ErrorType, err error, msg string) {
	span := trace.SpanFromContext(ctx)
	tracing.RecordError(span, err, errType)
	logger.Warn().Err(err).Int("status", status).Msg("请求处理失败")
	c.JSON(status, utils.H{"error": msg})
}
