package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	hertzconfig "github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/route"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-fit-go/internal/api/handler"
	"resume-fit-go/internal/api/router"
	"resume-fit-go/internal/config"
	"resume-fit-go/internal/matcher"
	"resume-fit-go/internal/parser"
	"resume-fit-go/internal/storage"
	"resume-fit-go/internal/storage/models"
	"resume-fit-go/internal/taxonomy"
	"resume-fit-go/internal/types"
)

const testClientID = "client-1"

const sampleJobText = `Senior Backend Engineer
We need 3+ years of backend experience.
Requirements
- Python
- SQL
Preferred
- Go
Responsibilities
- Build data services
`

const sampleResumeText = `Jordan Example
Skills: Python, SQL
Experience
Backend Engineer at Acme Corp Jan 2020 - Mar 2022
- Built data pipelines in Python
`

// memoryDocStore 内存版工作存储，替代Redis
type memoryDocStore struct {
	docs    map[string][]byte
	matches map[string][]byte
	owners  map[string][]string
}

func newMemoryDocStore() *memoryDocStore {
	return &memoryDocStore{
		docs:    make(map[string][]byte),
		matches: make(map[string][]byte),
		owners:  make(map[string][]string),
	}
}

func (m *memoryDocStore) SaveParsedDoc(_ context.Context, clientID, docID string, payload []byte, _ time.Duration) error {
	m.docs[docID] = payload
	m.owners[clientID] = append(m.owners[clientID], docID)
	return nil
}

func (m *memoryDocStore) GetParsedDoc(_ context.Context, docID string) ([]byte, error) {
	data, ok := m.docs[docID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return data, nil
}

func (m *memoryDocStore) SaveMatchResult(_ context.Context, clientID, matchID string, payload []byte, _ time.Duration) error {
	m.matches[matchID] = payload
	m.owners[clientID] = append(m.owners[clientID], "m/"+matchID)
	return nil
}

func (m *memoryDocStore) GetMatchResult(_ context.Context, matchID string) ([]byte, error) {
	data, ok := m.matches[matchID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return data, nil
}

func (m *memoryDocStore) DeleteClientData(_ context.Context, clientID string) (int64, error) {
	var deleted int64
	for _, member := range m.owners[clientID] {
		if strings.HasPrefix(member, "m/") {
			delete(m.matches, strings.TrimPrefix(member, "m/"))
		} else {
			delete(m.docs, member)
		}
		deleted++
	}
	delete(m.owners, clientID)
	return deleted, nil
}

// memoryRecordStore 内存版持久层，替代MySQL
type memoryRecordStore struct {
	documents []*models.Document
	records   []*models.MatchRecord
}

func (m *memoryRecordStore) SaveDocument(_ context.Context, doc *models.Document) error {
	m.documents = append(m.documents, doc)
	return nil
}

func (m *memoryRecordStore) GetDocument(_ context.Context, docUUID string) (*models.Document, error) {
	for _, doc := range m.documents {
		if doc.DocUUID == docUUID {
			return doc, nil
		}
	}
	return nil, nil
}

func (m *memoryRecordStore) SaveMatchRecord(_ context.Context, record *models.MatchRecord) error {
	m.records = append(m.records, record)
	return nil
}

func (m *memoryRecordStore) DeleteClientData(_ context.Context, clientID string) (int64, error) {
	var kept []*models.Document
	var deleted int64
	for _, doc := range m.documents {
		if doc.ClientID == clientID {
			deleted++
			continue
		}
		kept = append(kept, doc)
	}
	m.documents = kept

	var keptRecords []*models.MatchRecord
	for _, rec := range m.records {
		if rec.ClientID == clientID {
			deleted++
			continue
		}
		keptRecords = append(keptRecords, rec)
	}
	m.records = keptRecords
	return deleted, nil
}

// memoryObjects 内存版对象存储，替代MinIO
type memoryObjects struct {
	uploads map[string][]byte
}

func newMemoryObjects() *memoryObjects {
	return &memoryObjects{uploads: make(map[string][]byte)}
}

func (m *memoryObjects) UploadOriginal(_ context.Context, clientID, docUUID, filename string, data []byte) (string, error) {
	name := fmt.Sprintf("%s/%s/%s", clientID, docUUID, filename)
	m.uploads[name] = data
	return name, nil
}

func (m *memoryObjects) DownloadOriginal(_ context.Context, objectName string) ([]byte, error) {
	return m.uploads[objectName], nil
}

func (m *memoryObjects) DeleteOriginal(_ context.Context, objectName string) error {
	delete(m.uploads, objectName)
	return nil
}

func (m *memoryObjects) DeleteClientOriginals(_ context.Context, clientID string) (int, error) {
	deleted := 0
	for name := range m.uploads {
		if strings.HasPrefix(name, clientID+"/") {
			delete(m.uploads, name)
			deleted++
		}
	}
	return deleted, nil
}

// recordingPublisher 记录发布的事件，替代RabbitMQ
type recordingPublisher struct {
	exchanges []string
	events    []any
}

func (p *recordingPublisher) PublishJSON(_ context.Context, _, _ string, data any, _ bool) error {
	p.events = append(p.events, data)
	return nil
}

func (p *recordingPublisher) EnsureExchange(exchangeName, _ string, _ bool) error {
	p.exchanges = append(p.exchanges, exchangeName)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

// stubExtractor 返回固定文本的假提取器，记录每次提取的uri
type stubExtractor struct {
	text  string
	docx  bool
	calls []string
}

func (s *stubExtractor) ExtractText(_ context.Context, _ []byte, uri string) (string, error) {
	s.calls = append(s.calls, uri)
	return s.text, nil
}

func (s *stubExtractor) SupportsDocx() bool { return s.docx }

type testEnv struct {
	engine  *route.Engine
	docs    *memoryDocStore
	records *memoryRecordStore
	objects *memoryObjects
	events  *recordingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvExtractor(t, nil)
}

func newTestEnvExtractor(t *testing.T, extractor parser.TextExtractor) *testEnv {
	t.Helper()

	tax, err := taxonomy.Parse([]byte(`Backend:
  - name: Python
    aliases: [python3]
  - name: Go
    aliases: [golang]
Data:
  - name: SQL
`))
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Scoring = config.ScoringConfig{
		Delta:               config.DefaultDelta,
		Eta:                 config.DefaultEta,
		Eps:                 config.DefaultEps,
		LambdaDecay:         config.DefaultLambdaDecay,
		SimilarityThreshold: config.DefaultSimilarityThreshold,
	}
	cfg.RabbitMQ.MatchEventsExchange = "match.events"
	cfg.RabbitMQ.CompletedRoutingKey = "match.completed"

	env := &testEnv{
		docs:    newMemoryDocStore(),
		records: &memoryRecordStore{},
		objects: newMemoryObjects(),
		events:  &recordingPublisher{},
	}

	m := matcher.New(tax, nil, cfg.Scoring.SimilarityThreshold)
	h := handler.NewMatchHandler(cfg, tax, m, extractor, nil, env.docs, env.records, env.objects, env.events)

	env.engine = route.NewEngine(hertzconfig.NewOptions([]hertzconfig.Option{}))
	router.Register(env.engine, h)
	return env
}

func (e *testEnv) perform(method, path, contentType string, body []byte, extraHeaders ...ut.Header) *ut.ResponseRecorder {
	headers := []ut.Header{{Key: "X-Client-Id", Value: testClientID}}
	if contentType != "" {
		headers = append(headers, ut.Header{Key: "Content-Type", Value: contentType})
	}
	headers = append(headers, extraHeaders...)
	return ut.PerformRequest(e.engine, method, path,
		&ut.Body{Body: bytes.NewBuffer(body), Len: len(body)}, headers...)
}

func (e *testEnv) parseResume(t *testing.T, extraHeaders ...ut.Header) string {
	t.Helper()
	w := e.perform("POST", "/api/v1/parse/resume", "text/plain", []byte(sampleResumeText), extraHeaders...)
	require.Equal(t, 200, w.Result().StatusCode())
	var doc struct {
		DocID string `json:"doc_id"`
	}
	require.NoError(t, json.Unmarshal(w.Result().Body(), &doc))
	require.NotEmpty(t, doc.DocID)
	return doc.DocID
}

func (e *testEnv) parseJob(t *testing.T, extraHeaders ...ut.Header) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"source": sampleJobText})
	w := e.perform("POST", "/api/v1/parse/job", "application/json", body, extraHeaders...)
	require.Equal(t, 200, w.Result().StatusCode())
	var doc struct {
		DocID string `json:"doc_id"`
	}
	require.NoError(t, json.Unmarshal(w.Result().Body(), &doc))
	require.NotEmpty(t, doc.DocID)
	return doc.DocID
}

func TestHealthNoAuth(t *testing.T) {
	env := newTestEnv(t)
	w := ut.PerformRequest(env.engine, "GET", "/api/v1/health", nil)
	assert.Equal(t, 200, w.Result().StatusCode())
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)
	body, _ := json.Marshal(map[string]string{"source": sampleJobText})
	w := ut.PerformRequest(env.engine, "POST", "/api/v1/parse/job",
		&ut.Body{Body: bytes.NewBuffer(body), Len: len(body)},
		ut.Header{Key: "Content-Type", Value: "application/json"})
	assert.Equal(t, 401, w.Result().StatusCode())
}

func TestParseJob(t *testing.T) {
	env := newTestEnv(t)
	docID := env.parseJob(t)

	raw, err := env.docs.GetParsedDoc(context.Background(), docID)
	require.NoError(t, err)
	var doc struct {
		DocType string          `json:"doc_type"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "job", doc.DocType)

	var posting types.JobPosting
	require.NoError(t, json.Unmarshal(doc.Data, &posting))
	assert.Equal(t, "Senior Backend Engineer", posting.Title)
	assert.Equal(t, []string{"Python", "SQL"}, posting.RequiredSkills)
	assert.Equal(t, []string{"Go"}, posting.PreferredSkills)
}

func TestParseJobEmptySource(t *testing.T) {
	env := newTestEnv(t)
	body, _ := json.Marshal(map[string]string{"source": "   "})
	w := env.perform("POST", "/api/v1/parse/job", "application/json", body)
	assert.Equal(t, 400, w.Result().StatusCode())
}

func TestParseJobTooLarge(t *testing.T) {
	env := newTestEnv(t)
	body, _ := json.Marshal(map[string]string{"source": strings.Repeat("a", 1<<20+1)})
	w := env.perform("POST", "/api/v1/parse/job", "application/json", body)
	assert.Equal(t, 413, w.Result().StatusCode())
}

func TestParseResume(t *testing.T) {
	env := newTestEnv(t)
	docID := env.parseResume(t)

	raw, err := env.docs.GetParsedDoc(context.Background(), docID)
	require.NoError(t, err)
	var doc struct {
		DocType string          `json:"doc_type"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "resume", doc.DocType)

	var profile types.ResumeProfile
	require.NoError(t, json.Unmarshal(doc.Data, &profile))
	assert.Contains(t, profile.Skills, "Python")
	assert.Contains(t, profile.Skills, "SQL")
	require.Len(t, profile.Experiences, 1)
	assert.Equal(t, "Acme Corp", profile.Experiences[0].Company)
}

func TestParseResumeEmptyBody(t *testing.T) {
	env := newTestEnv(t)
	w := env.perform("POST", "/api/v1/parse/resume", "text/plain", nil)
	assert.Equal(t, 400, w.Result().StatusCode())
}

func TestMatchEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	resumeID := env.parseResume(t)
	jobID := env.parseJob(t)

	body, _ := json.Marshal(map[string]string{"resume_doc_id": resumeID, "job_doc_id": jobID})
	w := env.perform("POST", "/api/v1/match", "application/json", body)
	require.Equal(t, 200, w.Result().StatusCode())

	var resp handler.MatchResponse
	require.NoError(t, json.Unmarshal(w.Result().Body(), &resp))
	assert.NotEmpty(t, resp.MatchID)
	assert.Greater(t, resp.Explanation.Score, 0.0)
	assert.NotEmpty(t, resp.Explanation.Label)
	assert.NotEmpty(t, resp.Explanation.BestFit)

	// Go是岗位偏好技能但简历没有，应出现在缺口中
	var gapNames []string
	for _, g := range resp.Explanation.Gaps {
		gapNames = append(gapNames, g.Skill)
	}
	assert.Contains(t, gapNames, "Go")

	// 匹配结果写入工作存储，事件已发布
	assert.Contains(t, env.docs.matches, resp.MatchID)
	assert.Len(t, env.events.events, 1)

	// 未授权保存，持久层不应有数据
	assert.Empty(t, env.records.records)
}

func TestMatchDocumentsNotFound(t *testing.T) {
	env := newTestEnv(t)
	body, _ := json.Marshal(map[string]string{"resume_doc_id": "nope", "job_doc_id": "nada"})
	w := env.perform("POST", "/api/v1/match", "application/json", body)
	assert.Equal(t, 404, w.Result().StatusCode())
}

func TestMatchWrongDocType(t *testing.T) {
	env := newTestEnv(t)
	resumeID := env.parseResume(t)
	jobID := env.parseJob(t)

	body, _ := json.Marshal(map[string]string{"resume_doc_id": jobID, "job_doc_id": resumeID})
	w := env.perform("POST", "/api/v1/match", "application/json", body)
	assert.Equal(t, 400, w.Result().StatusCode())
}

func TestConsentSavePersists(t *testing.T) {
	env := newTestEnv(t)
	consent := ut.Header{Key: "X-Consent-Save", Value: "true"}
	resumeID := env.parseResume(t, consent)
	jobID := env.parseJob(t, consent)

	// 简历原始文件上传，且两份文档都持久化
	require.Len(t, env.records.documents, 2)
	assert.Equal(t, resumeID, env.records.documents[0].DocUUID)
	assert.Equal(t, testClientID, env.records.documents[0].ClientID)
	assert.Len(t, env.objects.uploads, 1)

	body, _ := json.Marshal(map[string]string{"resume_doc_id": resumeID, "job_doc_id": jobID})
	w := env.perform("POST", "/api/v1/match", "application/json", body, consent)
	require.Equal(t, 200, w.Result().StatusCode())

	require.Len(t, env.records.records, 1)
	record := env.records.records[0]
	assert.Equal(t, resumeID, record.ResumeDocUUID)
	assert.Equal(t, jobID, record.JobDocUUID)
	assert.NotEmpty(t, record.Label)
}

func TestDeleteUserData(t *testing.T) {
	env := newTestEnv(t)
	consent := ut.Header{Key: "X-Consent-Save", Value: "true"}
	env.parseResume(t, consent)
	env.parseJob(t, consent)

	w := env.perform("DELETE", "/api/v1/user/data", "", nil)
	require.Equal(t, 200, w.Result().StatusCode())

	var resp struct {
		DeletedKeys    int64 `json:"deleted_keys"`
		DeletedRows    int64 `json:"deleted_rows"`
		DeletedObjects int   `json:"deleted_objects"`
	}
	require.NoError(t, json.Unmarshal(w.Result().Body(), &resp))
	assert.EqualValues(t, 2, resp.DeletedKeys)
	assert.EqualValues(t, 2, resp.DeletedRows)
	assert.Equal(t, 1, resp.DeletedObjects)
	assert.Empty(t, env.docs.docs)
	assert.Empty(t, env.records.documents)
	assert.Empty(t, env.objects.uploads)
}

// TestParseJobFromURL 验证source为URL时抓取页面正文再解析
func TestParseJobFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><body>
<nav>Home | Jobs</nav>
<main>
<h1>Senior Backend Engineer</h1>
<h2>Requirements</h2>
<ul><li>Python</li><li>SQL</li></ul>
</main>
</body></html>`))
	}))
	defer srv.Close()

	env := newTestEnv(t)
	body, _ := json.Marshal(map[string]string{"source": srv.URL})
	w := env.perform("POST", "/api/v1/parse/job", "application/json", body)
	require.Equal(t, 200, w.Result().StatusCode())

	var doc struct {
		DocID string `json:"doc_id"`
	}
	require.NoError(t, json.Unmarshal(w.Result().Body(), &doc))
	raw, err := env.docs.GetParsedDoc(context.Background(), doc.DocID)
	require.NoError(t, err)

	var stored struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &stored))
	var posting types.JobPosting
	require.NoError(t, json.Unmarshal(stored.Data, &posting))
	assert.Equal(t, "Senior Backend Engineer", posting.Title, "URL不应被当作岗位标题")
	assert.Equal(t, []string{"Python", "SQL"}, posting.RequiredSkills)
}

// TestParseJobURLFetchFailure 验证岗位页面抓取失败时返回422
func TestParseJobURLFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	env := newTestEnv(t)
	body, _ := json.Marshal(map[string]string{"source": srv.URL})
	w := env.perform("POST", "/api/v1/parse/job", "application/json", body)
	assert.Equal(t, 422, w.Result().StatusCode())
}

// TestParseResumeDocxWithoutExtractor 验证无提取器时docx上传被拒绝
func TestParseResumeDocxWithoutExtractor(t *testing.T) {
	env := newTestEnv(t)
	w := env.perform("POST", "/api/v1/parse/resume?filename=resume.docx",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document", []byte("PK binary"))
	assert.Equal(t, 415, w.Result().StatusCode())
}

// TestParseResumeDocxRejectedByPDFOnlyExtractor 验证只支持PDF的提取器不接docx
func TestParseResumeDocxRejectedByPDFOnlyExtractor(t *testing.T) {
	ex := &stubExtractor{text: sampleResumeText, docx: false}
	env := newTestEnvExtractor(t, ex)
	w := env.perform("POST", "/api/v1/parse/resume?filename=resume.docx", "", []byte("PK binary"))
	assert.Equal(t, 415, w.Result().StatusCode())
	assert.Empty(t, ex.calls, "不支持的格式不应进入提取器")
}

// TestParseResumeDocxRoutedThroughExtractor 验证docx经由提取器转成文本后解析
func TestParseResumeDocxRoutedThroughExtractor(t *testing.T) {
	ex := &stubExtractor{text: sampleResumeText, docx: true}
	env := newTestEnvExtractor(t, ex)
	w := env.perform("POST", "/api/v1/parse/resume?filename=resume.docx", "", []byte("PK binary"))
	require.Equal(t, 200, w.Result().StatusCode())
	assert.Equal(t, []string{"resume.docx"}, ex.calls)

	var doc struct {
		DocID string `json:"doc_id"`
	}
	require.NoError(t, json.Unmarshal(w.Result().Body(), &doc))
	raw, err := env.docs.GetParsedDoc(context.Background(), doc.DocID)
	require.NoError(t, err)

	var stored struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &stored))
	var profile types.ResumeProfile
	require.NoError(t, json.Unmarshal(stored.Data, &profile))
	assert.Contains(t, profile.Skills, "Python", "解析的应是提取出的文本而非原始字节")
}

// TestParseResumePDFRoutedThroughExtractor 验证按内容类型识别的PDF走提取器
func TestParseResumePDFRoutedThroughExtractor(t *testing.T) {
	ex := &stubExtractor{text: sampleResumeText, docx: false}
	env := newTestEnvExtractor(t, ex)
	w := env.perform("POST", "/api/v1/parse/resume", "application/pdf", []byte("%PDF-1.4 binary"))
	require.Equal(t, 200, w.Result().StatusCode())
	assert.Equal(t, []string{"resume.pdf"}, ex.calls)
}

// TestGetMatchResult 验证匹配结果可以按ID取回
func TestGetMatchResult(t *testing.T) {
	env := newTestEnv(t)
	resumeID := env.parseResume(t)
	jobID := env.parseJob(t)

	body, _ := json.Marshal(map[string]string{"resume_doc_id": resumeID, "job_doc_id": jobID})
	w := env.perform("POST", "/api/v1/match", "application/json", body)
	require.Equal(t, 200, w.Result().StatusCode())
	var created handler.MatchResponse
	require.NoError(t, json.Unmarshal(w.Result().Body(), &created))

	w = env.perform("GET", "/api/v1/match/"+created.MatchID, "", nil)
	require.Equal(t, 200, w.Result().StatusCode())
	var fetched handler.MatchResponse
	require.NoError(t, json.Unmarshal(w.Result().Body(), &fetched))
	assert.Equal(t, created.MatchID, fetched.MatchID)
	assert.Equal(t, created.Explanation.Score, fetched.Explanation.Score)
}

// TestGetMatchResultNotFound 验证未知匹配ID返回404
func TestGetMatchResultNotFound(t *testing.T) {
	env := newTestEnv(t)
	w := env.perform("GET", "/api/v1/match/nope", "", nil)
	assert.Equal(t, 404, w.Result().StatusCode())
}

// TestGetDocument 验证解析后的文档可以按ID取回
func TestGetDocument(t *testing.T) {
	env := newTestEnv(t)
	jobID := env.parseJob(t)

	w := env.perform("GET", "/api/v1/doc/"+jobID, "", nil)
	require.Equal(t, 200, w.Result().StatusCode())
	var doc struct {
		DocID   string `json:"doc_id"`
		DocType string `json:"doc_type"`
	}
	require.NoError(t, json.Unmarshal(w.Result().Body(), &doc))
	assert.Equal(t, jobID, doc.DocID)
	assert.Equal(t, "job", doc.DocType)
}

// TestGetDocumentFallsBackToPersisted 验证工作存储过期后从持久层兜底读取
func TestGetDocumentFallsBackToPersisted(t *testing.T) {
	env := newTestEnv(t)
	consent := ut.Header{Key: "X-Consent-Save", Value: "true"}
	resumeID := env.parseResume(t, consent)

	// 模拟工作存储中的键过期
	delete(env.docs.docs, resumeID)

	w := env.perform("GET", "/api/v1/doc/"+resumeID, "", nil)
	require.Equal(t, 200, w.Result().StatusCode())
	var doc struct {
		DocID   string `json:"doc_id"`
		DocType string `json:"doc_type"`
	}
	require.NoError(t, json.Unmarshal(w.Result().Body(), &doc))
	assert.Equal(t, resumeID, doc.DocID)
	assert.Equal(t, "resume", doc.DocType)
}

// TestGetDocumentNotFound 验证两层都没有的文档返回404
func TestGetDocumentNotFound(t *testing.T) {
	env := newTestEnv(t)
	w := env.perform("GET", "/api/v1/doc/nope", "", nil)
	assert.Equal(t, 404, w.Result().StatusCode())
}

// TestCORSPreflight 验证浏览器预检请求被放行
func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t)
	w := ut.PerformRequest(env.engine, "OPTIONS", "/api/v1/match", nil,
		ut.Header{Key: "Origin", Value: "http://localhost:5173"},
		ut.Header{Key: "Access-Control-Request-Method", Value: "POST"})
	assert.Equal(t, 204, w.Result().StatusCode())
	assert.NotEmpty(t, w.Result().Header.Get("Access-Control-Allow-Origin"))
}

func TestReportMetrics(t *testing.T) {
	env := newTestEnv(t)
	body, _ := json.Marshal(map[string]string{"event": "page_view"})
	w := env.perform("POST", "/api/v1/metrics", "application/json", body)
	assert.Equal(t, 200, w.Result().StatusCode())

	body, _ = json.Marshal(map[string]string{"event": ""})
	w = env.perform("POST", "/api/v1/metrics", "application/json", body)
	assert.Equal(t, 400, w.Result().StatusCode())
}
