package mockserver

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return New(0, zap.NewNop().Sugar()).Router()
}

func multipartBody(t *testing.T, docID string, names ...string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("doc_id", docID); err != nil {
		t.Fatal(err)
	}
	for _, name := range names {
		part, err := writer.CreateFormFile("files", name)
		if err != nil {
			t.Fatal(err)
		}
		part.Write([]byte("content"))
	}
	writer.Close()
	return &body, writer.FormDataContentType()
}

func TestProcessDocumentContract(t *testing.T) {
	router := newTestRouter()

	body, contentType := multipartBody(t, "doc-1", "a.pdf")
	req := httptest.NewRequest(http.MethodPost, "/process-document", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("期望 200, 实际为 %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		DocID   string `json:"doc_id"`
		Summary string `json:"summary"`
		Action  []struct {
			Title string `json:"title"`
			Text  string `json:"text"`
		} `json:"action"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("响应不是合法 JSON: %v", err)
	}
	if resp.DocID != "doc-1" {
		t.Errorf("doc_id 应原样返回, 实际为 %s", resp.DocID)
	}
	if resp.Summary == "" || len(resp.Action) == 0 {
		t.Errorf("摘要和行动项不能为空: %+v", resp)
	}
	if !strings.Contains(resp.Summary, "a.pdf") {
		t.Errorf("摘要应引用文件名: %s", resp.Summary)
	}
}

func TestProcessDocumentMissingDocID(t *testing.T) {
	router := newTestRouter()

	body, contentType := multipartBody(t, "", "a.pdf")
	req := httptest.NewRequest(http.MethodPost, "/process-document", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("缺少 doc_id 应返回 400, 实际为 %d", rec.Code)
	}
}

func TestProgressLifecycle(t *testing.T) {
	router := newTestRouter()

	// 未知文档返回 pending
	req := httptest.NewRequest(http.MethodGet, "/progress/ghost", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if !strings.Contains(rec.Body.String(), `"step":"pending"`) {
		t.Errorf("未知文档应返回 pending: %s", rec.Body.String())
	}

	// 上传后推进到 summary
	body, contentType := multipartBody(t, "doc-2", "a.pdf")
	upload := httptest.NewRequest(http.MethodPost, "/process-document", body)
	upload.Header.Set("Content-Type", contentType)
	router.ServeHTTP(httptest.NewRecorder(), upload)

	req = httptest.NewRequest(http.MethodGet, "/progress/doc-2", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if !strings.Contains(rec.Body.String(), `"step":"summary"`) {
		t.Errorf("处理完成后阶段应为 summary: %s", rec.Body.String())
	}
}

func TestChatContract(t *testing.T) {
	router := newTestRouter()

	payload := `{"doc_id":"doc-1","question":"기한이 언제인가요?"}`
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("期望 200, 实际为 %d", rec.Code)
	}

	var resp struct {
		Answer string `json:"answer"`
		Source string `json:"source"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("响应不是合法 JSON: %v", err)
	}
	if !strings.Contains(resp.Answer, "기한이 언제인가요?") {
		t.Errorf("答案应引用问题原文: %s", resp.Answer)
	}
	if resp.Source == "" {
		t.Error("罐头答案应携带出处")
	}
}

func TestChatValidation(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"doc_id":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("缺少 question 应返回 422, 实际为 %d", rec.Code)
	}
}
