// Package backend 封装与远端文档处理服务的 HTTP 交互。
// OCR、RAG 聊天、LLM 编排全部在服务端完成，这里只做请求和结果映射。
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strings"

	"go.uber.org/zap"
)

// FilePart 待上传的本地文件
type FilePart struct {
	Name string // 上传时使用的文件名
	Path string // 本地路径
}

// ActionItem 后端提取出的单条行动项
type ActionItem struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// ProcessResult /process-document 的成功结果
type ProcessResult struct {
	DocID   string
	Summary string
	Action  []ActionItem
}

// ChatResult /chat 的成功结果
type ChatResult struct {
	Answer string
	Source string // 文档出处，可能为空
}

// StatusError 表示非 2xx 的 HTTP 响应，携带状态码供 UI 展示。
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api status %d", e.Code)
}

// Gateway 网关接口，方便测试时注入假实现
type Gateway interface {
	// ProcessDocument 提交一批文件做 OCR + 分析，阻塞到处理完成
	ProcessDocument(ctx context.Context, provisionalID string, files []FilePart) (*ProcessResult, error)
	// Progress 查询指定文档当前的处理阶段名
	Progress(ctx context.Context, docID string) (string, error)
	// Chat 基于指定文档提问
	Chat(ctx context.Context, docID, question string) (*ChatResult, error)
}

// Client Gateway 的 HTTP 实现
type Client struct {
	base   string
	http   *http.Client
	logger *zap.SugaredLogger
}

// NewClient 创建指向 base 的网关客户端。
// 超时由调用方通过 context 控制，单次调用不做重试。
func NewClient(base string, logger *zap.SugaredLogger) *Client {
	return &Client{
		base:   strings.TrimRight(base, "/"),
		http:   &http.Client{},
		logger: logger,
	}
}

// ProcessDocument 以 multipart 形式提交 doc_id 和一个或多个 files 字段。
func (c *Client) ProcessDocument(ctx context.Context, provisionalID string, files []FilePart) (*ProcessResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("doc_id", provisionalID); err != nil {
		return nil, fmt.Errorf("写入 doc_id 字段失败: %w", err)
	}
	for _, f := range files {
		part, err := writer.CreateFormFile("files", f.Name)
		if err != nil {
			return nil, fmt.Errorf("创建文件分片失败: %w", err)
		}
		src, err := os.Open(f.Path)
		if err != nil {
			return nil, fmt.Errorf("打开文件 %s 失败: %w", f.Path, err)
		}
		_, copyErr := io.Copy(part, src)
		src.Close()
		if copyErr != nil {
			return nil, fmt.Errorf("读取文件 %s 失败: %w", f.Path, copyErr)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/process-document", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c.logger.Infow("上传文档", "doc_id", provisionalID, "files", len(files))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("上传请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Errorw("上传被拒绝", "status", resp.StatusCode, "body", string(text))
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var raw struct {
		DocID   string          `json:"doc_id"`
		Summary string          `json:"summary"`
		Action  json.RawMessage `json:"action"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("解析上传响应失败: %w", err)
	}

	return &ProcessResult{
		DocID:   raw.DocID,
		Summary: raw.Summary,
		Action:  decodeAction(raw.Action),
	}, nil
}

// decodeAction 容忍后端把单个行动项直接返回为对象而非数组。
func decodeAction(raw json.RawMessage) []ActionItem {
	if len(raw) == 0 {
		return nil
	}
	var list []ActionItem
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var single ActionItem
	if err := json.Unmarshal(raw, &single); err == nil {
		return []ActionItem{single}
	}
	return nil
}

// Progress 查询处理阶段。任何失败都返回错误，由轮询方决定忽略。
func (c *Client) Progress(ctx context.Context, docID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/progress/"+url.PathEscape(docID), nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Code: resp.StatusCode}
	}

	var raw struct {
		Step string `json:"step"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", fmt.Errorf("解析进度响应失败: %w", err)
	}
	return raw.Step, nil
}

// Chat 向文档对应的 RAG 聊天接口提问。
func (c *Client) Chat(ctx context.Context, docID, question string) (*ChatResult, error) {
	payload, err := json.Marshal(map[string]string{
		"doc_id":   docID,
		"question": question,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("聊天请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var raw struct {
		Answer string  `json:"answer"`
		Source *string `json:"source"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("解析聊天响应失败: %w", err)
	}

	result := &ChatResult{Answer: raw.Answer}
	if raw.Source != nil {
		result.Source = *raw.Source
	}
	return result, nil
}
