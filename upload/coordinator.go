package upload

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ddokdoc/backend"
	"ddokdoc/chat"
	"ddokdoc/document"
	"ddokdoc/pubsub"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrUploadInFlight 同一时刻只允许一个上传。
// UI 会禁用上传入口，这里再兜底一层。
var ErrUploadInFlight = errors.New("已有上传正在进行")

// ErrNoFiles 提交时必须携带至少一个文件
var ErrNoFiles = errors.New("没有可上传的文件")

// 上传失败时替代摘要展示的错误文案，与界面端约定一致
const (
	msgStatusError    = "⚠️ API 오류: %d"
	msgTransportError = "[오류]ingestion 오류 발생"
)

// inflight 一次在途上传。
// step 是步骤指示器的单调指针：只接受映射下标大于当前值的阶段，
// 乱序到达或未知的阶段名被忽略，显示不会回退。
type inflight struct {
	provisionalID string
	step          int
	cancelUpload  context.CancelFunc // 终止整个上传（含轮询）
	cancelPoll    context.CancelFunc // 只终止轮询（遮罩被用户关闭时）
}

// Coordinator 上传/进度协调器，持有文档生命周期的全部状态迁移。
type Coordinator struct {
	gateway  backend.Gateway
	registry *document.Registry
	chats    *chat.Store
	broker   *pubsub.Broker[pubsub.Notice]
	logger   *zap.SugaredLogger

	pollInterval time.Duration
	maxWait      time.Duration // 上传处理的最长等待，超过判定失败

	mu     sync.Mutex
	active *inflight
}

// NewCoordinator 创建协调器
func NewCoordinator(
	gateway backend.Gateway,
	registry *document.Registry,
	chats *chat.Store,
	broker *pubsub.Broker[pubsub.Notice],
	pollInterval, maxWait time.Duration,
	logger *zap.SugaredLogger,
) *Coordinator {
	return &Coordinator{
		gateway:      gateway,
		registry:     registry,
		chats:        chats,
		broker:       broker,
		pollInterval: pollInterval,
		maxWait:      maxWait,
		logger:       logger,
	}
}

// Busy 是否有上传在途（UI 用来禁用上传入口）
func (c *Coordinator) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active != nil
}

// Submit 提交一次上传：生成临时 ID、启动进度轮询、调用后端处理接口。
// 返回的 Document 是临时态快照；最终结果通过事件广播并写入注册表。
func (c *Coordinator) Submit(files []document.LocalFile) (document.Document, error) {
	if len(files) == 0 {
		return document.Document{}, ErrNoFiles
	}

	c.mu.Lock()
	if c.active != nil {
		c.mu.Unlock()
		return document.Document{}, ErrUploadInFlight
	}

	provisionalID := uuid.NewString()

	uploadCtx, cancelUpload := context.WithTimeout(context.Background(), c.maxWait)
	pollCtx, cancelPoll := context.WithCancel(uploadCtx)

	c.active = &inflight{
		provisionalID: provisionalID,
		step:          -1, // 尚未到达任何阶段
		cancelUpload:  cancelUpload,
		cancelPoll:    cancelPoll,
	}
	c.mu.Unlock()

	doc := document.Document{
		ID:         provisionalID,
		Name:       document.DisplayName(files),
		Size:       document.TotalSize(files),
		Kind:       document.ClassifyKind(files),
		Status:     document.StatusUploading,
		UploadedAt: time.Now(),
		Sources:    files,
	}

	c.logger.Infow("开始上传", "provisional_id", provisionalID, "name", doc.Name, "files", len(files))
	c.broker.Publish(pubsub.UploadStartedEvent, pubsub.Notice{DocID: provisionalID, Text: doc.Name})

	go c.pollLoop(pollCtx, provisionalID)
	go c.run(uploadCtx, cancelUpload, doc)

	return doc, nil
}

// Dismiss 用户关闭了加载遮罩：确定性地停掉轮询，上传本身继续。
func (c *Coordinator) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil {
		c.active.cancelPoll()
	}
}

// run 执行后端处理调用并最终化文档，退出时回收轮询和在途标记。
func (c *Coordinator) run(ctx context.Context, cancel context.CancelFunc, doc document.Document) {
	defer cancel()
	defer func() {
		c.mu.Lock()
		c.active = nil
		c.mu.Unlock()
	}()

	parts := make([]backend.FilePart, 0, len(doc.Sources))
	for _, f := range doc.Sources {
		parts = append(parts, backend.FilePart{Name: f.Name, Path: f.Path})
	}

	result, err := c.gateway.ProcessDocument(ctx, doc.ID, parts)
	if err != nil {
		c.fail(doc, err)
		return
	}

	provisionalID := doc.ID

	// 最终化：替换为后端分配的 doc_id，临时 ID 就此退役
	doc.ID = result.DocID
	doc.Status = document.StatusReady
	doc.Analysis = &document.Analysis{
		Summary: result.Summary,
		Action:  mapAction(result.Action),
	}

	c.registry.Add(doc)
	c.registry.Select(doc.ID)
	c.chats.Append(doc.ID, chat.Greeting(doc.Name))

	// 步骤指示器直接推到最后一格，之后的迟到轮询结果不会再回退
	c.advance(provisionalID, StageSummary)

	c.logger.Infow("文档就绪", "doc_id", doc.ID, "name", doc.Name)
	c.broker.Publish(pubsub.DocumentReadyEvent, pubsub.Notice{DocID: doc.ID, Text: doc.Name})
}

// fail 上传失败：仍然落一条错误状态的文档行，用户能看到这次尝试。
func (c *Coordinator) fail(doc document.Document, err error) {
	var statusErr *backend.StatusError
	if errors.As(err, &statusErr) {
		doc.Message = fmt.Sprintf(msgStatusError, statusErr.Code)
	} else {
		doc.Message = msgTransportError
	}
	doc.Status = document.StatusError

	c.registry.Add(doc)
	c.registry.Select(doc.ID)

	c.logger.Errorw("上传失败", "provisional_id", doc.ID, "error", err)
	c.broker.Publish(pubsub.DocumentFailedEvent, pubsub.Notice{DocID: doc.ID, Text: doc.Message})
}

// pollLoop 固定间隔轮询进度，ctx 结束即停止。
func (c *Coordinator) pollLoop(ctx context.Context, provisionalID string) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.pollOnce(ctx, provisionalID)
		}
	}
}

// pollOnce 单次进度查询。网络错误、畸形载荷都当作"这一拍没有新信息"，
// 绝不让一次抖动中断整个上传。
func (c *Coordinator) pollOnce(ctx context.Context, provisionalID string) {
	stage, err := c.gateway.Progress(ctx, provisionalID)
	if err != nil {
		c.logger.Debugw("进度查询失败，忽略", "provisional_id", provisionalID, "error", err)
		return
	}
	c.advance(provisionalID, Stage(stage))
}

// advance 应用单调指针策略：只有映射下标大于当前指针才推进并广播。
func (c *Coordinator) advance(provisionalID string, stage Stage) {
	idx, ok := StepIndex(stage)
	if !ok {
		return
	}

	c.mu.Lock()
	if c.active == nil || c.active.provisionalID != provisionalID || idx <= c.active.step {
		c.mu.Unlock()
		return
	}
	c.active.step = idx
	c.mu.Unlock()

	c.broker.Publish(pubsub.StageAdvancedEvent, pubsub.Notice{
		DocID:     provisionalID,
		Stage:     string(stage),
		StepIndex: idx,
	})
}

func mapAction(items []backend.ActionItem) []document.ActionItem {
	out := make([]document.ActionItem, 0, len(items))
	for _, item := range items {
		out = append(out, document.ActionItem{Title: item.Title, Text: item.Text})
	}
	return out
}
