package upload

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"ddokdoc/backend"
	"ddokdoc/chat"
	"ddokdoc/document"
	"ddokdoc/pubsub"

	"go.uber.org/zap"
)

// fakeGateway 可编排的假网关：ProcessDocument 可被阻塞，Progress 按脚本吐阶段。
type fakeGateway struct {
	mu            sync.Mutex
	stages        []string
	stageIdx      int
	progressCalls int

	processResult *backend.ProcessResult
	processErr    error
	block         chan struct{} // 非 nil 时 ProcessDocument 等待放行
}

func (f *fakeGateway) ProcessDocument(ctx context.Context, provisionalID string, files []backend.FilePart) (*backend.ProcessResult, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.processResult, f.processErr
}

func (f *fakeGateway) Progress(ctx context.Context, docID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.progressCalls++
	if f.stageIdx >= len(f.stages) {
		return "pending", nil
	}
	stage := f.stages[f.stageIdx]
	f.stageIdx++
	return stage, nil
}

func (f *fakeGateway) Chat(ctx context.Context, docID, question string) (*backend.ChatResult, error) {
	return &backend.ChatResult{Answer: "ok"}, nil
}

func (f *fakeGateway) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.progressCalls
}

type fixture struct {
	gw       *fakeGateway
	registry *document.Registry
	chats    *chat.Store
	broker   *pubsub.Broker[pubsub.Notice]
	coord    *Coordinator
	events   <-chan pubsub.Event[pubsub.Notice]
	cancel   context.CancelFunc
}

func newFixture(t *testing.T, gw *fakeGateway, maxWait time.Duration) *fixture {
	t.Helper()
	logger := zap.NewNop().Sugar()
	broker := pubsub.NewBroker[pubsub.Notice]()
	registry := document.NewRegistry()
	chats := chat.NewStore(gw, broker, time.Second, logger)
	coord := NewCoordinator(gw, registry, chats, broker, 5*time.Millisecond, maxWait, logger)

	ctx, cancel := context.WithCancel(context.Background())
	events := broker.Subscribe(ctx)

	t.Cleanup(func() {
		cancel()
		broker.Shutdown()
	})
	return &fixture{gw: gw, registry: registry, chats: chats, broker: broker, coord: coord, events: events, cancel: cancel}
}

// waitEvent 等待指定类型的事件，超时即失败。
func (fx *fixture) waitEvent(t *testing.T, want pubsub.EventType) pubsub.Notice {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev := <-fx.events:
			if ev.Type == want {
				return ev.Payload
			}
		case <-timeout:
			t.Fatalf("等待事件 %s 超时", want)
		}
	}
}

func someFiles() []document.LocalFile {
	return []document.LocalFile{{Name: "Report.pdf", Path: "/tmp/report.pdf", Size: 1 << 20}}
}

func TestSubmitSuccess(t *testing.T) {
	gw := &fakeGateway{processResult: &backend.ProcessResult{
		DocID:   "doc-9",
		Summary: "S",
		Action:  []backend.ActionItem{{Title: "T", Text: "X"}},
	}}
	fx := newFixture(t, gw, time.Minute)

	doc, err := fx.coord.Submit(someFiles())
	if err != nil {
		t.Fatalf("提交失败: %v", err)
	}
	if doc.Status != document.StatusUploading || doc.ID == "" {
		t.Errorf("返回的临时快照不对: %+v", doc)
	}

	ready := fx.waitEvent(t, pubsub.DocumentReadyEvent)
	if ready.DocID != "doc-9" {
		t.Errorf("就绪事件应携带后端 ID, 实际为 %s", ready.DocID)
	}

	list := fx.registry.List()
	if len(list) != 1 {
		t.Fatalf("注册表应有 1 个文档, 实际为 %d", len(list))
	}
	final := list[0]
	if final.ID != "doc-9" || final.Status != document.StatusReady {
		t.Errorf("最终化失败: %+v", final)
	}
	if final.Analysis == nil || final.Analysis.Summary != "S" {
		t.Fatalf("分析载荷缺失: %+v", final.Analysis)
	}
	if len(final.Analysis.Action) != 1 ||
		final.Analysis.Action[0].Title != "T" ||
		final.Analysis.Action[0].Text != "X" {
		t.Errorf("行动项应与响应逐字一致: %+v", final.Analysis.Action)
	}

	if sel, ok := fx.registry.Selected(); !ok || sel.ID != "doc-9" {
		t.Error("上传完成后应自动选中新文档")
	}

	history := fx.chats.History("doc-9")
	if len(history) != 1 || history[0].Role != chat.RoleAssistant {
		t.Fatalf("应预置一条助手欢迎消息: %+v", history)
	}
}

func TestSubmitStatusError(t *testing.T) {
	gw := &fakeGateway{processErr: &backend.StatusError{Code: http.StatusBadGateway}}
	fx := newFixture(t, gw, time.Minute)

	if _, err := fx.coord.Submit(someFiles()); err != nil {
		t.Fatalf("提交失败: %v", err)
	}

	failed := fx.waitEvent(t, pubsub.DocumentFailedEvent)
	if failed.Text != "⚠️ API 오류: 502" {
		t.Errorf("状态码错误文案不符: %q", failed.Text)
	}

	list := fx.registry.List()
	if len(list) != 1 || list[0].Status != document.StatusError {
		t.Fatalf("失败也应落一条错误状态的文档行: %+v", list)
	}
	if list[0].Message != "⚠️ API 오류: 502" {
		t.Errorf("错误消息不符: %q", list[0].Message)
	}
	// 失败的文档没有欢迎消息
	if len(fx.chats.History(list[0].ID)) != 0 {
		t.Error("失败文档不应预置聊天消息")
	}
}

func TestSubmitTransportError(t *testing.T) {
	gw := &fakeGateway{processErr: errors.New("dial tcp: connection refused")}
	fx := newFixture(t, gw, time.Minute)

	if _, err := fx.coord.Submit(someFiles()); err != nil {
		t.Fatalf("提交失败: %v", err)
	}

	failed := fx.waitEvent(t, pubsub.DocumentFailedEvent)
	if failed.Text != "[오류]ingestion 오류 발생" {
		t.Errorf("传输错误文案不符: %q", failed.Text)
	}
}

func TestSubmitEmpty(t *testing.T) {
	fx := newFixture(t, &fakeGateway{}, time.Minute)
	if _, err := fx.coord.Submit(nil); !errors.Is(err, ErrNoFiles) {
		t.Errorf("空文件列表应返回 ErrNoFiles, 实际为 %v", err)
	}
}

func TestDuplicateSubmitRejected(t *testing.T) {
	gw := &fakeGateway{
		block:         make(chan struct{}),
		processResult: &backend.ProcessResult{DocID: "doc-1"},
	}
	fx := newFixture(t, gw, time.Minute)

	if _, err := fx.coord.Submit(someFiles()); err != nil {
		t.Fatalf("首次提交失败: %v", err)
	}
	if !fx.coord.Busy() {
		t.Error("在途上传期间 Busy 应为 true")
	}
	if _, err := fx.coord.Submit(someFiles()); !errors.Is(err, ErrUploadInFlight) {
		t.Errorf("并发提交应被拒绝, 实际为 %v", err)
	}

	close(gw.block)
	fx.waitEvent(t, pubsub.DocumentReadyEvent)
	if fx.coord.Busy() {
		t.Error("上传结束后 Busy 应复位")
	}
}

// TestMonotonicStepIndex 阶段乱序到达时步骤指示器只会前进。
// 脚本顺序 analysis→refine→summary 应产生下标 2→3，绝不回退到 1。
func TestMonotonicStepIndex(t *testing.T) {
	gw := &fakeGateway{
		block:         make(chan struct{}),
		processResult: &backend.ProcessResult{DocID: "doc-1"},
	}
	fx := newFixture(t, gw, time.Minute)

	doc, err := fx.coord.Submit(someFiles())
	if err != nil {
		t.Fatalf("提交失败: %v", err)
	}

	for _, stage := range []Stage{StageAnalysis, StageRefine, StageSummary, StagePending, "unknown"} {
		fx.coord.advance(doc.ID, stage)
	}

	var indexes []int
	deadline := time.After(time.Second)
collect:
	for {
		select {
		case ev := <-fx.events:
			if ev.Type == pubsub.StageAdvancedEvent {
				indexes = append(indexes, ev.Payload.StepIndex)
				if len(indexes) == 2 {
					break collect
				}
			}
		case <-deadline:
			break collect
		}
	}

	if len(indexes) != 2 || indexes[0] != 2 || indexes[1] != 3 {
		t.Errorf("期望步骤序列 [2 3], 实际为 %v", indexes)
	}

	close(gw.block)
}

func TestPollingStopsAfterTerminal(t *testing.T) {
	gw := &fakeGateway{processResult: &backend.ProcessResult{DocID: "doc-1"}}
	fx := newFixture(t, gw, time.Minute)

	if _, err := fx.coord.Submit(someFiles()); err != nil {
		t.Fatalf("提交失败: %v", err)
	}
	fx.waitEvent(t, pubsub.DocumentReadyEvent)

	// 留出取消传播的时间，再确认计数不再增长
	time.Sleep(30 * time.Millisecond)
	before := gw.calls()
	time.Sleep(60 * time.Millisecond)
	if after := gw.calls(); after != before {
		t.Errorf("终态之后轮询仍在继续: %d -> %d", before, after)
	}
}

func TestDismissStopsPollingButUploadContinues(t *testing.T) {
	gw := &fakeGateway{
		block:         make(chan struct{}),
		processResult: &backend.ProcessResult{DocID: "doc-1"},
	}
	fx := newFixture(t, gw, time.Minute)

	if _, err := fx.coord.Submit(someFiles()); err != nil {
		t.Fatalf("提交失败: %v", err)
	}

	fx.coord.Dismiss()
	time.Sleep(30 * time.Millisecond)
	before := gw.calls()
	time.Sleep(60 * time.Millisecond)
	if after := gw.calls(); after != before {
		t.Errorf("Dismiss 之后轮询仍在继续: %d -> %d", before, after)
	}

	// 上传本身不受影响，仍会最终化
	close(gw.block)
	fx.waitEvent(t, pubsub.DocumentReadyEvent)
	if len(fx.registry.List()) != 1 {
		t.Error("Dismiss 不应中断上传")
	}
}

func TestUploadCeiling(t *testing.T) {
	gw := &fakeGateway{block: make(chan struct{})} // 永不放行，等 ctx 超时
	fx := newFixture(t, gw, 30*time.Millisecond)

	if _, err := fx.coord.Submit(someFiles()); err != nil {
		t.Fatalf("提交失败: %v", err)
	}

	failed := fx.waitEvent(t, pubsub.DocumentFailedEvent)
	if failed.Text != "[오류]ingestion 오류 발생" {
		t.Errorf("超时应按传输错误落档: %q", failed.Text)
	}
}

func TestStepIndexMapping(t *testing.T) {
	cases := []struct {
		stage Stage
		idx   int
		ok    bool
	}{
		{StageOCR, 0, true},
		{StageRefine, 1, true},
		{StageAnalysis, 2, true},
		{StageSummary, 3, true},
		{StagePending, 0, false},
		{"garbage", 0, false},
	}
	for _, tc := range cases {
		idx, ok := StepIndex(tc.stage)
		if ok != tc.ok || (ok && idx != tc.idx) {
			t.Errorf("StepIndex(%s) = %d/%v, 期望 %d/%v", tc.stage, idx, ok, tc.idx, tc.ok)
		}
	}
}
