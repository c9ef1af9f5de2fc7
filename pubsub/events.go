package pubsub

import "context"

const (
	// UploadStartedEvent 上传提交，加载遮罩开始
	UploadStartedEvent EventType = "upload_started"
	// StageAdvancedEvent 后端处理阶段前进（步骤指示器推进）
	StageAdvancedEvent EventType = "stage_advanced"
	// DocumentReadyEvent 文档处理完成，分析结果已入库
	DocumentReadyEvent EventType = "document_ready"
	// DocumentFailedEvent 文档处理失败，错误行已入库
	DocumentFailedEvent EventType = "document_failed"
	// MessageAddedEvent 聊天记录新增一条消息
	MessageAddedEvent EventType = "message_added"
	// TypingEvent 助手"正在输入"瞬态开关
	TypingEvent EventType = "typing"
)

// Subscriber 订阅者接口，定义了获取事件通道的方法
type Subscriber[T any] interface {
	// Subscribe 返回一个只读的事件通道，并在 context 结束时自动关闭
	Subscribe(context.Context) <-chan Event[T]
}

type (
	// EventType 标识事件的类型
	EventType string

	// Event 代表资源生命周期中的一个事件
	Event[T any] struct {
		Type    EventType // 事件类型
		Payload T         // 事件携带的具体数据载荷
	}

	// Publisher 发布者接口，定义了发布事件的方法
	Publisher[T any] interface {
		// Publish 将指定类型和载荷的事件发布给所有订阅者
		Publish(EventType, T)
	}
)

// Notice 是 TUI 订阅的统一事件载荷。
// 只携带标量信息，视图收到后自行从 Registry / Store 重新读取最新状态。
type Notice struct {
	DocID     string // 关联文档标识（上传期间为临时 ID）
	Stage     string // StageAdvancedEvent 时的后端阶段名
	StepIndex int    // 阶段对应的步骤指示器下标
	Text      string // 展示用文本（文件名 / 错误消息）
	Typing    bool   // TypingEvent 时的开关状态
}
