package chat

import (
	"context"
	"sync"
	"time"

	"ddokdoc/backend"
	"ddokdoc/pubsub"

	"go.uber.org/zap"
)

// Store 按文档 ID 归属的聊天记录存储。
// 会话内消息只追加、保持插入顺序；文档删除时整个会话一并丢弃。
type Store struct {
	mu       sync.RWMutex
	sessions map[string][]Message

	gateway backend.Gateway
	broker  *pubsub.Broker[pubsub.Notice]
	timeout time.Duration
	logger  *zap.SugaredLogger
}

// NewStore 创建聊天存储
func NewStore(gateway backend.Gateway, broker *pubsub.Broker[pubsub.Notice], timeout time.Duration, logger *zap.SugaredLogger) *Store {
	return &Store{
		sessions: make(map[string][]Message),
		gateway:  gateway,
		broker:   broker,
		timeout:  timeout,
		logger:   logger,
	}
}

// Append 追加一条消息，会话不存在时惰性创建。
func (s *Store) Append(docID string, msg Message) {
	s.mu.Lock()
	s.sessions[docID] = append(s.sessions[docID], msg)
	s.mu.Unlock()

	s.broker.Publish(pubsub.MessageAddedEvent, pubsub.Notice{DocID: docID})
}

// History 返回会话消息的副本，保持插入顺序。
func (s *Store) History(docID string) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.sessions[docID]
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}

// Drop 删除整个会话（随文档删除级联调用）。
func (s *Store) Drop(docID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, docID)
}

// SendQuestion 发送一轮提问：先乐观追加用户消息，再调用后端，
// 回复（或可见的错误消息）到达后追加助手消息。
// "正在输入"状态只通过事件广播，不进聊天记录。
// 阻塞直到往返结束，调用方在 goroutine 中执行。
func (s *Store) SendQuestion(docID, backendID, question string) {
	s.Append(docID, NewUserMessage(question))
	s.broker.Publish(pubsub.TypingEvent, pubsub.Notice{DocID: docID, Typing: true})
	defer s.broker.Publish(pubsub.TypingEvent, pubsub.Notice{DocID: docID, Typing: false})

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	result, err := s.gateway.Chat(ctx, backendID, question)
	if err != nil {
		s.logger.Errorw("聊天调用失败", "doc_id", backendID, "error", err)
		s.Append(docID, NewAssistantMessage(failureReply, ""))
		return
	}

	s.Append(docID, NewAssistantMessage(result.Answer, result.Source))
}
