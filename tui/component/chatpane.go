package component

import (
	"ddokdoc/chat"
	"ddokdoc/tui/component/renderer"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// ChatPaneModel 聊天记录面板。
// 负责消息存储和 viewport 管理，渲染逻辑委托给 MessageRenderer。
type ChatPaneModel struct {
	viewport viewport.Model
	messages []chat.Message
	docName  string
	typing   bool
	sources  bool // 是否展开 [문서출처]
	width    int
	height   int
	ready    bool

	renderer *renderer.MessageRenderer
}

// NewChatPaneModel 创建聊天面板
func NewChatPaneModel() ChatPaneModel {
	vp := viewport.New(30, 30)
	vp.SetContent("Select a file to start chatting")

	return ChatPaneModel{
		viewport: vp,
		renderer: renderer.NewMessageRenderer(),
		width:    30,
		height:   5,
		ready:    true,
	}
}

// Init 初始化组件
func (m ChatPaneModel) Init() tea.Cmd {
	return nil
}

// Update 更新组件状态
func (m ChatPaneModel) Update(msg tea.Msg) (ChatPaneModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.MouseMsg:
		// 处理鼠标滚轮事件
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.viewport.ScrollUp(3)
		case tea.MouseButtonWheelDown:
			m.viewport.ScrollDown(3)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View 渲染组件视图
func (m ChatPaneModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	return m.viewport.View()
}

// SetSession 切换当前展示的会话
func (m *ChatPaneModel) SetSession(docName string, messages []chat.Message) {
	m.docName = docName
	m.messages = messages
	m.refresh()
	m.viewport.GotoBottom()
}

// Clear 没有选中文档时清空面板
func (m *ChatPaneModel) Clear() {
	m.docName = ""
	m.messages = nil
	m.typing = false
	m.viewport.SetContent("Select a file to start chatting")
}

// SetTyping 设置"正在输入"瞬态指示（不进入聊天记录）
func (m *ChatPaneModel) SetTyping(typing bool) {
	m.typing = typing
	m.refresh()
	m.viewport.GotoBottom()
}

// ToggleSources 展开/折叠出处
func (m *ChatPaneModel) ToggleSources() {
	m.sources = !m.sources
	m.refresh()
}

// SetSize 设置组件尺寸
func (m *ChatPaneModel) SetSize(width, height int) {
	m.width = width
	m.height = height

	if height < 1 {
		height = 1
	}

	m.viewport.Width = width
	m.viewport.Height = height
	m.ready = true

	m.renderer.SetViewportWidth(width)
	m.refresh()
	m.viewport.GotoBottom()
}

// refresh 重新渲染 viewport 内容
func (m *ChatPaneModel) refresh() {
	if m.docName == "" && len(m.messages) == 0 {
		return
	}
	m.viewport.SetContent(m.renderer.RenderMessages(m.messages, m.typing, m.docName, m.sources))
}
