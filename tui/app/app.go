// Package app 组装根界面：侧边栏、分析面板、聊天区与各类浮层。
package app

import (
	"context"
	"time"

	"ddokdoc/chat"
	"ddokdoc/document"
	"ddokdoc/pubsub"
	"ddokdoc/tui/component"
	"ddokdoc/upload"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// splashDoneMsg 开屏结束
type splashDoneMsg struct{}

// splashDuration 开屏展示时长
const splashDuration = 2 * time.Second

// sidebarWidth 侧边栏固定宽度
const sidebarWidth = 32

// 焦点区域
const (
	focusSidebar = iota
	focusEditor
)

var (
	splashTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7aa2f7")).Bold(true)
	splashSubStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
	paneBorderStyle  = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), false, true, false, false).
				BorderForeground(lipgloss.Color("#414868"))
)

// Model 根界面模型
type Model struct {
	filelist component.FileListModel
	analysis component.AnalysisModel
	chatpane component.ChatPaneModel
	edit     component.EditModel
	overlay  component.OverlayModel
	picker   component.PickerModel

	registry *document.Registry
	chats    *chat.Store
	coord    *upload.Coordinator
	sub      <-chan pubsub.Event[pubsub.Notice]
	ctx      context.Context
	logger   *zap.SugaredLogger

	splash     bool
	showPicker bool
	focus      int
	width      int
	height     int
}

// InitialModel 创建初始模型
func InitialModel(
	registry *document.Registry,
	chats *chat.Store,
	coord *upload.Coordinator,
	broker *pubsub.Broker[pubsub.Notice],
	logger *zap.SugaredLogger,
) Model {
	ctx := context.Background()
	sub := broker.Subscribe(ctx)

	filelist := component.NewFileListModel()
	filelist.SetFocus(true)

	return Model{
		filelist: filelist,
		analysis: component.NewAnalysisModel(),
		chatpane: component.NewChatPaneModel(),
		edit:     component.NewEditModel(),
		overlay:  component.NewOverlayModel(),
		picker:   component.NewPickerModel(),
		registry: registry,
		chats:    chats,
		coord:    coord,
		sub:      sub,
		ctx:      ctx,
		logger:   logger,
		splash:   true,
		focus:    focusSidebar,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.chatpane.Init(),
		m.edit.Init(),
		m.picker.Init(),
		m.waitForNotice(), // 订阅生命周期事件
		tea.Tick(splashDuration, func(time.Time) tea.Msg {
			return splashDoneMsg{}
		}),
	)
}

// waitForNotice 等待下一条生命周期事件的 Cmd
func (m Model) waitForNotice() tea.Cmd {
	return func() tea.Msg {
		event := <-m.sub
		return event
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()

	case splashDoneMsg:
		m.splash = false

	case pubsub.Event[pubsub.Notice]:
		// 继续等待下一条事件
		cmds = append(cmds, m.waitForNotice())
		cmds = append(cmds, m.handleNotice(msg))

	case component.SelectFileMsg:
		m.registry.Select(msg.ID)
		m.refreshSelection()
		m.refreshList()

	case component.DeleteFileMsg:
		// 删除文档时会话级联删除
		m.registry.Remove(msg.ID)
		m.chats.Drop(msg.ID)
		m.refreshSelection()
		m.refreshList()

	case component.StartUploadMsg:
		m.showPicker = false
		if _, err := m.coord.Submit(msg.Files); err != nil {
			m.logger.Warnw("上传提交被拒绝", "error", err)
		}

	case component.ClosePickerMsg:
		m.showPicker = false

	case component.EditorSubmitMsg:
		if doc, ok := m.registry.Selected(); ok && doc.Status == document.StatusReady {
			// 往返在 goroutine 中进行，结果通过事件回流
			go m.chats.SendQuestion(doc.ID, doc.ID, msg.Value)
		}

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	// 浮层可见时按键只进浮层，避免穿透到底层面板
	if m.showPicker {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, tea.Batch(append(cmds, cmd)...)
	}

	var cmd tea.Cmd

	m.overlay, cmd = m.overlay.Update(msg)
	cmds = append(cmds, cmd)

	m.filelist, cmd = m.filelist.Update(msg)
	cmds = append(cmds, cmd)
	m.refreshList()

	m.analysis, cmd = m.analysis.Update(msg)
	cmds = append(cmds, cmd)

	m.chatpane, cmd = m.chatpane.Update(msg)
	cmds = append(cmds, cmd)

	if m.focus == focusEditor {
		m.edit, cmd = m.edit.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKey 处理全局按键，返回 handled=true 表示不再透传给子组件
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit, true
	case "esc":
		if m.overlay.Visible() {
			// 关闭遮罩只停轮询，上传继续在后台进行
			m.coord.Dismiss()
			m.overlay.Hide()
			return nil, true
		}
	case "ctrl+u":
		if !m.showPicker && !m.coord.Busy() {
			m.showPicker = true
			return m.picker.Init(), true
		}
	case "ctrl+s":
		m.chatpane.ToggleSources()
		return nil, true
	case "tab":
		if m.showPicker || m.filelist.Searching() {
			return nil, false
		}
		if m.focus == focusSidebar {
			m.focus = focusEditor
			m.filelist.SetFocus(false)
			return m.edit.Focus(), true
		}
		m.focus = focusSidebar
		m.edit.Blur()
		m.filelist.SetFocus(true)
		return nil, true
	}
	return nil, false
}

// handleNotice 把生命周期事件翻译成界面状态变更
func (m *Model) handleNotice(event pubsub.Event[pubsub.Notice]) tea.Cmd {
	switch event.Type {
	case pubsub.UploadStartedEvent:
		return m.overlay.Show(event.Payload.Text)

	case pubsub.StageAdvancedEvent:
		m.overlay.SetStep(event.Payload.StepIndex)

	case pubsub.DocumentReadyEvent, pubsub.DocumentFailedEvent:
		m.overlay.Hide()
		m.refreshSelection()
		m.refreshList()

	case pubsub.MessageAddedEvent:
		if doc, ok := m.registry.Selected(); ok && doc.ID == event.Payload.DocID {
			m.chatpane.SetSession(doc.Name, m.chats.History(doc.ID))
		}

	case pubsub.TypingEvent:
		m.chatpane.SetTyping(event.Payload.Typing)
		m.edit.SetEnabled(!event.Payload.Typing)
	}
	return nil
}

func (m Model) View() string {
	if m.splash {
		splash := lipgloss.JoinVertical(
			lipgloss.Center,
			splashTitleStyle.Render("똑디 Doc!"),
			"",
			splashSubStyle.Render("당신의 똑똑한 디지털 문서 매니저"),
		)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, splash)
	}

	if m.showPicker {
		return m.picker.View()
	}

	if m.overlay.Visible() {
		return m.overlay.View()
	}

	chatColumn := lipgloss.JoinVertical(
		lipgloss.Left,
		m.chatpane.View(),
		m.edit.View(),
	)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		paneBorderStyle.Render(m.filelist.View()),
		paneBorderStyle.Render(m.analysis.View()),
		chatColumn,
	)
}

// layout 按窗口尺寸分配三栏宽度
func (m *Model) layout() {
	rest := m.width - sidebarWidth - 2 // 两条竖向分隔线
	if rest < 0 {
		rest = 0
	}
	analysisWidth := rest / 2
	chatWidth := rest - analysisWidth

	editHeight := m.edit.Height()

	m.filelist.SetSize(sidebarWidth, m.height)
	m.analysis.SetSize(analysisWidth, m.height)
	m.chatpane.SetSize(chatWidth, m.height-editHeight)
	m.edit.SetWidth(chatWidth)
	m.overlay.SetSize(m.width, m.height)
	m.picker.SetSize(m.width, m.height)
}

// refreshList 按搜索串重新拉取文档列表
func (m *Model) refreshList() {
	var selectedID string
	if doc, ok := m.registry.Selected(); ok {
		selectedID = doc.ID
	}
	m.filelist.SetDocs(m.registry.Filter(m.filelist.Query()), selectedID)
}

// refreshSelection 选中变化后同步分析面板与聊天面板
func (m *Model) refreshSelection() {
	doc, ok := m.registry.Selected()
	if !ok {
		m.analysis.SetDocument(nil)
		m.chatpane.Clear()
		return
	}
	m.analysis.SetDocument(&doc)
	m.chatpane.SetSession(doc.Name, m.chats.History(doc.ID))
}
