package component

import (
	"fmt"
	"strings"

	"ddokdoc/document"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SelectFileMsg 自定义消息：用户选中文档
type SelectFileMsg struct {
	ID string
}

// DeleteFileMsg 自定义消息：用户确认删除文档
type DeleteFileMsg struct {
	ID string
}

var (
	fileListTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2ac3de")).Bold(true)
	fileSelectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7dcfff")).Bold(true)
	fileNormalStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#a9b1d6"))
	fileMetaStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
	fileErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e"))
	confirmStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0af68")).Bold(true)
)

// FileListModel 侧边栏文件列表：搜索过滤 + 选择 + 删除确认。
// 文档数据每次由外部通过 SetDocs 整体刷新，组件本身不持有注册表。
type FileListModel struct {
	search  textinput.Model
	docs    []document.Document // 已过滤，最近优先
	cursor  int
	focused bool

	// pendingDelete 两段式删除：第一次按 d 记下目标，按 y 才真正删除
	pendingDelete string

	width  int
	height int
}

// NewFileListModel 创建文件列表组件
func NewFileListModel() FileListModel {
	search := textinput.New()
	search.Placeholder = "Search files..."
	search.Prompt = "/ "
	search.CharLimit = 64

	return FileListModel{
		search: search,
		width:  30,
	}
}

// Init 初始化组件
func (m FileListModel) Init() tea.Cmd {
	return nil
}

// Update 更新组件状态
func (m FileListModel) Update(msg tea.Msg) (FileListModel, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// 搜索框聚焦时按键优先进搜索框
		if m.search.Focused() {
			switch msg.Type {
			case tea.KeyEnter, tea.KeyEsc:
				m.search.Blur()
				return m, nil
			}
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "/":
			m.pendingDelete = ""
			return m, m.search.Focus()
		case "up", "k":
			m.pendingDelete = ""
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			m.pendingDelete = ""
			if m.cursor < len(m.docs)-1 {
				m.cursor++
			}
		case "enter":
			m.pendingDelete = ""
			if doc, ok := m.current(); ok {
				id := doc.ID
				return m, func() tea.Msg { return SelectFileMsg{ID: id} }
			}
		case "d":
			if doc, ok := m.current(); ok {
				m.pendingDelete = doc.ID
			}
		case "y":
			if m.pendingDelete != "" {
				id := m.pendingDelete
				m.pendingDelete = ""
				return m, func() tea.Msg { return DeleteFileMsg{ID: id} }
			}
		default:
			m.pendingDelete = ""
		}
	}

	return m, nil
}

// View 渲染组件视图
func (m FileListModel) View() string {
	var sb strings.Builder

	sb.WriteString(fileListTitleStyle.Render("FILES"))
	sb.WriteString("\n")
	sb.WriteString(m.search.View())
	sb.WriteString("\n\n")

	if len(m.docs) == 0 {
		sb.WriteString(fileMetaStyle.Render("문서를 업로드해 주세요 (ctrl+u)"))
	}

	for i, doc := range m.docs {
		marker := "  "
		style := fileNormalStyle
		if i == m.cursor {
			marker = "> "
			style = fileSelectedStyle
		}

		name := doc.Name
		if doc.Status == document.StatusError {
			style = fileErrorStyle
			name += " (실패)"
		}

		sb.WriteString(marker + style.Render(truncate(name, m.width-4)))
		sb.WriteString("\n")
		sb.WriteString("  " + fileMetaStyle.Render(fmt.Sprintf("%s · %s", document.FormatSize(doc.Size), doc.Kind)))
		sb.WriteString("\n")
	}

	if m.pendingDelete != "" {
		sb.WriteString("\n")
		sb.WriteString(confirmStyle.Render("해당 문서를 삭제하시겠습니까? 대화기록도 삭제됩니다. (y)"))
	}

	return lipgloss.NewStyle().Width(m.width).Height(m.height).Render(sb.String())
}

// SetDocs 整体刷新列表内容（已按搜索过滤）
func (m *FileListModel) SetDocs(docs []document.Document, selectedID string) {
	m.docs = docs
	if m.cursor >= len(docs) {
		m.cursor = len(docs) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	// 让光标跟随当前选中文档
	for i, d := range docs {
		if d.ID == selectedID {
			m.cursor = i
			break
		}
	}
}

// Query 当前搜索串
func (m *FileListModel) Query() string {
	return m.search.Value()
}

// Searching 搜索框是否聚焦
func (m *FileListModel) Searching() bool {
	return m.search.Focused()
}

// SetFocus 设置焦点
func (m *FileListModel) SetFocus(focused bool) {
	m.focused = focused
	if !focused {
		m.search.Blur()
		m.pendingDelete = ""
	}
}

// SetSize 设置组件尺寸
func (m *FileListModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.search.Width = width - 4
}

func (m *FileListModel) current() (document.Document, bool) {
	if m.cursor < 0 || m.cursor >= len(m.docs) {
		return document.Document{}, false
	}
	return m.docs[m.cursor], true
}

func truncate(s string, max int) string {
	if max <= 1 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
