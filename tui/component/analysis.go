package component

import (
	"fmt"
	"strings"

	"ddokdoc/document"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	analysisTitleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#bb9af7")).Bold(true)
	analysisSectionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2ac3de")).Bold(true)
	analysisEmptyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89")).Italic(true)
	actionTitleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a")).Bold(true)
	actionTextStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#a9b1d6"))
)

// AnalysisModel 分析结果面板：展示选中文档的摘要与待办清单
type AnalysisModel struct {
	viewport viewport.Model
	renderer *glamour.TermRenderer
	doc      *document.Document
	width    int
	height   int
}

// NewAnalysisModel 创建分析面板组件
func NewAnalysisModel() AnalysisModel {
	vp := viewport.New(40, 20)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(0),
	)
	if err != nil {
		renderer = nil
	}

	return AnalysisModel{
		viewport: vp,
		renderer: renderer,
	}
}

// Init 初始化组件
func (m AnalysisModel) Init() tea.Cmd {
	return nil
}

// Update 更新组件状态
func (m AnalysisModel) Update(msg tea.Msg) (AnalysisModel, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View 渲染组件视图
func (m AnalysisModel) View() string {
	return m.viewport.View()
}

// SetDocument 切换展示的文档，nil 表示清空
func (m *AnalysisModel) SetDocument(doc *document.Document) {
	m.doc = doc
	m.refresh()
}

// SetSize 设置组件尺寸
func (m *AnalysisModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.refresh()
}

func (m *AnalysisModel) refresh() {
	if m.doc == nil {
		m.viewport.SetContent(analysisEmptyStyle.Render("Select a file to view its analysis"))
		return
	}

	var sb strings.Builder
	sb.WriteString(analysisTitleStyle.Render(m.doc.Name))
	sb.WriteString("\n\n")

	if m.doc.Status == document.StatusError {
		sb.WriteString(fileErrorStyle.Render(m.doc.Message))
		m.viewport.SetContent(sb.String())
		m.viewport.GotoTop()
		return
	}

	if m.doc.Analysis == nil {
		sb.WriteString(analysisEmptyStyle.Render("분석 결과를 기다리는 중입니다..."))
		m.viewport.SetContent(sb.String())
		m.viewport.GotoTop()
		return
	}

	sb.WriteString(analysisSectionStyle.Render("Doc Summary"))
	sb.WriteString("\n")
	sb.WriteString(m.renderMarkdown(m.doc.Analysis.Summary))
	sb.WriteString("\n")

	sb.WriteString(analysisSectionStyle.Render("To do List"))
	sb.WriteString("\n")
	if len(m.doc.Analysis.Action) == 0 {
		sb.WriteString(analysisEmptyStyle.Render("추출된 할 일이 없습니다."))
		sb.WriteString("\n")
	}
	for i, action := range m.doc.Analysis.Action {
		sb.WriteString(actionTitleStyle.Render(fmt.Sprintf("%d. %s", i+1, action.Title)))
		sb.WriteString("\n")
		sb.WriteString("   " + actionTextStyle.Render(action.Text))
		sb.WriteString("\n")
	}

	m.viewport.SetContent(sb.String())
	m.viewport.GotoTop()
}

func (m *AnalysisModel) renderMarkdown(content string) string {
	if m.renderer == nil {
		return content
	}
	rendered, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimSpace(rendered) + "\n"
}
