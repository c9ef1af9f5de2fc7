package component

import (
	"os"
	"path/filepath"
	"strings"

	"ddokdoc/document"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// StartUploadMsg 自定义消息：用户确认上传暂存的文件
type StartUploadMsg struct {
	Files []document.LocalFile
}

// ClosePickerMsg 自定义消息：关闭选择器，不上传
type ClosePickerMsg struct{}

var (
	pickerBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#bb9af7")).
			Padding(1, 2)
	pickerTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#bb9af7")).Bold(true)
	pickerStagedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a"))
	pickerHintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
)

// PickerModel 上传选择器：从本地文件系统暂存 PDF 或图片，再一次性提交。
// 单个 PDF 或一组图片是合法组合，混搭也交给上层按图片组处理。
type PickerModel struct {
	picker filepicker.Model
	staged []document.LocalFile
	width  int
	height int
}

// NewPickerModel 创建上传选择器组件
func NewPickerModel() PickerModel {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".pdf", ".png", ".jpg", ".jpeg"}
	if home, err := os.UserHomeDir(); err == nil {
		fp.CurrentDirectory = home
	}

	return PickerModel{picker: fp}
}

// Init 初始化组件
func (m PickerModel) Init() tea.Cmd {
	return m.picker.Init()
}

// Update 更新组件状态
func (m PickerModel) Update(msg tea.Msg) (PickerModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return m, func() tea.Msg { return ClosePickerMsg{} }
		case "u":
			if len(m.staged) > 0 {
				files := m.staged
				m.staged = nil
				return m, func() tea.Msg { return StartUploadMsg{Files: files} }
			}
			return m, nil
		case "x":
			if len(m.staged) > 0 {
				m.staged = m.staged[:len(m.staged)-1]
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.stage(path)
	}

	return m, cmd
}

// View 渲染组件视图
func (m PickerModel) View() string {
	var sb strings.Builder
	sb.WriteString(pickerTitleStyle.Render("문서 업로드"))
	sb.WriteString("\n\n")
	sb.WriteString(m.picker.View())
	sb.WriteString("\n")

	if len(m.staged) > 0 {
		var names []string
		for _, f := range m.staged {
			names = append(names, f.Name)
		}
		sb.WriteString(pickerStagedStyle.Render("대기: " + strings.Join(names, ", ")))
		sb.WriteString("\n")
	}
	sb.WriteString(pickerHintStyle.Render("enter: 담기 · u: 업로드 · x: 마지막 제거 · esc: 닫기"))

	box := pickerBoxStyle.Render(sb.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// SetSize 设置组件尺寸
func (m *PickerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.picker.Height = height - 10
	if m.picker.Height < 5 {
		m.picker.Height = 5
	}
}

// stage 把选中的文件加入暂存区，重复路径跳过
func (m *PickerModel) stage(path string) {
	for _, f := range m.staged {
		if f.Path == path {
			return
		}
	}

	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}

	m.staged = append(m.staged, document.LocalFile{
		Name: filepath.Base(path),
		Path: path,
		Size: size,
	})
}
