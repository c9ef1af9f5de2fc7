package component

import (
	"strings"
	"time"

	"ddokdoc/upload"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// typeTickMsg 打字机动画心跳
type typeTickMsg struct{}

// typeTickInterval 打字机每帧间隔
const typeTickInterval = 35 * time.Millisecond

var (
	overlayBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7aa2f7")).
			Padding(1, 3)
	overlayTitleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#c0caf5")).Bold(true)
	stepDoneStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a"))
	stepActiveStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#7dcfff")).Bold(true)
	stepPendingStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
	overlayCaptionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#a9b1d6"))
	overlayKoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
	overlayHintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#414868")).Italic(true)
)

// OverlayModel 上传进度浮层：四步指示器 + 打字机文案。
// 隐藏时不再续订动画 tick，定时器随之自然停止。
type OverlayModel struct {
	spinner  spinner.Model
	visible  bool
	docName  string
	step     int // -1 表示后端还没上报任何阶段
	typed    int // 打字机已经展示的字符数
	width    int
	height   int
}

// NewOverlayModel 创建进度浮层组件
func NewOverlayModel() OverlayModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7dcfff"))

	return OverlayModel{
		spinner: sp,
		step:    -1,
	}
}

// Init 初始化组件
func (m OverlayModel) Init() tea.Cmd {
	return nil
}

// Update 更新组件状态
func (m OverlayModel) Update(msg tea.Msg) (OverlayModel, tea.Cmd) {
	switch msg := msg.(type) {
	case typeTickMsg:
		if !m.visible {
			return m, nil
		}
		caption := []rune(upload.StepCaption(m.caption()))
		if m.typed < len(caption) {
			m.typed++
		}
		return m, typeTick()
	case spinner.TickMsg:
		if !m.visible {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View 渲染组件视图
func (m OverlayModel) View() string {
	if !m.visible {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(m.spinner.View() + " " + overlayTitleStyle.Render(`"`+m.docName+`" 분석 중`))
	sb.WriteString("\n\n")

	// 步骤指示器：done / active / pending 三种状态
	var steps []string
	for i := 0; i < upload.StepCount; i++ {
		label := upload.StepLabel(i)
		switch {
		case i < m.step:
			steps = append(steps, stepDoneStyle.Render("✓ "+label))
		case i == m.step:
			steps = append(steps, stepActiveStyle.Render("● "+label))
		default:
			steps = append(steps, stepPendingStyle.Render("○ "+label))
		}
	}
	sb.WriteString(strings.Join(steps, stepPendingStyle.Render(" ─ ")))
	sb.WriteString("\n\n")

	caption := []rune(upload.StepCaption(m.caption()))
	if m.typed > len(caption) {
		m.typed = len(caption)
	}
	sb.WriteString(overlayCaptionStyle.Render(string(caption[:m.typed])))
	sb.WriteString("\n")
	sb.WriteString(overlayKoStyle.Render(upload.StepCaptionKo(m.caption())))
	sb.WriteString("\n\n")
	sb.WriteString(overlayHintStyle.Render("esc: 백그라운드에서 계속 진행"))

	box := overlayBoxStyle.Render(sb.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// Show 展示浮层并重置动画，返回需要启动的动画命令
func (m *OverlayModel) Show(docName string) tea.Cmd {
	m.visible = true
	m.docName = docName
	m.step = -1
	m.typed = 0
	return tea.Batch(m.spinner.Tick, typeTick())
}

// Hide 隐藏浮层；动画 tick 到达后发现不可见即停止续订
func (m *OverlayModel) Hide() {
	m.visible = false
}

// Visible 浮层是否可见
func (m OverlayModel) Visible() bool {
	return m.visible
}

// SetStep 推进步骤指示器并重启打字机
func (m *OverlayModel) SetStep(step int) {
	if step <= m.step {
		return
	}
	m.step = step
	m.typed = 0
}

// SetSize 设置组件尺寸
func (m *OverlayModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// caption 步骤未上报时先展示第一步文案
func (m OverlayModel) caption() int {
	if m.step < 0 {
		return 0
	}
	return m.step
}

func typeTick() tea.Cmd {
	return tea.Tick(typeTickInterval, func(time.Time) tea.Msg {
		return typeTickMsg{}
	})
}
