// Package upload 负责上传-处理-就绪的整条生命周期：
// 提交文件、轮询后端进度、推进步骤指示器、落库最终结果。
package upload

// Stage 后端上报的处理阶段名
type Stage string

const (
	StagePending  Stage = "pending" // 后端尚未开始处理
	StageOCR      Stage = "ocr"
	StageRefine   Stage = "refine"
	StageAnalysis Stage = "analysis"
	StageSummary  Stage = "summary"
)

// StepCount 步骤指示器的总步数
const StepCount = 4

// stageSteps 阶段名到步骤下标的固定映射。
// pending 和未知阶段名不在表内，轮询时视为"没有新信息"。
var stageSteps = map[Stage]int{
	StageOCR:      0,
	StageRefine:   1,
	StageAnalysis: 2,
	StageSummary:  3,
}

// StepIndex 把阶段名投影为步骤下标，未知阶段返回 false。
func StepIndex(stage Stage) (int, bool) {
	idx, ok := stageSteps[stage]
	return idx, ok
}

// StepLabel 步骤指示器上的英文标签
func StepLabel(index int) string {
	switch index {
	case 0:
		return "OCR"
	case 1:
		return "Refine"
	case 2:
		return "Analysis"
	case 3:
		return "Summary"
	}
	return ""
}

// StepCaption 当前步骤的打字机展示文案
func StepCaption(index int) string {
	switch index {
	case 0:
		return "Reading document text..."
	case 1:
		return "Refining with LLM..."
	case 2:
		return "Generating To-Do..."
	case 3:
		return "Complete!"
	}
	return ""
}

// StepCaptionKo 当前步骤的韩文副标题
func StepCaptionKo(index int) string {
	switch index {
	case 0:
		return "문서에서 텍스트를 추출하고 있어요...\n이미지라면 조금 더 시간이 걸릴 수 있어요"
	case 1:
		return "중요 문장과 핵심 정보를 정리하고 있어요..."
	case 2:
		return "사용자의 할 일 리스트를 생성 중입니다..."
	case 3:
		return "분석이 완료되었습니다! 챗봇 생성 완료 후 바로 결과를 보여드릴게요"
	}
	return ""
}
