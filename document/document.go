// Package document 定义文档模型和内存注册表。
package document

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Status 文档生命周期状态
type Status string

const (
	StatusUploading  Status = "uploading"
	StatusProcessing Status = "processing"
	StatusReady      Status = "ready"
	StatusError      Status = "error"
)

// Kind 内容类别：单个 PDF 或图片包
type Kind string

const (
	KindPDF         Kind = "pdf"
	KindImageBundle Kind = "image-bundle"
)

// LocalFile 用户挑选的本地源文件
type LocalFile struct {
	Name string // 文件名（含扩展名）
	Path string // 本地路径
	Size int64  // 字节数
}

// ActionItem 分析结果中的单条待办
type ActionItem struct {
	Title string
	Text  string
}

// Analysis 后端返回的分析载荷
type Analysis struct {
	Summary string
	Action  []ActionItem
}

// Document 一次上传对应的文档条目。
// ID 在后端接受上传前是客户端生成的临时值，仅用于关联进度轮询；
// 最终化之后替换为后端分配的 doc_id，临时值不再复用。
type Document struct {
	ID         string
	Name       string // 展示名，由源文件名推导
	Size       int64  // 所有源文件的字节总和
	Kind       Kind
	Status     Status
	UploadedAt time.Time
	Analysis   *Analysis
	Message    string // 失败时展示给用户的错误文本
	Sources    []LocalFile
}

// DisplayName 推导展示名：单文件用原名，多文件为「首个文件名 외 N개」。
func DisplayName(files []LocalFile) string {
	if len(files) == 0 {
		return ""
	}
	if len(files) == 1 {
		return files[0].Name
	}
	return fmt.Sprintf("%s 외 %d개", files[0].Name, len(files)-1)
}

// ClassifyKind 单个 .pdf 文件视为 PDF，其余（多文件或图片）视为图片包。
func ClassifyKind(files []LocalFile) Kind {
	if len(files) == 1 && strings.EqualFold(filepath.Ext(files[0].Name), ".pdf") {
		return KindPDF
	}
	return KindImageBundle
}

// TotalSize 聚合字节数
func TotalSize(files []LocalFile) int64 {
	var total int64
	for _, f := range files {
		total += f.Size
	}
	return total
}

// FormatSize 按 MB 一位小数展示，和原始界面保持一致。
func FormatSize(bytes int64) string {
	return fmt.Sprintf("%.1f MB", float64(bytes)/1024/1024)
}
