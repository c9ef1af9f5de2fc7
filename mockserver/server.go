// Package mockserver 提供开发用的后端替身，实现
// /process-document、/progress/{doc_id}、/chat 三个接口，
// 让客户端在没有真实 OCR/LLM 管线的环境下也能完整跑通。
package mockserver

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// stageOrder 处理阶段的推进顺序，与真实管线一致
var stageOrder = []string{"ocr", "refine", "analysis", "summary"}

// Server 目标后端的内存替身
type Server struct {
	mu       sync.Mutex
	progress map[string]string // doc_id -> 当前阶段名

	stepDelay time.Duration // 每个阶段的模拟耗时
	logger    *zap.SugaredLogger
}

// New 创建替身服务
func New(stepDelay time.Duration, logger *zap.SugaredLogger) *Server {
	return &Server{
		progress:  make(map[string]string),
		stepDelay: stepDelay,
		logger:    logger,
	}
}

func (s *Server) setProgress(docID, stage string) {
	s.mu.Lock()
	s.progress[docID] = stage
	s.mu.Unlock()
	s.logger.Debugw("阶段推进", "doc_id", docID, "step", stage)
}

func (s *Server) getProgress(docID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stage, ok := s.progress[docID]; ok {
		return stage
	}
	// 未知文档返回 pending，与真实后端行为一致
	return "pending"
}

// Router 组装 gin 路由
func (s *Server) Router() *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		AllowCredentials: false,
	}))

	router.POST("/process-document", s.handleProcessDocument)
	router.GET("/progress/:doc_id", s.handleProgress)
	router.POST("/chat", s.handleChat)

	return router
}

// handleProcessDocument 接收 multipart 上传，按阶段顺序走完进度后返回罐头分析结果。
func (s *Server) handleProcessDocument(c *gin.Context) {
	docID := c.PostForm("doc_id")
	if docID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "doc_id is required"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "files is required"})
		return
	}

	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Filename)
	}
	s.logger.Infow("收到上传", "doc_id", docID, "files", names)

	// 同步走完各阶段，进度接口随时可被并发轮询
	for _, stage := range stageOrder {
		s.setProgress(docID, stage)
		time.Sleep(s.stepDelay)
	}

	c.JSON(http.StatusOK, gin.H{
		"doc_id":  docID,
		"summary": fmt.Sprintf("%s 문서의 목업 요약입니다.\n개발용 응답이므로 실제 분석 결과가 아닙니다.", strings.Join(names, ", ")),
		"action": []gin.H{
			{"title": "문서 검토", "text": fmt.Sprintf("%s 내용을 확인해 주세요.", names[0])},
			{"title": "회신 준비", "text": "기한 내 회신 여부를 결정해 주세요."},
		},
	})
}

func (s *Server) handleProgress(c *gin.Context) {
	docID := c.Param("doc_id")
	c.JSON(http.StatusOK, gin.H{"step": s.getProgress(docID)})
}

type chatRequest struct {
	DocID    string `json:"doc_id" binding:"required"`
	Question string `json:"question" binding:"required"`
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	s.logger.Infow("收到提问", "doc_id", req.DocID, "question", req.Question)

	c.JSON(http.StatusOK, gin.H{
		"answer": fmt.Sprintf("\"%s\" 질문에 대한 **목업 답변**입니다.\n실제 백엔드를 연결하면 문서 기반 답변이 제공됩니다.", req.Question),
		"source": "mock source: p.1",
	})
}
