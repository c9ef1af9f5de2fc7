package main

import (
	"fmt"
	"os"

	"ddokdoc/backend"
	"ddokdoc/chat"
	"ddokdoc/config"
	"ddokdoc/document"
	"ddokdoc/pubsub"
	"ddokdoc/tui/app"
	"ddokdoc/upload"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() {
	// Load .env file if exists
	_ = godotenv.Load()
}

func main() {
	cfg := config.Load()

	// TUI 独占终端，日志只写文件
	logCfg := zap.NewProductionConfig()
	logCfg.OutputPaths = []string{cfg.LogPath}
	logCfg.ErrorOutputPaths = []string{cfg.LogPath}
	zapLogger, err := logCfg.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	gateway := backend.NewClient(cfg.APIBase, logger)
	registry := document.NewRegistry()
	broker := pubsub.NewBroker[pubsub.Notice]()
	defer broker.Shutdown()

	chats := chat.NewStore(gateway, broker, cfg.ChatTimeout, logger)
	coord := upload.NewCoordinator(gateway, registry, chats, broker, cfg.PollInterval, cfg.UploadTimeout, logger)

	// 初始化UI界面
	model := app.InitialModel(registry, chats, coord, broker, logger)
	program := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := program.Run(); err != nil {
		logger.Errorw("程序异常退出", "error", err)
		os.Exit(1)
	}
}
