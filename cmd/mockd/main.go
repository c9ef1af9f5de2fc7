package main

import (
	"fmt"
	"os"
	"time"

	"ddokdoc/mockserver"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "mockd: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "mockd",
		Short:        "ddokdoc 개발용 목업 백엔드",
		Long:         "실제 OCR/LLM 파이프라인 없이 /process-document, /progress, /chat 계약을 제공하는 개발용 서버입니다.",
		SilenceUsage: true,
	}
	cmd.AddCommand(newServeCmd())
	return cmd
}

func newServeCmd() *cobra.Command {
	var addr string
	var stepDelay time.Duration
	var debug bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动目标契约的替身服务",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := buildLogger(debug)
			if err != nil {
				return err
			}
			defer logger.Sync()

			if !debug {
				gin.SetMode(gin.ReleaseMode)
			}

			server := mockserver.New(stepDelay, logger.Sugar())
			logger.Sugar().Infow("替身后端启动", "addr", addr, "step_delay", stepDelay)
			return server.Router().Run(addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8000", "监听地址")
	cmd.Flags().DurationVar(&stepDelay, "step-delay", 800*time.Millisecond, "每个处理阶段的模拟耗时")
	cmd.Flags().BoolVar(&debug, "debug", false, "开发模式日志")
	return cmd
}

func buildLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
