package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerdneilsfield/paradox-mod-translator/internal/cli"
	"github.com/nerdneilsfield/paradox-mod-translator/internal/logger"
	"go.uber.org/zap"
)

// Version information
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	log := logger.NewLogger(false)
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cli.NewRootCommand(Version, Commit, BuildDate)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error("执行命令失败", zap.Error(err))
		stop()
		_ = log.Sync()
		os.Exit(1)
	}
}
