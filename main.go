package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"plaza/config"
	"plaza/server"
)

// plaza 入口：加载配置，启动 HTTP + WebSocket 服务与房间事件循环
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		logFile    string
		logLevel   string
	)
	cmd := &cobra.Command{
		Use:          "plaza",
		Short:        "Real-time multiplayer presence server",
		Long:         "plaza keeps authoritative player state for a shared 2D world and broadcasts movement, chat and cosmetic changes over WebSocket.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-file") {
				cfg.Log.File = logFile
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level = logLevel
			}
			return run(cfg)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "optional YAML config file")
	cmd.Flags().StringVar(&logFile, "log-file", "app.log", "log file path (rotated)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	return cmd
}

func run(cfg config.Config) error {
	// 使用 zap 日志写入滚动文件
	if err := server.InitLogger(cfg.Log.File, cfg.Log.Level); err != nil {
		return err
	}
	defer server.SyncLogger()

	srv, err := server.NewServer(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loopDone := make(chan struct{})
	go func() {
		srv.Run(ctx)
		close(loopDone)
	}()

	httpSrv := &http.Server{Addr: cfg.Server.Addr(), Handler: srv.Handler()}
	errCh := make(chan error, 1)
	go func() {
		server.Log.Infow("plaza listening", "addr", cfg.Server.Addr())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 优雅退出（Ctrl+C）
	select {
	case err := <-errCh:
		server.Log.Errorw("listen failed", "err", err)
		stop()
		<-loopDone
		return err
	case <-ctx.Done():
	}
	server.Log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(shutdownCtx)
	<-loopDone
	return nil
}
