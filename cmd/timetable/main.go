package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/term"

	"smart-classroom/backend/config"
	"smart-classroom/backend/internal/client"
	applogger "smart-classroom/backend/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径")
	baseURL := flag.String("base-url", "", "后端地址，覆盖 client.base_url")
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	if *baseURL != "" {
		cfg.Client.BaseURL = *baseURL
	}

	// 2. 初始化日志（stderr）
	logger, err := applogger.NewClientLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. 启动会话：目录加载失败为致命错误
	gw := client.NewHTTPGateway(cfg.Client.BaseURL, client.DefaultHTTPClient(cfg.Client.Timeout))
	session := client.NewSession(gw, logger)
	if err := session.Start(ctx); err != nil {
		logger.Error("会话启动失败", zap.String("base_url", cfg.Client.BaseURL), zap.Error(err))
		fmt.Fprintf(os.Stderr, "无法加载课表: %v\n", err)
		os.Exit(1)
	}

	// 4. 命令循环
	cli := &commandLine{session: session, out: os.Stdout}
	cli.render()

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	scanner := bufio.NewScanner(os.Stdin)
	for {
		if interactive {
			fmt.Fprint(os.Stdout, "> ")
		}
		if !scanner.Scan() {
			break
		}
		if err := cli.run(ctx, scanner.Text()); err != nil {
			if errors.Is(err, errQuit) {
				break
			}
			fmt.Fprintf(os.Stdout, "错误: %v\n", err)
		}
		if ctx.Err() != nil {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Warn("读取输入失败", zap.Error(err))
	}
}
