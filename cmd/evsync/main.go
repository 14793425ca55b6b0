// Package main 提供 evsync 演示命令行入口
//
// 生产方按固定间隔向默认事件循环投递 IP 事件，消费方在事件同步器上等待，
// 打印每次被唤醒或超时的结果。
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	evsync "github.com/dep2p/go-evsync"
	"github.com/dep2p/go-evsync/config"
	"github.com/dep2p/go-evsync/pkg/lib/log"
	"github.com/dep2p/go-evsync/pkg/types"
)

var logger = log.Logger("evsync/cmd")

// demoEvent 演示使用的 IP 事件编号
const demoEvent evsync.EventID = 1

// ═══════════════════════════════════════════════════════════════════════════
// 命令行参数
// ═══════════════════════════════════════════════════════════════════════════
var (
	configFile = flag.String("config", "", "配置文件路径（JSON/YAML）")
	count      = flag.Int("count", 5, "投递事件数")
	interval   = flag.Duration("interval", 200*time.Millisecond, "投递间隔")
	timeout    = flag.Duration("timeout", time.Second, "单次等待超时（负数表示无限等待）")
	storage    = flag.String("storage", "", "信号量存储策略 (dynamic/static)，覆盖配置文件")
	counting   = flag.Uint("counting", 0, "使用计数信号量并指定上限（0 = 二值）")

	logLevel = flag.String("log-level", "info", "日志级别 (debug/info/warn/error)")
	logJSON  = flag.Bool("log-json", false, "JSON 格式日志")

	showVersion = flag.Bool("version", false, "显示版本信息")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	if *showVersion {
		fmt.Println(evsync.VersionInfo())
		return nil
	}

	if err := setupLogging(); err != nil {
		return err
	}

	opts, err := buildOptions()
	if err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("启动 evsync", "version", evsync.Version, "commit", evsync.GitCommit)
	rt, err := evsync.Start(ctx, opts...)
	if err != nil {
		return fmt.Errorf("启动失败: %w", err)
	}
	defer func() { _ = rt.Close() }()

	var syncOpts []evsync.SyncOption
	if *counting > 0 {
		syncOpts = append(syncOpts, evsync.SyncCounting(uint32(*counting), 0))
	}
	sub, err := rt.Subscribe(evsync.IPEvent, demoEvent, syncOpts...)
	if err != nil {
		return fmt.Errorf("订阅失败: %w", err)
	}
	defer func() { _ = sub.Close() }()

	// 中断时关闭订阅以唤醒无限等待
	go func() {
		<-ctx.Done()
		_ = sub.Close()
	}()

	var received int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return produce(gctx, rt)
	})
	g.Go(func() error {
		received = consume(ctx, sub)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	loop, err := rt.DefaultLoop()
	if err == nil {
		st := loop.Stats()
		fmt.Printf("received=%d posted=%d dispatched=%d saturated=%d\n",
			received, st.Posted, st.Dispatched, sub.Sync().Saturated())
	}
	return nil
}

// buildOptions 构建运行时选项
//
// 配置文件中可修复的问题被自动修复；命令行参数覆盖配置文件。
func buildOptions() ([]evsync.Option, error) {
	var opts []evsync.Option
	if *configFile != "" {
		cfg, err := config.FromFile(*configFile)
		if err != nil {
			return nil, err
		}
		if cfg, err = config.ValidateAndFix(cfg); err != nil {
			return nil, err
		}
		opts = append(opts, evsync.WithConfig(cfg))
	}
	if *storage != "" {
		s, err := types.ParseStorage(*storage)
		if err != nil {
			return nil, err
		}
		opts = append(opts, evsync.WithSemaphoreStorage(s))
	}
	return opts, nil
}

func setupLogging() error {
	level, err := log.ParseLevel(*logLevel)
	if err != nil {
		return err
	}
	if *logJSON {
		log.SetJSONOutputWithLevel(os.Stderr, level)
	} else {
		log.SetOutputWithLevel(os.Stderr, level)
	}
	return nil
}

// produce 按间隔投递事件
func produce(ctx context.Context, rt *evsync.Runtime) error {
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for i := 0; i < *count; i++ {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		if err := rt.Post(ctx, evsync.IPEvent, demoEvent, i); err != nil {
			logger.Warn("投递失败", "seq", i, "err", err)
			return fmt.Errorf("post event %d: %w", i, err)
		}
		logger.Debug("已投递事件", "seq", i)
	}
	return nil
}

// consume 等待通知直到超时或收到中断信号，返回被唤醒次数
func consume(ctx context.Context, sub *evsync.Subscription) int {
	received := 0
	for ctx.Err() == nil {
		err := sub.Wait(*timeout)
		switch {
		case err == nil:
			received++
			fmt.Printf("event %d received\n", received)
		case errors.Is(err, evsync.ErrTimedOut):
			fmt.Printf("no event within %s, stopping\n", *timeout)
			return received
		case ctx.Err() != nil:
			return received
		default:
			logger.Error("等待失败", "err", err)
			return received
		}
	}
	return received
}
