package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"shuttlearena/audio"
	"shuttlearena/config"
	"shuttlearena/game"
	"shuttlearena/server"
	"shuttlearena/tui"
)

// Shuttle Arena 入口：web 模式提供 WebSocket 对局服务，tui 模式在终端里直接对战 AI
func main() {
	var (
		addr       string
		cfgPath    string
		mode       string
		difficulty string
		seed       int64
		logPath    string
		level      string
		volume     float64
	)
	flag.StringVar(&addr, "addr", ":8080", "server listen address, e.g. :8080")
	flag.StringVar(&cfgPath, "config", "assets/match.yaml", "match config file (YAML)")
	flag.StringVar(&mode, "mode", "web", "web | tui")
	flag.StringVar(&difficulty, "difficulty", "", "easy | normal | hard (default: rules.difficulty in config)")
	flag.Int64Var(&seed, "seed", -1, "AI random seed, -1 keeps the config value")
	flag.StringVar(&logPath, "log", "app.log", "log file (rotated)")
	flag.StringVar(&level, "level", "info", "log level: debug | info | warn | error")
	flag.Float64Var(&volume, "volume", 0.6, "tui sound volume, 0 mutes")
	flag.Parse()

	// 日志只写文件，终端模式下不会污染画面
	if err := server.InitLogger(logPath, level); err != nil {
		panic(err)
	}
	defer server.SyncLogger()

	file, err := config.Load(cfgPath)
	if errors.Is(err, fs.ErrNotExist) {
		server.Log.Warnf("config %s not found, using built-in defaults", cfgPath)
		file = config.Default()
	} else if err != nil {
		server.Log.Fatalf("config: %v", err)
	}
	if seed >= 0 {
		file.Rules.Seed = seed
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch mode {
	case "web":
		err = runWeb(ctx, addr, file, difficulty)
	case "tui":
		err = runTUI(ctx, file, difficulty, volume)
	default:
		server.Log.Fatalf("unknown mode %q", mode)
	}
	if err != nil {
		server.Log.Errorf("%s: %v", mode, err)
		server.SyncLogger()
		os.Exit(1)
	}
}

func runWeb(ctx context.Context, addr string, file *config.File, difficulty string) error {
	sm, err := server.InitSessionManager(ctx, file, difficulty)
	if err != nil {
		return err
	}
	// 先预创建一个默认会话，便于快速试跑
	_ = sm.GetOrCreateSession(server.DefaultSessionID)

	srv := &http.Server{Addr: addr, Handler: sm.Routes("web")}
	errCh := make(chan error, 1)
	go func() {
		server.Log.Infof("Shuttle Arena listening on %s; open http://localhost%v/?session=%s", addr, addr, server.DefaultSessionID)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	server.Log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runTUI(ctx context.Context, file *config.File, difficulty string, volume float64) error {
	cfg, err := file.Match(difficulty)
	if err != nil {
		return err
	}
	if cfg.HumanSide == game.SideNone {
		cfg.HumanSide = game.SideBottom
	}

	// 没有声卡时静音运行
	spk, err := audio.OpenSpeaker(audio.DefaultSampleRate)
	if err != nil {
		server.Log.Warnf("audio disabled: %v", err)
	}
	defer spk.Close()
	cues := audio.NewCues(audio.DefaultSampleRate, volume, spk.Play)

	logger := server.Log.Desugar()
	d, err := game.NewDirector(cfg, game.SceneMenu,
		game.WithSink(cues.Sink()),
		game.WithLogger(logger.Named("match")))
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	logger.Info("tui started", zap.String("difficulty", cfg.Difficulty.Name), zap.Int64("seed", cfg.Seed))
	return tui.New(screen, d, logger.Named("tui")).Run(ctx)
}
