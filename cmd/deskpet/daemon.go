package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/1broseidon/deskpet/internal/bridge"
	"github.com/1broseidon/deskpet/internal/command"
	"github.com/1broseidon/deskpet/internal/config"
	"github.com/1broseidon/deskpet/internal/host"
	"github.com/1broseidon/deskpet/internal/hotkeys"
	"github.com/1broseidon/deskpet/internal/ipc"
	"github.com/1broseidon/deskpet/internal/overlay"
	"github.com/1broseidon/deskpet/internal/platform"
	"github.com/1broseidon/deskpet/internal/runtimepath"
	"github.com/1broseidon/deskpet/internal/sysinfo"
)

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskpet daemon [--path PATH] [--backend NAME]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Start the renderer helper and run the pet in the foreground.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	path := fs.String("path", "", "Config file path (default: ~/.config/deskpet/config.yaml)")
	backendFlag := fs.String("backend", "", "Override the overlay backend: auto, wayland, x11, windows, macos")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	loadConfig := func() (*config.Config, error) {
		if *path == "" {
			return config.Load()
		}
		res, err := config.LoadFromPath(*path)
		if err != nil {
			return nil, err
		}
		return res.Config, nil
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Configuration loaded (backend: %s, hysteresis: %dpx)", cfg.Backend, cfg.HysteresisPx)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	override := cfg.Backend
	if *backendFlag != "" {
		override = *backendFlag
	}
	kind, err := overlay.Detect(override, os.Getenv, runtime.GOOS)
	if err != nil {
		log.Fatalf("Failed to select overlay backend: %v", err)
	}
	log.Printf("Overlay backend: %s", kind)

	var native platform.Backend
	if !kind.HelperOwned() {
		native, err = platform.NewNativeBackend()
		if err != nil {
			log.Fatalf("Failed to connect to display: %v", err)
		}
		if d, ok := native.(interface{ Disconnect() }); ok {
			defer d.Disconnect()
		}
	}

	helperPath, err := host.NewLocator().Find(cfg.HelperPath)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	logPath, err := runtimepath.HelperLogPath()
	if err != nil {
		log.Printf("Warning: %v; helper stderr goes to this terminal", err)
	}
	helper, err := host.Launch(helperPath, host.HelperArgs(cfg, kind), logPath)
	if err != nil {
		log.Fatalf("Failed to start renderer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	link := bridge.NewLink(helper.Stdout, helper.Stdin, logger)
	inbound := make(chan bridge.Message, 64)
	go func() {
		if err := link.Run(ctx, inbound); err != nil {
			logger.Warn("renderer link stopped", "error", err)
		}
		close(inbound)
	}()

	runner := command.NewRunner(cfg.Command.Shell, cfg.CommandTimeout(), logger)
	controls := make(chan ipc.Control, 16)

	loop, err := host.NewLoop(host.Options{
		Config:   cfg,
		Kind:     kind,
		Link:     link,
		Inbound:  inbound,
		Controls: controls,
		Native:   native,
		Runner:   runner,
		Prober:   sysinfo.NewProber(),
		Reload:   loadConfig,
		Logger:   logger,
	})
	if err != nil {
		log.Fatalf("Failed to create host loop: %v", err)
	}

	ipcServer, err := ipc.NewServer(loop, controls)
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	if cfg.ToggleHotkey != "" {
		startHotkeys(ctx, native, cfg.ToggleHotkey, controls)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)
	go func() {
		for {
			select {
			case sig := <-sigCh:
				switch sig {
				case syscall.SIGHUP:
					log.Println("Received SIGHUP, reloading config...")
					select {
					case controls <- ipc.Control{Command: ipc.CommandReload}:
					default:
						log.Println("Config reload dropped: daemon is busy")
					}
				default:
					log.Println("Shutting down deskpet daemon...")
					cancel()
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Println("deskpet daemon started successfully")
	runErr := loop.Run(ctx)
	cancel()

	runner.Shutdown()
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer stopCancel()
	if err := helper.Stop(stopCtx); err != nil {
		log.Printf("Renderer helper exited: %v", err)
	}

	if runErr != nil {
		log.Printf("Host loop failed: %v", runErr)
		return 1
	}
	log.Println("deskpet daemon stopped")
	return 0
}

func startHotkeys(ctx context.Context, native platform.Backend, seq string, controls chan<- ipc.Control) {
	h, err := hotkeys.NewHandler(native)
	if err != nil {
		log.Printf("Toggle hotkey disabled: %v", err)
		return
	}
	if err := h.RegisterToggle(seq, controls); err != nil {
		log.Printf("Warning: %v", err)
		return
	}
	log.Printf("Toggle hotkey registered: %s", seq)
	go h.Run(ctx)
}
