package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"MyLocalPaint/internal/board"
	"MyLocalPaint/internal/config"
	paintnet "MyLocalPaint/internal/net"
	"MyLocalPaint/internal/ui"
)

const usage = `usage:
  mylocalpaint [flags] [project.mlp]   open the desktop editor
  mylocalpaint [flags] serve           serve the browser shell on the LAN
  mylocalpaint [flags] browse          list paint servers on the LAN
  mylocalpaint [flags] init-config     write the default config file

flags:
`

func main() {
	configPath := flag.String("config", "", "config file (default: user config dir)")
	verbose := flag.Bool("v", false, "log engine debug messages")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *verbose {
		board.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	path := *configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			log.Printf("Using built-in defaults: %v", err)
		}
		path = p
	}

	args := flag.Args()
	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
	}
	if cmd == "init-config" {
		if err := initConfig(path); err != nil {
			log.Fatal(err)
		}
		return
	}

	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	switch cmd {
	case "serve":
		if err := runServer(cfg); err != nil {
			log.Fatal(err)
		}
	case "browse":
		runBrowse()
	default:
		runDesktop(cfg, cmd)
	}
}

func runDesktop(cfg config.Config, project string) {
	log.Println("Starting desktop editor")
	ui.RunApp(board.New(cfg.Options()), project)
}

func runServer(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	port := cfg.Server.Port
	if cfg.Server.MDNS {
		m, err := paintnet.Advertise(cfg.Server.Instance, port)
		if err != nil {
			log.Printf("[NET] mDNS disabled: %v", err)
		} else {
			defer m.Shutdown()
		}
	}
	if ip, err := paintnet.OutgoingIP(); err == nil {
		log.Printf("[NET] browser shell at ws://%s:%d/ws", ip, port)
	}

	srv := paintnet.NewServer(board.New(cfg.Options()))
	return srv.ListenAndServe(ctx, fmt.Sprintf(":%d", port))
}

func runBrowse() {
	found := 0
	err := paintnet.Browse(3*time.Second, func(name, addr string) {
		found++
		fmt.Printf("%s\tws://%s/ws\n", name, addr)
	})
	if err != nil {
		log.Fatal(err)
	}
	if found == 0 {
		log.Println("No paint servers found")
	}
}

func initConfig(path string) error {
	if path == "" {
		return errors.New("no config path; pass -config")
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := config.Save(path, config.Default()); err != nil {
		return err
	}
	log.Printf("Wrote %s", path)
	return nil
}
