// Command satsim-server bundles the HTTP/WebSocket surface (§6) into a
// single binary: it loads the bundled default preset, wires the server
// package's router, and listens on the configured host/port.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	kitlog "github.com/go-kit/kit/log"
	"github.com/spf13/viper"

	"github.com/caba-llero/pytellite/config"
	"github.com/caba-llero/pytellite/server"
)

var (
	host       string
	port       int
	assetsRoot string
)

func init() {
	flag.StringVar(&host, "host", "", "bind host (overrides HOST env/config)")
	flag.IntVar(&port, "port", 0, "bind port (overrides PORT env/config)")
	flag.StringVar(&assetsRoot, "assets", "", "root directory holding configs/, static/, textures/ (default: binary's working directory)")
}

func main() {
	flag.Parse()

	// §6: PORT selects the bind port; its presence also selects the
	// production default host (0.0.0.0) over the loopback development
	// default, matching the original's "absence of PORT means dev mode"
	// convention.
	viper.BindEnv("port", "PORT")
	viper.BindEnv("host", "HOST")
	if viper.IsSet("port") {
		viper.SetDefault("host", "0.0.0.0")
	} else {
		viper.SetDefault("host", "127.0.0.1")
	}
	viper.SetDefault("port", 8000)
	if host != "" {
		viper.Set("host", host)
	}
	if port != 0 {
		viper.Set("port", port)
	}

	root := assetsRoot
	if root == "" {
		var err error
		root, err = os.Getwd()
		if err != nil {
			log.Fatalf("could not determine working directory: %s", err)
		}
	}

	logDir := filepath.Join(root, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		log.Fatalf("could not create log directory %s: %s", logDir, err)
	}
	logFile, err := os.OpenFile(filepath.Join(logDir, "satsim-server.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Fatalf("could not open log file: %s", err)
	}
	defer logFile.Close()

	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(logFile))
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC, "caller", kitlog.DefaultCaller)

	presetsDir := filepath.Join(root, "configs")
	defaults, err := config.LoadDefaults(presetsDir)
	if err != nil {
		logger.Log("level", "error", "msg", "could not load bundled defaults", "err", err)
		log.Fatalf("could not load bundled defaults from %s: %s", presetsDir, err)
	}

	staticDir := filepath.Join(root, "static")
	texturesDir := filepath.Join(root, "textures")
	srv := server.New(defaults, presetsDir, staticDir, texturesDir, logger)

	addr := fmt.Sprintf("%s:%d", viper.GetString("host"), viper.GetInt("port"))
	logger.Log("level", "info", "msg", "starting satsim-server", "addr", addr, "presets_dir", presetsDir)

	if err := http.ListenAndServe(addr, srv.Router()); err != nil {
		logger.Log("level", "error", "msg", "server exited", "err", err)
		log.Fatalf("server exited: %s", err)
	}
}
