// Command asewebd serves a directory tree of Aseprite sprites over HTTP.
//
// Sprites are loaded once at startup and again on SIGHUP. Either pass
// -sprite_dir for a single root or -config for a YAML library config.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	_ "golang.org/x/net/trace"

	"badc0de.net/pkg/go-aseprite/library"
	"badc0de.net/pkg/go-aseprite/paths"
	"badc0de.net/pkg/go-aseprite/web"
)

var (
	listenAddress  = flag.String("listen_address", ":8080", "http listen address for asewebd")
	debugWebServer = flag.String("debug_web_server_listen_address", "", "where the debug server (with /debug/requests) will listen")
	configPath     = flag.String("config", "", "YAML library config; overrides -sprite_dir")
	rootName       = flag.String("root_name", "sprites", "name under which -sprite_dir is published")
	accessLog      = flag.Bool("access_log", true, "whether to log requests to stderr")

	spriteDir string
)

func loadConfig() (*library.Config, error) {
	if *configPath != "" {
		return library.LoadConfigFile(*configPath)
	}
	if spriteDir == "" {
		return nil, errors.New("neither -config nor -sprite_dir given")
	}
	return library.SingleRoot(*rootName, spriteDir), nil
}

func load(ctx context.Context) (*library.Library, *library.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	lib, err := library.Load(ctx, cfg, nil)
	if err != nil {
		return nil, nil, err
	}
	return lib, cfg, nil
}

func reloadOnHangup(h *web.Handler) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	for range hup {
		glog.Info("SIGHUP: reloading sprites")
		lib, _, err := load(context.Background())
		if err != nil {
			glog.Errorf("reload failed, keeping old library: %v", err)
			continue
		}
		h.SetLibrary(lib)
	}
}

func main() {
	paths.SetupDirFlag("sprite_dir", &spriteDir)
	flagutil.Parse()

	lib, cfg, err := load(context.Background())
	if err != nil {
		glog.Exitf("loading sprites: %v", err)
	}

	h := web.NewHandler(lib, cfg.Thumbnail)
	go reloadOnHangup(h)

	r := mux.NewRouter()
	h.RegisterRoutes(r)

	if *debugWebServer != "" {
		http.HandleFunc("/debug/minimetrics", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, "runtime.NumGoroutine(): %d\n", runtime.NumGoroutine())
		})
		go func() {
			glog.Error(http.ListenAndServe(*debugWebServer, nil))
		}()
	}

	var root http.Handler = handlers.CompressHandler(r)
	if *accessLog {
		root = handlers.CombinedLoggingHandler(os.Stderr, root)
	}
	root = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(root)

	glog.Infof("serving %d sprites on %s", lib.Len(), *listenAddress)
	glog.Fatal(http.ListenAndServe(*listenAddress, root))
}
