package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/noah-isme/intranet-portal-client/internal/portal"
	"github.com/noah-isme/intranet-portal-client/pkg/config"
	appErrors "github.com/noah-isme/intranet-portal-client/pkg/errors"
	"github.com/noah-isme/intranet-portal-client/pkg/logger"
)

func main() {
	opts := parseFlags(os.Args[1:])

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p, err := portal.New(ctx, cfg, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to build portal", "error", err)
	}

	loopCtx, cancelLoop := context.WithCancel(ctx)
	go p.Start(loopCtx)

	if cfg.Metrics.Addr != "" {
		serveMetrics(cfg.Metrics.Addr, p, logr)
	}

	runErr := run(ctx, p, opts, os.Stdout)

	snap := p.Metrics.Snapshot()
	logr.Debug("session summary",
		zap.Uint64("requests", snap.Requests),
		zap.Uint64("cache_hits", snap.CacheHits),
		zap.Uint64("cache_misses", snap.CacheMisses),
		zap.Uint64("stale_discards", snap.StaleDiscards),
	)

	cancelLoop()
	<-p.Loop.Done()
	if err := p.Close(); err != nil {
		logr.Warn("close portal", zap.Error(err))
	}

	if runErr != nil {
		fmt.Fprintln(os.Stderr, appErrors.UserMessage(runErr))
		os.Exit(1)
	}
}

func parseFlags(args []string) cliOptions {
	fs := pflag.NewFlagSet("portal-cli", pflag.ExitOnError)
	var opts cliOptions
	fs.StringVar(&opts.Resource, "resource", "notices", "list to show: "+resourceNames())
	fs.StringVar(&opts.Keyword, "keyword", "", "case-insensitive search keyword")
	fs.StringVar(&opts.Field, "field", "ALL", "field searched by -keyword (title, department, author or ALL)")
	fs.IntVar(&opts.Page, "page", 1, "1-based page to print")
	fs.IntVar(&opts.PageSize, "page-size", 0, "rows per page; 0 uses LIST_DEFAULT_PAGE_SIZE")
	fs.StringVar(&opts.Export, "export", "", "also export the filtered list as csv, pdf or xlsx")
	fs.StringVar(&opts.Code, "code", os.Getenv("PORTAL_EMPLOYEE_CODE"), "employee code to log in with")
	fs.StringVar(&opts.Password, "password", os.Getenv("PORTAL_PASSWORD"), "password to log in with")
	_ = fs.Parse(longFlags(fs, args))
	return opts
}

// longFlags accepts Go-style single-dash long flags ("-page 2") by
// rewriting them to the double-dash form pflag expects. Only arguments in
// flag position naming a defined flag are touched, so values such as
// "-draft" or "-1" pass through.
func longFlags(fs *pflag.FlagSet, args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return append(out, args[i:]...)
		}
		if len(arg) < 2 || arg[0] != '-' {
			out = append(out, arg)
			continue
		}
		name, inline := strings.TrimLeft(arg, "-"), false
		if eq := strings.IndexByte(name, '='); eq >= 0 {
			name, inline = name[:eq], true
		}
		f := fs.Lookup(name)
		if f == nil || len(name) < 2 {
			out = append(out, arg)
			continue
		}
		if arg[1] != '-' {
			arg = "-" + arg
		}
		out = append(out, arg)
		if !inline && f.NoOptDefVal == "" && i+1 < len(args) {
			i++
			out = append(out, args[i])
		}
	}
	return out
}

func serveMetrics(addr string, p *portal.Portal, l *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", p.Metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Warn("metrics listener stopped", zap.Error(err))
		}
	}()
}
