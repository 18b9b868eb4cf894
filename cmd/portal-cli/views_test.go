package main

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/intranet-portal-client/internal/client"
	"github.com/noah-isme/intranet-portal-client/internal/devserver"
	"github.com/noah-isme/intranet-portal-client/internal/portal"
	"github.com/noah-isme/intranet-portal-client/pkg/config"
	appErrors "github.com/noah-isme/intranet-portal-client/pkg/errors"
)

func newTestPortal(t *testing.T) *portal.Portal {
	t.Helper()
	backend, err := devserver.New(config.DevServerConfig{JWTSecret: "cli-test"}, nil)
	require.NoError(t, err)
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		List:       config.ListConfig{DefaultPageSize: 10},
		Workers:    config.WorkerConfig{PoolSize: 1},
		Attachment: config.AttachmentConfig{CacheTTL: time.Minute, DownloadDir: t.TempDir()},
	}
	p, err := portal.New(context.Background(), cfg, nil, portal.WithClientOptions(client.Options{BaseURL: srv.URL + "/api"}))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go p.Start(ctx)
	t.Cleanup(func() {
		cancel()
		<-p.Loop.Done()
		_ = p.Close()
	})
	return p
}

func TestRunPrintsRequestedPage(t *testing.T) {
	p := newTestPortal(t)
	var out bytes.Buffer
	err := run(context.Background(), p, cliOptions{
		Resource: "notices", Field: "ALL", Page: 2, PageSize: 2,
		Code: "EMP001", Password: devserver.SeedPassword,
	}, &out)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "No")
	assert.Contains(t, text, "Page 2/2 (3 records)")
	assert.Contains(t, text, "\n3 ")
}

func TestRunFiltersByField(t *testing.T) {
	p := newTestPortal(t)
	var out bytes.Buffer
	err := run(context.Background(), p, cliOptions{
		Resource: "notices", Keyword: "closed", Field: "title", Page: 1,
		Code: "EMP001", Password: devserver.SeedPassword,
	}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Office closed on Friday")
	assert.Contains(t, out.String(), "Page 1/1 (1 records)")
}

func TestRunExportsFilteredList(t *testing.T) {
	p := newTestPortal(t)
	var out bytes.Buffer
	err := run(context.Background(), p, cliOptions{
		Resource: "notices", Field: "ALL", Page: 1, Export: "csv",
		Code: "EMP001", Password: devserver.SeedPassword,
	}, &out)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(p.Config.Attachment.DownloadDir, "notices.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "No,Title,Department,Author,Important,Created")
	assert.Contains(t, out.String(), "Exported to")
}

func TestRunRejectsBadInput(t *testing.T) {
	p := newTestPortal(t)

	err := run(context.Background(), p, cliOptions{Resource: "payroll", Code: "EMP001"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown resource")

	err = run(context.Background(), p, cliOptions{Resource: "notices"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "employee code is required")

	err = run(context.Background(), p, cliOptions{Resource: "notices", Code: "EMP001", Password: "nope"}, &bytes.Buffer{})
	assert.True(t, errors.Is(err, appErrors.ErrAuth))
}

func TestParseFlags(t *testing.T) {
	opts := parseFlags([]string{"-resource", "leave", "--page", "3", "-page-size=5", "--export", "pdf"})
	assert.Equal(t, "leave", opts.Resource)
	assert.Equal(t, 3, opts.Page)
	assert.Equal(t, 5, opts.PageSize)
	assert.Equal(t, "pdf", opts.Export)
	assert.Equal(t, "ALL", opts.Field)
}

func TestParseFlagsKeepsDashedValues(t *testing.T) {
	opts := parseFlags([]string{"-keyword", "-draft", "-page", "-1", "-field=title"})
	assert.Equal(t, "-draft", opts.Keyword)
	assert.Equal(t, -1, opts.Page)
	assert.Equal(t, "title", opts.Field)
}

func TestLongFlagsRewritesOnlyDefinedFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("keyword", "", "")
	fs.Bool("verbose", false, "")

	got := longFlags(fs, []string{"-keyword", "-verbose", "-verbose", "-unknown", "-k", "--", "-keyword"})
	assert.Equal(t, []string{"--keyword", "-verbose", "--verbose", "-unknown", "-k", "--", "-keyword"}, got)
}
