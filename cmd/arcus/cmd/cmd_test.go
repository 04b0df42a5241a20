package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/spf13/cobra"

	"github.com/atistler/arcus/pkg/arcus"
	"github.com/atistler/arcus/pkg/core/config"
	arcuserr "github.com/atistler/arcus/pkg/core/error"
	"github.com/atistler/arcus/pkg/core/logging"
)

const testCatalog = `<commands>
  <command>
    <name>listWidgets</name>
    <description>Lists widgets. Supports paging.</description>
    <isAsync>false</isAsync>
    <request>
      <arg><name>zone</name><description>the zone</description><required>true</required></arg>
      <arg><name>verbose</name><description>collides with the CLI flag</description><required>false</required></arg>
    </request>
  </command>
  <command>
    <name>deployInstance</name>
    <description>Deploys an instance.</description>
    <isAsync>true</isAsync>
    <request><arg><name>offering</name><required>true</required></arg></request>
  </command>
</commands>`

func newTestRoot(t *testing.T, handler http.Handler) (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	interactive = func() bool { return false }
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	dir := t.TempDir()
	path := filepath.Join(dir, "commands.xml")
	if err := os.WriteFile(path, []byte(testCatalog), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.API.URI = server.URL
	cfg.Catalog.Path = path
	cfg.Catalog.CacheDir = dir

	c, err := arcus.Configure(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	root := &cobra.Command{Use: "arcus", SilenceErrors: true, SilenceUsage: true}
	root.AddGroup(&cobra.Group{ID: targetGroup, Title: "Targets:"})
	addTargetCommands(root, c, logging.Discard())

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	return root, &stdout, &stderr
}

func TestActionCommand(t *testing.T) {
	root, stdout, _ := newTestRoot(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("command") != "listWidgets" || q.Get("zone") != "z1" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if q.Get("response") != "json" {
			t.Errorf("response = %v, want json", q.Get("response"))
		}
		w.Write([]byte(`{"listwidgetsresponse":{"count":0}}`))
	}))

	root.SetArgs([]string{"widget", "list", "--zone", "z1", "--response", "prettyjson"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := "{\n  \"listwidgetsresponse\": {\n    \"count\": 0\n  }\n}\n"
	if stdout.String() != want {
		t.Errorf("stdout = %q, want %q", stdout.String(), want)
	}
}

func TestActionCommand_MissingArgument(t *testing.T) {
	var hits atomic.Int32
	root, _, stderr := newTestRoot(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))

	root.SetArgs([]string{"widget", "list"})
	err := root.ExecuteContext(context.Background())
	if !errors.Is(err, errReported) {
		t.Fatalf("Execute() error = %v, want errReported", err)
	}
	if !strings.Contains(stderr.String(), "Missing required arguments: --zone") {
		t.Errorf("stderr = %q", stderr.String())
	}
	if !strings.Contains(stderr.String(), "Usage:") {
		t.Error("usage should follow the missing argument message")
	}
	if hits.Load() != 0 {
		t.Error("no request may be sent when arguments are missing")
	}
}

func TestActionCommand_Flags(t *testing.T) {
	root, _, _ := newTestRoot(t, http.NotFoundHandler())

	list, _, err := root.Find([]string{"widget", "list"})
	if err != nil {
		t.Fatal(err)
	}
	if list.Short != "Lists widgets" {
		t.Errorf("Short = %q, want first sentence", list.Short)
	}
	if list.Flags().Lookup("zone") == nil || list.Flags().Lookup("response") == nil {
		t.Error("catalog arguments should become flags")
	}
	if list.Flags().Lookup("verbose") != nil {
		t.Error("reserved flag names must not be taken by catalog arguments")
	}
	if list.Flags().Lookup("sync") != nil {
		t.Error("synchronous actions have no --sync flag")
	}

	deploy, _, err := root.Find([]string{"instance", "deploy"})
	if err != nil {
		t.Fatal(err)
	}
	if deploy.Flags().Lookup("sync") == nil {
		t.Error("async actions need a --sync flag")
	}
}

func TestActionCommand_Sync(t *testing.T) {
	var polls atomic.Int32
	root, stdout, _ := newTestRoot(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("command") {
		case "deployInstance":
			w.Write([]byte(`{"deployinstanceresponse":{"jobid":"42"}}`))
		case "queryAsyncJobResult":
			status := 1
			if polls.Add(1) == 1 {
				status = 0
			}
			fmt.Fprintf(w, `{"queryasyncjobresultresponse":{"jobstatus":%d}}`, status)
		}
	}))

	root.SetArgs([]string{"instance", "deploy", "--offering", "small", "--sync", "0.01"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(stdout.String(), `"jobstatus":1`) {
		t.Errorf("stdout = %q, want final job result", stdout.String())
	}
	if polls.Load() < 2 {
		t.Errorf("status queries = %d, want at least 2", polls.Load())
	}
}

func TestPrintError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"timeout", arcuserr.NetworkTimeout("http://api.test/client/api", errors.New("i/o timeout")), "Timeout connecting to http://api.test/client/api"},
		{"remote", arcuserr.Remote(431, []byte(`{"deployinstanceresponse":{"errorcode":431,"errortext":"Unable to deploy"}}`)), "Request failed with status 431: Unable to deploy"},
		{"remote plain body", arcuserr.Remote(500, []byte("oops")), "Request failed with status 500: oops"},
		{"configuration", arcuserr.Configuration("catalog path required"), "Configuration error: catalog path required"},
		{"other", errors.New("boom"), "Error: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printError(&buf, tt.err)
			if got := strings.TrimSpace(buf.String()); got != tt.want {
				t.Errorf("printError() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShortDescription(t *testing.T) {
	tests := map[string]string{
		"Lists widgets. Supports paging.": "Lists widgets",
		"No period":                       "No period",
		"":                                "",
	}
	for in, want := range tests {
		if got := shortDescription(in); got != want {
			t.Errorf("shortDescription(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFlagList(t *testing.T) {
	if got := flagList([]string{"a", "b"}); got != "--a, --b" {
		t.Errorf("flagList() = %q", got)
	}
}
