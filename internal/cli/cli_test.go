package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowbridge/pkg/buildinfo"
	"github.com/matzehuels/flowbridge/pkg/cache"
	"github.com/matzehuels/flowbridge/pkg/config"
	"github.com/matzehuels/flowbridge/pkg/errors"
	"github.com/matzehuels/flowbridge/pkg/layout"
	"github.com/matzehuels/flowbridge/pkg/manifest"
	"github.com/matzehuels/flowbridge/pkg/pipeline"
)

const demoManifest = `name: demo
container: {width: 375, height: 750}
defaults:
  item_size: {width: 150, height: 150}
  section_inset: {top: 8, bottom: 8}
  header_size: {width: 100, height: 80}
sections:
  - name: grid
    items: 8
  - name: carousel
    items: 10
    custom: {kind: carousel, item_size: {width: 50, height: 50}, group_spacing: 16, inset: {top: 8, bottom: 8}, boundary: true}
`

// testCLI returns a CLI whose config points the file cache at a temp dir,
// and writes demoManifest into another temp dir.
func testCLI(t *testing.T) (*CLI, string) {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	cfg := "[cache]\nbackend = \"file\"\ndir = \"" + filepath.ToSlash(filepath.Join(dir, "cache")) + "\"\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}
	manifestPath := filepath.Join(dir, "demo.yaml")
	if err := os.WriteFile(manifestPath, []byte(demoManifest), 0644); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, log.InfoLevel)
	c.configPath = cfgPath
	if err := c.loadConfig(); err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	return c, manifestPath
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"svg"}},
		{"png", []string{"png"}},
		{"svg,png,json", []string{"svg", "png", "json"}},
		{" svg , dot ,", []string{"svg", "dot"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.input); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "demo.yaml", "demo"},
		{"", "out/demo.layout.json", "out/demo"},
		{"grid.svg", "demo.yaml", "grid"},
		{"grid", "demo.yaml", "grid"},
		{"grid.v2", "demo.yaml", "grid.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestLayoutPath(t *testing.T) {
	if got := layoutPath("collections/demo.toml"); got != "collections/demo.layout.json" {
		t.Errorf("layoutPath() = %q", got)
	}
	if !isLayoutFile("demo.layout.json") || isLayoutFile("demo.json") {
		t.Error("isLayoutFile() misclassified a path")
	}
}

func TestCacheLocation(t *testing.T) {
	tests := []struct {
		cfg  config.CacheConfig
		want string
	}{
		{config.CacheConfig{Backend: config.BackendFile, Dir: "/tmp/fb"}, "/tmp/fb"},
		{config.CacheConfig{Backend: config.BackendRedis, RedisAddr: "localhost:6379"}, "redis://localhost:6379"},
		{config.CacheConfig{Backend: config.BackendMongo, MongoURI: "mongodb://db", MongoDatabase: "fb", MongoCollection: "layouts"}, "mongodb://db/fb.layouts"},
		{config.CacheConfig{Backend: config.BackendNone}, "none"},
	}
	for _, tt := range tests {
		if got := cacheLocation(tt.cfg); got != tt.want {
			t.Errorf("cacheLocation(%s) = %q, want %q", tt.cfg.Backend, got, tt.want)
		}
	}
}

func TestStatsLine(t *testing.T) {
	line := statsLine(2, 18, 1, true)
	for _, want := range []string{"2 sections", "18 items", "1 row", iconCached} {
		if !strings.Contains(line, want) {
			t.Errorf("statsLine() = %q, missing %q", line, want)
		}
	}
	if strings.Contains(statsLine(0, 0, 0, false), "section") {
		t.Error("statsLine() should omit zero counts")
	}
}

func TestDescribeSection(t *testing.T) {
	m, err := manifest.Parse([]byte(demoManifest), manifest.FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	s, ok := m.Bridge().Section(0, m.Environment())
	if !ok {
		t.Fatal("no section 0")
	}

	got := describeSection(s)
	for _, want := range []string{"fixed section", "header", "vertical group", "horizontal group", "2 items"} {
		if !strings.Contains(got, want) {
			t.Errorf("describeSection() missing %q:\n%s", want, got)
		}
	}
}

func TestTables(t *testing.T) {
	m, _ := manifest.Parse([]byte(demoManifest), manifest.FormatYAML)
	l := layout.Resolve(m.Bridge(), m, m.Environment())

	sections := sectionsTable(l)
	for _, want := range []string{"grid", "carousel", "continuous_group_leading_boundary"} {
		if !strings.Contains(sections, want) {
			t.Errorf("sectionsTable() missing %q", want)
		}
	}
	if frames := framesTable(l.Sections[0]); !strings.Contains(frames, "header") || !strings.Contains(frames, "225") {
		t.Errorf("framesTable() = %s", frames)
	}
}

func TestPreviewModel(t *testing.T) {
	m, _ := manifest.Parse([]byte(demoManifest), manifest.FormatYAML)
	var model tea.Model = NewPreviewModel(layout.Resolve(m.Bridge(), m, m.Environment()))

	press := func(key string) {
		var msg tea.KeyMsg
		switch key {
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		}
		model, _ = model.Update(msg)
	}

	press("down")
	press("down") // clamped at the last section
	if pm := model.(PreviewModel); pm.Cursor != 1 {
		t.Fatalf("Cursor = %d, want 1", pm.Cursor)
	}
	press("enter")
	if pm := model.(PreviewModel); pm.Open != 1 || !strings.Contains(pm.View(), "carousel") {
		t.Errorf("enter did not open the carousel: Open = %d", pm.Open)
	}
	press("esc")
	if pm := model.(PreviewModel); pm.Open != -1 {
		t.Errorf("esc left Open = %d", pm.Open)
	}
}

func TestLayoutAndRenderCommands(t *testing.T) {
	c, manifestPath := testCLI(t)
	ctx := context.Background()
	dir := filepath.Dir(manifestPath)

	if err := c.runLayout(ctx, manifestPath, "", layoutFlags{}); err != nil {
		t.Fatalf("runLayout() error = %v", err)
	}
	layoutFile := filepath.Join(dir, "demo.layout.json")
	l, err := layout.ReadFile(layoutFile)
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", layoutFile, err)
	}
	if l.ItemCount() != 18 || l.ID == "" {
		t.Errorf("layout has %d items, ID %q", l.ItemCount(), l.ID)
	}

	root := c.RootCommand()
	root.SetArgs([]string{"--config", c.configPath, "render", layoutFile, "-f", "svg,dot,json", "--style", "outline"})
	if err := root.ExecuteContext(ctx); err != nil {
		t.Fatalf("render error = %v", err)
	}
	for _, name := range []string{"demo.svg", "demo.dot", "demo.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("render did not write %s: %v", name, err)
		}
	}

	out := filepath.Join(dir, "custom.png")
	if err := c.runRender(ctx, manifestPath, out, renderOptions(t, c, manifestPath, "png"), false); err != nil {
		t.Fatalf("runRender(png) error = %v", err)
	}
	if data, err := os.ReadFile(out); err != nil || !strings.HasPrefix(string(data), "\x89PNG") {
		t.Errorf("custom.png missing or not a PNG: %v", err)
	}
}

func renderOptions(t *testing.T, c *CLI, path string, formats ...string) pipeline.Options {
	t.Helper()
	opts := c.options(path, layoutFlags{})
	opts.Formats = formats
	if err := opts.ValidateForRender(); err != nil {
		t.Fatal(err)
	}
	return opts
}

func TestInspectSectionNotFound(t *testing.T) {
	c, manifestPath := testCLI(t)

	err := c.runInspect(context.Background(), manifestPath, 5, layoutFlags{noCache: true})
	if !errors.Is(err, errors.ErrCodeSectionNotFound) {
		t.Errorf("runInspect() error = %v, want %s", err, errors.ErrCodeSectionNotFound)
	}
	if err := c.runInspect(context.Background(), manifestPath, -1, layoutFlags{noCache: true}); err != nil {
		t.Errorf("runInspect() summary error = %v", err)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[cache]\ncolour = \"red\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	c := New(io.Discard, log.InfoLevel)
	c.configPath = path
	if err := c.loadConfig(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("loadConfig() error = %v, want %s", err, errors.ErrCodeInvalidConfig)
	}
}

func TestUnresolvedSections(t *testing.T) {
	l := layout.Layout{Sections: []layout.Section{
		{Index: 0, Mode: "fixed"},
		{Index: 1, Mode: layout.ModeNone},
		{Index: 2, Mode: layout.ModeNone},
	}}
	if got := unresolvedSections(l); got != 2 {
		t.Errorf("unresolvedSections() = %d, want 2", got)
	}
	if got := unresolvedSections(layout.Layout{}); got != 0 {
		t.Errorf("unresolvedSections(empty) = %d, want 0", got)
	}
}

func TestCacheClearWithCachingDisabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[cache]\nbackend = \"none\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs([]string{"--config", path, "cache", "clear"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Errorf("cache clear error = %v", err)
	}
}

func TestNewRunnerScopesKeysByVersion(t *testing.T) {
	c, _ := testCLI(t)
	runner, err := c.newRunner(context.Background(), true)
	if err != nil {
		t.Fatalf("newRunner() error = %v", err)
	}
	defer runner.Close()

	key := runner.Keyer.LayoutKey("abc", cache.LayoutKeyOpts{Width: 375, Height: 750})
	if !strings.HasPrefix(key, buildinfo.Version+":") {
		t.Errorf("LayoutKey() = %q, want prefix %q", key, buildinfo.Version+":")
	}
	if got := cache.KeyType(key); got != cache.PrefixLayout {
		t.Errorf("KeyType(%q) = %q, want %q", key, got, cache.PrefixLayout)
	}
}
