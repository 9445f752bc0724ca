package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/flowbridge/pkg/core/flow"
	"github.com/matzehuels/flowbridge/pkg/errors"
)

const demoYAML = `
name: demo
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
    custom:
      kind: carousel
      item_size: {width: 50, height: 50}
      group_spacing: 16
      inset: {top: 8, bottom: 8}
      boundary: true
`

const demoTOML = `
name = "demo"

[container]
width = 375
height = 750

[defaults]
item_size = { width = 150, height = 150 }
section_inset = { top = 8, bottom = 8 }
header_size = { width = 100, height = 80 }

[[sections]]
name = "grid"
items = 8

[[sections]]
name = "carousel"
items = 10

[sections.custom]
kind = "carousel"
item_size = { width = 50, height = 50 }
group_spacing = 16
inset = { top = 8, bottom = 8 }
boundary = true
`

const demoJSON = `{
  "name": "demo",
  "container": {"width": 375, "height": 750},
  "defaults": {
    "item_size": {"width": 150, "height": 150},
    "section_inset": {"top": 8, "bottom": 8},
    "header_size": {"width": 100, "height": 80}
  },
  "sections": [
    {"name": "grid", "items": 8},
    {"name": "carousel", "items": 10, "custom": {
      "kind": "carousel", "item_size": {"width": 50, "height": 50},
      "group_spacing": 16, "inset": {"top": 8, "bottom": 8}, "boundary": true}}
  ]
}`

func TestParse_Formats(t *testing.T) {
	tests := []struct {
		format Format
		input  string
	}{
		{FormatYAML, demoYAML},
		{FormatTOML, demoTOML},
		{FormatJSON, demoJSON},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			m, err := Parse([]byte(tt.input), tt.format)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			if m.Name != "demo" || len(m.Sections) != 2 {
				t.Fatalf("got name %q with %d sections, want demo with 2", m.Name, len(m.Sections))
			}
			if m.Container.Width != 375 || m.Container.Height != 750 {
				t.Errorf("Container = %+v, want 375x750", m.Container)
			}
			d := m.FlowDefaults()
			if d.ItemSize != (flow.Size{Width: 150, Height: 150}) {
				t.Errorf("ItemSize default = %v, want 150x150", d.ItemSize)
			}
			if d.InteritemSpacing != 10 {
				t.Errorf("InteritemSpacing default = %v, want legacy 10", d.InteritemSpacing)
			}
			if d.SectionInset != (flow.Insets{Top: 8, Bottom: 8}) {
				t.Errorf("SectionInset default = %+v", d.SectionInset)
			}
			c := m.Sections[1].Custom
			if c == nil || c.Kind != KindCarousel || c.GroupSpacing != 16 || !c.Boundary {
				t.Errorf("Custom = %+v, want boundary carousel with spacing 16", c)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
		code   errors.Code
	}{
		{"unknown yaml field", FormatYAML, "sections:\n  - items: 1\n    colour: red\n", errors.ErrCodeInvalidManifest},
		{"unknown json field", FormatJSON, `{"sections": [], "extra": 1}`, errors.ErrCodeInvalidManifest},
		{"unknown toml field", FormatTOML, "extra = 1\n", errors.ErrCodeInvalidManifest},
		{"malformed yaml", FormatYAML, "sections: [", errors.ErrCodeInvalidManifest},
		{"negative items", FormatYAML, "sections:\n  - items: -1\n", errors.ErrCodeInvalidManifest},
		{"too many items", FormatYAML, "sections:\n  - items: 2000000000\n", errors.ErrCodeInvalidManifest},
		{"items just over section limit", FormatJSON, fmt.Sprintf(`{"sections": [{"items": %d}]}`, MaxItemsPerSection+1), errors.ErrCodeInvalidManifest},
		{"too many items in total", FormatJSON, manyItemsJSON(MaxItems/MaxItemsPerSection+1, MaxItemsPerSection), errors.ErrCodeInvalidManifest},
		{"too many sections", FormatJSON, manyItemsJSON(MaxSections+1, 0), errors.ErrCodeInvalidManifest},
		{"negative item size", FormatYAML, "sections:\n  - items: 1\n    item_size: {width: -5, height: 5}\n", errors.ErrCodeInvalidManifest},
		{"negative spacing default", FormatYAML, "defaults:\n  line_spacing: -1\n", errors.ErrCodeInvalidManifest},
		{"negative container inset", FormatYAML, "container: {width: 10, insets: {leading: -1}}\n", errors.ErrCodeInvalidManifest},
		{"unknown custom kind", FormatYAML, "sections:\n  - items: 1\n    custom: {kind: mosaic}\n", errors.ErrCodeInvalidManifest},
		{"unknown scrolling", FormatYAML, "sections:\n  - items: 1\n    custom: {kind: carousel, scrolling: diagonal}\n", errors.ErrCodeInvalidManifest},
		{"unsupported format", Format("xml"), "<manifest/>", errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input), tt.format)
			if err == nil {
				t.Fatal("Parse() error = nil, want error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %v, want %v (%v)", got, tt.code, err)
			}
		})
	}
}

// manyItemsJSON returns a JSON manifest with n sections of items each.
func manyItemsJSON(n, items int) string {
	sections := make([]string, n)
	for i := range sections {
		sections[i] = fmt.Sprintf(`{"items": %d}`, items)
	}
	return `{"sections": [` + strings.Join(sections, ",") + `]}`
}

func TestParse_Limits(t *testing.T) {
	input := manyItemsJSON(MaxItems/MaxItemsPerSection, MaxItemsPerSection)
	m, err := Parse([]byte(input), FormatJSON)
	if err != nil {
		t.Fatalf("Parse() at the limits error = %v", err)
	}
	if got := m.ItemCount(); got != MaxItems {
		t.Errorf("ItemCount() = %d, want %d", got, MaxItems)
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
		wantErr  bool
	}{
		{"collection.yaml", FormatYAML, false},
		{"dir/collection.yml", FormatYAML, false},
		{"/abs/collection.toml", FormatTOML, false},
		{"collection.JSON", FormatJSON, false},
		{"collection.xml", "", true},
		{"collection", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := Detect(tt.filename)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Detect() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Detect() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseFormat_MIME(t *testing.T) {
	tests := map[string]Format{
		"application/json; charset=utf-8": FormatJSON,
		"application/x-yaml":              FormatYAML,
		"application/toml":                FormatTOML,
		" YML ":                           FormatYAML,
	}
	for in, want := range tests {
		if got, err := ParseFormat(in); err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v, want %q", in, got, err, want)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.yaml")
	if err := os.WriteFile(path, []byte(demoYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if m.ItemCount() != 18 {
		t.Errorf("ItemCount() = %d, want 18", m.ItemCount())
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want %v", err, errors.ErrCodeFileNotFound)
	}
}

func TestSizeProvider(t *testing.T) {
	small := flow.Size{Width: 10, Height: 10}
	spacing := 4.0
	m := &Manifest{
		Sections: []Section{
			{Items: 5, ItemSizes: []flow.Size{{Width: 1, Height: 1}, {Width: 2, Height: 2}}},
			{Items: 3, ItemSize: &small, InteritemSpacing: &spacing},
			{Items: 3},
		},
	}

	if got, ok := m.ItemSize(flow.IndexPath{Section: 0, Item: 3}); !ok || got.Width != 2 {
		t.Errorf("ItemSize(0, 3) = %v, %v, want cycled 2x2", got, ok)
	}
	if got, ok := m.ItemSize(flow.IndexPath{Section: 1, Item: 2}); !ok || got != small {
		t.Errorf("ItemSize(1, 2) = %v, %v, want section override", got, ok)
	}
	if _, ok := m.ItemSize(flow.IndexPath{Section: 2}); ok {
		t.Error("ItemSize(2, 0) ok = true, want fallback to defaults")
	}
	if _, ok := m.ItemSize(flow.IndexPath{Section: 9}); ok {
		t.Error("ItemSize(9, 0) ok = true for unknown section")
	}
	if got, ok := m.InteritemSpacing(1); !ok || got != 4 {
		t.Errorf("InteritemSpacing(1) = %v, %v, want 4", got, ok)
	}
	if _, ok := m.LineSpacing(1); ok {
		t.Error("LineSpacing(1) ok = true, want no override")
	}
	if _, ok := m.NumberOfItems(3); ok {
		t.Error("NumberOfItems(3) ok = true for unknown section")
	}
}

func TestBridge_DemoSections(t *testing.T) {
	m, err := Parse([]byte(demoYAML), FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	b, env := m.Bridge(), m.Environment()

	grid, ok := b.Section(0, env)
	if !ok {
		t.Fatal("Section(0) returned no section")
	}
	// Two 150pt items per 375pt row: 8 items make 4 rows.
	if rows := grid.Group.Rows(); len(rows) != 4 {
		t.Errorf("grid has %d rows, want 4", len(rows))
	}
	if h, ok := grid.Header(); !ok || h.Size.Height != flow.Absolute(80) {
		t.Errorf("grid header = %+v, %v, want 80 high", h, ok)
	}

	carousel, ok := b.Section(1, env)
	if !ok {
		t.Fatal("Section(1) returned no section")
	}
	if carousel.Mode != flow.ModeCustom {
		t.Errorf("Mode = %v, want custom", carousel.Mode)
	}
	if carousel.Scrolling != flow.ScrollContinuousGroupLeadingBoundary {
		t.Errorf("Scrolling = %v, want continuous_group_leading_boundary", carousel.Scrolling)
	}
	if carousel.InterGroupSpacing != 16 {
		t.Errorf("InterGroupSpacing = %v, want 16", carousel.InterGroupSpacing)
	}
	if h, ok := carousel.Header(); !ok || h.Size.Width != flow.Absolute(375) {
		t.Errorf("carousel header = %+v, %v, want borrowed 375 wide header", h, ok)
	}

	if _, ok := b.Section(2, env); ok {
		t.Error("Section(2) ok = true for unknown section")
	}
}

func TestCustomSection_List(t *testing.T) {
	m := &Manifest{
		Container: Container{Width: 320, Height: 480},
		Sections: []Section{
			{Items: 4, Custom: &Custom{Kind: KindList, ItemSize: flow.Size{Height: 44}, GroupSpacing: 1}},
			{Items: 0, Custom: &Custom{Kind: KindList, ItemSize: flow.Size{Height: 44}}},
		},
	}
	b, env := m.Bridge(), m.Environment()

	s, ok := b.Section(0, env)
	if !ok {
		t.Fatal("Section(0) returned no section")
	}
	if s.Scrolling != flow.ScrollNone {
		t.Errorf("Scrolling = %v, want none", s.Scrolling)
	}
	if s.Group.Size.Width != flow.FractionalWidth(1) || s.Group.Size.Height != flow.Absolute(44) {
		t.Errorf("group size = %v, want full width and 44 high", s.Group.Size)
	}
	if len(s.BoundaryItems) != 0 {
		t.Errorf("got %d boundary items, want none without boundary: true", len(s.BoundaryItems))
	}

	empty, _ := b.Section(1, env)
	if !empty.Group.Placeholder {
		t.Error("empty custom section should use the placeholder group")
	}
}

func TestCustomSection_PagerAndTiles(t *testing.T) {
	m := &Manifest{
		Container: Container{Width: 320, Height: 480},
		Sections: []Section{
			{Items: 3, Custom: &Custom{Kind: KindPager}},
			{Items: 2, Custom: &Custom{Kind: KindTiles, GroupSpacing: 4}},
			{Items: 3, Custom: &Custom{Kind: KindPager, Scrolling: "paging"}},
		},
	}
	b, env := m.Bridge(), m.Environment()

	tests := []struct {
		section   int
		size      flow.LayoutSize
		scrolling flow.ScrollingBehavior
	}{
		{0, flow.FullContainerSize(), flow.ScrollGroupPaging},
		{1, flow.EqualDimensions(), flow.ScrollNone},
		{2, flow.FullContainerSize(), flow.ScrollPaging},
	}
	for _, tt := range tests {
		s, ok := b.Section(tt.section, env)
		if !ok {
			t.Fatalf("Section(%d) returned no section", tt.section)
		}
		if s.Group.Size != tt.size || s.Group.Items[0].Size != tt.size {
			t.Errorf("section %d group size = %v, want %v", tt.section, s.Group.Size, tt.size)
		}
		if s.Scrolling != tt.scrolling {
			t.Errorf("section %d scrolling = %v, want %v", tt.section, s.Scrolling, tt.scrolling)
		}
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	m, err := Parse([]byte(demoYAML), FormatYAML)
	if err != nil {
		t.Fatal(err)
	}

	for _, format := range []Format{FormatYAML, FormatTOML, FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			data, err := m.Encode(format)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			back, err := Parse(data, format)
			if err != nil {
				t.Fatalf("Parse(Encode()) error = %v\n%s", err, data)
			}
			if back.ItemCount() != m.ItemCount() || back.Sections[1].Custom.Kind != KindCarousel {
				t.Errorf("round trip lost data:\n%s", data)
			}
		})
	}
}

func TestLoad_Examples(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "examples", "collections", "*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatal("no example collections found")
	}

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			m, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if m.Name == "" || len(m.Sections) == 0 {
				t.Errorf("example %s has no name or sections", path)
			}
			for i := range m.Sections {
				if _, ok := m.Bridge().Section(i, m.Environment()); !ok {
					t.Errorf("section %d produced no layout", i)
				}
			}
		})
	}
}
