package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/flowbridge/pkg/core/flow"
	"github.com/matzehuels/flowbridge/pkg/errors"
)

// Format is a manifest encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// ParseFormat parses a format name or MIME type.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	switch s {
	case "yaml", "yml", "application/yaml", "application/x-yaml", "text/yaml":
		return FormatYAML, nil
	case "toml", "application/toml":
		return FormatTOML, nil
	case "json", "application/json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported manifest format %q", s)
}

// Detect returns the format implied by a manifest filename.
func Detect(filename string) (Format, error) {
	if err := errors.ValidateManifestFilename(filepath.Base(filename)); err != nil {
		return "", err
	}
	return ParseFormat(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	format, err := Detect(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read manifest %s", path)
	}
	return Parse(data, format)
}

// Parse decodes and validates a manifest. Unknown fields are rejected.
func Parse(data []byte, format Format) (*Manifest, error) {
	var m Manifest
	if err := decode(data, format, &m); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func decode(data []byte, format Format, m *Manifest) error {
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(m); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode yaml manifest")
		}
	case FormatTOML:
		md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(m)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode toml manifest")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return errors.New(errors.ErrCodeInvalidManifest, "unknown manifest field %q", undecoded[0].String())
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(m); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode json manifest")
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported manifest format %q", format)
	}
	return nil
}

// Encode writes m in the given format.
func (m *Manifest) Encode(format Format) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
	case FormatTOML:
		if err := toml.NewEncoder(&buf).Encode(m); err != nil {
			return nil, err
		}
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(m); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported manifest format %q", format)
	}
	return buf.Bytes(), nil
}

// Validate checks counts, names and every dimension in the manifest.
func (m *Manifest) Validate() error {
	if err := errors.ValidateName(m.Name); err != nil {
		return err
	}

	if len(m.Sections) > MaxSections {
		return errors.New(errors.ErrCodeInvalidManifest, "too many sections (got %d, max %d)", len(m.Sections), MaxSections)
	}

	var dims []dim
	dims = append(dims,
		dim{"container.width", m.Container.Width},
		dim{"container.height", m.Container.Height},
	)
	dims = appendInsets(dims, "container.insets", &m.Container.Insets)

	d := m.Defaults
	dims = appendSize(dims, "defaults.item_size", d.ItemSize)
	dims = appendSize(dims, "defaults.estimated_item_size", d.EstimatedItemSize)
	dims = appendFloat(dims, "defaults.interitem_spacing", d.InteritemSpacing)
	dims = appendFloat(dims, "defaults.line_spacing", d.LineSpacing)
	dims = appendInsets(dims, "defaults.section_inset", d.SectionInset)
	dims = appendSize(dims, "defaults.header_size", d.HeaderSize)
	dims = appendSize(dims, "defaults.footer_size", d.FooterSize)

	var total int
	for i := range m.Sections {
		s := &m.Sections[i]
		p := fmt.Sprintf("sections[%d]", i)

		if err := errors.ValidateName(s.Name); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidManifest, err, "%s.name", p)
		}
		if s.Items < 0 {
			return errors.New(errors.ErrCodeInvalidManifest, "%s.items cannot be negative (got %d)", p, s.Items)
		}
		if s.Items > MaxItemsPerSection {
			return errors.New(errors.ErrCodeInvalidManifest, "%s.items exceeds %d (got %d)", p, MaxItemsPerSection, s.Items)
		}
		total += s.Items
		if total > MaxItems {
			return errors.New(errors.ErrCodeInvalidManifest, "manifest has more than %d items", MaxItems)
		}

		for j := range s.ItemSizes {
			dims = appendSize(dims, fmt.Sprintf("%s.item_sizes[%d]", p, j), &s.ItemSizes[j])
		}
		dims = appendSize(dims, p+".item_size", s.ItemSize)
		dims = appendFloat(dims, p+".interitem_spacing", s.InteritemSpacing)
		dims = appendFloat(dims, p+".line_spacing", s.LineSpacing)
		dims = appendInsets(dims, p+".inset", s.Inset)
		dims = appendSize(dims, p+".header_size", s.HeaderSize)
		dims = appendSize(dims, p+".footer_size", s.FooterSize)

		if c := s.Custom; c != nil {
			if !slices.Contains(CustomKinds, c.Kind) {
				return errors.New(errors.ErrCodeInvalidManifest, "%s.custom.kind must be one of %s (got %q)", p, strings.Join(CustomKinds, ", "), c.Kind)
			}
			if _, ok := flow.ParseScrollingBehavior(c.Scrolling); !ok {
				return errors.New(errors.ErrCodeInvalidManifest, "%s.custom.scrolling: unknown behavior %q", p, c.Scrolling)
			}
			dims = appendSize(dims, p+".custom.item_size", &c.ItemSize)
			dims = append(dims, dim{p + ".custom.group_spacing", c.GroupSpacing})
			dims = appendInsets(dims, p+".custom.inset", &c.Inset)
		}
	}

	for _, d := range dims {
		if err := errors.ValidateDimension(d.field, d.value); err != nil {
			return err
		}
	}
	return nil
}

type dim struct {
	field string
	value float64
}

func appendFloat(dims []dim, field string, v *float64) []dim {
	if v == nil {
		return dims
	}
	return append(dims, dim{field, *v})
}

func appendSize(dims []dim, field string, s *flow.Size) []dim {
	if s == nil {
		return dims
	}
	return append(dims, dim{field + ".width", s.Width}, dim{field + ".height", s.Height})
}

func appendInsets(dims []dim, field string, in *flow.Insets) []dim {
	if in == nil {
		return dims
	}
	return append(dims,
		dim{field + ".top", in.Top},
		dim{field + ".leading", in.Leading},
		dim{field + ".bottom", in.Bottom},
		dim{field + ".trailing", in.Trailing},
	)
}
