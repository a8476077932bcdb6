package mapping

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a rule file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatOf returns the format implied by a file name; unknown extensions
// are read as YAML.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}

	return FormatYAML
}

// LoadFile loads and parses a rule file.
func LoadFile(path string) (*RuleFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading rule file %s", path)
	}

	var rf *RuleFile

	switch FormatOf(path) {
	case FormatTOML:
		rf, err = ParseTOML(data)
	default:
		rf, err = Parse(data)
	}

	if err != nil {
		return nil, errors.Wrapf(err, "loading rule file %s", path)
	}

	return rf, nil
}

// Parse parses YAML data.
func Parse(data []byte) (*RuleFile, error) {
	var rf RuleFile

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&rf); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "parsing rule YAML")
	}

	applyDefaults(&rf)

	return &rf, nil
}

// ParseTOML parses TOML data. The document is re-encoded as YAML so that
// both formats share one decoder and its string-or-list rules.
func ParseTOML(data []byte) (*RuleFile, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parsing rule TOML")
	}

	if len(doc) == 0 {
		rf := &RuleFile{}
		applyDefaults(rf)

		return rf, nil
	}

	converted, err := yaml.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "converting rule TOML")
	}

	return Parse(converted)
}

func applyDefaults(rf *RuleFile) {
	if rf.Version == "" {
		rf.Version = CurrentVersion
	}

	if rf.TypeMappings == nil {
		rf.TypeMappings = make(map[string]string)
	}
}

// Marshal serializes a rule file in the given format.
func Marshal(rf *RuleFile, format Format) ([]byte, error) {
	if format != FormatTOML {
		return yaml.Marshal(rf)
	}

	// round-trip through a generic document so that TOML sees the YAML
	// field names
	data, err := yaml.Marshal(rf)
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	return toml.Marshal(doc)
}

// WriteFile writes a rule file in the format implied by path.
func WriteFile(rf *RuleFile, path string) error {
	data, err := Marshal(rf, FormatOf(path))
	if err != nil {
		return errors.Wrap(err, "marshaling rule file")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing rule file %s", path)
	}

	return nil
}

// Merge appends the rules of other to rf: lists are concatenated so that
// other's entries take precedence, type mappings of other replace those of
// rf.
func (rf *RuleFile) Merge(other *RuleFile) {
	if other == nil {
		return
	}

	if len(other.Adapters) > 0 {
		rf.Adapters = other.Adapters
	}

	if rf.TypeMappings == nil {
		rf.TypeMappings = make(map[string]string)
	}

	for k, v := range other.TypeMappings {
		rf.TypeMappings[k] = v
	}

	rf.Annotations = append(rf.Annotations, other.Annotations...)
	rf.ErasedTypes = append(rf.ErasedTypes, other.ErasedTypes...)
	rf.Calls = append(rf.Calls, other.Calls...)
}
