// Package seed loads the demo collections shipped with the console.
package seed

import (
	"bytes"
	_ "embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-faster/errors"
	"gopkg.in/yaml.v3"

	"github.com/simple-lms/console/modules/core/domain/entities/department"
	"github.com/simple-lms/console/modules/core/domain/entities/location"
	"github.com/simple-lms/console/modules/core/domain/entities/role"
	"github.com/simple-lms/console/modules/core/domain/entities/user"
	"github.com/simple-lms/console/modules/documents/domain/entities/doctype"
	"github.com/simple-lms/console/modules/documents/domain/entities/record"
	"github.com/simple-lms/console/modules/documents/domain/entities/recordtype"
	"github.com/simple-lms/console/modules/documents/domain/entities/template"
)

//go:embed data/seed.yaml
var defaultSeed []byte

// Data is the full set of seedable collections.
type Data struct {
	Locations     []location.Location     `yaml:"locations" toml:"locations"`
	Departments   []department.Department `yaml:"departments" toml:"departments"`
	Roles         []role.Role             `yaml:"roles" toml:"roles"`
	Users         []user.User             `yaml:"users" toml:"users"`
	DocumentTypes []doctype.DocumentType  `yaml:"documentTypes" toml:"documentTypes"`
	RecordTypes   []recordtype.RecordType `yaml:"recordTypes" toml:"recordTypes"`
	Templates     []template.Template     `yaml:"templates" toml:"templates"`
	Records       []record.Record         `yaml:"records" toml:"records"`
}

// Default returns the embedded demo data.
func Default() (*Data, error) {
	return Parse(defaultSeed, "yaml")
}

// Load reads path, choosing the decoder by extension. An empty path loads
// the embedded data.
func Load(path string) (*Data, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read seed %s", path)
	}
	return Parse(raw, strings.TrimPrefix(filepath.Ext(path), "."))
}

// Parse decodes raw as yaml (yml) or toml.
func Parse(raw []byte, format string) (*Data, error) {
	var data Data
	switch strings.ToLower(format) {
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(&data); err != nil {
			return nil, errors.Wrap(err, "decode yaml seed")
		}
	case "toml":
		if _, err := toml.Decode(string(raw), &data); err != nil {
			return nil, errors.Wrap(err, "decode toml seed")
		}
	default:
		return nil, errors.Errorf("unsupported seed format %q", format)
	}
	return &data, nil
}
