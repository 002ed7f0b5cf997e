package csharp

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// ErrCatalog is returned for catalogs that fail validation or linking.
var ErrCatalog = errors.New("invalid type catalog")

//go:embed wellknown.yaml
var wellKnownYAML []byte

//go:embed catalog.schema.json
var catalogSchema []byte

type catalogFile struct {
	Types []typeSpec `yaml:"types"`
}

type typeSpec struct {
	Name       string       `yaml:"name"`
	Kind       string       `yaml:"kind"`
	Keyword    string       `yaml:"keyword"`
	Abstract   bool         `yaml:"abstract"`
	Base       string       `yaml:"base"`
	Interfaces []string     `yaml:"interfaces"`
	Members    []memberSpec `yaml:"members"`
}

type memberSpec struct {
	Name   string `yaml:"name"`
	Kind   string `yaml:"kind"`
	Type   string `yaml:"type"`
	Static bool   `yaml:"static"`
}

// Catalog holds framework types known without reference metadata. A loaded
// catalog is immutable and shared by every Model.
type Catalog struct {
	types    map[string]*Type
	keywords map[string]*Type
}

var defaultCatalog = sync.OnceValues(func() (*Catalog, error) {
	return LoadCatalog(wellKnownYAML)
})

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() (*Catalog, error) {
	return defaultCatalog()
}

// LoadCatalog validates a YAML catalog against the catalog schema and links
// its types.
func LoadCatalog(data []byte) (*Catalog, error) {
	var raw any

	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalog, err)
	}

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(catalogSchema), gojsonschema.NewGoLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalog, err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}

		return nil, fmt.Errorf("%w: %s", ErrCatalog, strings.Join(msgs, "; "))
	}

	var file catalogFile

	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalog, err)
	}

	return link(file)
}

func link(file catalogFile) (*Catalog, error) {
	c := &Catalog{
		types:    make(map[string]*Type, len(file.Types)),
		keywords: make(map[string]*Type),
	}

	for _, spec := range file.Types {
		if _, dup := c.types[spec.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate type %s", ErrCatalog, spec.Name)
		}

		t := &Type{name: spec.Name, kind: typeKindNames[spec.Kind], abstract: spec.Abstract}
		c.types[spec.Name] = t

		if spec.Keyword != "" {
			c.keywords[spec.Keyword] = t
		}
	}

	ref := func(owner, name string) (*Type, error) {
		t, ok := c.types[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s references unknown type %s", ErrCatalog, owner, name)
		}

		return t, nil
	}

	for _, spec := range file.Types {
		t := c.types[spec.Name]

		var err error

		switch {
		case spec.Base != "":
			if t.base, err = ref(spec.Name, spec.Base); err != nil {
				return nil, err
			}
		case t.kind == TypeEnum:
			if t.base, err = ref(spec.Name, "System.Enum"); err != nil {
				return nil, err
			}
		}

		for _, name := range spec.Interfaces {
			i, err := ref(spec.Name, name)
			if err != nil {
				return nil, err
			}

			t.interfaces = append(t.interfaces, i)
		}

		for _, ms := range spec.Members {
			m := &Member{
				name:   spec.Name + "." + ms.Name,
				simple: ms.Name,
				kind:   memberKindNames[ms.Kind],
				static: ms.Static,
				owner:  t,
			}

			switch {
			case t.kind == TypeEnum:
				m.static = true
				m.typ = t
			case ms.Type != "":
				if m.typ, err = ref(m.name, ms.Type); err != nil {
					return nil, err
				}
			}

			t.addMember(m)
		}
	}

	return c, nil
}

// Lookup returns the type with the qualified name, or nil.
func (c *Catalog) Lookup(name string) *Type {
	return c.types[name]
}

// Keyword returns the type a predefined type keyword such as int names.
func (c *Catalog) Keyword(kw string) *Type {
	return c.keywords[kw]
}

// Names returns every qualified type name, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.types))
	for name := range c.types {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}
