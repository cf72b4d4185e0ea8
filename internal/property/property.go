// Package property derives predicate IRIs from JSON object keys.
package property

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/mcncl/json2rdf/internal/errors"
)

// DefaultNamespace prefixes every predicate when no namespace is configured.
const DefaultNamespace = "https://decisym.ai/json2rdf/model"

// Separator joins the namespace and the key.
const Separator = "/"

// KeyCase selects how a key is rewritten before it is appended to the
// namespace.
type KeyCase string

const (
	KeyCaseNone       KeyCase = "none"
	KeyCaseCamel      KeyCase = "camel"
	KeyCaseLowerCamel KeyCase = "lower_camel"
	KeyCaseSnake      KeyCase = "snake"
	KeyCaseKebab      KeyCase = "kebab"
)

// ParseKeyCase validates s as a KeyCase. The empty string means KeyCaseNone.
func ParseKeyCase(s string) (KeyCase, error) {
	switch KeyCase(s) {
	case "", KeyCaseNone:
		return KeyCaseNone, nil
	case KeyCaseCamel, KeyCaseLowerCamel, KeyCaseSnake, KeyCaseKebab:
		return KeyCase(s), nil
	}
	return "", fmt.Errorf("unknown key case %q", s)
}

// Apply rewrites key according to c.
func (c KeyCase) Apply(key string) string {
	switch c {
	case KeyCaseCamel:
		return strcase.ToCamel(key)
	case KeyCaseLowerCamel:
		return strcase.ToLowerCamel(key)
	case KeyCaseSnake:
		return strcase.ToSnake(key)
	case KeyCaseKebab:
		return strcase.ToKebab(key)
	default:
		return key
	}
}

// Resolver turns JSON keys into predicate IRIs under one namespace. The same
// namespace is used at every nesting depth.
type Resolver struct {
	namespace string
	keyCase   KeyCase
	mappings  map[string]string
	skip      func(key string) bool
	validate  bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithKeyCase rewrites keys before they are joined to the namespace.
func WithKeyCase(c KeyCase) Option {
	return func(r *Resolver) { r.keyCase = c }
}

// WithMappings replaces specific keys with fixed local names. Mapped names are
// used verbatim and bypass the key case.
func WithMappings(m map[string]string) Option {
	return func(r *Resolver) { r.mappings = m }
}

// WithSkip marks keys whose values are left out of the graph.
func WithSkip(skip func(key string) bool) Option {
	return func(r *Resolver) { r.skip = skip }
}

// WithValidation turns the IRI check on resolved predicates on or off.
func WithValidation(validate bool) Option {
	return func(r *Resolver) { r.validate = validate }
}

// NewResolver creates a Resolver for namespace, falling back to
// DefaultNamespace when it is empty. The namespace must be an absolute IRI.
func NewResolver(namespace string, opts ...Option) (*Resolver, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	r := &Resolver{
		namespace: namespace,
		keyCase:   KeyCaseNone,
		validate:  true,
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := ValidateIRI(namespace); err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("namespace '%s' is not a valid IRI", namespace), err)
	}
	return r, nil
}

// Namespace returns the namespace predicates are built under.
func (r *Resolver) Namespace() string { return r.namespace }

// Skipped reports whether values under key should be left out.
func (r *Resolver) Skipped(key string) bool {
	return r.skip != nil && r.skip(key)
}

// Resolve returns the predicate IRI for key. When validation is enabled a key
// that does not produce a valid IRI returns an error wrapping
// errors.ErrInvalidIRI; keys are never escaped or sanitized.
func (r *Resolver) Resolve(key string) (string, error) {
	local, mapped := r.mappings[key]
	if !mapped {
		local = r.keyCase.Apply(key)
	}

	iri := Join(r.namespace, local)
	if r.validate {
		if err := ValidateIRI(iri); err != nil {
			return "", errors.NewConversionError(fmt.Sprintf("key %q does not form a valid predicate IRI", key), err)
		}
	}
	return iri, nil
}

// Join concatenates namespace and key with a single separator.
func Join(namespace, key string) string {
	if strings.HasSuffix(namespace, Separator) {
		return namespace + key
	}
	return namespace + Separator + key
}

// ValidateIRI checks that iri is absolute and contains no character that is
// forbidden inside an N-Triples IRI reference.
func ValidateIRI(iri string) error {
	if iri == "" {
		return fmt.Errorf("%w: empty IRI", errors.ErrInvalidIRI)
	}

	for i, r := range iri {
		if r <= 0x20 {
			return fmt.Errorf("%w: control or space character at position %d in %q", errors.ErrInvalidIRI, i, iri)
		}
		switch r {
		case '<', '>', '"', '{', '}', '|', '^', '`', '\\':
			return fmt.Errorf("%w: character %q at position %d in %q", errors.ErrInvalidIRI, r, i, iri)
		}
	}

	parsed, err := url.Parse(iri)
	if err != nil {
		return fmt.Errorf("%w: %s", errors.ErrInvalidIRI, err.Error())
	}
	if parsed.Scheme == "" {
		return fmt.Errorf("%w: missing scheme in %q", errors.ErrInvalidIRI, iri)
	}
	return nil
}
