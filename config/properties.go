package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// Property names used by uhppoted-app-formfiles.
const (
	ServiceAccount = "serviceAccount"
	FormFilesPath  = "formFilesPath"
	Spreadsheet    = "spreadsheet"
	Range          = "range"
	Form           = "form"
)

const ENV_PREFIX = "FORMFILES_"

// Properties is a flat key/value property store loaded from a YAML file and
// overlaid with FORMFILES_* environment variables.
type Properties map[string]string

// PropertyStore is the read-only view of Properties used by the credential
// provider and the relocation handler.
type PropertyStore interface {
	Property(key string) (string, bool)
}

// Load reads the properties file at path. A missing file is only an error if
// required is set.
func Load(path string, required bool) (Properties, error) {
	properties := Properties{}

	if strings.TrimSpace(path) == "" {
		return properties, nil
	}

	bytes, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return properties, nil
		}

		return nil, fmt.Errorf("unable to read properties file %v (%v)", path, err)
	}

	if err := properties.decode(bytes); err != nil {
		return nil, fmt.Errorf("invalid properties file %v (%v)", path, err)
	}

	return properties, nil
}

// decode decodes a YAML mapping into the property store. Nested
// values (e.g. a service account key written as a YAML mapping) are stored
// as JSON.
func (p Properties) decode(bytes []byte) error {
	m := map[string]any{}
	if err := yaml.Unmarshal(bytes, &m); err != nil {
		return err
	}

	for k, v := range m {
		switch value := v.(type) {
		case nil:

		case string:
			p[k] = value

		case map[string]any, []any:
			if b, err := json.Marshal(value); err != nil {
				return fmt.Errorf("property '%v' (%v)", k, err)
			} else {
				p[k] = string(b)
			}

		default:
			p[k] = fmt.Sprintf("%v", value)
		}
	}

	return nil
}

// Overlay replaces property values with the matching FORMFILES_* environment
// variables, using lookup to read the environment.
func (p Properties) Overlay(lookup func(string) (string, bool), keys ...string) {
	for _, key := range keys {
		if v, ok := lookup(EnvName(key)); ok && strings.TrimSpace(v) != "" {
			p[key] = v
		}
	}
}

// Set overrides a property with a command line value. Blank values are ignored.
func (p Properties) Set(key, value string) {
	if strings.TrimSpace(value) != "" {
		p[key] = value
	}
}

func (p Properties) Property(key string) (string, bool) {
	v, ok := p[key]
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}

	return strings.TrimSpace(v), true
}

// EnvName converts a property name to its environment variable name e.g.
// formFilesPath -> FORMFILES_FORM_FILES_PATH.
func EnvName(key string) string {
	var b strings.Builder

	b.WriteString(ENV_PREFIX)
	for i, r := range key {
		if unicode.IsUpper(r) && i > 0 {
			b.WriteRune('_')
		}

		b.WriteRune(unicode.ToUpper(r))
	}

	return b.String()
}
