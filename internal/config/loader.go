package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Load reads the server configuration from the environment, applies
// defaults and validates the result. DATABASE_URL and OMO_PASSWORD are
// required.
func Load() (*Config, error) {
	return load(true)
}

// LoadStandalone is Load for tools that may run without a database, such as
// msectl in memory mode. DATABASE_URL and OMO_PASSWORD become optional.
func LoadStandalone() (*Config, error) {
	return load(false)
}

func load(server bool) (*Config, error) {
	cfg := &Config{}
	if err := populate(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	if err := cfg.validate(server); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// envTag is the parsed env/envAlt/default/required tag set of one field.
type envTag struct {
	name, alt, def string
	required       bool
}

func parseTag(f reflect.StructField) (envTag, bool) {
	name := f.Tag.Get("env")
	if name == "" {
		return envTag{}, false
	}
	return envTag{
		name:     name,
		alt:      f.Tag.Get("envAlt"),
		def:      f.Tag.Get("default"),
		required: f.Tag.Get("required") == "true",
	}, true
}

// resolve returns the raw value for the tag: primary variable, then the
// alternate, then the default.
func (t envTag) resolve() (string, error) {
	if v := os.Getenv(t.name); v != "" {
		return v, nil
	}
	if t.alt != "" {
		if v := os.Getenv(t.alt); v != "" {
			return v, nil
		}
	}
	if t.required {
		return "", fmt.Errorf("required environment variable %s is not set", t.name)
	}
	return t.def, nil
}

var durationType = reflect.TypeOf(time.Duration(0))

// populate walks the section structs and fills every tagged field.
func populate(v reflect.Value) error {
	t := v.Type()
	for i := range t.NumField() {
		sf, fv := t.Field(i), v.Field(i)
		if !fv.CanSet() {
			continue
		}
		if sf.Type.Kind() == reflect.Struct {
			if err := populate(fv); err != nil {
				return err
			}
			continue
		}

		tag, ok := parseTag(sf)
		if !ok {
			continue
		}
		raw, err := tag.resolve()
		if err != nil {
			return err
		}
		if raw == "" {
			continue
		}
		if err := assign(fv, raw); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", tag.name, raw, err)
		}
	}
	return nil
}

// assign parses raw into the field's type.
func assign(fv reflect.Value, raw string) error {
	switch {
	case fv.Type() == durationType:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		fv.SetInt(int64(d))
	case fv.Kind() == reflect.String:
		fv.SetString(raw)
	case fv.Kind() == reflect.Int:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return err
		}
		fv.SetInt(int64(n))
	case fv.Kind() == reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		fv.SetBool(b)
	case fv.Kind() == reflect.Slice && fv.Type().Elem().Kind() == reflect.String:
		fv.Set(reflect.ValueOf(splitList(raw)))
	case fv.Kind() == reflect.Slice && fv.Type().Elem().Kind() == reflect.Int:
		items := splitList(raw)
		nums := make([]int, len(items))
		for i, s := range items {
			n, err := strconv.Atoi(s)
			if err != nil {
				return fmt.Errorf("list element %q is not an integer", s)
			}
			nums[i] = n
		}
		fv.Set(reflect.ValueOf(nums))
	default:
		return fmt.Errorf("unsupported field type %s", fv.Type())
	}
	return nil
}

// splitList splits a comma-separated value and drops empty entries.
// Surrounding brackets are tolerated so "[1, 2, 3]" parses like "1,2,3".
func splitList(raw string) []string {
	raw = strings.Trim(strings.TrimSpace(raw), "[]")
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if out == nil {
		out = []string{}
	}
	return out
}
