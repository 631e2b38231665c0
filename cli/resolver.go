package cli

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/calc/log"
)

// resolve is a [kong.ConfigurationLoader] for YAML configuration files.
//
// Nested mappings are flattened into hyphenated flag names, so
//
//	log:
//	  level: debug
//	notation: scientific
//	max-depth: 64
//
// is equivalent to --log-level=debug --notation=scientific --max-depth=64.
// Keys may also use underscores in place of hyphens. An empty or
// malformed file resolves nothing, leaving every flag at its default.
func resolve(r io.Reader) (kong.Resolver, error) {
	return load(r, configYAML, func(r io.Reader, doc *map[string]any) error {
		return yaml.NewDecoder(r).Decode(doc)
	})
}

// resolveJSON is a [kong.ConfigurationLoader] for JSON configuration files.
// Objects are flattened and keys matched exactly as by [resolve].
func resolveJSON(r io.Reader) (kong.Resolver, error) {
	return load(r, configJSON, func(r io.Reader, doc *map[string]any) error {
		return json.NewDecoder(r).Decode(doc)
	})
}

func load(
	r io.Reader,
	name string,
	decode func(io.Reader, *map[string]any) error,
) (kong.Resolver, error) {
	var doc map[string]any

	err := decode(r, &doc)
	if err != nil && !errors.Is(err, io.EOF) {
		log.Warn("ignoring configuration file",
			slog.String("file", name),
			slog.Any("error", err),
		)

		return config{}, nil
	}

	cfg := make(config)
	cfg.flatten("", doc)

	return cfg, nil
}

// config implements [kong.Resolver] over flattened YAML values.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	if value, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}

// flatten stores every leaf of m under its key path joined with hyphens.
func (c config) flatten(prefix string, m map[string]any) {
	for key, value := range m {
		if prefix != "" {
			key = prefix + "-" + key
		}

		if nested, ok := value.(map[string]any); ok {
			c.flatten(key, nested)

			continue
		}

		c[key] = scalar(value)
	}
}

// scalar converts decoded numbers to strings for kong's mappers. Other values
// are returned unchanged.
func scalar(value any) any {
	switch v := value.(type) {
	case uint64:
		return strconv.FormatUint(v, 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return value
	}
}
