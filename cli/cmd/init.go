package cmd

import (
	"context"
	"log/slog"
	"os"
	"reflect"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/calc/log"
	"github.com/ardnew/calc/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// configIgnore lists flag name prefixes never written to the configuration
// file.
var configIgnore = []string{"help", "source", profile.Tag}

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	confPath := kongVar(ctx, ConfigIdentifier)
	if confPath == "" {
		return ErrWriteConfig.Wrap(os.ErrInvalid)
	}

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	data, err := yaml.MarshalContext(ctx, configValues(kongContextFrom(ctx)),
		yaml.Indent(defaultConfigIndent),
	)
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	err = os.WriteFile(confPath, data, 0o600)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// configValues collects the current value of every top-level flag. Flags in
// a group whose names carry the group key as a prefix are nested under that
// key, so "log-level" is written as log: {level: ...}.
func configValues(ktx *kong.Context) map[string]any {
	values := make(map[string]any)

	if ktx == nil || ktx.Model == nil {
		return values
	}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || ignored(flag.Name) {
			continue
		}

		val := configValue(ktx.FlagValue(flag))
		if val == nil {
			continue
		}

		if flag.Group != nil {
			if name, ok := strings.CutPrefix(flag.Name, flag.Group.Key+"-"); ok {
				group, _ := values[flag.Group.Key].(map[string]any)
				if group == nil {
					group = make(map[string]any)
					values[flag.Group.Key] = group
				}

				group[name] = val

				continue
			}
		}

		values[flag.Name] = val
	}

	return values
}

func ignored(name string) bool {
	for _, prefix := range configIgnore {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}

	return false
}

// configValue normalizes a flag value for YAML. Empty strings and empty
// slices yield nil. Named string types such as enum wrappers become plain
// strings.
func configValue(val any) any {
	if val == nil {
		return nil
	}

	v := reflect.ValueOf(val)

	switch v.Kind() {
	case reflect.String:
		if v.Len() == 0 {
			return nil
		}

		return v.String()

	case reflect.Slice:
		if v.Len() == 0 {
			return nil
		}

		return val

	default:
		return val
	}
}
