package configparser

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

var ErrNilDestination = errors.New("nil config destination")

const tag = "koanf"

// Options describes where configuration is read from.
type Options struct {
	// Defaults is a struct tagged with `koanf` holding fallback values.
	Defaults any
	// FilePath is an optional YAML file. A missing file is not an error.
	FilePath string
	// EnvFile is an optional dotenv file loaded into the process environment.
	// Variables already set are not overridden.
	EnvFile string
	// Sections lists the top-level keys. DATABASE_HOST maps to database.host
	// when "database" is a section; MODE maps to mode when "mode" is a section.
	// Environment variables matching no section are ignored.
	Sections []string
}

// Load fills dst with defaults, then the YAML file, then the environment.
// Later sources win.
func Load(dst any, opts Options) error {
	if dst == nil {
		return ErrNilDestination
	}

	k := koanf.New(".")

	if opts.Defaults != nil {
		if err := k.Load(structs.Provider(opts.Defaults, tag), nil); err != nil {
			return fmt.Errorf("failed to load defaults: %w", err)
		}
	}

	if opts.FilePath != "" {
		if _, err := os.Stat(opts.FilePath); err == nil {
			if err := k.Load(file.Provider(opts.FilePath), yaml.Parser()); err != nil {
				return fmt.Errorf("failed to load config file %s: %w", opts.FilePath, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("could not stat config file %s: %w", opts.FilePath, err)
		}
	}

	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load env file %s: %w", opts.EnvFile, err)
		}
	}

	if err := k.Load(env.Provider("", ".", EnvKeyMapper(opts.Sections)), nil); err != nil {
		return fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := k.Unmarshal("", dst); err != nil {
		return fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return nil
}

// EnvKeyMapper returns the env name to koanf path transform used by Load.
func EnvKeyMapper(sections []string) func(string) string {
	return func(key string) string {
		key = strings.ToLower(key)

		if slices.Contains(sections, key) {
			return key
		}

		for _, s := range sections {
			if rest, ok := strings.CutPrefix(key, s+"_"); ok && rest != "" {
				return s + "." + rest
			}
		}

		return ""
	}
}
