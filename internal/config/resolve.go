package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/vinayprograms/tanager/internal/apperr"
)

// Optional is a value that may be absent. A present zero value (false, "")
// is distinct from an absent one.
type Optional[T any] struct {
	Value T
	Set   bool
}

// Some returns a present value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// None returns an absent value.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// NonEmpty treats the empty string as absent.
func NonEmpty(s string) Optional[string] {
	return Optional[string]{Value: s, Set: s != ""}
}

// FirstPresent returns the first value that is set, in argument order.
func FirstPresent[T any](vals ...Optional[T]) (T, bool) {
	for _, v := range vals {
		if v.Set {
			return v.Value, true
		}
	}
	var zero T
	return zero, false
}

// LookupEnv matches os.LookupEnv so tests can pass a fixed environment.
type LookupEnv func(key string) (string, bool)

// CLIArgs are the values taken from the command line.
type CLIArgs struct {
	ConfigFile Optional[string]
	EditorCmd  Optional[string]
	EditRecent bool
	Pwd        bool
	List       bool
	Show       bool
	Browse     bool
}

// Resolve builds the config for one invocation. Precedence is command line,
// then file, then environment defaults ($VISUAL before $EDITOR, as git does).
func Resolve(args CLIArgs, env LookupEnv) (*Config, error) {
	if env == nil {
		env = os.LookupEnv
	}

	path, err := ConfigPath(args, env)
	if err != nil {
		return nil, err
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if err := Merge(cfg, args, env); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigPath picks the config file: -c, then $TANAGER_CONFIG, then
// DefaultConfigPath. The result is tilde-expanded.
func ConfigPath(args CLIArgs, env LookupEnv) (string, error) {
	path, _ := FirstPresent(args.ConfigFile, envValue(env, "TANAGER_CONFIG"), Some(DefaultConfigPath))
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("%w: config path %q: %v", apperr.ErrConfig, path, err)
	}
	return expanded, nil
}

// Merge layers the command line and environment over a loaded file config,
// fills defaults and validates the result.
func Merge(cfg *Config, args CLIArgs, env LookupEnv) error {
	if env == nil {
		env = os.LookupEnv
	}

	cfg.EditorCmd, _ = FirstPresent(
		args.EditorCmd,
		NonEmpty(cfg.EditorCmd),
		envValue(env, "VISUAL"),
		envValue(env, "EDITOR"),
	)
	cfg.EditorCmd = expandEnv(cfg.EditorCmd, env)

	for name, nb := range cfg.Notebooks {
		nb.Path = expandEnv(nb.Path, env)
		cfg.Notebooks[name] = nb
	}

	cfg.EditRecent = args.EditRecent
	cfg.Pwd = args.Pwd
	cfg.List = args.List
	cfg.Show = args.Show
	cfg.Browse = args.Browse

	cfg.applyDefaults()
	return cfg.Validate()
}

func envValue(env LookupEnv, key string) Optional[string] {
	v, ok := env(key)
	if !ok {
		return None[string]()
	}
	return NonEmpty(v)
}

// expandEnv replaces $VAR and ${VAR} references using env.
func expandEnv(s string, env LookupEnv) string {
	if !strings.Contains(s, "$") {
		return s
	}
	return os.Expand(s, func(key string) string {
		v, _ := env(key)
		return v
	})
}
