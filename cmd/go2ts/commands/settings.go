package commands

import (
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"go2ts/internal/gen"
	"go2ts/internal/mapping"
)

// EnvPrefix prefixes the environment variables that back the flags
// (GO2TS_RULES, GO2TS_OUTPUT, ...).
const EnvPrefix = "GO2TS"

// Settings are the options shared by the transpiling commands.
type Settings struct {
	Rules    []string
	Adapters []string
	Output   string
	Dir      string
	Workers  int
	NoHeader bool
	Verbose  bool
}

// addRunFlags declares the flags read by loadSettings.
func addRunFlags(fs *pflag.FlagSet) {
	fs.StringSliceP("rules", "r", nil, "Rule files (YAML or TOML), merged in order")
	fs.StringSliceP("adapters", "a", nil, "Adapter layers over the root, innermost first (default: rule file, then stdlib,embedding,docs)")
	fs.StringP("output", "o", "", "Output directory (default: stdout)")
	fs.String("dir", "", "Directory to load packages from (default: current directory)")
	fs.IntP("workers", "w", 0, "Units printed at once (default: GOMAXPROCS)")
	fs.Bool("no-header", false, "Omit the generated-code banner")
}

// newViper binds the command's flags and the GO2TS_* environment.
func newViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, errors.Wrap(err, "failed to bind flags")
	}

	return v, nil
}

func loadSettings(cmd *cobra.Command) (Settings, error) {
	v, err := newViper(cmd)
	if err != nil {
		return Settings{}, err
	}

	return Settings{
		Rules:    splitList(v.GetStringSlice("rules")),
		Adapters: splitList(v.GetStringSlice("adapters")),
		Output:   v.GetString("output"),
		Dir:      v.GetString("dir"),
		Workers:  v.GetInt("workers"),
		NoHeader: v.GetBool("no-header"),
		Verbose:  v.GetBool("verbose"),
	}, nil
}

// splitList flattens comma separated elements; environment values arrive
// as one element.
func splitList(in []string) []string {
	var out []string

	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}

	return out
}

// loadRules loads and merges the rule files; no paths yields nil.
func loadRules(paths []string) (*mapping.RuleFile, error) {
	var merged *mapping.RuleFile

	for _, path := range paths {
		rf, err := mapping.LoadFile(path)
		if err != nil {
			return nil, err
		}

		if merged == nil {
			merged = rf
			continue
		}

		merged.Merge(rf)
	}

	return merged, nil
}

// chainNames picks the layers: flags first, then the rule file, then the
// generator default. A rule file always gets the rules layer, outermost.
func chainNames(s Settings, rf *mapping.RuleFile) []string {
	names := s.Adapters

	switch {
	case len(names) > 0:
	case rf != nil && len(rf.Adapters) > 0:
		names = rf.Adapters
	default:
		names = gen.DefaultConfig().Adapters
	}

	names = slices.Clone(names)
	if rf != nil && !slices.Contains(names, "rules") {
		names = append(names, "rules")
	}

	return names
}

func generatorConfig(s Settings, rf *mapping.RuleFile) gen.Config {
	cfg := gen.DefaultConfig()
	cfg.Adapters = chainNames(s, rf)
	cfg.Rules = rf
	cfg.Workers = s.Workers
	cfg.Header = !s.NoHeader

	return cfg
}

// newLogger builds a production logger, or a development one when verbose.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize logger")
	}

	return logger, nil
}
