package adapters

import (
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"go2ts/internal/adapter"
	"go2ts/internal/mapping"
	"go2ts/internal/match"
)

// RootName names the root layer. Build always starts from it.
const RootName = "typescript"

// ErrUnknownAdapter is returned by Build for a layer name it does not know.
var ErrUnknownAdapter = errors.New("unknown adapter")

type options struct {
	logger *zap.Logger
	rules  *mapping.RuleFile
}

// Option configures Build.
type Option func(*options)

// WithLogger logs the composed layers to l.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRules gives the rules layer its rule file.
func WithRules(rf *mapping.RuleFile) Option {
	return func(o *options) {
		o.rules = rf
	}
}

type builder struct {
	description string
	build       func(parent adapter.Adapter, o *options) (adapter.Adapter, error)
}

var builders = map[string]builder{
	"stdlib": {
		description: "lowers strings, math, strconv, fmt, errors, sort and time onto the JavaScript runtime",
		build: func(parent adapter.Adapter, _ *options) (adapter.Adapter, error) {
			s, err := NewStdlib(parent)
			if err != nil {
				return nil, err
			}

			return s, nil
		},
	},
	"embedding": {
		description: "drops embedded types declared outside the module",
		build: func(parent adapter.Adapter, _ *options) (adapter.Adapter, error) {
			e, err := NewEmbedding(parent)
			if err != nil {
				return nil, err
			}

			return e, nil
		},
	},
	"docs": {
		description: "rewrites doc comments as TSDoc",
		build: func(parent adapter.Adapter, _ *options) (adapter.Adapter, error) {
			d, err := NewDocs(parent)
			if err != nil {
				return nil, err
			}

			return d, nil
		},
	},
	"rules": {
		description: "applies the type mappings, annotations and call templates of the rule file",
		build: func(parent adapter.Adapter, o *options) (adapter.Adapter, error) {
			r, err := NewRules(parent, o.rules)
			if err != nil {
				return nil, err
			}

			return r, nil
		},
	},
}

// Names returns the names of the optional layers, sorted.
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Describe returns a one-line description of the named layer.
func Describe(name string) (string, bool) {
	if name == RootName {
		return "root layer: predeclared types, builtins, conversions and maps", true
	}

	b, ok := builders[name]

	return b.description, ok
}

// Build creates the root layer on ctx and stacks the named layers over it,
// innermost first. The outermost layer is returned. Listing the root is
// allowed and has no effect.
func Build(ctx *adapter.Context, names []string, opts ...Option) (adapter.Adapter, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	root, err := NewTypeScript(ctx)
	if err != nil {
		return nil, err
	}

	factories := make([]adapter.Factory, 0, len(names))

	for _, name := range names {
		if name == RootName {
			continue
		}

		b, ok := builders[name]
		if !ok {
			return nil, unknownAdapter(name)
		}

		factories = append(factories, func(parent adapter.Adapter) (adapter.Adapter, error) {
			layer, err := b.build(parent, &o)
			if err != nil {
				return nil, errors.Wrapf(err, "building adapter %q", name)
			}

			o.logger.Debug("adapter layer composed",
				zap.String("adapter", name),
				zap.Int("depth", adapter.Depth(layer)))

			return layer, nil
		})
	}

	return adapter.Compose(root, factories...)
}

func unknownAdapter(name string) error {
	err := errors.Wrapf(ErrUnknownAdapter, "%q", name)

	if suggestions := match.Suggest(name, Names(), 1); len(suggestions) > 0 {
		err = errors.WithHintf(err, "did you mean %q?", suggestions[0])
	}

	return errors.WithHintf(err, "available adapters: %s", strings.Join(Names(), ", "))
}
