// Package legacyinit adapts keyword-only initializers so that legacy call
// shapes keep working: positional arguments, deprecated keyword aliases and
// non-standard defaults are translated into keywords, and each legacy shape
// emits a deprecation warning attributed to the caller.
package legacyinit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/specialistvlad/nsoverlay/internal/warning"
)

// Kwargs holds keyword arguments.
type Kwargs map[string]any

type config struct {
	ignore     []string
	aliases    map[string]string
	defaults   map[string]any
	category   warning.Category
	stacklevel int
	emitter    *warning.Emitter
}

// Option configures Wrap.
type Option func(*config)

// Ignore drops the named keywords before calling the canonical initializer.
// They are expected to be consumed elsewhere.
func Ignore(names ...string) Option {
	return func(c *config) { c.ignore = append(c.ignore, names...) }
}

// Aliases maps canonical keyword names to their deprecated aliases.
func Aliases(aliases map[string]string) Option {
	return func(c *config) { c.aliases = aliases }
}

// Defaults supplies values for keywords the caller did not pass.
func Defaults(defaults map[string]any) Option {
	return func(c *config) { c.defaults = defaults }
}

// Category sets the category of emitted warnings.
func Category(cat warning.Category) Option {
	return func(c *config) { c.category = cat }
}

// StackLevel sets the warning stack level relative to the wrapped
// initializer; the default of 2 attributes warnings to its caller.
func StackLevel(n int) Option {
	return func(c *config) { c.stacklevel = n }
}

// Emitter sets where warnings go.
func Emitter(e *warning.Emitter) Option {
	return func(c *config) { c.emitter = e }
}

// Wrap returns an initializer accepting positional and keyword arguments that
// forwards keywords only to canonical. argNames orders the positional
// parameters; positional values beyond it are dropped.
func Wrap[T any](canonical func(self T, kw Kwargs) error, argNames []string, opts ...Option) func(self T, args []any, kw Kwargs) error {
	c := &config{category: warning.Deprecation, stacklevel: 2}
	for _, opt := range opts {
		opt(c)
	}
	names := append([]string(nil), argNames...)
	canonicalKeys := make([]string, 0, len(c.aliases))
	for k := range c.aliases {
		canonicalKeys = append(canonicalKeys, k)
	}
	sort.Strings(canonicalKeys)
	defaultKeys := make([]string, 0, len(c.defaults))
	for k := range c.defaults {
		defaultKeys = append(defaultKeys, k)
	}
	sort.Strings(defaultKeys)

	return func(self T, args []any, kw Kwargs) error {
		merged := make(Kwargs, len(args)+len(kw))

		if len(args) > 0 {
			n := min(len(args), len(names))
			c.emitter.Warn(c.category, fmt.Sprintf(
				"Using positional arguments with the constructor has been deprecated. "+
					"Please specify keyword(s) for \"%s\" or use a class specific constructor.",
				strings.Join(names[:n], ", ")), c.stacklevel)
			for i := 0; i < n; i++ {
				merged[names[i]] = args[i]
			}
		}
		for k, v := range kw {
			merged[k] = v
		}

		var usedKeys, usedAliases []string
		for _, key := range canonicalKeys {
			alias := c.aliases[key]
			if v, ok := merged[alias]; ok {
				delete(merged, alias)
				merged[key] = v
				usedKeys = append(usedKeys, key)
				usedAliases = append(usedAliases, alias)
			}
		}
		if len(usedKeys) > 0 {
			c.emitter.Warn(c.category, fmt.Sprintf(
				"The keyword(s) \"%s\" have been deprecated in favor of \"%s\" respectively.",
				strings.Join(usedAliases, ", "), strings.Join(usedKeys, ", ")), c.stacklevel)
		}

		var usedDefaults []string
		for _, key := range defaultKeys {
			if _, ok := merged[key]; !ok {
				merged[key] = c.defaults[key]
				usedDefaults = append(usedDefaults, fmt.Sprintf("%s=%v", key, c.defaults[key]))
			}
		}
		if len(usedDefaults) > 0 {
			c.emitter.Warn(c.category, fmt.Sprintf(
				"Initializer is relying on deprecated non-standard defaults. "+
					"Please update to explicitly use: %s", strings.Join(usedDefaults, ", ")), c.stacklevel)
		}

		for _, key := range c.ignore {
			delete(merged, key)
		}

		return canonical(self, merged)
	}
}
