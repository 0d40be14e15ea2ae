package ppadl

// Option configures an Engine at creation time.
type Option func(*engineConfig)

type engineConfig struct {
	catalogPath string
	strict      bool
	trailPath   string
}

// WithCatalog loads an event catalogue YAML file over the compiled-in
// defaults.
func WithCatalog(path string) Option {
	return func(c *engineConfig) { c.catalogPath = path }
}

// WithStrictCatalog makes Raise reject events the catalogue does not know
// and argument tuples whose arity disagrees with the catalogue.
func WithStrictCatalog() Option {
	return func(c *engineConfig) { c.strict = true }
}

// WithRecorder writes every delivered or aborted event to a hash-chained
// JSONL trail at path. Catalogue-declared sensitive argument positions are
// masked before recording.
func WithRecorder(path string) Option {
	return func(c *engineConfig) { c.trailPath = path }
}

// ContextOption configures a single execution context.
type ContextOption func(*contextConfig)

type contextConfig struct {
	session string
}

// WithSessionID overrides the generated session identifier used in trail
// entries for this context.
func WithSessionID(id string) ContextOption {
	return func(c *contextConfig) { c.session = id }
}
