// Package limits defines the resource-bound configuration record shared by
// table construction and the parser driver. It is kept dependency-free so
// that the build/parse core never needs to import the TOML/fsnotify stack
// that internal/config wraps around it.
package limits

// Limits are the resource bounds spec.md §5 and §4.4 require be
// configurable rather than hardcoded.
type Limits struct {
	// MaxTokenCount bounds the number of tokens (trailing DOLLAR included) a
	// single Parse/ParseStreaming call will accept as input. Lexing itself
	// is not bounded by it.
	MaxTokenCount int `toml:"max_token_count"`

	// MaxStackDepth bounds the parser driver's state-stack depth.
	MaxStackDepth int `toml:"max_stack_depth"`

	// MaxParsingSteps bounds the number of shift/reduce loop iterations.
	MaxParsingSteps int `toml:"max_parsing_steps"`

	// MaxStatesDuringBuild bounds the number of automaton states the table
	// builder may create before aborting as pathological.
	MaxStatesDuringBuild int `toml:"max_states_during_build"`

	// MaxMergeIterationsPerState bounds how many times a single state may be
	// re-enqueued for lookahead propagation during LALR kernel merging.
	MaxMergeIterationsPerState int `toml:"max_merge_iterations_per_state"`

	// MaxConcurrentParses bounds the worker pool size used by ParseMany.
	MaxConcurrentParses int `toml:"max_concurrent_parses"`
}

// Default returns the hardcoded defaults used when no config file is
// supplied, per spec.md §4.4's "hard cap on merge-reinsertions per state
// (e.g., 20) and total iterations (e.g., 50×|states|)".
func Default() Limits {
	return Limits{
		MaxTokenCount:              100_000,
		MaxStackDepth:              10_000,
		MaxParsingSteps:            1_000_000,
		MaxStatesDuringBuild:       20_000,
		MaxMergeIterationsPerState: 20,
		MaxConcurrentParses:        8,
	}
}
