package zone

import "fmt"

// Mode names one of the two validation presets.
type Mode string

const (
	// ModeStrict requires already-normalized, exactly-shaped input.
	ModeStrict Mode = "strict"

	// ModeCoercive normalizes case, spelling, scalar lists and empty strings
	// before applying the strict checks.
	ModeCoercive Mode = "coercive"
)

// ParseMode converts a configuration string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeStrict, ModeCoercive:
		return Mode(s), nil
	case "":
		return ModeStrict, nil
	}
	return "", fmt.Errorf("unknown validation mode %q (expected %q or %q)", s, ModeStrict, ModeCoercive)
}

// Options configures the decoder. The zero value behaves like ModeStrict with
// fail-fast collections.
type Options struct {
	// FoldCase uppercases code values and lowercases units before matching.
	FoldCase bool

	// ListCoercion wraps a scalar in a single-element list where a list is
	// expected.
	ListCoercion bool

	// EmptyAsNull treats "" as absent for optional fields.
	EmptyAsNull bool

	// TranslateSpelling maps the legacy AUTHORISATION spelling to
	// AUTHORIZATION in zone types and authority roles.
	TranslateSpelling bool

	// LaxScalars accepts numeric strings where numbers are expected and the
	// looser date, time and duration layouts.
	LaxScalars bool

	// IgnoreUnknownFields drops unrecognized object keys, reporting them as
	// warnings instead of errors.
	IgnoreUnknownFields bool

	// AcceptAliases accepts legacy member names, e.g. reasons for reason.
	AcceptAliases bool

	// CollectAll keeps validating features after the first failing one.
	CollectAll bool

	// Concurrency is the number of features validated in parallel. Values
	// below 2 validate sequentially.
	Concurrency int

	// CheckLayerOrder requires upper >= lower when both limits of a vertical
	// layer share the same reference.
	CheckLayerOrder bool
}

// OptionsFor returns the preset of a mode.
func OptionsFor(mode Mode) Options {
	if mode == ModeCoercive {
		return Options{
			FoldCase:            true,
			ListCoercion:        true,
			EmptyAsNull:         true,
			TranslateSpelling:   true,
			LaxScalars:          true,
			IgnoreUnknownFields: true,
			AcceptAliases:       true,
		}
	}
	return Options{}
}

// Strict returns the strict preset.
func Strict() Options { return OptionsFor(ModeStrict) }

// Coercive returns the coercive preset.
func Coercive() Options { return OptionsFor(ModeCoercive) }
