package reactor

import "errors"

// Domain errors for reactor construction and simulation.
var (
	// ErrNotInitialized indicates Advance or Simulate before InitializeModel.
	ErrNotInitialized = errors.New("reactor: model not initialized")

	// ErrAlreadyInitialized indicates a second InitializeModel call.
	ErrAlreadyInitialized = errors.New("reactor: model already initialized")

	// ErrConditions indicates invalid reactor conditions.
	ErrConditions = errors.New("reactor: invalid conditions")

	// ErrFractions indicates mole fractions or coverages not summing to one.
	ErrFractions = errors.New("reactor: fractions must sum to 1")

	// ErrUnknownSpecies indicates a reaction referencing an unindexed species.
	ErrUnknownSpecies = errors.New("reactor: reaction references unknown species")

	// ErrDuplicateSpecies indicates a species listed twice in an index.
	ErrDuplicateSpecies = errors.New("reactor: duplicate species in index")

	// ErrNoTermination indicates Simulate without any termination criterion.
	ErrNoTermination = errors.New("reactor: no termination criterion configured")

	// ErrSimulationFailed indicates the stepper reported an unrecoverable
	// failure; the reactor is left in the Failed state.
	ErrSimulationFailed = errors.New("reactor: simulation failed")
)
