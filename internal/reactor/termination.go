package reactor

// TerminationCriterion ends a simulation early. The set of criteria is
// closed: TerminationTime and TerminationConversion. Simulate stops at the
// first satisfied criterion.
type TerminationCriterion interface {
	termination()
}

// TerminationTime stops the simulation once the reactor time reaches Time
// (seconds).
type TerminationTime struct {
	Time float64
}

func (TerminationTime) termination() {}

// TerminationConversion stops the simulation once the named species'
// conversion from its initial amount reaches Conversion.
type TerminationConversion struct {
	Species    string
	Conversion float64
}

func (TerminationConversion) termination() {}
