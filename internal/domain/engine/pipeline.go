package engine

// Phase is a state of a single evaluation. Run evaluations move
// Start → ConfigurationLoaded → EligibilityResolved → CandidatesBuilt → Result;
// fetch evaluations move Start → RequestBuilt. Any phase may move to Failed.
type Phase string

const (
	PhaseStart               Phase = "start"
	PhaseConfigurationLoaded Phase = "configurationLoaded"
	PhaseEligibilityResolved Phase = "eligibilityResolved"
	PhaseCandidatesBuilt     Phase = "candidatesBuilt"
	PhaseResult              Phase = "result"
	PhaseRequestBuilt        Phase = "requestBuilt"
	PhaseFailed              Phase = "failed"
)

var phaseRank = map[Phase]int{
	PhaseStart:               0,
	PhaseConfigurationLoaded: 1,
	PhaseEligibilityResolved: 2,
	PhaseCandidatesBuilt:     3,
	PhaseResult:              4,
	PhaseRequestBuilt:        1,
}

// Terminal reports whether no further transition is possible.
func (p Phase) Terminal() bool {
	return p == PhaseResult || p == PhaseRequestBuilt || p == PhaseFailed
}

// CanAdvance reports whether moving from p to next keeps the machine moving
// forward. Skipping intermediate phases is allowed.
func (p Phase) CanAdvance(next Phase) bool {
	if p == PhaseFailed {
		return false
	}
	if next == PhaseFailed {
		return true
	}
	if next == PhaseRequestBuilt {
		return p == PhaseStart
	}
	if p == PhaseRequestBuilt {
		return false
	}
	from, ok := phaseRank[p]
	if !ok {
		return false
	}
	to, ok := phaseRank[next]
	return ok && to > from
}
