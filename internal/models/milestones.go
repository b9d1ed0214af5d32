package models

// MilestoneChecklist holds the four developmental markers that gate diary
// writes. None implies any other; the gate passes only when all four are
// true. A zero-value checklist is fully unmet (fail-closed).
type MilestoneChecklist struct {
	Seated         bool `json:"seated"`
	NoExtrusion    bool `json:"noExtrusion"`
	InterestInFood bool `json:"interestInFood"`
	HandToMouth    bool `json:"handToMouth"`
}

// Milestone keys as they appear in the persisted document. Used to report
// unmet items back to the caller.
const (
	MilestoneSeated         = "seated"
	MilestoneNoExtrusion    = "noExtrusion"
	MilestoneInterestInFood = "interestInFood"
	MilestoneHandToMouth    = "handToMouth"
)

// Complete reports whether every milestone has been checked off. There is
// no partial credit and no override.
func (m MilestoneChecklist) Complete() bool {
	return m.Seated && m.NoExtrusion && m.InterestInFood && m.HandToMouth
}

// Missing returns the keys of unmet milestones in checklist order.
func (m MilestoneChecklist) Missing() []string {
	var missing []string
	if !m.Seated {
		missing = append(missing, MilestoneSeated)
	}
	if !m.NoExtrusion {
		missing = append(missing, MilestoneNoExtrusion)
	}
	if !m.InterestInFood {
		missing = append(missing, MilestoneInterestInFood)
	}
	if !m.HandToMouth {
		missing = append(missing, MilestoneHandToMouth)
	}
	return missing
}
