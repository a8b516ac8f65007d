package debate

// Gate decides whether the judge should send the agents back for
// another round. Pure; no side effects.
type Gate struct {
	// Threshold is the minimum normalized score disagreement, in
	// [0,1], required to trigger another round.
	Threshold float64
	// MaxRounds caps the debate. The round bound makes infinite
	// looping structurally impossible regardless of score behavior.
	MaxRounds int
}

// ShouldRedebate reports whether another round runs. scoreDifference
// is the normalized |coach-recruiter|/100 fraction; currentRound is
// 1-indexed.
func (g Gate) ShouldRedebate(scoreDifference float64, currentRound int) bool {
	return scoreDifference > g.Threshold && currentRound < g.MaxRounds
}
