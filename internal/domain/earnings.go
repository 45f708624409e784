package domain

// EarningsSummary is a derived aggregate over a staff member's completed
// appointments. It is recomputed from scratch whenever the appointment set
// changes and is never persisted.
type EarningsSummary struct {
	Today      float64
	Week       float64
	Month      float64
	Commission float64
}
