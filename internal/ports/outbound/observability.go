package outbound

// Metrics records business-level measurements. Implementations must be safe
// for concurrent use.
type Metrics interface {
	RecommendationServed(fallback bool, scores []float64)
	PantryReplaced(size int)
	PlanEntryChanged(op string)
	CacheLookup(hit bool)
}
