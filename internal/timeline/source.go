package timeline

// SourceType tags a graph with the producer that recorded it.
type SourceType string

const (
	SourceLiveReaction SourceType = "live_reaction"
	SourceManualReview SourceType = "manual_review"
	SourceNLPAnalysis  SourceType = "nlp_analysis"
	SourceConsensus    SourceType = "consensus"
)

// DefaultWeight applies to source types without a table entry, so a new
// producer shipped before a weight update degrades to a middling influence
// instead of breaking aggregation.
const DefaultWeight = 0.5

var sourceWeights = map[SourceType]float64{
	SourceLiveReaction: 1.0,
	SourceManualReview: 0.8,
	SourceNLPAnalysis:  0.6,
}

// AggregationWeight returns the influence multiplier a source type carries in
// the consensus weighted mean. Consensus graphs are never aggregation inputs,
// so they have no entry.
func AggregationWeight(s SourceType) float64 {
	if w, ok := sourceWeights[s]; ok {
		return w
	}
	return DefaultWeight
}

func (s SourceType) Valid() bool {
	switch s {
	case SourceLiveReaction, SourceManualReview, SourceNLPAnalysis, SourceConsensus:
		return true
	}
	return false
}

// AggregationInputSources are the producer types eligible as inputs to the
// consensus computation.
var AggregationInputSources = []SourceType{SourceLiveReaction, SourceManualReview, SourceNLPAnalysis}
