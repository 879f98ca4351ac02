package models

// Sentence is one ordered text unit of an evaluation request.
type Sentence struct {
	Index   int      `json:"index"`
	Text    string   `json:"text"`
	Markers []string `json:"markers,omitempty"`
}

// Disruption describes one weak transition between two sentences.
// Score is the raw pairwise cosine similarity, not the ranking metric,
// so callers get an interpretable weak-link strength.
type Disruption struct {
	FromIdx int     `json:"from_idx"`
	ToIdx   int     `json:"to_idx"`
	Reason  string  `json:"reason"`
	Score   float64 `json:"score"`
}

// GraphNodeView is a node in the visualization payload.
type GraphNodeView struct {
	ID              int       `json:"id"`
	TextSnippet     string    `json:"text_snippet"`
	Entropy         float64   `json:"entropy"`
	ImportanceScore float64   `json:"importance_score"`
	Reduced         []float64 `json:"embedding_dim_reduced,omitempty"`
}

// GraphEdgeView is an edge in the visualization payload.
type GraphEdgeView struct {
	Source          int     `json:"source"`
	Target          int     `json:"target"`
	Weight          float64 `json:"weight"`
	DiscourseMarker string  `json:"discourse_marker,omitempty"`
	Reason          string  `json:"reason,omitempty"`
}

// GraphView is the complete graph structure handed to renderers.
type GraphView struct {
	Nodes []GraphNodeView `json:"nodes"`
	Edges []GraphEdgeView `json:"edges"`
}

// Evaluation is the result of scoring one paragraph.
type Evaluation struct {
	CoherenceScore   float64      `json:"coherence_score"`
	CoherencePercent int          `json:"coherence_percent"`
	Disruptions      []Disruption `json:"disruption_report"`
	Graph            *GraphView   `json:"graph,omitempty"`
}
