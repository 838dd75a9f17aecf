package graph

// SchemaVersion is the version of the serialization schema.
// Increment when the serialization format changes in a breaking way.
const SchemaVersion = "1.0"

// SerializableGraph is the JSON form of a Graph handed to external viewers.
// Node IDs match Graph NodeIDs, so positional lookups stay aligned.
type SerializableGraph struct {
	SchemaVersion string             `json:"schema_version"`
	Anchor        string             `json:"anchor,omitempty"`
	Nodes         []SerializableNode `json:"nodes"`
	Edges         []SerializableEdge `json:"edges"`
}

// SerializableNode is the JSON form of a Node.
type SerializableNode struct {
	ID    NodeID  `json:"id"`
	Name  string  `json:"name"`
	Label string  `json:"label"`
	Rank  float64 `json:"rank"`
}

// SerializableEdge is the JSON form of an Edge.
type SerializableEdge struct {
	From     NodeID `json:"from"`
	To       NodeID `json:"to"`
	FromName string `json:"from_name"`
	ToName   string `json:"to_name"`
	Weight   int    `json:"weight"`
	Label    string `json:"label"`
}

// ToSerializable converts g to its JSON form. ranks is indexed by NodeID and
// may be nil.
func (g *Graph) ToSerializable(anchor string, ranks []float64) *SerializableGraph {
	sg := &SerializableGraph{
		SchemaVersion: SchemaVersion,
		Anchor:        anchor,
		Nodes:         make([]SerializableNode, 0, g.NodeCount()),
		Edges:         make([]SerializableEdge, 0, g.EdgeCount()),
	}

	for _, n := range g.nodes {
		sn := SerializableNode{ID: n.ID, Name: n.Name, Label: n.Label}
		if int(n.ID) < len(ranks) {
			sn.Rank = ranks[n.ID]
		}
		sg.Nodes = append(sg.Nodes, sn)
	}

	for _, e := range g.edges {
		sg.Edges = append(sg.Edges, SerializableEdge{
			From:     e.From,
			To:       e.To,
			FromName: g.nodes[e.From].Name,
			ToName:   g.nodes[e.To].Name,
			Weight:   e.Weight,
			Label:    e.Label,
		})
	}

	return sg
}
