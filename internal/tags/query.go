package tags

// Query is either a symbol still to be looked up or matches already found.
// The set of implementations is closed.
type Query interface {
	isQuery()
}

// RawQuery is a symbol name to send to the tool.
type RawQuery string

// ResolvedMatches are matches obtained earlier, for example from a selection
// the user has not yet made.
type ResolvedMatches []TagMatch

func (RawQuery) isQuery()        {}
func (ResolvedMatches) isQuery() {}
