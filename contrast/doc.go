// Package contrast turns the k levels of a categorical factor into numeric
// columns.
//
// A Scheme returns a k×(k−1) contrast matrix C whose row i encodes level i,
// together with the suffix appended to the factor name for each column:
//
//	Treatment  baseline row all 0, one indicator per other level; suffix = level label
//	Sum        baseline row all −1, identity rows for the others; suffix = 1-based index
//	Helmert    level i against the mean of the levels before it; suffix = 1-based index
//
// Sum and Helmert columns add up to zero over one row per level, so with an
// intercept the intercept estimates the unweighted grand mean of the cell
// means. Only Treatment may be replaced by the full k-column indicator set
// (Indicator) when the model has no intercept or marginality demands it.
package contrast
