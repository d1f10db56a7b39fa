package intent

// Collection names, one per content category of the vector store.
const (
	CollectionLegal     = "legal_chunks"
	CollectionForm      = "form_chunks"
	CollectionTerm      = "term_chunks"
	CollectionProcedure = "procedure_chunks"
	CollectionTemplate  = "template_chunks"
	CollectionGeneral   = "general_chunks"
)

// AllCollections lists every content collection in canonical order, used for
// ambiguous/unknown fan-out. The general collection is excluded: it holds
// small-talk snippets, not retrievable context.
var AllCollections = []string{
	CollectionLegal,
	CollectionForm,
	CollectionTerm,
	CollectionProcedure,
	CollectionTemplate,
}

// ManagedCollections lists every collection the service owns, retrievable or
// not. Startup ensures each one exists so ingestion and general-intent routing
// never hit a missing collection.
var ManagedCollections = append(append([]string(nil), AllCollections...), CollectionGeneral)

// WeightThreshold is the strict lower bound an intent's weight must exceed to
// contribute collections in the multi-intent path. Entries at exactly the
// threshold are dropped.
const WeightThreshold = 0.1

// Router maps intents to vector store collections and per-collection search
// weights. It is a pure lookup; output depends only on its inputs.
type Router struct {
	// ambiguousWeight is the per-collection weight applied when every
	// collection is searched. The reference table does not differentiate by
	// confidence level, so neither does this one; it is configuration, not
	// derived.
	ambiguousWeight float64
}

// NewRouter creates a router. ambiguousWeight <= 0 falls back to 0.2.
func NewRouter(ambiguousWeight float64) *Router {
	if ambiguousWeight <= 0 {
		ambiguousWeight = 0.2
	}
	return &Router{ambiguousWeight: ambiguousWeight}
}

// Collections returns the collections to search for a single classified intent.
func (r *Router) Collections(t Type, _ Confidence) []string {
	switch t {
	case Law:
		return []string{CollectionLegal}
	case Form:
		return []string{CollectionForm}
	case Term:
		return []string{CollectionTerm}
	case Procedure:
		return []string{CollectionProcedure}
	case Template:
		return []string{CollectionTemplate}
	case General:
		return []string{CollectionGeneral}
	default:
		// Ambiguous and Unknown fan out to everything.
		out := make([]string, len(AllCollections))
		copy(out, AllCollections)
		return out
	}
}

// Weights returns the per-collection score weights for a single intent:
// 1.0 for the intent's own collection and 0.0 for the rest, or a flat
// ambiguousWeight across all collections for ambiguous/unknown.
func (r *Router) Weights(t Type, conf Confidence) map[string]float64 {
	weights := make(map[string]float64, len(AllCollections))
	for _, c := range AllCollections {
		weights[c] = 0.0
	}

	switch t {
	case Law, Form, Term, Procedure, Template:
		weights[r.Collections(t, conf)[0]] = 1.0
	case General:
		// General queries retrieve nothing; weights stay zero.
	default:
		for _, c := range AllCollections {
			weights[c] = r.ambiguousWeight
		}
	}
	return weights
}

// CollectionsForAll selects the union of collections for a multi-intent
// distribution. Intents with weight at or below WeightThreshold are dropped
// entirely so that noise intents do not trigger extra fan-out queries.
// Order is deterministic: first contribution wins the position.
func (r *Router) CollectionsForAll(dist []Scored) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, s := range dist {
		if s.Intent != Ambiguous && s.Intent != Unknown && s.Weight <= WeightThreshold {
			continue
		}
		for _, c := range r.Collections(s.Intent, "") {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}
