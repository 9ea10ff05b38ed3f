package model

import (
	"sort"
)

// EntityType classifies an extracted intelligence entity.
type EntityType string

const (
	EntityPaymentID   EntityType = "payment_id"
	EntityAccount     EntityType = "account_number"
	EntityRoutingCode EntityType = "routing_code"
	EntityPhone       EntityType = "phone_number"
	EntityURL         EntityType = "url"
)

// EntityTypes lists all entity types in report order.
var EntityTypes = []EntityType{
	EntityPaymentID,
	EntityAccount,
	EntityRoutingCode,
	EntityPhone,
	EntityURL,
}

// ExtractedEntity is a typed, validated intelligence value.
type ExtractedEntity struct {
	Type EntityType `json:"type"`

	// Value is the normalized canonical form used for deduplication.
	Value string `json:"value"`

	// Variants keeps the literal forms as observed plus alternate
	// formattings (with/without separators, with/without country
	// prefix) so downstream substring matching against differently
	// formatted ground truth still succeeds.
	Variants []string `json:"variants"`

	Confidence float64 `json:"confidence"`

	// Observations counts distinct sightings across turns.
	Observations int `json:"observations"`
}

// AddVariant records a literal form if not already present.
func (e *ExtractedEntity) AddVariant(v string) {
	for _, existing := range e.Variants {
		if existing == v {
			return
		}
	}
	e.Variants = append(e.Variants, v)
}

// Intelligence is the accumulated per-type entity sets for a session.
// Sets grow monotonically; entities are merged by canonical value.
type Intelligence map[EntityType]map[string]*ExtractedEntity

// NewIntelligence returns an empty accumulator.
func NewIntelligence() Intelligence {
	return make(Intelligence)
}

// Merge folds an entity into the accumulator. An existing entity keeps
// its identity: variants union, and observation count and confidence
// only ever increase. Merging the result of a full-transcript re-scan
// is therefore idempotent.
func (in Intelligence) Merge(e *ExtractedEntity) {
	byValue := in[e.Type]
	if byValue == nil {
		byValue = make(map[string]*ExtractedEntity)
		in[e.Type] = byValue
	}

	existing, ok := byValue[e.Value]
	if !ok {
		cp := *e
		cp.Variants = append([]string(nil), e.Variants...)
		byValue[e.Value] = &cp
		return
	}

	for _, v := range e.Variants {
		existing.AddVariant(v)
	}
	if e.Observations > existing.Observations {
		existing.Observations = e.Observations
	}
	if e.Confidence > existing.Confidence {
		existing.Confidence = e.Confidence
	}
}

// Count returns the total number of distinct entities.
func (in Intelligence) Count() int {
	n := 0
	for _, byValue := range in {
		n += len(byValue)
	}
	return n
}

// Entities returns the entities of one type sorted by canonical value.
func (in Intelligence) Entities(t EntityType) []ExtractedEntity {
	byValue := in[t]
	if len(byValue) == 0 {
		return nil
	}
	out := make([]ExtractedEntity, 0, len(byValue))
	for _, e := range byValue {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

// Has reports whether a canonical value is already recorded for a type.
func (in Intelligence) Has(t EntityType, value string) bool {
	_, ok := in[t][value]
	return ok
}

// Clone returns a deep copy.
func (in Intelligence) Clone() Intelligence {
	out := make(Intelligence, len(in))
	for t, byValue := range in {
		m := make(map[string]*ExtractedEntity, len(byValue))
		for v, e := range byValue {
			cp := *e
			cp.Variants = append([]string(nil), e.Variants...)
			m[v] = &cp
		}
		out[t] = m
	}
	return out
}
