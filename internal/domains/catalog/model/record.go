package model

import (
	"time"

	"github.com/google/uuid"
)

// ValueType discriminates the three shapes a field value can take.
type ValueType string

const (
	TypeLiteral  ValueType = "literal"
	TypeResource ValueType = "resource"
	TypeURI      ValueType = "uri"
)

// FieldValue is one value inside a record field. Exactly one of the
// shape-specific fields is meaningful, selected by Type:
//   - literal:  Value
//   - resource: ResourceID (a local record)
//   - uri:      URI + Label
//
// Annotations qualify the reference itself (e.g. rank or start/end dates on
// an affiliation edge) rather than the record the field belongs to.
type FieldValue struct {
	Type        ValueType               `json:"type"`
	PropertyID  int                     `json:"property_id"`
	Value       string                  `json:"value,omitempty"`
	ResourceID  uuid.UUID               `json:"resource_id,omitempty"`
	URI         string                  `json:"uri,omitempty"`
	Label       string                  `json:"label,omitempty"`
	Annotations map[string][]FieldValue `json:"annotations,omitempty"`
}

// NewLiteral builds a literal field value.
func NewLiteral(propertyID int, value string) FieldValue {
	return FieldValue{Type: TypeLiteral, PropertyID: propertyID, Value: value}
}

// NewResourceRef builds a reference to another local record.
func NewResourceRef(propertyID int, recordID uuid.UUID) FieldValue {
	return FieldValue{Type: TypeResource, PropertyID: propertyID, ResourceID: recordID}
}

// NewURIRef builds an external URI reference with a display label.
func NewURIRef(propertyID int, uri, label string) FieldValue {
	return FieldValue{Type: TypeURI, PropertyID: propertyID, URI: uri, Label: label}
}

// Annotate attaches an annotation value under the given term.
func (v *FieldValue) Annotate(term string, value FieldValue) {
	if v.Annotations == nil {
		v.Annotations = make(map[string][]FieldValue)
	}
	v.Annotations[term] = append(v.Annotations[term], value)
}

// Record is one persisted resource in the local repository.
type Record struct {
	ID         uuid.UUID               `json:"id"`
	ClassID    *int                    `json:"class_id,omitempty"`
	TemplateID *int                    `json:"template_id,omitempty"`
	Title      string                  `json:"title"`
	Values     map[string][]FieldValue `json:"values"`
	CreatedAt  time.Time               `json:"created_at"`
	UpdatedAt  time.Time               `json:"updated_at"`
}

// FirstValue returns the first value stored under term, or nil.
func (r *Record) FirstValue(term string) *FieldValue {
	vals := r.Values[term]
	if len(vals) == 0 {
		return nil
	}
	return &vals[0]
}

// Draft is the in-memory, not-yet-persisted field set for one record.
// Values are keyed by vocabulary term (e.g. "dcterms:title").
type Draft struct {
	ClassID    *int
	TemplateID *int
	Values     map[string][]FieldValue
}

// NewDraft returns an empty draft.
func NewDraft() *Draft {
	return &Draft{Values: make(map[string][]FieldValue)}
}

// DraftFromRecord seeds a draft with a deep copy of an existing record's
// field set, so mutating the draft never leaks into the record.
func DraftFromRecord(r *Record) *Draft {
	d := NewDraft()
	d.ClassID = r.ClassID
	d.TemplateID = r.TemplateID
	for term, vals := range r.Values {
		d.Values[term] = copyValues(vals)
	}
	return d
}

// Has reports whether the draft already carries any value for term.
func (d *Draft) Has(term string) bool {
	return len(d.Values[term]) > 0
}

// Set replaces the whole value sequence for term.
func (d *Draft) Set(term string, values ...FieldValue) {
	d.Values[term] = values
}

// SetIfAbsent writes values under term only when the term has no values yet.
// Returns true when the write happened. This is the fill-gaps merge rule: a
// field populated by a prior source is never overwritten.
func (d *Draft) SetIfAbsent(term string, values ...FieldValue) bool {
	if d.Has(term) {
		return false
	}
	d.Values[term] = values
	return true
}

// Append adds one value to the end of the sequence for term.
func (d *Draft) Append(term string, value FieldValue) {
	d.Values[term] = append(d.Values[term], value)
}

func copyValues(vals []FieldValue) []FieldValue {
	out := make([]FieldValue, len(vals))
	for i, v := range vals {
		cp := v
		if v.Annotations != nil {
			cp.Annotations = make(map[string][]FieldValue, len(v.Annotations))
			for term, avals := range v.Annotations {
				cp.Annotations[term] = copyValues(avals)
			}
		}
		out[i] = cp
	}
	return out
}

// Collection actions understood by Repository.Update.
const (
	// CollectionReplace: for every field key present in the draft, the whole
	// value sequence replaces the stored one; keys absent from the draft are
	// left untouched. Combined with a partial update this is what makes the
	// mapper's fill-gaps decision effective at the storage boundary.
	CollectionReplace = "replace"
)

// UpdateOptions control how Repository.Update applies a draft.
type UpdateOptions struct {
	Partial          bool
	CollectionAction string
}
