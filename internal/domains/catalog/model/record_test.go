package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraft_SetIfAbsent(t *testing.T) {
	d := NewDraft()

	assert.True(t, d.SetIfAbsent("dcterms:title", NewLiteral(1, "Marie Curie")))
	assert.False(t, d.SetIfAbsent("dcterms:title", NewLiteral(1, "M. Curie")),
		"a populated field must never be overwritten")

	require.Len(t, d.Values["dcterms:title"], 1)
	assert.Equal(t, "Marie Curie", d.Values["dcterms:title"][0].Value)
}

func TestDraft_SetReplacesWhole(t *testing.T) {
	d := NewDraft()
	d.Set("schema:sameAs",
		NewURIRef(2, "https://old.example/1", "old:1"),
		NewURIRef(2, "https://old.example/2", "old:2"),
	)
	d.Set("schema:sameAs", NewURIRef(2, "https://orcid.org/0000-0001", "orcid:0000-0001"))

	require.Len(t, d.Values["schema:sameAs"], 1)
	assert.Equal(t, "https://orcid.org/0000-0001", d.Values["schema:sameAs"][0].URI)
}

func TestDraft_Append(t *testing.T) {
	d := NewDraft()
	a := uuid.New()
	b := uuid.New()

	d.Append("dcterms:contributor", NewResourceRef(3, a))
	d.Append("dcterms:contributor", NewResourceRef(3, b))

	require.Len(t, d.Values["dcterms:contributor"], 2)
	assert.Equal(t, a, d.Values["dcterms:contributor"][0].ResourceID)
	assert.Equal(t, b, d.Values["dcterms:contributor"][1].ResourceID)
}

func TestDraftFromRecord_DeepCopy(t *testing.T) {
	ref := NewResourceRef(4, uuid.New())
	ref.Annotate("schema:position", NewLiteral(5, "5"))

	rec := &Record{
		ID:    uuid.New(),
		Title: "Marie Curie",
		Values: map[string][]FieldValue{
			"dcterms:subject": {ref},
		},
	}

	d := DraftFromRecord(rec)
	d.Values["dcterms:subject"][0].Annotate("schema:position", NewLiteral(5, "6"))
	d.Set("dcterms:title", NewLiteral(1, "changed"))

	// The source record is untouched by draft mutations.
	assert.Len(t, rec.Values["dcterms:subject"][0].Annotations["schema:position"], 1)
	assert.NotContains(t, rec.Values, "dcterms:title")
}

func TestDraftFromRecord_CarriesClassAndTemplate(t *testing.T) {
	classID, templateID := 10, 20
	rec := &Record{
		ID:         uuid.New(),
		ClassID:    &classID,
		TemplateID: &templateID,
		Values:     map[string][]FieldValue{},
	}

	d := DraftFromRecord(rec)
	require.NotNil(t, d.ClassID)
	assert.Equal(t, 10, *d.ClassID)
	require.NotNil(t, d.TemplateID)
	assert.Equal(t, 20, *d.TemplateID)
}

func TestRecord_FirstValue(t *testing.T) {
	rec := &Record{
		Values: map[string][]FieldValue{
			"foaf:firstName": {NewLiteral(1, "Marie"), NewLiteral(1, "Maria")},
		},
	}

	first := rec.FirstValue("foaf:firstName")
	require.NotNil(t, first)
	assert.Equal(t, "Marie", first.Value)

	assert.Nil(t, rec.FirstValue("foaf:lastName"))
}

func TestFieldValue_Annotate(t *testing.T) {
	v := NewLiteral(1, "Recherches sur les substances radioactives")
	v.Annotate("dcterms:date", NewLiteral(2, "1903"))
	v.Annotate("dcterms:date", NewLiteral(2, "1904"))

	require.Len(t, v.Annotations["dcterms:date"], 2)
	assert.Equal(t, "1903", v.Annotations["dcterms:date"][0].Value)
}
