package service

// Vocabulary terms the mapper writes. The target schema must register every
// one of these as a property (or class) before any import runs; a missing
// term aborts the operation.
const (
	TermTitle      = "dcterms:title"
	TermFirstName  = "foaf:firstName"
	TermLastName   = "foaf:lastName"
	TermIdentifier = "dcterms:identifier"
	TermSameAs     = "schema:sameAs"

	TermSubject     = "dcterms:subject"
	TermContributor = "dcterms:contributor"
	TermAffiliation = "schema:affiliation"
	TermCitation    = "dcterms:bibliographicCitation"

	TermPrefLabel  = "skos:prefLabel"
	TermExactMatch = "skos:exactMatch"
	TermType       = "dcterms:type"

	// Annotation terms qualifying reference edges.
	TermRank           = "schema:position"
	TermStartDate      = "schema:startDate"
	TermEndDate        = "schema:endDate"
	TermDate           = "dcterms:date"
	TermIsReferencedBy = "dcterms:isReferencedBy"
	TermStatus         = "bibo:status"

	ClassPerson       = "foaf:Person"
	ClassOrganization = "foaf:Organization"
	ClassConcept      = "skos:Concept"
)

// IdentifierPrefix marks directory-sourced identifier values.
const IdentifierPrefix = "directory:"

// WikidataBaseURL is the URI prefix attached to wikidata-typed topic tags.
const WikidataBaseURL = "https://www.wikidata.org/wiki/"
