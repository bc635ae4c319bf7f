package model

import "github.com/google/uuid"

// ExternalPerson is one person record as returned by the research-personnel
// directory, already normalized from the raw search hit. Immutable once
// constructed by the gateway.
type ExternalPerson struct {
	ID             string          `json:"id"`
	FirstName      string          `json:"firstName"`
	LastName       string          `json:"lastName"`
	FullName       string          `json:"fullName"`
	Domains        []Domain        `json:"domains,omitempty"`
	Affiliations   []Affiliation   `json:"affiliations,omitempty"`
	CoContributors []CoContributor `json:"coContributors,omitempty"`
	Publications   []Publication   `json:"publications,omitempty"`
	ExternalIDs    []ExternalID    `json:"externalIds,omitempty"`

	// Items lists local records already matching this person by name.
	// Resolved by the gateway; this is how the mapper learns whether a
	// "new" external person already has a local counterpart.
	Items []ItemRef `json:"items,omitempty"`
}

// Domain is a topical research domain attached to a person.
type Domain struct {
	Label string `json:"label"`
	Count int    `json:"count"`
	Type  string `json:"type,omitempty"` // "wikidata" carries a concept code
	Code  string `json:"code,omitempty"`
}

// Structure is the organization inside an affiliation.
type Structure struct {
	Label  string   `json:"label"`
	IDName string   `json:"id_name"` // stable external code, assumed unique
	ID     string   `json:"id"`
	Kind   []string `json:"kind,omitempty"`
}

// Affiliation links a person to an organization over a time span.
type Affiliation struct {
	Structure         Structure `json:"structure"`
	PublicationsCount int       `json:"publicationsCount,omitempty"`
	StartDate         string    `json:"startDate,omitempty"`
	EndDate           string    `json:"endDate,omitempty"`
}

// CoContributor is a co-author reference to another directory person.
type CoContributor struct {
	PersonID string `json:"personId"`
	FullName string `json:"fullName"`
}

// Publication is one publication entry on a person's profile.
type Publication struct {
	Title            string `json:"title"`
	Year             string `json:"year,omitempty"`
	PublicationVenue string `json:"publicationVenue,omitempty"`
	Role             string `json:"role,omitempty"`
}

// ExternalID is an identifier for the person in another system.
type ExternalID struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	URL  string `json:"url,omitempty"`
}

// ItemRef is an opaque handle to a local record.
type ItemRef struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title,omitempty"`
}
