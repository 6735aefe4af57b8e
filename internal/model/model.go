// Package model defines the domain types used across the application.
package model

import "time"

// Article is a single feed entry as delivered by the feed parser.
// Abstract is the raw description and may contain inline HTML and newlines.
type Article struct {
	Title    string
	Link     string
	Abstract string
}

// Snapshot is the result of one fetch-and-parse of a feed.
// Every article in a snapshot shares its PublicationDate.
type Snapshot struct {
	PublicationDate string
	Articles        []Article
}

// FilterKind defines the type of filter rule.
type FilterKind string

// Supported filter kinds.
const (
	FilterInclude   FilterKind = "include"
	FilterExclude   FilterKind = "exclude"
	FilterIncludeRe FilterKind = "include_re"
	FilterExcludeRe FilterKind = "exclude_re"
)

// FilterScope defines which part of an article a filter matches against.
type FilterScope string

// Supported filter scopes.
const (
	ScopeTitle   FilterScope = "title"
	ScopeContent FilterScope = "content"
	ScopeAll     FilterScope = "all"
)

// Filter is a single matching rule attached to a feed source.
type Filter struct {
	Kind  FilterKind  `yaml:"kind"`
	Scope FilterScope `yaml:"scope"`
	Value string      `yaml:"value"`
}

// PostStatus is the outcome of a single post attempt.
type PostStatus string

// Post outcomes.
const (
	PostSent   PostStatus = "sent"
	PostFailed PostStatus = "failed"
)

// Post is a history record of one attempt to publish a tweet.
type Post struct {
	ID              int64
	CycleID         string
	SourceID        string
	PublicationDate string
	Link            string
	Text            string
	Status          PostStatus
	Error           string
	CreatedAt       time.Time
}
