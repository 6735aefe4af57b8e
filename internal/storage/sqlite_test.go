package storage

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"arxivbot/internal/model"
)

var ignorePostTS = cmpopts.IgnoreFields(model.Post{}, "CreatedAt")

func newTestDB(t *testing.T) *SQLite {
	t.Helper()
	s, err := NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteSchemaVersion(t *testing.T) {
	s := newTestDB(t)
	if diff := cmp.Diff(int64(1), s.SchemaVersion()); diff != "" {
		t.Errorf("SchemaVersion() mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLiteMarkers(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	got, err := s.LastDispatched(ctx, "CSCL")
	if err != nil {
		t.Fatalf("last dispatched: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty marker, got %q", got)
	}

	steps := []struct {
		source string
		date   string
	}{
		{source: "CSCL", date: "2024-01-10T20:30:00-05:00"},
		{source: "CSLG", date: "2024-01-09T20:30:00-05:00"},
		{source: "CSCL", date: "2024-01-11T20:30:00-05:00"},
	}
	for _, st := range steps {
		if err := s.SetLastDispatched(ctx, st.source, st.date); err != nil {
			t.Fatalf("set %s: %v", st.source, err)
		}
	}

	want := map[string]string{
		"CSCL": "2024-01-11T20:30:00-05:00",
		"CSLG": "2024-01-09T20:30:00-05:00",
	}
	for source, date := range want {
		got, err := s.LastDispatched(ctx, source)
		if err != nil {
			t.Fatalf("last dispatched %s: %v", source, err)
		}
		if diff := cmp.Diff(date, got); diff != "" {
			t.Errorf("marker %s mismatch (-want +got):\n%s", source, diff)
		}
	}
}

func TestSQLitePosts(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	posts := []model.Post{
		{CycleID: "c1", SourceID: "CSCL", PublicationDate: "d1", Link: "https://arxiv.org/abs/1", Text: "one", Status: model.PostSent},
		{CycleID: "c1", SourceID: "CSLG", PublicationDate: "d1", Link: "https://arxiv.org/abs/2", Text: "two", Status: model.PostFailed, Error: "duplicate content"},
		{CycleID: "c2", SourceID: "CSCL", PublicationDate: "d2", Link: "https://arxiv.org/abs/3", Text: "three", Status: model.PostSent},
	}
	for i := range posts {
		if err := s.RecordPost(ctx, &posts[i]); err != nil {
			t.Fatalf("record post: %v", err)
		}
		if posts[i].ID == 0 {
			t.Fatal("expected non-zero ID")
		}
	}

	tests := []struct {
		name   string
		source string
		limit  int
		want   []model.Post
	}{
		{name: "all sources newest first", source: "", limit: 10, want: []model.Post{posts[2], posts[1], posts[0]}},
		{name: "one source", source: "CSCL", limit: 10, want: []model.Post{posts[2], posts[0]}},
		{name: "limit", source: "", limit: 1, want: []model.Post{posts[2]}},
		{name: "unknown source", source: "MATH", limit: 10, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ListPosts(ctx, tt.source, tt.limit)
			if err != nil {
				t.Fatalf("list posts: %v", err)
			}
			if diff := cmp.Diff(tt.want, got, ignorePostTS); diff != "" {
				t.Errorf("ListPosts mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
