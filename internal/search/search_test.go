package search

import (
	"testing"

	"github.com/dmitrijs2005/mustardseed/internal/models"
	"github.com/stretchr/testify/assert"
)

var (
	alice = models.Entry{Website: "github.com", Username: "alice", Password: "p1"}
	bob   = models.Entry{Website: "gitlab.com", Username: "bob", Password: "p2"}
	carol = models.Entry{Website: "Example.org", Username: "Carol.GIT", Password: "gitgit"}
)

func TestFilter_EmptyQueryReturnsInputUnchanged(t *testing.T) {
	entries := []models.Entry{bob, alice, carol}
	for _, q := range []string{"", "   ", "\t\n"} {
		got := Filter(entries, q)
		assert.Equal(t, entries, got)
		if len(got) > 0 {
			assert.Same(t, &entries[0], &got[0], "blank query must not copy")
		}
	}
	assert.Nil(t, Filter(nil, ""))
}

func TestFilter_SubstringMatch(t *testing.T) {
	entries := []models.Entry{alice, bob}

	assert.Equal(t, []models.Entry{alice, bob}, Filter(entries, "git"))
	assert.Equal(t, []models.Entry{alice}, Filter(entries, "alice"))
}

func TestFilter(t *testing.T) {
	entries := []models.Entry{alice, bob, carol}

	tests := []struct {
		name  string
		query string
		want  []models.Entry
	}{
		{name: "case insensitive website", query: "GITHUB", want: []models.Entry{alice}},
		{name: "matches username", query: "carol", want: []models.Entry{carol}},
		{name: "keeps original order", query: "git", want: []models.Entry{alice, bob, carol}},
		{name: "query trimmed", query: "  bob ", want: []models.Entry{bob}},
		{name: "infix not only prefix", query: "ub.c", want: []models.Entry{alice}},
		{name: "not tokenized", query: "git alice", want: []models.Entry{}},
		{name: "password ignored", query: "p1", want: []models.Entry{}},
		{name: "no match", query: "zzz", want: []models.Entry{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filter(entries, tt.query))
		})
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	entries := []models.Entry{alice, bob, carol}
	before := append([]models.Entry(nil), entries...)

	_ = Filter(entries, "bob")
	assert.Equal(t, before, entries)
}

func TestMatchesNormalizedQuery(t *testing.T) {
	assert.True(t, matches(alice, normalize(" HUB ")))
	assert.False(t, matches(bob, normalize("hub")))
}
