package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scholarsync-backend/internal/domains/person/model"
)

func TestRecordLinker_MatchPerson_BySplitName(t *testing.T) {
	repo := newFakeRepo()
	match := repo.addRecord("Marie Curie", map[string]string{
		TermFirstName: "Marie",
		TermLastName:  "Curie",
	})
	repo.addRecord("Pierre Curie", map[string]string{
		TermFirstName: "Pierre",
		TermLastName:  "Curie",
	})
	linker := NewRecordLinker(repo, nil)

	refs, err := linker.MatchPerson(context.Background(), &model.ExternalPerson{
		FirstName: "Marie",
		LastName:  "Curie",
	})
	require.NoError(t, err)

	require.Len(t, refs, 1, "both name parts must match, not just the family name")
	assert.Equal(t, match.ID, refs[0].ID)
}

func TestRecordLinker_MatchPerson_FullNameFallback(t *testing.T) {
	repo := newFakeRepo()
	match := repo.addRecord("Marie Curie", map[string]string{TermTitle: "Marie Curie"})
	linker := NewRecordLinker(repo, nil)

	refs, err := linker.MatchPerson(context.Background(), &model.ExternalPerson{
		FullName: "Marie Curie",
	})
	require.NoError(t, err)

	require.Len(t, refs, 1)
	assert.Equal(t, match.ID, refs[0].ID)
}

func TestRecordLinker_MatchPerson_ConfiguredProperties(t *testing.T) {
	repo := newFakeRepo()
	match := repo.addRecord("record", map[string]string{TermPrefLabel: "Marie Curie"})
	linker := NewRecordLinker(repo, []string{TermPrefLabel})

	refs, err := linker.MatchPerson(context.Background(), &model.ExternalPerson{
		FullName: "Marie Curie",
	})
	require.NoError(t, err)

	require.Len(t, refs, 1)
	assert.Equal(t, match.ID, refs[0].ID)
}

func TestRecordLinker_MatchPerson_NoName(t *testing.T) {
	repo := newFakeRepo()
	repo.addRecord("Marie Curie", map[string]string{TermTitle: "Marie Curie"})
	linker := NewRecordLinker(repo, nil)

	refs, err := linker.MatchPerson(context.Background(), &model.ExternalPerson{})
	require.NoError(t, err)
	assert.Empty(t, refs)
	assert.Zero(t, repo.searchCalls)
}

func TestRecordLinker_MatchPerson_NoMatches(t *testing.T) {
	linker := NewRecordLinker(newFakeRepo(), nil)

	refs, err := linker.MatchPerson(context.Background(), &model.ExternalPerson{
		FirstName: "Marie",
		LastName:  "Curie",
	})
	require.NoError(t, err)
	assert.Empty(t, refs)
}
