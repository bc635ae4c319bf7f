package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalog "scholarsync-backend/internal/domains/catalog/model"
)

func TestVocabularyResolver_PropertyID_Memoizes(t *testing.T) {
	repo := newFakeRepo()
	vocab := NewVocabularyResolver(repo)
	ctx := context.Background()

	first, err := vocab.PropertyID(ctx, TermTitle)
	require.NoError(t, err)

	second, err := vocab.PropertyID(ctx, TermTitle)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.propertyCalls, "repeated lookups must hit the repository once")
}

func TestVocabularyResolver_PropertyID_UnknownTerm(t *testing.T) {
	repo := newFakeRepo()
	delete(repo.properties, TermContributor)
	vocab := NewVocabularyResolver(repo)

	_, err := vocab.PropertyID(context.Background(), TermContributor)
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrTermNotFound)
}

func TestVocabularyResolver_ClassID_Memoizes(t *testing.T) {
	repo := newFakeRepo()
	vocab := NewVocabularyResolver(repo)
	ctx := context.Background()

	_, err := vocab.ClassID(ctx, ClassPerson)
	require.NoError(t, err)
	_, err = vocab.ClassID(ctx, ClassPerson)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.classCalls)
}

func TestVocabularyResolver_MissingTermNotCached(t *testing.T) {
	repo := newFakeRepo()
	delete(repo.properties, TermStatus)
	vocab := NewVocabularyResolver(repo)
	ctx := context.Background()

	_, err := vocab.PropertyID(ctx, TermStatus)
	require.Error(t, err)

	// An operator can add the term mid-run; the next lookup must see it.
	repo.properties[TermStatus] = 99
	id, err := vocab.PropertyID(ctx, TermStatus)
	require.NoError(t, err)
	assert.Equal(t, 99, id)
}
