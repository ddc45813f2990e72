package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeStore records queries and returns canned results.
type fakeStore struct {
	results   [][]string
	err       error
	lastQuery []string
	lastK     int
}

func (f *fakeStore) Upsert(context.Context, []string, []string, [][]float32) error {
	return nil
}

func (f *fakeStore) Query(_ context.Context, queryTexts []string, k int) ([][]string, error) {
	f.lastQuery = queryTexts
	f.lastK = k
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func (f *fakeStore) DocumentExists(context.Context, string) bool { return false }

func (f *fakeStore) Close() error { return nil }

func TestRetrieve_ReturnsRankedChunks(t *testing.T) {
	store := &fakeStore{results: [][]string{{"most relevant", "second"}}}
	r := NewRetriever(store, zap.NewNop())

	chunks, err := r.Retrieve(context.Background(), "what is the capital?", 2)
	require.NoError(t, err)

	assert.Equal(t, []string{"most relevant", "second"}, chunks)
	assert.Equal(t, []string{"what is the capital?"}, store.lastQuery)
	assert.Equal(t, 2, store.lastK)
}

func TestRetrieve_FlattensMultipleSublists(t *testing.T) {
	store := &fakeStore{results: [][]string{{"a", "b"}, {"c"}}}
	r := NewRetriever(store, zap.NewNop())

	chunks, err := r.Retrieve(context.Background(), "q", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, chunks)
}

func TestRetrieve_EmptyStore(t *testing.T) {
	store := &fakeStore{results: [][]string{{}}}
	r := NewRetriever(store, zap.NewNop())

	chunks, err := r.Retrieve(context.Background(), "q", 2)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestRetrieve_RejectsInvalidInput(t *testing.T) {
	r := NewRetriever(&fakeStore{}, zap.NewNop())

	_, err := r.Retrieve(context.Background(), "", 2)
	assert.ErrorIs(t, err, ErrInvalidQuery)

	_, err = r.Retrieve(context.Background(), "q", 0)
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestRetrieve_PropagatesStoreError(t *testing.T) {
	storeErr := errors.New("connection refused")
	r := NewRetriever(&fakeStore{err: storeErr}, zap.NewNop())

	_, err := r.Retrieve(context.Background(), "q", 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
}
