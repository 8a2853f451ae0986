package database

import (
	"context"
	"os"
	"testing"

	"github.com/jason-s-yu/typerace/internal/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectDBBadURL(t *testing.T) {
	err := ConnectDB(context.Background(), "not a url ::")
	assert.Error(t, err)
	assert.Nil(t, DB)
}

// TestPassagesRoundTrip needs a scratch database in TEST_DATABASE_URL.
func TestPassagesRoundTrip(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	require.NoError(t, ConnectDB(ctx, url))
	t.Cleanup(Close)

	require.NoError(t, EnsureSchema(ctx, DB, text.PassagesSchema))
	_, err := DB.Exec(ctx, `INSERT INTO passages (language_id, sentence) VALUES ('zz', 'one two three')`)
	require.NoError(t, err)
	t.Cleanup(func() { DB.Exec(ctx, `DELETE FROM passages WHERE language_id = 'zz'`) })

	corpus, err := text.LoadCorpus(ctx, DB)
	require.NoError(t, err)
	assert.Contains(t, corpus["zz"], "one two three")
}
