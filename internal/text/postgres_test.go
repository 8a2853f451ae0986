package text

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRows struct {
	data [][2]string
	idx  int
	err  error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.data) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.idx-1]
	*(dest[0].(*string)) = row[0]
	*(dest[1].(*string)) = row[1]
	return nil
}

type fakeQuerier struct {
	rows *fakeRows
	err  error
}

func (q fakeQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if q.err != nil {
		return nil, q.err
	}
	return q.rows, nil
}

func TestLoadCorpus(t *testing.T) {
	q := fakeQuerier{rows: &fakeRows{data: [][2]string{
		{"en", "hello there"},
		{"en", "general kenobi"},
		{"pl", "dzień dobry"},
	}}}

	corpus, err := LoadCorpus(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, []string{"hello there", "general kenobi"}, corpus["en"])
	assert.Equal(t, []string{"en", "pl"}, corpus.Languages())
}

func TestLoadCorpusErrors(t *testing.T) {
	_, err := LoadCorpus(context.Background(), fakeQuerier{err: errors.New("boom")})
	assert.ErrorContains(t, err, "failed to query passages")

	_, err = LoadCorpus(context.Background(), fakeQuerier{rows: &fakeRows{err: errors.New("conn reset")}})
	assert.ErrorContains(t, err, "failed to read passages")
}
