// internal/text/postgres.go
package text

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Querier is the subset of *pgxpool.Pool used to read passages.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PassagesSchema creates the optional table extra sentences are read from.
const PassagesSchema = `
CREATE TABLE IF NOT EXISTS passages (
	id          BIGSERIAL PRIMARY KEY,
	language_id TEXT NOT NULL,
	sentence    TEXT NOT NULL
)`

// LoadCorpus reads every sentence from the passages table. It runs once at startup so
// GetText never touches the database.
func LoadCorpus(ctx context.Context, db Querier) (Corpus, error) {
	rows, err := db.Query(ctx, `
		SELECT language_id, sentence
		FROM passages
		WHERE sentence <> ''
		ORDER BY language_id, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query passages: %w", err)
	}
	defer rows.Close()

	corpus := Corpus{}
	for rows.Next() {
		var lang, sentence string
		if err := rows.Scan(&lang, &sentence); err != nil {
			return nil, fmt.Errorf("failed to scan passage: %w", err)
		}
		corpus[lang] = append(corpus[lang], sentence)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read passages: %w", err)
	}
	return corpus, nil
}
