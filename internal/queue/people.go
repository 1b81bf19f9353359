package queue

import (
	"context"
	"fmt"
	"time"
)

// ListKnownPeople returns every remembered person name, ordered by how many
// photos they appeared in. Used as detection hints for the external service.
func (s *Store) ListKnownPeople(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT name FROM known_people ORDER BY photo_count DESC, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list known people: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// RememberPeople records normalized person names resolved from a photo,
// bumping the photo count for names seen before.
func (s *Store) RememberPeople(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, err := s.execWithRetry(
			ctx,
			`INSERT INTO known_people (name, first_seen_at, last_seen_at, photo_count)
            VALUES (?, ?, ?, 1)
            ON CONFLICT(name) DO UPDATE SET
                last_seen_at = excluded.last_seen_at,
                photo_count = photo_count + 1`,
			name,
			timestamp,
			timestamp,
		); err != nil {
			return fmt.Errorf("remember person %q: %w", name, err)
		}
	}
	return nil
}
