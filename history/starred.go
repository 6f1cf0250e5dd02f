package history

import "strings"

// StarQuery marks a query as starred for a connection. Starring an already
// starred query is a no-op.
func (s *Store) StarQuery(connection, query string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query = strings.TrimSpace(query)
	starred, err := s.readStarred(connection)
	if err != nil {
		return err
	}
	for i := range starred {
		if starred[i].Query == query {
			return nil
		}
	}
	starred = append(starred, Entry{
		Query:      query,
		Timestamp:  s.now(),
		Connection: connection,
	})
	return s.writeJSON(starredPath(connection), starred, "Star query for "+connection)
}

// UnstarQuery removes a starred query. It reports whether the query was
// starred.
func (s *Store) UnstarQuery(connection, query string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query = strings.TrimSpace(query)
	starred, err := s.readStarred(connection)
	if err != nil {
		return false, err
	}
	kept := starred[:0]
	for _, entry := range starred {
		if entry.Query != query {
			kept = append(kept, entry)
		}
	}
	if len(kept) == len(starred) {
		return false, nil
	}
	if err := s.writeJSON(starredPath(connection), kept, "Unstar query for "+connection); err != nil {
		return false, err
	}
	return true, nil
}

// ToggleStar stars an unstarred query and unstars a starred one. It returns
// true when the query ends up starred.
func (s *Store) ToggleStar(connection, query string) (bool, error) {
	starred, err := s.IsStarred(connection, query)
	if err != nil {
		return false, err
	}
	if starred {
		if _, err := s.UnstarQuery(connection, query); err != nil {
			return false, err
		}
		return false, nil
	}
	if err := s.StarQuery(connection, query); err != nil {
		return false, err
	}
	return true, nil
}

// IsStarred reports whether a query is starred for a connection.
func (s *Store) IsStarred(connection, query string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query = strings.TrimSpace(query)
	starred, err := s.readStarred(connection)
	if err != nil {
		return false, err
	}
	for i := range starred {
		if starred[i].Query == query {
			return true, nil
		}
	}
	return false, nil
}

// LoadStarred returns the starred queries for a connection.
func (s *Store) LoadStarred(connection string) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.readStarred(connection)
}

func (s *Store) readStarred(connection string) ([]Entry, error) {
	var starred []Entry
	if err := s.readJSON(starredPath(connection), &starred); err != nil {
		return nil, err
	}
	return starred, nil
}
