package history

import (
	"encoding/json"
	"errors"
	"io"
	"net/url"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-billy/v6/memfs"
	"github.com/go-git/go-billy/v6/osfs"
	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing/cache"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/go-git/go-git/v6/storage/filesystem"
	"github.com/go-git/go-git/v6/storage/memory"
	"xorkevin.dev/kerrors"
)

const (
	historyDir = "history"
	starredDir = "starred"

	commitName  = "termsql"
	commitEmail = "history@termsql.local"
)

// Entry is one saved query for a connection.
type Entry struct {
	Query      string    `json:"query"`
	Timestamp  time.Time `json:"timestamp"`
	Connection string    `json:"connection_name"`
}

// Store persists query history and starred queries in a Git repository.
// All methods are safe for concurrent use.
type Store struct {
	repo *git.Repository
	mu   sync.Mutex
	now  func() time.Time
}

// NewMemoryStore creates a store backed by an in-memory repository.
func NewMemoryStore() (*Store, error) {
	wt := memfs.New()
	repo, err := git.Init(memory.NewStorage(), git.WithWorkTree(wt))
	if err != nil {
		return nil, kerrors.WithMsg(err, "Failed to init history repo")
	}
	return &Store{repo: repo, now: time.Now}, nil
}

// NewFileStore creates or opens a store rooted at baseDir.
func NewFileStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, kerrors.WithMsg(err, "Failed to create history dir")
	}

	wt := osfs.New(baseDir)
	dotgit, err := wt.Chroot(".git")
	if err != nil {
		return nil, kerrors.WithMsg(err, "Failed to chroot history dir")
	}
	storer := filesystem.NewStorageWithOptions(
		dotgit,
		cache.NewObjectLRUDefault(),
		filesystem.Options{ExclusiveAccess: true})

	var repo *git.Repository
	if _, statErr := os.Stat(dotgit.Root()); statErr != nil {
		repo, err = git.Init(storer, git.WithWorkTree(wt))
	} else {
		repo, err = git.Open(storer, wt)
	}
	if err != nil {
		return nil, kerrors.WithMsg(err, "Failed to open history repo")
	}

	return &Store{repo: repo, now: time.Now}, nil
}

// SaveQuery records a query for a connection. A query already present for
// the connection has its timestamp refreshed in place.
func (s *Store) SaveQuery(connection, query string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query = strings.TrimSpace(query)
	entries, err := s.readEntries(connection)
	if err != nil {
		return err
	}

	now := s.now()
	found := false
	for i := range entries {
		if entries[i].Query == query {
			entries[i].Timestamp = now
			found = true
			break
		}
	}
	if !found {
		entries = append(entries, Entry{
			Query:      query,
			Timestamp:  now,
			Connection: connection,
		})
	}

	return s.writeJSON(entryPath(connection), entries, "Save query for "+connection)
}

// LoadForConnection returns the saved queries for one connection in
// insertion order.
func (s *Store) LoadForConnection(connection string) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.readEntries(connection)
}

// LoadAll returns saved queries across all connections.
func (s *Store) LoadAll() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wt, err := s.repo.Worktree()
	if err != nil {
		return nil, kerrors.WithMsg(err, "Failed to get worktree")
	}

	infos, err := wt.Filesystem.ReadDir(historyDir)
	if err != nil {
		// no history saved yet
		return nil, nil
	}

	var all []Entry
	for _, info := range infos {
		if info.IsDir() || !strings.HasSuffix(info.Name(), ".json") {
			continue
		}
		var entries []Entry
		if err := s.readJSON(path.Join(historyDir, info.Name()), &entries); err != nil {
			return nil, err
		}
		all = append(all, entries...)
	}
	return all, nil
}

// DeleteEntry removes the entry with the given timestamp. It reports
// whether anything was deleted.
func (s *Store) DeleteEntry(connection string, timestamp time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.readEntries(connection)
	if err != nil {
		return false, err
	}

	kept := entries[:0]
	for _, entry := range entries {
		if !entry.Timestamp.Equal(timestamp) {
			kept = append(kept, entry)
		}
	}
	if len(kept) == len(entries) {
		return false, nil
	}

	if err := s.writeJSON(entryPath(connection), kept, "Delete query for "+connection); err != nil {
		return false, err
	}
	return true, nil
}

// ClearForConnection removes all saved queries for a connection and
// returns how many were removed.
func (s *Store) ClearForConnection(connection string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.readEntries(connection)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}

	wt, err := s.repo.Worktree()
	if err != nil {
		return 0, kerrors.WithMsg(err, "Failed to get worktree")
	}
	if _, err := wt.Remove(entryPath(connection)); err != nil {
		return 0, kerrors.WithMsg(err, "Failed to remove history file")
	}
	if err := s.commit(wt, "Clear history for "+connection); err != nil {
		return 0, err
	}
	return len(entries), nil
}

func (s *Store) readEntries(connection string) ([]Entry, error) {
	var entries []Entry
	if err := s.readJSON(entryPath(connection), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func entryPath(connection string) string {
	return path.Join(historyDir, url.PathEscape(connection)+".json")
}

func starredPath(connection string) string {
	return path.Join(starredDir, url.PathEscape(connection)+".json")
}

// readJSON decodes the file at p into v, leaving v untouched when the file
// does not exist yet.
func (s *Store) readJSON(p string, v any) error {
	wt, err := s.repo.Worktree()
	if err != nil {
		return kerrors.WithMsg(err, "Failed to get worktree")
	}

	f, err := wt.Filesystem.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return kerrors.WithMsg(err, "Failed to open store file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return kerrors.WithMsg(err, "Failed to read store file")
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return kerrors.WithMsg(err, "Invalid store file")
	}
	return nil
}

func (s *Store) writeJSON(p string, v any, message string) error {
	wt, err := s.repo.Worktree()
	if err != nil {
		return kerrors.WithMsg(err, "Failed to get worktree")
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return kerrors.WithMsg(err, "Failed to marshal store file")
	}

	f, err := wt.Filesystem.Create(p)
	if err != nil {
		return kerrors.WithMsg(err, "Failed to create store file")
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return kerrors.WithMsg(err, "Failed to write store file")
	}
	if err := f.Close(); err != nil {
		return kerrors.WithMsg(err, "Failed to close store file")
	}

	if _, err := wt.Add(p); err != nil {
		return kerrors.WithMsg(err, "Failed to stage store file")
	}
	return s.commit(wt, message)
}

func (s *Store) commit(wt *git.Worktree, message string) error {
	_, err := wt.Commit(message, &git.CommitOptions{
		AllowEmptyCommits: true,
		Author: &object.Signature{
			Name:  commitName,
			Email: commitEmail,
			When:  s.now(),
		},
	})
	if err != nil {
		return kerrors.WithMsg(err, "Failed to commit store change")
	}
	return nil
}
