package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/peerstat/peerstat/internal/curriculum"
	"github.com/peerstat/peerstat/internal/engine"
	"github.com/peerstat/peerstat/internal/store"
)

// session ties an engine to the archive for one command.
type session struct {
	st     *store.Store
	engine *engine.Engine
}

// openSession opens the archive and builds an engine over the catalogue. A
// missing catalogue is a warning; commands that need it report empty views.
func openSession() (*session, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	questions, units, err := curriculum.LoadFiles(rt.cfg.Catalogue.Questions, rt.cfg.Catalogue.Units)
	if err != nil {
		rt.log.Warn("catalogue unavailable", zap.Error(err))
	}

	eng := engine.New(engine.Options{
		Questions: questions,
		Units:     units,
		Logger:    rt.log,
		Metrics:   rt.metrics,
		OnStatus: func(s engine.Status) {
			rt.log.Debug("status", zap.String("username", s.Username), zap.Bool("dirty", s.IsDirty))
		},
	})
	return &session{st: st, engine: eng}, nil
}

func (s *session) Close() error {
	return s.st.Close()
}

// resolveUser returns the configured learner, or the only archived one.
func (s *session) resolveUser(ctx context.Context) (string, error) {
	if rt.cfg.User != "" {
		return rt.cfg.User, nil
	}
	names, err := s.st.Documents().Usernames(ctx)
	if err != nil {
		return "", err
	}
	switch len(names) {
	case 0:
		return "", errors.New("no progress documents archived; run 'peerstat new <username>'")
	case 1:
		return names[0], nil
	default:
		return "", errNoUser
	}
}

// loadLatest installs the newest archived document of the resolved learner.
func (s *session) loadLatest(ctx context.Context) error {
	user, err := s.resolveUser(ctx)
	if err != nil {
		return err
	}
	rev, err := s.st.Documents().Latest(ctx, user)
	if err != nil {
		return fmt.Errorf("read archive: %w", err)
	}
	if rev == nil {
		return fmt.Errorf("no progress document for %q; run 'peerstat new %s'", user, user)
	}
	if _, err := s.engine.LoadBytes(rev.Data); err != nil {
		return fmt.Errorf("revision %d: %w", rev.Revision, err)
	}
	return nil
}

// save archives the engine's document as a new revision and prunes old ones.
func (s *session) save(ctx context.Context) (*store.Revision, error) {
	var buf bytes.Buffer
	if err := s.engine.Export(&buf); err != nil {
		return nil, err
	}
	username := s.engine.Status().Username
	repo := s.st.Documents()
	rev, err := repo.Save(ctx, username, buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}
	if err := repo.Prune(ctx, username, rt.cfg.Archive.Keep); err != nil {
		rt.log.Warn("prune archive", zap.String("username", username), zap.Error(err))
	}
	return rev, nil
}

// withSession runs fn with an open session and the archived document loaded
// unless fresh is set.
func withSession(ctx context.Context, fresh bool, fn func(*session) error) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()
	if !fresh {
		if err := s.loadLatest(ctx); err != nil {
			return err
		}
	}
	return fn(s)
}

func readFile(path string) ([]byte, error) {
	if path == "-" {
		var buf bytes.Buffer
		_, err := buf.ReadFrom(os.Stdin)
		return buf.Bytes(), err
	}
	return os.ReadFile(path)
}
