package core

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/joeydtaylor/steeze-gateway/pkg/codec"
	"github.com/joeydtaylor/steeze-gateway/pkg/core/transform"
	manifest "github.com/joeydtaylor/steeze-gateway/pkg/manifest"
)

type memStore struct {
	eps map[string]manifest.Endpoint
	err error
}

func newMemStore(eps ...manifest.Endpoint) *memStore {
	m := &memStore{eps: map[string]manifest.Endpoint{}}
	for _, ep := range eps {
		m.eps[ep.Name] = ep
	}
	return m
}

func (m *memStore) Get(_ context.Context, name string) (manifest.Endpoint, error) {
	if m.err != nil {
		return manifest.Endpoint{}, m.err
	}
	ep, ok := m.eps[name]
	if !ok {
		return manifest.Endpoint{}, ErrEndpointNotFound
	}
	return ep, nil
}

type fakeTx struct {
	commits   int
	closes    int
	commitErr error
}

func (t *fakeTx) Commit(context.Context) error {
	t.commits++
	return t.commitErr
}

func (t *fakeTx) Close(context.Context) error {
	t.closes++
	return nil
}

type fakeTxManager struct {
	begun     []*fakeTx
	beginErr  error
	commitErr error
}

func (m *fakeTxManager) Begin(context.Context) (Tx, error) {
	if m.beginErr != nil {
		return nil, m.beginErr
	}
	tx := &fakeTx{commitErr: m.commitErr}
	m.begun = append(m.begun, tx)
	return tx, nil
}

type sinkEntry struct{ title, message string }

type recordingSink struct {
	mu      sync.Mutex
	entries []sinkEntry
}

func (s *recordingSink) Record(_ context.Context, title, message string) {
	s.mu.Lock()
	s.entries = append(s.entries, sinkEntry{title, message})
	s.mu.Unlock()
}

type observation struct {
	endpoint string
	status   int
}

type recordingObserver struct{ seen []observation }

func (o *recordingObserver) ObserveDispatch(endpoint string, status int, _ time.Duration) {
	o.seen = append(o.seen, observation{endpoint, status})
}

type testNote struct {
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

func (n testNote) Validate() error {
	if n.Title == "" {
		return errors.New("title is required")
	}
	return nil
}

// fragileNote panics in Validate.
type fragileNote struct {
	Title string `json:"title"`
}

func (fragileNote) Validate() error { panic("validator blew up") }

type otherModel struct {
	ID int `json:"id"`
}

func init() {
	MustRegisterType[testNote]("test_note", codec.JSONStrict)
	MustRegisterType[otherModel]("test_other", codec.JSONLenient)
	MustRegisterType[fragileNote]("test_fragile", codec.JSONStrict)
	transform.Register("test_note", "upper", func(n testNote) (testNote, error) {
		n.Title = strings.ToUpper(n.Title)
		return n, nil
	})
	transform.Register("test_note", "explode", func(testNote) (testNote, error) {
		panic("transformer blew up")
	})
	transform.Register("test_note", "reject", func(n testNote) (testNote, error) {
		return n, errors.New("rejected by transform")
	})
}
