package retention

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/red-maple-labs/proxherald/internal/logstore"
)

// persistAged writes an entry and backdates its modification time.
func persistAged(t *testing.T, store *logstore.Store, ageDays int) string {
	t.Helper()
	id, err := store.Persist(fmt.Sprintf("entry aged %d days", ageDays))
	if err != nil {
		t.Fatalf("Persist() error: %v", err)
	}
	mtime := time.Now().Add(-time.Duration(ageDays) * 24 * time.Hour)
	path := filepath.Join(store.Dir(), id+".log")
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("Chtimes() error: %v", err)
	}
	return id
}

func TestSweepDeletesOnlyExpiredEntries(t *testing.T) {
	store, err := logstore.New(t.TempDir())
	if err != nil {
		t.Fatalf("logstore.New() error: %v", err)
	}

	fresh := persistAged(t, store, 1)
	middle := persistAged(t, store, 10)
	expired := persistAged(t, store, 40)

	sweeper := NewSweeper(store, 30)
	deleted, err := sweeper.Sweep()
	if err != nil {
		t.Fatalf("Sweep() error: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Sweep() deleted %d, want 1", deleted)
	}

	if _, err := store.Fetch(fresh); err != nil {
		t.Errorf("1-day entry deleted: %v", err)
	}
	if _, err := store.Fetch(middle); err != nil {
		t.Errorf("10-day entry deleted: %v", err)
	}
	if _, err := store.Fetch(expired); !errors.Is(err, logstore.ErrNotFound) {
		t.Errorf("40-day entry survived: %v", err)
	}
}

func TestSweepDisabledRetention(t *testing.T) {
	store, err := logstore.New(t.TempDir())
	if err != nil {
		t.Fatalf("logstore.New() error: %v", err)
	}
	ancient := persistAged(t, store, 3650)

	sweeper := NewSweeper(store, 0)
	deleted, err := sweeper.Sweep()
	if err != nil {
		t.Fatalf("Sweep() error: %v", err)
	}
	if deleted != 0 {
		t.Errorf("Sweep() with retention disabled deleted %d entries", deleted)
	}
	if _, err := store.Fetch(ancient); err != nil {
		t.Errorf("entry deleted despite disabled retention: %v", err)
	}
}

func TestSweepIdempotent(t *testing.T) {
	store, err := logstore.New(t.TempDir())
	if err != nil {
		t.Fatalf("logstore.New() error: %v", err)
	}
	persistAged(t, store, 40)
	persistAged(t, store, 1)

	sweeper := NewSweeper(store, 30)
	if deleted, _ := sweeper.Sweep(); deleted != 1 {
		t.Fatalf("first Sweep() deleted %d, want 1", deleted)
	}
	if deleted, _ := sweeper.Sweep(); deleted != 0 {
		t.Errorf("second Sweep() deleted %d, want 0", deleted)
	}
}

// failingStore wraps a Store and fails deletion of one designated entry.
type failingStore struct {
	Store
	failID string
}

func (f *failingStore) Delete(id string) error {
	if id == f.failID {
		return errors.New("operation not permitted")
	}
	return f.Store.Delete(id)
}

func TestSweepContinuesPastDeleteFailures(t *testing.T) {
	store, err := logstore.New(t.TempDir())
	if err != nil {
		t.Fatalf("logstore.New() error: %v", err)
	}
	stuck := persistAged(t, store, 40)
	removable := persistAged(t, store, 50)

	sweeper := NewSweeper(&failingStore{Store: store, failID: stuck}, 30)
	deleted, err := sweeper.Sweep()
	if err != nil {
		t.Fatalf("Sweep() error: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Sweep() deleted %d, want 1 despite one failure", deleted)
	}
	if _, err := store.Fetch(removable); !errors.Is(err, logstore.ErrNotFound) {
		t.Errorf("removable entry survived: %v", err)
	}
}

// listFailStore always fails enumeration.
type listFailStore struct{}

func (listFailStore) List() ([]logstore.Entry, error) {
	return nil, errors.New("disk on fire")
}

func (listFailStore) Delete(string) error { return nil }

func TestSweepSurfacesListError(t *testing.T) {
	sweeper := NewSweeper(listFailStore{}, 30)
	if _, err := sweeper.Sweep(); err == nil {
		t.Error("Sweep() = nil, want list error")
	}
}

func TestRunRespondsToCancellation(t *testing.T) {
	store, err := logstore.New(t.TempDir())
	if err != nil {
		t.Fatalf("logstore.New() error: %v", err)
	}

	sweeper := NewSweeper(store, 30)
	sweeper.interval = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- sweeper.Run(ctx)
	}()

	// Let at least one interval pass, then cancel.
	time.Sleep(120 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run() did not acknowledge cancellation")
	}
}

func TestRunSweepsImmediately(t *testing.T) {
	store, err := logstore.New(t.TempDir())
	if err != nil {
		t.Fatalf("logstore.New() error: %v", err)
	}
	expired := persistAged(t, store, 40)

	sweeper := NewSweeper(store, 30)
	sweeper.interval = time.Hour // only the startup sweep can fire

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- sweeper.Run(ctx)
	}()

	// The initial sweep runs before the ticker loop; poll briefly.
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if _, err := store.Fetch(expired); errors.Is(err, logstore.ErrNotFound) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	<-done

	if _, err := store.Fetch(expired); !errors.Is(err, logstore.ErrNotFound) {
		t.Errorf("startup sweep did not delete expired entry: %v", err)
	}
}
