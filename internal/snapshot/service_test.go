package snapshot

import (
	"context"
	"errors"
	"testing"
)

type recordingSink struct {
	name  string
	err   error
	saved []Snapshot
}

func (r *recordingSink) Name() string { return r.name }

func (r *recordingSink) Save(_ context.Context, snap Snapshot) error {
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, snap)
	return nil
}

func TestFetchAndStoreSavesToEverySink(t *testing.T) {
	file := &recordingSink{name: "file"}
	mirror := &recordingSink{name: "mirror"}
	svc := NewService(NewAggregator(failingSources(errTest), 0, nil), []Sink{file, mirror}, nil)

	snap, err := svc.FetchAndStore(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(file.saved) != 1 || len(mirror.saved) != 1 {
		t.Fatalf("expected one save per sink, got %d and %d", len(file.saved), len(mirror.saved))
	}
	if file.saved[0] != snap {
		t.Fatalf("expected sink to receive the returned snapshot")
	}
}

// TestFetchAndStoreReportsSinkFailure checks that persistence is the only
// error surfaced and that other sinks still run.
func TestFetchAndStoreReportsSinkFailure(t *testing.T) {
	diskFull := errors.New("disk full")
	file := &recordingSink{name: "file", err: diskFull}
	mirror := &recordingSink{name: "mirror"}
	svc := NewService(NewAggregator(liveSources(), 0, nil), []Sink{file, mirror}, nil)

	_, err := svc.FetchAndStore(context.Background())
	if !errors.Is(err, diskFull) {
		t.Fatalf("expected disk full error, got %v", err)
	}
	if len(mirror.saved) != 1 {
		t.Fatalf("expected mirror to still be written")
	}
}

func TestFetchAndStoreWithoutSinks(t *testing.T) {
	svc := NewService(NewAggregator(liveSources(), 0, nil), nil, nil)
	if _, err := svc.FetchAndStore(context.Background()); err == nil {
		t.Fatalf("expected error when no sinks are configured")
	}
}
