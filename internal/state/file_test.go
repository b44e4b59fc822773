package state

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/user/helpline/internal/types"
)

func testRecord(id types.SessionID) *types.SessionRecord {
	return &types.SessionRecord{
		SessionID: id,
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Conversation: types.Conversation{
			Messages: []types.ConversationMessage{{Role: types.RoleUser, Content: "help"}},
		},
		Issue:              types.Issue{Description: "something broke"},
		ContentSamples:     map[string]types.FileSample{},
		Diagnostics:        &types.Diagnostics{Errors: []types.ErrorDetail{}, Warnings: []types.ErrorDetail{}, Logs: []types.LogEntry{}},
		SolutionsAttempted: []types.SolutionAttempt{},
		Dependencies:       []types.Dependency{},
		Performance:        map[string]float64{"conversationTokens": 2},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := NewFileStore(t.TempDir())
	ctx := context.Background()
	id := types.NewSessionID()
	record := testRecord(id)

	if err := store.Put(ctx, id, record); err != nil {
		t.Fatal(err)
	}

	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, record) {
		t.Errorf("round trip mismatch:\nput: %+v\ngot: %+v", record, got)
	}
}

func TestFileStoreNotFound(t *testing.T) {
	store := NewFileStore(t.TempDir())
	_, err := store.Get(context.Background(), "missing-id")
	if !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFileStoreOverwrite(t *testing.T) {
	store := NewFileStore(t.TempDir())
	ctx := context.Background()
	id := types.NewSessionID()

	first := testRecord(id)
	if err := store.Put(ctx, id, first); err != nil {
		t.Fatal(err)
	}
	second := testRecord(id)
	second.Issue.Description = "updated description"
	if err := store.Put(ctx, id, second); err != nil {
		t.Fatal(err)
	}

	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got.Issue.Description != "updated description" {
		t.Errorf("expected overwrite, got %q", got.Issue.Description)
	}
}

func TestFileStoreKeyLayout(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	ctx := context.Background()
	id := types.SessionID("22222222-2222-2222-2222-222222222222")

	if err := store.Put(ctx, id, testRecord(id)); err != nil {
		t.Fatal(err)
	}

	want := filepath.Join(dir, "sessions", "help-session-"+string(id)+".json")
	if _, err := os.Stat(want); err != nil {
		t.Errorf("expected session file at %s: %v", want, err)
	}
}

func TestFileStoreList(t *testing.T) {
	store := NewFileStore(t.TempDir())
	ctx := context.Background()

	ids := []types.SessionID{types.NewSessionID(), types.NewSessionID(), types.NewSessionID()}
	for i, id := range ids {
		record := testRecord(id)
		record.Timestamp = record.Timestamp.Add(time.Duration(i) * time.Hour)
		if err := store.Put(ctx, id, record); err != nil {
			t.Fatal(err)
		}
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 records, got %d", len(list))
	}
	// Newest first: the last id written has the latest timestamp.
	if list[0].SessionID != ids[2] {
		t.Errorf("expected newest record first, got %s", list[0].SessionID)
	}
	if !list[0].Timestamp.After(list[2].Timestamp) {
		t.Error("expected descending timestamp order")
	}
}

func TestFileStoreListEmpty(t *testing.T) {
	store := NewFileStore(t.TempDir())
	list, err := store.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Errorf("expected no records, got %d", len(list))
	}
}

func TestFileStoreConcurrentDistinctKeys(t *testing.T) {
	store := NewFileStore(t.TempDir())
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make([]types.SessionID, 8)
	for i := range ids {
		ids[i] = types.NewSessionID()
		wg.Add(1)
		go func(id types.SessionID) {
			defer wg.Done()
			if err := store.Put(ctx, id, testRecord(id)); err != nil {
				t.Error(err)
			}
		}(ids[i])
	}
	wg.Wait()

	for _, id := range ids {
		got, err := store.Get(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		if got.SessionID != id {
			t.Errorf("expected record for %s, got %s", id, got.SessionID)
		}
	}
}
