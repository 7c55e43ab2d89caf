package conversation

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestTranscriptStore(t *testing.T) *TranscriptStore {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewTranscriptStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func TestTranscriptAppendAndList(t *testing.T) {
	store := newTestTranscriptStore(t)
	ctx := context.Background()

	if err := store.Append(ctx, "s1", TranscriptMessage{Role: ChatRoleUser, Body: "book me in"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.Append(ctx, "s1", TranscriptMessage{Role: ChatRoleAssistant, Body: "Done!"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	msgs, err := store.List(ctx, "s1", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Role != ChatRoleUser || msgs[0].Body != "book me in" {
		t.Fatalf("unexpected first message: %+v", msgs[0])
	}
	if msgs[1].Role != ChatRoleAssistant {
		t.Fatalf("unexpected second message: %+v", msgs[1])
	}
	if msgs[0].ID == "" || msgs[0].Timestamp.IsZero() {
		t.Fatalf("id and timestamp should be filled in: %+v", msgs[0])
	}
}

func TestTranscriptListReturnsMostRecent(t *testing.T) {
	store := newTestTranscriptStore(t)
	ctx := context.Background()

	for _, body := range []string{"one", "two", "three"} {
		if err := store.Append(ctx, "s1", TranscriptMessage{Role: ChatRoleUser, Body: body}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	msgs, err := store.List(ctx, "s1", 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Body != "two" || msgs[1].Body != "three" {
		t.Fatalf("unexpected window: %+v", msgs)
	}
}

func TestTranscriptSessionsAreIsolated(t *testing.T) {
	store := newTestTranscriptStore(t)
	ctx := context.Background()

	if err := store.Append(ctx, "s1", TranscriptMessage{Role: ChatRoleUser, Body: "hello"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	msgs, err := store.List(ctx, "s2", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("expected empty transcript for other session, got %d", len(msgs))
	}
}

func TestTranscriptRequiresSessionID(t *testing.T) {
	store := newTestTranscriptStore(t)

	if err := store.Append(context.Background(), "", TranscriptMessage{Body: "x"}); err == nil {
		t.Fatalf("expected error for empty session id")
	}
	if _, err := store.List(context.Background(), "", 10); err == nil {
		t.Fatalf("expected error for empty session id")
	}
}

func TestNilTranscriptStoreIsNoOp(t *testing.T) {
	var store *TranscriptStore

	if err := store.Append(context.Background(), "s1", TranscriptMessage{Body: "x"}); err != nil {
		t.Fatalf("nil store append: %v", err)
	}
	msgs, err := store.List(context.Background(), "s1", 10)
	if err != nil {
		t.Fatalf("nil store list: %v", err)
	}
	if msgs != nil {
		t.Fatalf("nil store should return nil, got %+v", msgs)
	}
}
