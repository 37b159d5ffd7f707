package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func newTestDedup(t *testing.T) (*WebhookDedup, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewWebhookDedup(client), mr
}

func TestWebhookDedup_MarkAndCheck(t *testing.T) {
	dedup, _ := newTestDedup(t)
	ctx := context.Background()

	dup, err := dedup.IsDuplicate(ctx, "DV-PAY-1-42", "success")
	if err != nil {
		t.Fatalf("IsDuplicate: %v", err)
	}
	if dup {
		t.Fatal("fresh delivery must not be a duplicate")
	}

	if err := dedup.Mark(ctx, "DV-PAY-1-42", "success"); err != nil {
		t.Fatalf("Mark: %v", err)
	}

	dup, err = dedup.IsDuplicate(ctx, "DV-PAY-1-42", "success")
	if err != nil {
		t.Fatalf("IsDuplicate: %v", err)
	}
	if !dup {
		t.Fatal("marked delivery must be reported as duplicate")
	}
}

func TestWebhookDedup_KeyedByReferenceAndStatus(t *testing.T) {
	dedup, _ := newTestDedup(t)
	ctx := context.Background()

	if err := dedup.Mark(ctx, "DV-PAY-1-42", "success"); err != nil {
		t.Fatalf("Mark: %v", err)
	}

	// Same reference, different status is a distinct delivery.
	dup, err := dedup.IsDuplicate(ctx, "DV-PAY-1-42", "failed")
	if err != nil {
		t.Fatalf("IsDuplicate: %v", err)
	}
	if dup {
		t.Fatal("different status must not collide")
	}

	// Different reference, same status likewise.
	dup, err = dedup.IsDuplicate(ctx, "DV-PAY-1-43", "success")
	if err != nil {
		t.Fatalf("IsDuplicate: %v", err)
	}
	if dup {
		t.Fatal("different reference must not collide")
	}
}

func TestWebhookDedup_MarkExpires(t *testing.T) {
	dedup, mr := newTestDedup(t)
	ctx := context.Background()

	if err := dedup.Mark(ctx, "DV-PAY-1-42", "success"); err != nil {
		t.Fatalf("Mark: %v", err)
	}

	mr.FastForward(dedupTTL + time.Minute)

	dup, err := dedup.IsDuplicate(ctx, "DV-PAY-1-42", "success")
	if err != nil {
		t.Fatalf("IsDuplicate: %v", err)
	}
	if dup {
		t.Fatal("expired mark must no longer be a duplicate")
	}
}
