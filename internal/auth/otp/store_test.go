package otp

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStorePutGetDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	pending := PendingRegistration{
		FullName:     "Asha Rao",
		Email:        "asha@example.com",
		PasswordHash: "$argon2id$...",
		Code:         "482913",
	}
	if err := store.Put(ctx, pending.Email, pending, 5*time.Minute); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.Get(ctx, pending.Email)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Code != pending.Code || got.FullName != pending.FullName {
		t.Fatalf("got %+v, want %+v", got, pending)
	}

	if err := store.Delete(ctx, pending.Email); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, pending.Email); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	ctx := context.Background()
	pending := PendingRegistration{Email: "late@example.com", Code: "000111"}
	if err := store.Put(ctx, pending.Email, pending, 5*time.Minute); err != nil {
		t.Fatalf("put: %v", err)
	}

	now = now.Add(6 * time.Minute)
	if _, err := store.Get(ctx, pending.Email); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound after expiry", err)
	}
}

func TestMemoryStoreMissing(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.Get(context.Background(), "nobody@example.com"); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
