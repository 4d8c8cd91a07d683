package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"testing"

	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/persistence/middleware"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/tree"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func secretSnapshot(id, value string) *tree.Snapshot {
	idx := 0
	return &tree.Snapshot{
		ID: id,
		Nodes: []tree.NodeRecord{
			{Handle: 0, Parent: -1, Path: "tokens", Type: "[]string", Source: "present"},
			{Handle: 1, Parent: 0, Path: "tokens", Index: &idx, Type: "string", Source: "present", Value: value},
		},
	}
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	// Setup
	underlyingStore := memory.NewStore()
	key := generateKey(t)
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
	secureStore := mw(underlyingStore)

	ctx := context.Background()

	// 1. Save
	if err := secureStore.Save(ctx, secretSnapshot("snap-1", "my-secret-sauce")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// 2. Verify Underlying Store directly (Should be encrypted)
	stored, err := underlyingStore.Load(ctx, "snap-1")
	if err != nil {
		t.Fatalf("Underlying load failed: %v", err)
	}
	if len(stored.Nodes) != 0 {
		t.Fatalf("Expected nodes to be hidden, found: %v", stored.Nodes)
	}
	if stored.Sealed == "" {
		t.Fatal("Expected sealed body in envelope")
	}

	// 3. Load via Middleware (Should be decrypted)
	loaded, err := secureStore.Load(ctx, "snap-1")
	if err != nil {
		t.Fatalf("Load via middleware failed: %v", err)
	}
	if len(loaded.Nodes) != 2 || loaded.Nodes[1].Value != "my-secret-sauce" {
		t.Errorf("Expected 'my-secret-sauce', got %+v", loaded.Nodes)
	}

	// 4. Listing and deleting pass through
	ids, err := secureStore.List(ctx)
	if err != nil || len(ids) != 1 {
		t.Fatalf("List = %v, %v", ids, err)
	}
	if err := secureStore.Delete(ctx, "snap-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	// Setup
	underlyingStore := memory.NewStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)

	// Create middleware with OLD key to save the initial snapshot
	secureStoreOld := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlyingStore)

	ctx := context.Background()

	// 1. Save with OLD key
	if err := secureStoreOld.Save(ctx, secretSnapshot("rot", "encrypted-with-old-key")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// 2. Load with NEW key (Active) + OLD key (Fallback)
	secureStoreNew := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlyingStore)

	loaded, err := secureStoreNew.Load(ctx, "rot")
	if err != nil {
		t.Fatalf("Load with rotated key failed: %v", err)
	}
	if loaded.Nodes[1].Value != "encrypted-with-old-key" {
		t.Errorf("Decryption with fallback key failed")
	}

	// 3. Save again (Should now use the NEW key)
	if err := secureStoreNew.Save(ctx, secretSnapshot("rot", "encrypted-with-new-key")); err != nil {
		t.Fatalf("Save with new key failed: %v", err)
	}

	// 4. Verify we CANNOT load with just OLD key anymore
	if _, err := secureStoreOld.Load(ctx, "rot"); err == nil {
		t.Error("Expected failure when loading new-key encryption with old-key middleware")
	}
}

func TestEncryptionMiddleware_RejectsPlainSnapshots(t *testing.T) {
	underlyingStore := memory.NewStore()
	ctx := context.Background()
	if err := underlyingStore.Save(ctx, secretSnapshot("plain", "x")); err != nil {
		t.Fatal(err)
	}

	var secureStore ports.SnapshotStore = middleware.NewEncryptionMiddleware(
		middleware.EncryptionConfig{ActiveKey: generateKey(t)},
	)(underlyingStore)
	if _, err := secureStore.Load(ctx, "plain"); err == nil {
		t.Error("Expected plain snapshot to be rejected")
	}
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected panic for invalid key size")
		}
	}()
	middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
}
