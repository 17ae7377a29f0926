package rowstore

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestUpsertThenFindByHash(t *testing.T) {
	s := openTestStore(t)

	if err := s.Upsert("hash1", []byte("keyenc"), []byte("iv"), []byte("cipher"), 100); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	row, err := s.FindByHash("hash1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if row == nil {
		t.Fatal("expected row, got nil")
	}
	if string(row.KeyEnc) != "keyenc" || string(row.IV) != "iv" || string(row.Cipher) != "cipher" {
		t.Fatalf("unexpected row contents: %+v", row)
	}
	if row.Created != 100 || row.Updated != 100 {
		t.Fatalf("unexpected timestamps: %+v", row)
	}
}

func TestUpsertOverwritesPreservesCreated(t *testing.T) {
	s := openTestStore(t)

	if err := s.Upsert("hash1", []byte("v1"), []byte("iv1"), []byte("c1"), 100); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := s.Upsert("hash1", []byte("v2"), []byte("iv2"), []byte("c2"), 200); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	row, err := s.FindByHash("hash1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if string(row.KeyEnc) != "v2" {
		t.Fatalf("expected overwritten key_enc, got %q", row.KeyEnc)
	}
	if row.Created != 100 {
		t.Fatalf("expected created preserved at 100, got %d", row.Created)
	}
	if row.Updated != 200 {
		t.Fatalf("expected updated to 200, got %d", row.Updated)
	}
}

func TestFindByHashMissingReturnsNilNil(t *testing.T) {
	s := openTestStore(t)
	row, err := s.FindByHash("nope")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if row != nil {
		t.Fatalf("expected nil row, got %+v", row)
	}
}

func TestFindAllReturnsAllRows(t *testing.T) {
	s := openTestStore(t)
	for i, h := range []string{"a", "b", "c"} {
		if err := s.Upsert(h, []byte("v"), []byte("iv"), []byte("c"), int64(i)); err != nil {
			t.Fatalf("upsert %s: %v", h, err)
		}
	}
	rows, err := s.FindAll()
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
}

func TestDeleteByHash(t *testing.T) {
	s := openTestStore(t)
	if err := s.Upsert("hash1", []byte("v"), []byte("iv"), []byte("c"), 1); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	deleted, err := s.DeleteByHash("hash1")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !deleted {
		t.Fatal("expected deleted=true")
	}

	deleted, err = s.DeleteByHash("hash1")
	if err != nil {
		t.Fatalf("delete again: %v", err)
	}
	if deleted {
		t.Fatal("expected deleted=false on second delete")
	}
}

func TestCheckpointSucceedsOnEmptyAndPopulatedStore(t *testing.T) {
	s := openTestStore(t)
	if err := s.Checkpoint(); err != nil {
		t.Fatalf("checkpoint empty: %v", err)
	}
	if err := s.Upsert("hash1", []byte("v"), []byte("iv"), []byte("c"), 1); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.Checkpoint(); err != nil {
		t.Fatalf("checkpoint populated: %v", err)
	}
}

func TestFilePathReturnsOpenedPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	if s.FilePath() != path {
		t.Fatalf("expected %q, got %q", path, s.FilePath())
	}
}
