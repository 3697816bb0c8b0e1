package blobstore

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	if err := store.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := store.Set(ctx, "document", []byte(`{"pages":[]}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := store.Get(ctx, "document")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `{"pages":[]}` {
		t.Fatalf("unexpected blob %q", got)
	}

	if err := store.Set(ctx, "document", []byte(`{"pages":[1]}`)); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	got, err = store.Get(ctx, "document")
	if err != nil {
		t.Fatalf("Get after overwrite failed: %v", err)
	}
	if string(got) != `{"pages":[1]}` {
		t.Fatalf("overwrite not visible, got %q", got)
	}

	if err := store.Delete(ctx, "document"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "document"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, "document"); err != nil {
		t.Fatalf("second Delete should be a no-op, got %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestMemoryStoreCopiesData(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	data := []byte("abc")
	if err := store.Set(ctx, "k", data); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	data[0] = 'z'
	got, _ := store.Get(ctx, "k")
	if string(got) != "abc" {
		t.Fatalf("stored blob aliased caller slice: %q", got)
	}
}

func TestRedisStore(t *testing.T) {
	s := miniredis.RunT(t)
	store, err := NewRedis(context.Background(), "redis://"+s.Addr())
	if err != nil {
		t.Fatalf("NewRedis failed: %v", err)
	}
	defer store.Close()

	exerciseStore(t, store)
}

func TestRedisStoreUsesPrefix(t *testing.T) {
	s := miniredis.RunT(t)
	store, err := NewRedis(context.Background(), "redis://"+s.Addr())
	if err != nil {
		t.Fatalf("NewRedis failed: %v", err)
	}
	defer store.Close()

	if err := store.Set(context.Background(), "doc", []byte("x")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if !s.Exists("blob:doc") {
		t.Fatalf("expected key blob:doc, keys=%v", s.Keys())
	}
	if ttl := s.TTL("blob:doc"); ttl != 0 {
		t.Fatalf("expected no expiry, got %v", ttl)
	}
}

func TestRedisStoreBadURL(t *testing.T) {
	if _, err := NewRedis(context.Background(), "not-a-url"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "inknote.db")
	store, err := OpenSQLite(context.Background(), path)
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	defer store.Close()

	exerciseStore(t, store)
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "inknote.db")
	store, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	if err := store.Set(ctx, "doc", []byte("persisted")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	_ = store.Close()

	reopened, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()
	got, err := reopened.Get(ctx, "doc")
	if err != nil || string(got) != "persisted" {
		t.Fatalf("expected persisted blob, got %q err=%v", got, err)
	}
}

func TestGitStore(t *testing.T) {
	store, err := OpenGit(filepath.Join(t.TempDir(), "repo"))
	if err != nil {
		t.Fatalf("OpenGit failed: %v", err)
	}
	defer store.Close()

	exerciseStore(t, store)
}

func TestGitStoreRevisions(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := OpenGit(dir)
	if err != nil {
		t.Fatalf("OpenGit failed: %v", err)
	}

	revs, err := store.Revisions("doc", 10)
	if err != nil || len(revs) != 0 {
		t.Fatalf("expected no revisions on empty repo, got %v err=%v", revs, err)
	}

	for _, body := range []string{"one", "two", "two", "three"} {
		if err := store.Set(ctx, "doc", []byte(body)); err != nil {
			t.Fatalf("Set(%s) failed: %v", body, err)
		}
	}

	revs, err = store.Revisions("doc", 0)
	if err != nil {
		t.Fatalf("Revisions failed: %v", err)
	}
	if len(revs) != 3 {
		t.Fatalf("expected 3 revisions (identical save skipped), got %d", len(revs))
	}
	if revs[0].Message != "Save doc" || len(revs[0].Hash) != 7 {
		t.Fatalf("unexpected newest revision %+v", revs[0])
	}

	limited, err := store.Revisions("doc", 2)
	if err != nil || len(limited) != 2 {
		t.Fatalf("expected 2 limited revisions, got %d err=%v", len(limited), err)
	}

	reopened, err := OpenGit(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	got, err := reopened.Get(ctx, "doc")
	if err != nil || string(got) != "three" {
		t.Fatalf("expected latest blob after reopen, got %q err=%v", got, err)
	}
}

func TestGitFileName(t *testing.T) {
	tests := map[string]string{
		"document":     "document.json",
		"inknote/doc":  "inknote_doc.json",
		"a b":          "a_b.json",
		"":             "blob.json",
		"v1.2-final_x": "v1.2-final_x.json",
	}
	for in, want := range tests {
		if got := fileName(in); got != want {
			t.Errorf("fileName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("INKNOTE_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("INKNOTE_TEST_DATABASE_URL not set")
	}
	store, err := OpenPostgres(context.Background(), url)
	if err != nil {
		t.Fatalf("OpenPostgres failed: %v", err)
	}
	defer store.Close()

	exerciseStore(t, store)
}

func TestMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	names := map[string]bool{}
	for _, entry := range entries {
		names[entry.Name()] = true
	}
	if len(names) == 0 {
		t.Fatal("no embedded migrations")
	}
	for name := range names {
		if up, ok := strings.CutSuffix(name, ".up.sql"); ok && !names[up+".down.sql"] {
			t.Errorf("migration %s has no down file", name)
		}
		if down, ok := strings.CutSuffix(name, ".down.sql"); ok && !names[down+".up.sql"] {
			t.Errorf("migration %s has no up file", name)
		}
	}
}

func TestOpenDrivers(t *testing.T) {
	ctx := context.Background()

	store, err := Open(ctx, Options{})
	if err != nil {
		t.Fatalf("default driver failed: %v", err)
	}
	if _, ok := store.(*Memory); !ok {
		t.Fatalf("expected memory store by default, got %T", store)
	}

	store, err = Open(ctx, Options{Driver: "SQLite", SQLitePath: filepath.Join(t.TempDir(), "x.db")})
	if err != nil {
		t.Fatalf("sqlite driver failed: %v", err)
	}
	_ = store.Close()

	if _, err := Open(ctx, Options{Driver: "etcd"}); err == nil {
		t.Fatal("expected unknown driver error")
	}
}
