package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/matsen/acctbook/internal/account"
)

// setupTestStore returns an empty store backed by a file in a temp directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "accounts.json"), nil)
	s.now = func() time.Time { return testNow }
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s
}

func mustAdd(t *testing.T, s *Store, svc account.Service, id, user string) account.Account {
	t.Helper()
	a := account.New(svc, id, user, "", testNow)
	if err := s.Add(a); err != nil {
		t.Fatalf("Add(%s): %v", a.Key(), err)
	}
	return a
}

func TestStoreLoad_Absent(t *testing.T) {
	s := setupTestStore(t)

	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
	if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
		t.Error("Load must not create the storage file")
	}
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	s := setupTestStore(t)
	mustAdd(t, s, account.VK, "123", "alice")
	mustAdd(t, s, account.TG, "1", "bob")
	mustAdd(t, s, account.VK, "7", "Дмитрий")

	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := NewStore(s.Path(), nil)
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(loaded.List(""), s.List("")) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", loaded.List(""), s.List(""))
	}
}

func TestStoreAdd_Duplicate(t *testing.T) {
	s := setupTestStore(t)
	mustAdd(t, s, account.TG, "1", "bob")
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	before, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	err = s.Add(account.New(account.TG, "1", "carol", "", testNow))
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("Add duplicate: got %v, want ErrDuplicate", err)
	}

	got, found := s.Find(account.TG, "1")
	if !found || got.Username != "bob" {
		t.Errorf("Find(tg, 1) = %+v, %v; want bob", got, found)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}

	after, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Error("storage file changed after failed add")
	}
}

func TestStoreAdd_SameIDDifferentService(t *testing.T) {
	s := setupTestStore(t)
	mustAdd(t, s, account.TG, "1", "bob")
	mustAdd(t, s, account.VK, "1", "bob")

	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
}

func TestStoreRemove(t *testing.T) {
	s := setupTestStore(t)
	mustAdd(t, s, account.VK, "1", "a")
	mustAdd(t, s, account.VK, "2", "b")
	mustAdd(t, s, account.VK, "3", "c")

	if !s.Remove(account.VK, "2") {
		t.Fatal("Remove(vk, 2) = false, want true")
	}
	if s.Remove(account.VK, "2") {
		t.Error("second Remove(vk, 2) = true, want false")
	}
	if s.Remove(account.TG, "1") {
		t.Error("Remove(tg, 1) = true, want false")
	}

	var ids []string
	for _, a := range s.List("") {
		ids = append(ids, a.AccountID)
	}
	if !reflect.DeepEqual(ids, []string{"1", "3"}) {
		t.Errorf("remaining ids = %v, want [1 3]", ids)
	}
}

func TestStoreFind(t *testing.T) {
	s := setupTestStore(t)
	want := mustAdd(t, s, account.VK, "123", "alice")

	got, found := s.Find(account.VK, "123")
	if !found {
		t.Fatal("Find(vk, 123) not found")
	}
	if got != want {
		t.Errorf("Find = %+v, want %+v", got, want)
	}

	if _, found := s.Find(account.TG, "123"); found {
		t.Error("Find(tg, 123) found, want not found")
	}
}

func TestStoreList_Filter(t *testing.T) {
	s := setupTestStore(t)
	mustAdd(t, s, account.VK, "1", "a")
	mustAdd(t, s, account.TG, "2", "b")
	mustAdd(t, s, account.VK, "3", "c")
	mustAdd(t, s, account.TG, "4", "d")

	tests := []struct {
		service account.Service
		want    []string
	}{
		{"", []string{"1", "2", "3", "4"}},
		{account.VK, []string{"1", "3"}},
		{account.TG, []string{"2", "4"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.service), func(t *testing.T) {
			var ids []string
			for _, a := range s.List(tt.service) {
				if tt.service != "" && a.Service != tt.service {
					t.Errorf("List(%q) returned %s", tt.service, a.Key())
				}
				ids = append(ids, a.AccountID)
			}
			if !reflect.DeepEqual(ids, tt.want) {
				t.Errorf("List(%q) ids = %v, want %v", tt.service, ids, tt.want)
			}
		})
	}
}

func TestStoreList_ReturnsCopy(t *testing.T) {
	s := setupTestStore(t)
	mustAdd(t, s, account.VK, "1", "a")

	list := s.List("")
	list[0].Username = "mutated"

	got, _ := s.Find(account.VK, "1")
	if got.Username != "a" {
		t.Errorf("store modified through List result: %q", got.Username)
	}
}

func TestStoreCountByService(t *testing.T) {
	s := setupTestStore(t)
	mustAdd(t, s, account.VK, "1", "a")
	mustAdd(t, s, account.VK, "2", "b")

	counts := s.CountByService()
	if counts[account.VK] != 2 || counts[account.TG] != 0 {
		t.Errorf("CountByService = %v", counts)
	}
}

func TestStoreExport(t *testing.T) {
	s := setupTestStore(t)
	mustAdd(t, s, account.VK, "1", "a")
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	mustAdd(t, s, account.TG, "2", "b")

	primaryBefore, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	out := filepath.Join(t.TempDir(), "export.json")
	n, err := s.Export(out)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if n != 2 {
		t.Errorf("Export count = %d, want 2", n)
	}

	exported, err := ReadAccounts(out, testNow)
	if err != nil {
		t.Fatalf("ReadAccounts(export): %v", err)
	}
	if !reflect.DeepEqual(exported, s.List("")) {
		t.Errorf("exported %+v, want %+v", exported, s.List(""))
	}

	primaryAfter, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(primaryBefore, primaryAfter) {
		t.Error("export modified the storage file")
	}
}

func TestStoreExport_ToStorageFile(t *testing.T) {
	s := setupTestStore(t)
	mustAdd(t, s, account.VK, "1", "a")

	_, err := s.Export(s.Path())
	if !errors.Is(err, ErrExportToStorage) {
		t.Fatalf("Export to storage path: got %v, want ErrExportToStorage", err)
	}
	if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
		t.Error("storage file was written")
	}
}

func TestStoreSearch(t *testing.T) {
	s := setupTestStore(t)
	mustAdd(t, s, account.VK, "100", "Alice")
	mustAdd(t, s, account.TG, "200", "bob")
	if err := s.Add(account.New(account.TG, "300", "carol", "Work ALICE backup", testNow)); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := s.Search(context.Background(), "alice", "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	var keys []string
	for _, a := range got {
		keys = append(keys, a.Key())
	}
	if !reflect.DeepEqual(keys, []string{"vk:100", "tg:300"}) {
		t.Errorf("Search(alice) = %v, want [vk:100 tg:300]", keys)
	}

	got, err = s.Search(context.Background(), "alice", account.TG)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].Key() != "tg:300" {
		t.Errorf("Search(alice, tg) = %+v", got)
	}
}

func TestStoreInfo(t *testing.T) {
	s := setupTestStore(t)

	info, err := s.Info()
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if info.Exists || info.Records != 0 {
		t.Errorf("empty store info = %+v", info)
	}

	if err := s.Add(account.Account{Service: account.VK, AccountID: "1", Username: "a", CreatedAt: "2024-02-01T00:00:00"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(account.Account{Service: account.TG, AccountID: "2", Username: "b", CreatedAt: "2023-06-01T12:00:00"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(account.Account{Service: account.TG, AccountID: "3", Username: "c", CreatedAt: "not a time"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err = s.Info()
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if !info.Exists || info.Size == 0 {
		t.Errorf("expected existing non-empty file, got %+v", info)
	}
	if info.Records != 3 || info.ByService[account.TG] != 2 || info.ByService[account.VK] != 1 {
		t.Errorf("counts = %d %v", info.Records, info.ByService)
	}
	if want := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC); !info.Oldest.Equal(want) {
		t.Errorf("Oldest = %v, want %v", info.Oldest, want)
	}
	if want := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC); !info.Newest.Equal(want) {
		t.Errorf("Newest = %v, want %v", info.Newest, want)
	}
}

func TestStoreLoad_RejectsBadFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantDup bool
	}{
		{"empty file", "", false},
		{"null", "null", false},
		{"repeated key", `[{"service": "tg", "account_id": "1", "username": "bob"}, {"service": "tg", "account_id": "1", "username": "bob"}]`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "accounts.json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			s := NewStore(path, nil)
			err := s.Load()

			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("Load: got %v, want *ParseError", err)
			}
			if errors.Is(err, ErrDuplicate) != tt.wantDup {
				t.Errorf("errors.Is(err, ErrDuplicate) = %v, want %v", !tt.wantDup, tt.wantDup)
			}
			if s.Len() != 0 {
				t.Errorf("Len = %d after failed load, want 0", s.Len())
			}
		})
	}
}
