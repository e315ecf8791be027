package database

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := Open(DefaultConfig(filepath.Join(t.TempDir(), "test.db")))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenCreatesSchema(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := Open(DefaultConfig(dbPath))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}

	var count int
	if err := db.db.QueryRow("SELECT COUNT(*) FROM saves").Scan(&count); err != nil {
		t.Errorf("Failed to query saves table: %v", err)
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	nestedPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	db, err := Open(DefaultConfig(nestedPath))
	if err != nil {
		t.Fatalf("Failed to open database with nested path: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(nestedPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestSaveAndLoadGame(t *testing.T) {
	db := openTestDB(t)

	payload := []byte("character:\n  name: Aldric\n")
	if err := db.SaveGame("slot1", "Aldric", 2, payload); err != nil {
		t.Fatalf("SaveGame failed: %v", err)
	}

	loaded, err := db.LoadGame("slot1")
	if err != nil {
		t.Fatalf("LoadGame failed: %v", err)
	}
	if string(loaded) != string(payload) {
		t.Errorf("payload = %q, want %q", loaded, payload)
	}
}

func TestSaveGameOverwritesSlot(t *testing.T) {
	db := openTestDB(t)

	if err := db.SaveGame("slot1", "Aldric", 1, []byte("first")); err != nil {
		t.Fatalf("SaveGame failed: %v", err)
	}
	if err := db.SaveGame("slot1", "Aldric", 3, []byte("second")); err != nil {
		t.Fatalf("SaveGame overwrite failed: %v", err)
	}

	loaded, err := db.LoadGame("slot1")
	if err != nil {
		t.Fatalf("LoadGame failed: %v", err)
	}
	if string(loaded) != "second" {
		t.Errorf("payload = %q, want the overwritten value", loaded)
	}

	saves, err := db.ListSaves()
	if err != nil {
		t.Fatalf("ListSaves failed: %v", err)
	}
	if len(saves) != 1 {
		t.Fatalf("%d slots after overwrite, want 1", len(saves))
	}
	if saves[0].Tier != 3 {
		t.Errorf("tier = %d, want the overwritten 3", saves[0].Tier)
	}
}

func TestLoadGameMissingSlot(t *testing.T) {
	db := openTestDB(t)

	if _, err := db.LoadGame("nope"); !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("expected ErrSlotNotFound, got %v", err)
	}
}

func TestListSavesMetadata(t *testing.T) {
	db := openTestDB(t)

	if err := db.SaveGame("alpha", "Aldric", 1, []byte("a")); err != nil {
		t.Fatalf("SaveGame failed: %v", err)
	}
	if err := db.SaveGame("beta", "Mira", 4, []byte("b")); err != nil {
		t.Fatalf("SaveGame failed: %v", err)
	}

	saves, err := db.ListSaves()
	if err != nil {
		t.Fatalf("ListSaves failed: %v", err)
	}
	if len(saves) != 2 {
		t.Fatalf("%d slots, want 2", len(saves))
	}

	byName := map[string]SlotInfo{}
	for _, s := range saves {
		byName[s.Slot] = s
	}
	if byName["beta"].CharacterName != "Mira" || byName["beta"].Tier != 4 {
		t.Errorf("beta = %+v, want Mira at tier 4", byName["beta"])
	}
	if byName["alpha"].CreatedAt.IsZero() || byName["alpha"].UpdatedAt.IsZero() {
		t.Error("timestamps not persisted")
	}
}

func TestDeleteSave(t *testing.T) {
	db := openTestDB(t)

	if err := db.SaveGame("slot1", "Aldric", 1, []byte("x")); err != nil {
		t.Fatalf("SaveGame failed: %v", err)
	}
	if err := db.DeleteSave("slot1"); err != nil {
		t.Fatalf("DeleteSave failed: %v", err)
	}

	if _, err := db.LoadGame("slot1"); !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("expected ErrSlotNotFound after delete, got %v", err)
	}
	if err := db.DeleteSave("slot1"); !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("deleting a missing slot: expected ErrSlotNotFound, got %v", err)
	}
}

func TestHasSave(t *testing.T) {
	db := openTestDB(t)

	ok, err := db.HasSave("slot1")
	if err != nil {
		t.Fatalf("HasSave failed: %v", err)
	}
	if ok {
		t.Error("HasSave reported a slot that was never written")
	}

	if err := db.SaveGame("slot1", "Aldric", 1, []byte("x")); err != nil {
		t.Fatalf("SaveGame failed: %v", err)
	}
	ok, err = db.HasSave("slot1")
	if err != nil {
		t.Fatalf("HasSave failed: %v", err)
	}
	if !ok {
		t.Error("HasSave missed an existing slot")
	}
}
