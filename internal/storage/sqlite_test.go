package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenCreatesFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "scores.db")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestStoreTopScores(t *testing.T) {
	store := openTestStore(t)

	for _, score := range []int{100, 50, 200} {
		if _, err := store.SaveScore("bubbles", score); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}
	if _, err := store.SaveScore("bubbles_puzzle", 999); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	scores, err := store.TopScores("bubbles", 2)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("TopScores() returned %d entries, expected 2", len(scores))
	}
	if scores[0].Score != 200 || scores[1].Score != 100 {
		t.Errorf("TopScores() = [%d %d], expected [200 100]", scores[0].Score, scores[1].Score)
	}
	if scores[0].CreatedAt.IsZero() {
		t.Error("CreatedAt was not populated")
	}

	high, err := store.HighScore("bubbles")
	if err != nil || high != 200 {
		t.Errorf("HighScore() = %d, %v, expected 200", high, err)
	}
	if high, _ := store.HighScore("unknown"); high != 0 {
		t.Errorf("HighScore(unknown) = %d, expected 0", high)
	}

	all, err := store.AllScores("bubbles")
	if err != nil || len(all) != 3 {
		t.Errorf("AllScores() = %d entries, %v, expected 3", len(all), err)
	}
}

func TestStoreSaveRound(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveRound(RoundRecord{
		GameID:    "bubbles",
		Player:    "ada",
		Score:     450,
		Shots:     31,
		Popped:    27,
		Dropped:   9,
		BestChain: 3,
		Cleared:   true,
		Duration:  95 * time.Second,
	})
	if err != nil {
		t.Fatalf("SaveRound() failed: %v", err)
	}
	if id == "" {
		t.Fatal("SaveRound() returned an empty round ID")
	}

	rec, err := store.RoundByID(id)
	if err != nil || rec == nil {
		t.Fatalf("RoundByID() = %v, %v", rec, err)
	}
	if rec.Player != "ada" {
		t.Errorf("RoundByID().Player = %q, expected %q", rec.Player, "ada")
	}
	if rec.Score != 450 || rec.Shots != 31 || rec.Dropped != 9 || !rec.Cleared || rec.Duration != 95*time.Second {
		t.Errorf("RoundByID() = %+v, fields not persisted", rec)
	}

	// the round also counts as a score
	if high, _ := store.HighScore("bubbles"); high != 450 {
		t.Errorf("HighScore() = %d, expected 450", high)
	}

	missing, err := store.RoundByID("does-not-exist")
	if err != nil || missing != nil {
		t.Errorf("RoundByID(missing) = %v, %v, expected nil, nil", missing, err)
	}
}

func TestStoreRecentRounds(t *testing.T) {
	store := openTestStore(t)

	for i, game := range []string{"bubbles", "bubbles_puzzle", "bubbles"} {
		if _, err := store.SaveRound(RoundRecord{GameID: game, Score: (i + 1) * 10}); err != nil {
			t.Fatalf("SaveRound() failed: %v", err)
		}
	}

	rounds, err := store.RecentRounds("bubbles", 10)
	if err != nil {
		t.Fatalf("RecentRounds() failed: %v", err)
	}
	if len(rounds) != 2 {
		t.Fatalf("RecentRounds() returned %d rounds, expected 2", len(rounds))
	}
	if rounds[0].Score != 30 {
		t.Errorf("newest round score = %d, expected 30", rounds[0].Score)
	}

	all, _ := store.RecentRounds("", 10)
	if len(all) != 3 {
		t.Errorf("RecentRounds(\"\") returned %d rounds, expected 3", len(all))
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)
	store.SaveScore("bubbles", 10)
	store.SaveRound(RoundRecord{GameID: "bubbles", Score: 20})
	store.SaveScore("bubbles_puzzle", 30)

	if err := store.ClearScores("bubbles"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}
	if all, _ := store.AllScores("bubbles"); len(all) != 0 {
		t.Errorf("AllScores() after clear = %d entries, expected 0", len(all))
	}
	if rounds, _ := store.RecentRounds("bubbles", 10); len(rounds) != 0 {
		t.Errorf("RecentRounds() after clear = %d, expected 0", len(rounds))
	}
	if high, _ := store.HighScore("bubbles_puzzle"); high != 30 {
		t.Errorf("other mode affected: HighScore() = %d, expected 30", high)
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)
	for _, score := range []int{10, 20, 30} {
		store.SaveScore("bubbles", score)
	}
	store.SaveScore("bubbles_puzzle", 5)

	stats, err := store.GetGameStats("bubbles")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 3 || stats.HighScore != 30 || stats.AvgScore != 20 || stats.TotalScore != 60 {
		t.Errorf("GetGameStats() = %+v", stats)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed was not populated")
	}

	empty, err := store.GetGameStats("nothing")
	if err != nil || empty.GamesCount != 0 {
		t.Errorf("GetGameStats(nothing) = %+v, %v", empty, err)
	}

	all, err := store.GetAllGamesStats()
	if err != nil {
		t.Fatalf("GetAllGamesStats() failed: %v", err)
	}
	if len(all) != 2 || all["bubbles_puzzle"].HighScore != 5 {
		t.Errorf("GetAllGamesStats() = %v", all)
	}
}
