package main

import "testing"

// Migration order is load-bearing: AutoMigrate applies FK constraints, so a
// referenced table has to exist before its dependents migrate.
func TestMigrationOrderPutsReferencedTablesFirst(t *testing.T) {
	pos := map[string]int{}
	for i, m := range migrationModels {
		pos[m.name] = i
	}
	deps := [][2]string{
		{"users", "profiles"},
		{"users", "refresh_tokens"},
		{"profiles", "uploads"},
		{"feed_posts", "feed_comments"},
		{"feed_posts", "post_likes"},
		{"feed_posts", "post_media"},
		{"scorecards", "scorecard_tees"},
		{"scorecards", "scorecard_players"},
		{"scorecard_players", "scorecard_holes"},
	}
	for _, d := range deps {
		ref, ok := pos[d[0]]
		if !ok {
			t.Fatalf("no migration entry for %s", d[0])
		}
		dep, ok := pos[d[1]]
		if !ok {
			t.Fatalf("no migration entry for %s", d[1])
		}
		if ref >= dep {
			t.Fatalf("%s must migrate before %s (got %d >= %d)", d[0], d[1], ref, dep)
		}
	}
}
