package dispatch

import (
	"reflect"
	"testing"

	"github.com/aurda012/cursor10x/internal/models"
	"github.com/aurda012/cursor10x/internal/registry"
)

func defaultTeam() ([]models.WorkerProfile, string) {
	cfg := registry.DefaultConfig()
	return cfg.Profiles(), cfg.DefaultWorker()
}

func TestMatchPathRule(t *testing.T) {
	workers, fallback := defaultTeam()
	desc := models.TaskDescriptor{
		ID:    "001",
		Title: "Build login form",
		File:  "components/Login.tsx",
	}

	ranked := Match(desc, workers, fallback)
	if len(ranked) == 0 || ranked[0] != "frontend-developer" {
		t.Fatalf("ranked = %v, want frontend-developer first", ranked)
	}
}

func TestMatchKeywordRule(t *testing.T) {
	workers, fallback := defaultTeam()
	desc := models.TaskDescriptor{
		ID:     "002",
		Title:  "Harden the deploy step",
		Prompt: "The deploy keeps flaking; make the pipeline retry.",
	}

	ranked := Match(desc, workers, fallback)
	if len(ranked) == 0 || ranked[0] != "devops-engineer" {
		t.Fatalf("ranked = %v, want devops-engineer first", ranked)
	}
}

func TestMatchPathOutranksKeyword(t *testing.T) {
	// The file targets a SQL migration while the text talks about tests;
	// the path rule (precedence 1) must win over the keyword rule.
	workers, fallback := defaultTeam()
	desc := models.TaskDescriptor{
		ID:     "003",
		Title:  "Add regression test data",
		File:   "migrations/seed.sql",
		Prompt: "Seed fixtures used by the regression suite.",
	}

	ranked := Match(desc, workers, fallback)
	if len(ranked) == 0 || ranked[0] != "backend-developer" {
		t.Fatalf("ranked = %v, want backend-developer first", ranked)
	}
}

func TestMatchFallbackWhenNoRuleMatches(t *testing.T) {
	workers, fallback := defaultTeam()
	desc := models.TaskDescriptor{
		ID:     "004",
		Title:  "Untangle the thing",
		File:   "mystery.bin",
		Prompt: "Nobody knows what this is.",
	}

	ranked := Match(desc, workers, fallback)
	if !reflect.DeepEqual(ranked, []string{"project-coordinator"}) {
		t.Fatalf("ranked = %v, want only the coordinator", ranked)
	}
}

func TestMatchEmptyWithoutFallback(t *testing.T) {
	workers, _ := defaultTeam()
	desc := models.TaskDescriptor{ID: "005", Title: "Untangle the thing", File: "mystery.bin"}

	if ranked := Match(desc, workers, ""); len(ranked) != 0 {
		t.Fatalf("ranked = %v, want empty", ranked)
	}
}

func TestMatchDeterministic(t *testing.T) {
	workers, fallback := defaultTeam()
	desc := models.TaskDescriptor{
		ID:     "006",
		Title:  "Test the api endpoint",
		File:   "api/users_test.go",
		Prompt: "Cover the endpoint with a regression test.",
	}

	first := Match(desc, workers, fallback)
	if len(first) == 0 {
		t.Fatal("expected candidates")
	}
	for i := 0; i < 50; i++ {
		if got := Match(desc, workers, fallback); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d diverged: %v vs %v", i, got, first)
		}
	}
}

func TestMatchRegistrationOrderTiebreak(t *testing.T) {
	workers := []models.WorkerProfile{
		{ID: "alpha", Rules: []models.CapabilityRule{{Keywords: []string{"widget"}, Precedence: 1}}},
		{ID: "beta", Rules: []models.CapabilityRule{{Keywords: []string{"widget"}, Precedence: 1}}},
	}
	desc := models.TaskDescriptor{ID: "001", Title: "Fix the widget"}

	ranked := Match(desc, workers, "")
	if !reflect.DeepEqual(ranked, []string{"alpha", "beta"}) {
		t.Fatalf("ranked = %v, want registration order", ranked)
	}
}

func TestPathMatches(t *testing.T) {
	cases := []struct {
		pattern, file string
		want          bool
	}{
		{"*.tsx", "components/Login.tsx", true},
		{"*.tsx", "components/Login.ts", false},
		{"components/**", "components/nav/Bar.tsx", true},
		{"components/**", "pages/index.tsx", false},
		{"Dockerfile", "deploy/Dockerfile", true},
		{"*_test.*", "api/users_test.go", true},
		{"*_test.*", "api/users.go", false},
		{"api/**", "api/v1/users.go", true},
		{"*.sql", "", false},
	}

	for _, tc := range cases {
		if got := pathMatches(tc.pattern, tc.file); got != tc.want {
			t.Errorf("pathMatches(%q, %q) = %v, want %v", tc.pattern, tc.file, got, tc.want)
		}
	}
}

func TestContainsWord(t *testing.T) {
	text := "add a deploy step to the pipeline."

	if !containsWord(text, "deploy") {
		t.Error("expected whole-word match for deploy")
	}
	if !containsWord(text, "pipeline") {
		t.Error("expected match despite trailing punctuation")
	}
	if containsWord(text, "deployment") {
		t.Error("substring must not match as a word")
	}
}
