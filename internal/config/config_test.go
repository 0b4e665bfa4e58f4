package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"hnradar/internal/domain"
)

// resetEnv blanks every variable Load consults, so tests see only what they
// set themselves.
func resetEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		configPathEnv, databasePathEnv, feedAPIURLEnv, ollamaURLEnv,
		ollamaModelEnv, fetchIntervalEnv, topStoriesEnv, serverAddrEnv,
		logLevelEnv, personaFileEnv, categoriesFileEnv,
	} {
		t.Setenv(name, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	resetEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Database.Path != "articles.db" {
		t.Errorf("database path = %q", cfg.Database.Path)
	}
	if cfg.Feed.TopStoriesCount != 15 || cfg.Feed.FetchIntervalMinutes != 60 {
		t.Errorf("feed defaults = %+v", cfg.Feed)
	}
	if cfg.Ollama.Model != "qwen2.5:7b" {
		t.Errorf("ollama model = %q", cfg.Ollama.Model)
	}
	if cfg.Server.Addr != ":8080" || cfg.Logging.Level != "info" {
		t.Errorf("server/logging defaults = %+v / %+v", cfg.Server, cfg.Logging)
	}
	if cfg.Analysis.Persona == "" {
		t.Error("persona default is empty")
	}
	if len(cfg.Analysis.Categories) == 0 {
		t.Error("categories default is empty")
	}
}

func TestLoadYAMLFile(t *testing.T) {
	resetEnv(t)

	path := writeFile(t, "config.yaml", `
database:
  path: /data/radar.db
feed:
  topStoriesCount: 30
ollama:
  model: llama3:8b
server:
  addr: ":9090"
`)
	t.Setenv(configPathEnv, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Database.Path != "/data/radar.db" {
		t.Errorf("database path = %q", cfg.Database.Path)
	}
	if cfg.Feed.TopStoriesCount != 30 {
		t.Errorf("top stories = %d", cfg.Feed.TopStoriesCount)
	}
	if cfg.Feed.FetchIntervalMinutes != 60 {
		t.Errorf("unset file value should keep default, got %d", cfg.Feed.FetchIntervalMinutes)
	}
	if cfg.Ollama.Model != "llama3:8b" || cfg.Server.Addr != ":9090" {
		t.Errorf("overrides not applied: %+v / %+v", cfg.Ollama, cfg.Server)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	resetEnv(t)

	path := writeFile(t, "config.yaml", `
ollama:
  model: from-file
`)
	t.Setenv(configPathEnv, path)
	t.Setenv(ollamaModelEnv, "from-env")
	t.Setenv(fetchIntervalEnv, "5")
	t.Setenv(topStoriesEnv, "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Ollama.Model != "from-env" {
		t.Errorf("model = %q, environment must win over the file", cfg.Ollama.Model)
	}
	if cfg.Feed.FetchIntervalMinutes != 5 || cfg.Feed.TopStoriesCount != 3 {
		t.Errorf("numeric overrides not applied: %+v", cfg.Feed)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	resetEnv(t)
	t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "absent.yaml"))

	if _, err := Load(); !errors.Is(err, domain.ErrConfig) {
		t.Errorf("got error %v, want ErrConfig", err)
	}
}

func TestLoadRejectsNonPositiveInterval(t *testing.T) {
	resetEnv(t)
	t.Setenv(fetchIntervalEnv, "0")

	if _, err := Load(); !errors.Is(err, domain.ErrConfig) {
		t.Errorf("got error %v, want ErrConfig", err)
	}
}

func TestLoadPersonaAndCategoriesFromFiles(t *testing.T) {
	resetEnv(t)
	t.Setenv(personaFileEnv, writeFile(t, "persona.txt", "You track database internals.\n"))
	t.Setenv(categoriesFileEnv, writeFile(t, "categories.txt", "Databases\nNetworking\n"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Analysis.Persona != "You track database internals." {
		t.Errorf("persona = %q", cfg.Analysis.Persona)
	}
	want := []string{"Databases", "Networking", "Other"}
	if len(cfg.Analysis.Categories) != len(want) {
		t.Fatalf("categories = %v, want %v", cfg.Analysis.Categories, want)
	}
	for i := range want {
		if cfg.Analysis.Categories[i] != want[i] {
			t.Errorf("categories[%d] = %q, want %q", i, cfg.Analysis.Categories[i], want[i])
		}
	}
}

func TestParseCategories(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "appends fallback when absent",
			text: "AI\nProgramming",
			want: []string{"AI", "Programming", "Other"},
		},
		{
			name: "keeps existing fallback spelling",
			text: "AI\nother",
			want: []string{"AI", "other"},
		},
		{
			name: "skips blank lines and trims",
			text: "  AI  \n\n\tProgramming\n",
			want: []string{"AI", "Programming", "Other"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := parseCategories(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("got[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
