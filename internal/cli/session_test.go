package cli

import (
	"strings"
	"testing"

	"github.com/luochenhu/gh-issuelens/internal/config"
	"github.com/luochenhu/gh-issuelens/pkg/models"
)

func TestResolveRepo(t *testing.T) {
	tests := []struct {
		name      string
		flag      string
		current   string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{name: "flag wins", flag: "golang/go", current: "other/repo", wantOwner: "golang", wantRepo: "go"},
		{name: "falls back to config", flag: "", current: "cli/cli", wantOwner: "cli", wantRepo: "cli"},
		{name: "nothing set", flag: "", current: "", wantErr: true},
		{name: "malformed", flag: "not-a-repo", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{CurrentRepo: tt.current}
			owner, repo, err := resolveRepo(cfg, tt.flag)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveRepo() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if owner != tt.wantOwner || repo != tt.wantRepo {
				t.Errorf("resolveRepo() = %s/%s, want %s/%s", owner, repo, tt.wantOwner, tt.wantRepo)
			}
		})
	}
}

func TestPrintResults(t *testing.T) {
	rs := models.NewResultSet([]models.IssueSummary{
		{ID: 1, Title: "data race in pool", State: "open", HTMLURL: "https://github.com/golang/go/issues/101"},
		{ID: 2, Title: "flaky timeout", State: "closed", HTMLURL: "https://github.com/golang/go/issues/102"},
	})
	rs[1].HasDetail = true
	rs[1].UserComments = []models.Comment{{Body: "seen on arm64"}}

	var out strings.Builder
	printResults(&out, rs)

	got := out.String()
	for _, want := range []string{
		"Found 2 issues",
		"#101 - data race in pool",
		"Status: Open",
		"#102 - flaky timeout",
		"Status: Closed | Comments: 1",
		"https://github.com/golang/go/issues/102",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRedactSecret(t *testing.T) {
	if got := redactSecret(""); got != "(not set)" {
		t.Errorf("empty secret = %q", got)
	}
	if got := redactSecret("short"); got != "*****" {
		t.Errorf("short secret = %q", got)
	}
	got := redactSecret("sk-abcdef1234567890")
	if !strings.HasPrefix(got, "sk-a") || strings.Contains(got, "1234") {
		t.Errorf("long secret leaked: %q", got)
	}
}
