package main

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

const testPassword = "correct horse battery staple"

// runCLI executes one gotectl invocation against a fresh root command and
// returns what it wrote to stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	b := &strings.Builder{}
	root := NewRootCmd()
	root.SetOut(b)
	root.SetArgs(append([]string{"--password", testPassword}, args...))
	err := root.Execute()
	return b.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLI(t, args...)
	if err != nil {
		t.Fatalf("%v failed: %v", args, err)
	}
	return out
}

func setupSQLite(t *testing.T) {
	t.Helper()
	t.Setenv("GOTE_DRIVER", "sqlite")
	t.Setenv("GOTE_SQLITE_PATH", filepath.Join(t.TempDir(), "gote.db"))
	t.Setenv("GOTE_CONFIG", "")
	t.Setenv("GOTE_PASSWORD", "")
}

// idFor returns the first column of the table row whose columns include name.
func idFor(t *testing.T, table, name string) string {
	t.Helper()
	for _, line := range strings.Split(table, "\n") {
		fields := strings.Fields(line)
		for _, f := range fields {
			if f == name {
				return fields[0]
			}
		}
	}
	t.Fatalf("%q not found in:\n%s", name, table)
	return ""
}

func TestCLI_CategoryAndMemoLifecycle(t *testing.T) {
	setupSQLite(t)

	if out := mustRun(t, "signup"); !strings.Contains(out, "Account created") {
		t.Fatalf("unexpected signup output: %q", out)
	}

	session := mustRun(t, "session")
	if !strings.Contains(session, "Valid:   true") {
		t.Fatalf("expected a valid session, got %q", session)
	}

	table := mustRun(t, "categories", "add", "--name", "work", "--description", "job notes")
	catID := idFor(t, table, "work")

	created := mustRun(t, "memos", "add", "--category-id", catID, "--title", "standup", "--content", "notes")
	if !strings.HasPrefix(created, "Memo created: ") {
		t.Fatalf("unexpected add output: %q", created)
	}
	memoID := strings.Fields(strings.TrimPrefix(created, "Memo created: "))[0]

	latest := mustRun(t, "memos", "latest", "--count", "5")
	if !strings.Contains(latest, memoID) {
		t.Fatalf("latest should list %s:\n%s", memoID, latest)
	}

	// The category now has a memo.
	listed := mustRun(t, "categories", "list")
	for _, line := range strings.Split(listed, "\n") {
		if strings.HasPrefix(line, catID) && !strings.Contains(line, "true") {
			t.Fatalf("category should be referenced: %q", line)
		}
	}

	mustRun(t, "memos", "update", "--id", memoID, "--category-id", catID, "--title", "retro", "--content", "went well")

	raw := mustRun(t, "memos", "get", "--id", memoID)
	var got map[string]any
	if err := json.Unmarshal([]byte(raw), &got); err != nil {
		t.Fatalf("get output is not JSON: %v\n%s", err, raw)
	}
	if got["title"] != "retro" {
		t.Fatalf("expected updated title, got %v", got["title"])
	}

	mustRun(t, "memos", "delete", "--id", memoID)
	if out := mustRun(t, "memos", "list", "--category-id", catID); strings.Contains(out, memoID) {
		t.Fatalf("deleted memo still listed:\n%s", out)
	}

	after := mustRun(t, "categories", "delete", "--id", catID)
	if strings.Contains(after, catID) {
		t.Fatalf("deleted category still listed:\n%s", after)
	}
}

func TestCLI_WrongPassword(t *testing.T) {
	setupSQLite(t)
	mustRun(t, "signup")

	root := NewRootCmd()
	root.SetOut(&strings.Builder{})
	root.SetArgs([]string{"--password", "wrong", "categories", "list"})
	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), "invalid_credentials") {
		t.Fatalf("expected invalid_credentials, got %v", err)
	}
}

func TestCLI_RejectsMalformedID(t *testing.T) {
	setupSQLite(t)
	mustRun(t, "signup")

	if _, err := runCLI(t, "memos", "get", "--id", "not-a-uuid"); err == nil {
		t.Fatal("expected an error for a malformed id")
	}
}
