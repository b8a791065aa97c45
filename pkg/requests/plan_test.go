package requests

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestLoadPlanYAML(t *testing.T) {
	path := writeTempFile(t, "plan.yaml", `
requests:
  - id: list-courses
    path: /courses
  - id: create-user
    method: post
    path: " /users "
    body:
      name: x
      age: 3
`)

	plan, err := LoadPlan(path)
	if err != nil {
		t.Fatalf("LoadPlan: %v", err)
	}
	if len(plan.Requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(plan.Requests))
	}

	first := plan.Requests[0]
	if first.Method != "GET" || first.Path != "/courses" || first.Body != nil {
		t.Fatalf("first = %#v", first)
	}

	second := plan.Requests[1]
	if second.Method != "POST" || second.Path != "/users" {
		t.Fatalf("second = %#v", second)
	}
	body, ok := second.Body.(map[string]any)
	if !ok || body["name"] != "x" || body["age"] != 3 {
		t.Fatalf("body = %#v", second.Body)
	}
}

func TestLoadPlanJSON(t *testing.T) {
	path := writeTempFile(t, "plan.json", `{"requests":[{"id":"ping","method":"HEAD","path":"/ping"}]}`)

	plan, err := LoadPlan(path)
	if err != nil {
		t.Fatalf("LoadPlan: %v", err)
	}
	if got := plan.Requests[0]; got.ID != "ping" || got.Method != "HEAD" {
		t.Fatalf("request = %#v", got)
	}
}

func TestParsePlanGeneratesMissingIDs(t *testing.T) {
	plan, err := ParsePlan([]byte("requests:\n  - path: /a\n  - path: /b\n"), "")
	if err != nil {
		t.Fatalf("ParsePlan: %v", err)
	}
	a, b := plan.Requests[0].ID, plan.Requests[1].ID
	if _, err := uuid.Parse(a); err != nil {
		t.Fatalf("generated id %q is not a uuid: %v", a, err)
	}
	if a == b {
		t.Fatalf("generated ids must differ")
	}
}

func TestParsePlanValidation(t *testing.T) {
	cases := map[string]string{
		"empty":          "requests: []",
		"missing path":   "requests:\n  - id: a\n",
		"relative path":  "requests:\n  - id: a\n    path: users\n",
		"bad method":     "requests:\n  - id: a\n    method: trace\n    path: /a\n",
		"body on get":    "requests:\n  - id: a\n    path: /a\n    body: {x: 1}\n",
		"duplicate id":   "requests:\n  - id: a\n    path: /a\n  - id: a\n    path: /b\n",
		"not a document": "requests: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParsePlan([]byte(doc), ".yaml"); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadPlanErrors(t *testing.T) {
	if _, err := LoadPlan(" "); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if _, err := LoadPlan(filepath.Join(t.TempDir(), "missing.yaml")); err == nil || !strings.Contains(err.Error(), "open plan file") {
		t.Fatalf("expected open error, got %v", err)
	}
	if _, err := ParsePlan([]byte("requests: []"), ".toml"); err == nil {
		t.Fatalf("expected error for unknown extension")
	}
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
