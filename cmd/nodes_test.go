package cmd

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	kerrors "github.com/PolarWolf314/nodekeys/internal/errors"
	"github.com/PolarWolf314/nodekeys/internal/nodes/nodetest"
	"github.com/PolarWolf314/nodekeys/internal/primitives"
	"github.com/PolarWolf314/nodekeys/internal/workflows"
)

func TestNodesList(t *testing.T) {
	dir := setupTestEnvironment(t)
	listing := writeListing(t, dir)

	out, _, err := executeCommand(t, "nodes", "list", listing, "--master-key", encodedMasterKey())
	if err != nil {
		t.Fatalf("nodes list failed: %v", err)
	}

	for _, want := range []string{"Cloud Drive", "Documents", "report.pdf", "[report01]", "Team", "Rubbish Bin"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "6 of 6 nodes") {
		t.Errorf("Expected summary line, got:\n%s", out)
	}
}

func TestNodesListMatchJSON(t *testing.T) {
	dir := setupTestEnvironment(t)
	listing := writeListing(t, dir)

	out, _, err := executeCommand(t, "nodes", "list", listing,
		"--master-key", encodedMasterKey(), "--match", "**/*.pdf", "--json")
	if err != nil {
		t.Fatalf("nodes list failed: %v", err)
	}

	var entries []workflows.ListEntry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("Output is not JSON: %v\n%s", err, out)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if entries[0].Path != "Cloud Drive/Documents/report.pdf" {
		t.Errorf("Unexpected path %q", entries[0].Path)
	}
}

func TestNodesListWithoutSession(t *testing.T) {
	dir := setupTestEnvironment(t)
	listing := writeListing(t, dir)

	_, stderr, err := executeCommand(t, "nodes", "list", listing, "--session", filepath.Join(dir, "missing.toml"))
	if !errors.Is(err, kerrors.ErrSessionNotFound) {
		t.Fatalf("Expected ErrSessionNotFound, got %v", err)
	}
	if !strings.Contains(stderr, "No session found") {
		t.Errorf("Expected a hint on stderr, got:\n%s", stderr)
	}
}

func TestNodesListRejectsShortKey(t *testing.T) {
	dir := setupTestEnvironment(t)
	listing := writeListing(t, dir)

	_, _, err := executeCommand(t, "nodes", "list", listing, "--master-key", "AAAA")
	if err == nil {
		t.Fatal("Expected an error for a short key")
	}
}

func TestNodesShare(t *testing.T) {
	dir := setupTestEnvironment(t)
	listing := writeListing(t, dir)

	out, _, err := executeCommand(t, "nodes", "share", listing, "Cloud Drive/Documents", "--master-key", encodedMasterKey())
	if err != nil {
		t.Fatalf("nodes share failed: %v", err)
	}

	var request map[string]any
	if err := json.Unmarshal([]byte(out), &request); err != nil {
		t.Fatalf("Output is not JSON: %v\n%s", err, out)
	}
	if request["a"] != "s2" {
		t.Errorf("Expected action s2, got %v", request["a"])
	}
	if request["n"] != "docs0001" {
		t.Errorf("Expected node docs0001, got %v", request["n"])
	}

	cr, ok := request["cr"].([]any)
	if !ok || len(cr) != 3 {
		t.Fatalf("Expected a three-part cr field, got %v", request["cr"])
	}
	ids, _ := cr[1].([]any)
	if len(ids) != 3 {
		t.Errorf("Expected the folder and its two files, got %v", ids)
	}
}

func TestNodesShareInvalidTarget(t *testing.T) {
	dir := setupTestEnvironment(t)
	listing := writeListing(t, dir)

	_, _, err := executeCommand(t, "nodes", "share", listing, "root0001", "--master-key", encodedMasterKey())
	if !errors.Is(err, kerrors.ErrInvalidShareTarget) {
		t.Fatalf("Expected ErrInvalidShareTarget, got %v", err)
	}
}

func TestNodesShareUnknownNode(t *testing.T) {
	dir := setupTestEnvironment(t)
	listing := writeListing(t, dir)

	_, _, err := executeCommand(t, "nodes", "share", listing, "nope0001", "--master-key", encodedMasterKey())
	if !errors.Is(err, kerrors.ErrNodeNotFound) {
		t.Fatalf("Expected ErrNodeNotFound, got %v", err)
	}
}

func TestNodesMkdir(t *testing.T) {
	tests := []struct {
		name     string
		parent   string
		expectCR bool
	}{
		{name: "private parent", parent: "docs0001", expectCR: false},
		{name: "shared parent", parent: "team0001", expectCR: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := setupTestEnvironment(t)
			listing := writeListing(t, dir)

			out, _, err := executeCommand(t, "nodes", "mkdir", listing, tt.parent, "Drafts", "--master-key", encodedMasterKey())
			if err != nil {
				t.Fatalf("nodes mkdir failed: %v", err)
			}

			var request map[string]any
			if err := json.Unmarshal([]byte(out), &request); err != nil {
				t.Fatalf("Output is not JSON: %v\n%s", err, out)
			}
			if request["a"] != "p" || request["t"] != tt.parent {
				t.Errorf("Unexpected request %v", request)
			}
			if _, hasCR := request["cr"]; hasCR != tt.expectCR {
				t.Errorf("Expected cr present=%t, got %v", tt.expectCR, request["cr"])
			}
		})
	}
}

func TestNodesShareVerboseKeepsStdoutClean(t *testing.T) {
	for _, flag := range []string{"-v", "-d"} {
		t.Run(flag, func(t *testing.T) {
			dir := setupTestEnvironment(t)
			listing := writeListing(t, dir)

			var out string
			var err error
			leaked := captureStdout(t, func() {
				out, _, err = executeCommand(t, "nodes", "share", listing, "docs0001", flag, "--master-key", encodedMasterKey())
			})
			if err != nil {
				t.Fatalf("nodes share failed: %v", err)
			}

			var request map[string]any
			if err := json.Unmarshal([]byte(leaked+out), &request); err != nil {
				t.Fatalf("stdout is not a single JSON request: %v\n%s%s", err, leaked, out)
			}
			if request["n"] != "docs0001" {
				t.Errorf("Expected node docs0001, got %v", request["n"])
			}
		})
	}
}

func TestNodesRequest(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantQuery string
	}{
		{name: "own tree", args: []string{"nodes", "request"}},
		{name: "folder link", args: []string{"nodes", "request", "Xy12Ab34"}, wantQuery: "n=Xy12Ab34"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestEnvironment(t)

			out, stderr, err := executeCommand(t, tt.args...)
			if err != nil {
				t.Fatalf("nodes request failed: %v", err)
			}

			var request map[string]any
			if err := json.Unmarshal([]byte(out), &request); err != nil {
				t.Fatalf("Output is not JSON: %v\n%s", err, out)
			}
			if request["a"] != "f" || request["c"] != float64(1) || len(request) != 2 {
				t.Errorf("Unexpected request %v", request)
			}

			if tt.wantQuery == "" && stderr != "" {
				t.Errorf("Expected no query arguments, got %q", stderr)
			}
			if tt.wantQuery != "" && !strings.Contains(stderr, tt.wantQuery) {
				t.Errorf("Expected query %q on stderr, got %q", tt.wantQuery, stderr)
			}
		})
	}
}

func TestNodesAttach(t *testing.T) {
	dir := setupTestEnvironment(t)
	listing := writeListing(t, dir)
	fileKey := primitives.EncodeBase64(nodetest.DerivedKey("cmd-upload", primitives.FileKeySize))

	out, _, err := executeCommand(t, "nodes", "attach", listing, "team0001", "minutes.txt",
		"--file-key", fileKey, "--upload-handle", "upload01", "--master-key", encodedMasterKey())
	if err != nil {
		t.Fatalf("nodes attach failed: %v", err)
	}

	var request struct {
		Action string `json:"a"`
		Parent string `json:"t"`
		Nodes  []struct {
			Handle string `json:"h"`
			Type   int    `json:"t"`
		} `json:"n"`
		Share json.RawMessage `json:"cr"`
	}
	if err := json.Unmarshal([]byte(out), &request); err != nil {
		t.Fatalf("Output is not JSON: %v\n%s", err, out)
	}
	if request.Action != "p" || request.Parent != "team0001" || len(request.Nodes) != 1 {
		t.Fatalf("Unexpected request %+v", request)
	}
	if request.Nodes[0].Handle != "upload01" || request.Nodes[0].Type != 0 {
		t.Errorf("Unexpected node %+v", request.Nodes[0])
	}
	if len(request.Share) == 0 {
		t.Error("Expected cr below a shared folder")
	}
}

func TestNodesAttachRejectsFolderSizedKey(t *testing.T) {
	dir := setupTestEnvironment(t)
	listing := writeListing(t, dir)

	_, _, err := executeCommand(t, "nodes", "attach", listing, "docs0001", "a.txt",
		"--file-key", encodedMasterKey(), "--upload-handle", "upload01", "--master-key", encodedMasterKey())
	if err == nil || !strings.Contains(err.Error(), "must be 32 bytes") {
		t.Errorf("Expected a key size error, got %v", err)
	}
}
