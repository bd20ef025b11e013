package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/nodekeys/internal/configs"
	"github.com/PolarWolf314/nodekeys/internal/nodes"
	"github.com/PolarWolf314/nodekeys/internal/nodes/nodetest"
	"github.com/PolarWolf314/nodekeys/internal/primitives"
)

var testMasterKey = nodetest.DerivedKey("cmd-master", primitives.KeySize)

const testPassphrase = "cmd test passphrase"

// setupTestEnvironment points the user settings at a temp directory and
// resets command state when the test ends.
func setupTestEnvironment(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	original := configs.UserNodekeysSettings
	configs.UserNodekeysSettings = &configs.UserSettings{
		UserConfigsPath: filepath.Join(dir, "config"),
		UserDataPath:    filepath.Join(dir, "data"),
		Username:        "testuser",
	}

	resetAll := func() {
		ResetNodesState()
		ResetConfigState()
		ResetLogState()
	}
	resetAll()
	t.Setenv(passphraseEnv, testPassphrase)
	t.Cleanup(func() {
		configs.UserNodekeysSettings = original
		resetAll()
	})

	return dir
}

// writeListing saves a small listing and returns its path.
func writeListing(t *testing.T, dir string) string {
	t.Helper()
	shareKey := nodetest.DerivedKey("cmd-share", primitives.KeySize)
	b := nodetest.NewBuilder(testMasterKey).
		Root("root0001").
		Folder("docs0001", "root0001", "Documents").
		File("report01", "docs0001", "report.pdf").
		File("notes001", "docs0001", "notes.txt").
		ShareKey("team0001", shareKey).
		FolderUnder("team0001", "root0001", "Team", "team0001", shareKey).
		Raw(nodes.RawNode{ID: "trash001", Type: nodes.Trash})

	data, err := json.Marshal(b.Listing())
	if err != nil {
		t.Fatalf("Failed to marshal listing: %v", err)
	}

	path := filepath.Join(dir, "listing.json")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("Failed to write listing: %v", err)
	}
	return path
}

// executeCommand runs the CLI with args and returns stdout and stderr.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	root := &cobra.Command{Use: "nodekeys", SilenceUsage: true, SilenceErrors: true}
	root.AddCommand(GetNodesCmd())
	root.AddCommand(GetConfigCmd())
	root.AddCommand(LogCmd)

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func encodedMasterKey() string {
	return primitives.EncodeBase64(testMasterKey)
}

// captureStdout runs fn with os.Stdout redirected and returns what was
// written to it.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	original := os.Stdout
	reader, writer, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stdout = writer

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, reader)
		done <- buf.String()
	}()

	defer func() { os.Stdout = original }()
	fn()

	writer.Close()
	return <-done
}
