package share

import (
	"bytes"
	"errors"
	"testing"

	kerrors "github.com/PolarWolf314/nodekeys/internal/errors"
	"github.com/PolarWolf314/nodekeys/internal/nodes"
	"github.com/PolarWolf314/nodekeys/internal/nodes/nodetest"
	"github.com/PolarWolf314/nodekeys/internal/primitives"
)

var masterKey = nodetest.DerivedKey("master", primitives.KeySize)

func resolve(t *testing.T, b *nodetest.Builder) *nodes.Tree {
	t.Helper()
	r, err := nodes.NewResolver(masterKey)
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}
	tree, err := r.Resolve(b.Listing())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	return tree
}

func get(t *testing.T, tree *nodes.Tree, id string) *nodes.Node {
	t.Helper()
	n, ok := tree.Get(id)
	if !ok {
		t.Fatalf("node %s missing", id)
	}
	return n
}

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := NewBuilder(masterKey, WithRand(bytes.NewReader(bytes.Repeat([]byte{0x33}, 64))))
	if err != nil {
		t.Fatalf("NewBuilder failed: %v", err)
	}
	return b
}

func ids(list []*nodes.Node) []string {
	out := make([]string, 0, len(list))
	for _, n := range list {
		out = append(out, n.ID())
	}
	return out
}

func TestDescendants(t *testing.T) {
	tree := resolve(t, nodetest.NewBuilder(masterKey).
		Root("rootRRRR").
		Folder("nodeAAAA", "rootRRRR", "a").
		Folder("nodeBBBB", "nodeAAAA", "b").
		Folder("nodeCCCC", "rootRRRR", "c"))

	found, err := Descendants(get(t, tree, "nodeAAAA"), tree)
	if err != nil {
		t.Fatalf("Descendants failed: %v", err)
	}
	if got := ids(found); len(got) != 1 || got[0] != "nodeBBBB" {
		t.Errorf("expected [nodeBBBB], got %v", got)
	}

	grant, err := newTestBuilder(t).Build(get(t, tree, "nodeAAAA"), tree)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(grant.Items) != 2 || grant.Items[0].NodeID != "nodeAAAA" || grant.Items[1].NodeID != "nodeBBBB" {
		t.Errorf("expected items [nodeAAAA nodeBBBB], got %+v", grant.Items)
	}
}

func TestDescendants_DeepTreeOrder(t *testing.T) {
	tree := resolve(t, nodetest.NewBuilder(masterKey).
		Root("root").
		File("late", "sub", "late.txt").
		Folder("top", "root", "top").
		Folder("sub", "top", "sub").
		File("deep", "sub", "deep.txt").
		File("outside", "root", "outside.txt"))

	found, err := Descendants(get(t, tree, "top"), tree)
	if err != nil {
		t.Fatalf("Descendants failed: %v", err)
	}
	want := []string{"late", "sub", "deep"}
	got := ids(found)
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestDescendants_Cycle(t *testing.T) {
	tree := resolve(t, nodetest.NewBuilder(masterKey).
		Root("root").
		Folder("target01", "root", "target").
		Folder("x", "y", "x").
		Folder("y", "x", "y"))

	_, err := Descendants(get(t, tree, "target01"), tree)
	if !errors.Is(err, kerrors.ErrMissingKeyMaterial) {
		t.Fatalf("expected ErrMissingKeyMaterial, got %v", err)
	}

	if _, err := newTestBuilder(t).Build(get(t, tree, "target01"), tree); !errors.Is(err, kerrors.ErrMissingKeyMaterial) {
		t.Errorf("expected Build to fail with ErrMissingKeyMaterial, got %v", err)
	}
}

func TestBuild_ItemsOpenWithShareKey(t *testing.T) {
	fixture := nodetest.NewBuilder(masterKey).
		Root("root").
		Folder("docs0001", "root", "docs").
		File("filea001", "docs0001", "a.txt").
		Folder("nested01", "docs0001", "nested").
		File("fileb001", "nested01", "b.txt")
	tree := resolve(t, fixture)

	grant, err := newTestBuilder(t).Build(get(t, tree, "docs0001"), tree)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if !bytes.Equal(grant.ShareKey, bytes.Repeat([]byte{0x33}, primitives.KeySize)) {
		t.Errorf("expected share key from the random source, got %x", grant.ShareKey)
	}

	want := []string{"docs0001", "filea001", "nested01", "fileb001"}
	if len(grant.Items) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(grant.Items))
	}
	for i, item := range grant.Items {
		if item.NodeID != want[i] {
			t.Errorf("item %d: expected %s, got %s", i, want[i], item.NodeID)
		}
		plain, err := primitives.UnwrapKey(item.Key, grant.ShareKey)
		if err != nil {
			t.Fatalf("UnwrapKey failed: %v", err)
		}
		if !bytes.Equal(plain, fixture.Key(item.NodeID)) {
			t.Errorf("item %s does not decrypt to the node's full key", item.NodeID)
		}
	}

	encrypted, err := primitives.DecodeBase64(grant.EncryptedShareKey)
	if err != nil {
		t.Fatalf("DecodeBase64 failed: %v", err)
	}
	shareKey, err := primitives.UnwrapKey(encrypted, masterKey)
	if err != nil {
		t.Fatalf("UnwrapKey failed: %v", err)
	}
	if !bytes.Equal(shareKey, grant.ShareKey) {
		t.Errorf("encrypted share key does not open to the share key")
	}

	auth, err := primitives.DecodeBase64(grant.HandleAuth)
	if err != nil {
		t.Fatalf("DecodeBase64 failed: %v", err)
	}
	handle, err := primitives.UnwrapKey(auth, masterKey)
	if err != nil {
		t.Fatalf("UnwrapKey failed: %v", err)
	}
	if string(handle) != "docs0001docs0001" {
		t.Errorf("expected handle auth over %q, got %q", "docs0001docs0001", handle)
	}
}

func TestBuild_ReusesExistingShareKey(t *testing.T) {
	shareKey := nodetest.DerivedKey("share:S", primitives.KeySize)
	tree := resolve(t, nodetest.NewBuilder(masterKey).
		ShareKey("share001", shareKey).
		FolderUnder("share001", "", "shared", "share001", shareKey).
		FileUnder("file0001", "share001", "f.txt", "share001", shareKey))

	grant, err := newTestBuilder(t).Build(get(t, tree, "share001"), tree)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !bytes.Equal(grant.ShareKey, shareKey) {
		t.Errorf("expected existing share key %x, got %x", shareKey, grant.ShareKey)
	}
	if len(grant.Items) != 2 {
		t.Errorf("expected items for the folder and its file, got %d", len(grant.Items))
	}
}

func TestBuild_InvalidTargets(t *testing.T) {
	tree := resolve(t, nodetest.NewBuilder(masterKey).
		Root("root").
		Raw(nodes.RawNode{ID: "trash", Type: nodes.Trash}))

	b := newTestBuilder(t)
	for _, id := range []string{"root", "trash"} {
		if _, err := b.Build(get(t, tree, id), tree); !errors.Is(err, kerrors.ErrInvalidShareTarget) {
			t.Errorf("sharing %s: expected ErrInvalidShareTarget, got %v", id, err)
		}
	}
	if _, err := b.Build(nil, tree); !errors.Is(err, kerrors.ErrInvalidShareTarget) {
		t.Errorf("expected ErrInvalidShareTarget for nil target, got %v", err)
	}
}

func TestBuild_RandomFailure(t *testing.T) {
	tree := resolve(t, nodetest.NewBuilder(masterKey).Folder("dir00001", "", "d"))

	b, err := NewBuilder(masterKey, WithRand(bytes.NewReader(nil)))
	if err != nil {
		t.Fatalf("NewBuilder failed: %v", err)
	}
	if _, err := b.Build(get(t, tree, "dir00001"), tree); err == nil {
		t.Error("expected an exhausted random source to fail")
	}
}

func TestNewBuilder_RequiresMasterKey(t *testing.T) {
	if _, err := NewBuilder(make([]byte, 8)); !errors.Is(err, kerrors.ErrMasterKeyRequired) {
		t.Errorf("expected ErrMasterKeyRequired, got %v", err)
	}
}
