package nodes

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	kerrors "github.com/PolarWolf314/nodekeys/internal/errors"
)

const sampleListing = `{
  "f": [
    {"h": "root0001", "p": "", "u": "00000000", "t": 2, "a": "", "k": "", "s": 0, "ts": 1700000000},
    {"h": "dir00001", "p": "root0001", "u": "00000000", "t": 1, "a": "YQ", "k": "00000000:AAAA", "s": 0, "ts": 1700000100, "sk": "c2s"}
  ],
  "ok": [{"h": "dir00001", "k": "b2s"}]
}`

func TestParseListing(t *testing.T) {
	listing, err := ParseListing([]byte(sampleListing))
	if err != nil {
		t.Fatalf("ParseListing failed: %v", err)
	}

	if len(listing.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(listing.Nodes))
	}
	dir := listing.Nodes[1]
	if dir.ID != "dir00001" || dir.ParentID != "root0001" || dir.Type != Directory {
		t.Errorf("unexpected descriptor: %+v", dir)
	}
	if dir.SharingKey != "c2s" || dir.Key != "00000000:AAAA" || dir.Timestamp != 1700000100 {
		t.Errorf("unexpected key fields: %+v", dir)
	}
	if len(listing.SharedKeys) != 1 || listing.SharedKeys[0].Key != "b2s" {
		t.Errorf("unexpected share keys: %+v", listing.SharedKeys)
	}
}

func TestParseListing_ArrayWrapped(t *testing.T) {
	listing, err := ParseListing([]byte("[" + sampleListing + "]"))
	if err != nil {
		t.Fatalf("ParseListing failed: %v", err)
	}
	if len(listing.Nodes) != 2 {
		t.Errorf("expected 2 nodes, got %d", len(listing.Nodes))
	}
}

func TestParseListing_Invalid(t *testing.T) {
	inputs := []string{"", "   ", "{", "[]", "[" + sampleListing + "," + sampleListing + "]", `{"f": "nope"}`}
	for _, input := range inputs {
		if _, err := ParseListing([]byte(input)); !errors.Is(err, kerrors.ErrInvalidListing) {
			t.Errorf("ParseListing(%q): expected ErrInvalidListing, got %v", input, err)
		}
	}
}

func TestReadListing(t *testing.T) {
	listing, err := ReadListing(strings.NewReader(sampleListing))
	if err != nil {
		t.Fatalf("ReadListing failed: %v", err)
	}
	if listing.Nodes[0].Type != Root {
		t.Errorf("expected root first, got %v", listing.Nodes[0].Type)
	}
}

func TestListRequest(t *testing.T) {
	data, err := json.Marshal(NewListRequest(""))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"a":"f","c":1}` {
		t.Errorf("unexpected request %s", data)
	}
	if args := NewListRequest("").QueryArguments(); args != nil {
		t.Errorf("expected no query arguments, got %v", args)
	}

	args := NewListRequest("folderid").QueryArguments()
	if args["n"] != "folderid" {
		t.Errorf("expected share id query argument, got %v", args)
	}
}

func TestNodeType_String(t *testing.T) {
	cases := map[NodeType]string{
		File:        "file",
		Directory:   "directory",
		Root:        "root",
		Inbox:       "inbox",
		Trash:       "trash",
		NodeType(9): "unknown(9)",
	}
	for nt, want := range cases {
		if got := nt.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}
