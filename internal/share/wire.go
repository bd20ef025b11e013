package share

import (
	"bytes"
	"encoding/json"

	"github.com/PolarWolf314/nodekeys/internal/primitives"
)

// ShareData is the "cr" field of share and create-node requests. It
// marshals to three parallel arrays:
//
//	[[rootId], [itemId, ...], [0, index, key, ...]]
//
// The server matches keys to ids by position.
type ShareData struct {
	RootID string
	Items  []Item
}

// MarshalJSON implements json.Marshaler.
func (d ShareData) MarshalJSON() ([]byte, error) {
	ids := make([]string, 0, len(d.Items))
	keys := make([]any, 0, 3*len(d.Items))
	for i, item := range d.Items {
		ids = append(ids, item.NodeID)
		keys = append(keys, 0, i, primitives.EncodeBase64(item.Key))
	}

	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	if err := enc.Encode([]any{[]string{d.RootID}, ids, keys}); err != nil {
		return nil, err
	}
	return bytes.TrimRight(b.Bytes(), "\n"), nil
}

// ShareOption is one entry of the share request's access list.
type ShareOption struct {
	Rights int    `json:"r"`
	User   string `json:"u"`
}

// Request is the "s2" command that publishes a share.
type Request struct {
	Action     string        `json:"a"`
	NodeID     string        `json:"n"`
	HandleAuth string        `json:"ha"`
	Options    []ShareOption `json:"s"`
	Share      *ShareData    `json:"cr,omitempty"`
	SharedKey  string        `json:"ok"`
}

// Data returns the wire form of the grant's items.
func (g *Grant) Data() *ShareData {
	return &ShareData{RootID: g.RootID, Items: g.Items}
}

// Request returns the share command for the grant. The access list shares
// the node read-only through an exported link.
func (g *Grant) Request() *Request {
	return &Request{
		Action:     "s2",
		NodeID:     g.RootID,
		HandleAuth: g.HandleAuth,
		Options:    []ShareOption{{Rights: 0, User: "EXP"}},
		Share:      g.Data(),
		SharedKey:  g.EncryptedShareKey,
	}
}
