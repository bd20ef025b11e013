package share

import (
	"fmt"
	"io"

	kerrors "github.com/PolarWolf314/nodekeys/internal/errors"
	logger "github.com/PolarWolf314/nodekeys/internal/logging"
	"github.com/PolarWolf314/nodekeys/internal/nodes"
	"github.com/PolarWolf314/nodekeys/internal/primitives"
)

// Item is one node key re-encrypted under the share key.
type Item struct {
	NodeID string
	Key    []byte
}

// Grant holds everything a share request carries. Items are positional:
// the target first, then its descendants in tree order.
type Grant struct {
	RootID   string
	ShareKey []byte
	Items    []Item

	// EncryptedShareKey is the share key wrapped with the master key.
	EncryptedShareKey string
	// HandleAuth proves ownership of the target's handle.
	HandleAuth string
}

// Builder builds share grants for one account.
type Builder struct {
	masterKey []byte
	rand      io.Reader
	log       logger.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithRand sets the source used to mint new share keys.
func WithRand(r io.Reader) Option {
	return func(b *Builder) {
		b.rand = r
	}
}

// WithLogger sets the builder's logger.
func WithLogger(log logger.Logger) Option {
	return func(b *Builder) {
		b.log = log
	}
}

// NewBuilder returns a grant builder for the given master key.
func NewBuilder(masterKey []byte, opts ...Option) (*Builder, error) {
	if len(masterKey) != primitives.KeySize {
		return nil, fmt.Errorf("%w: master key must be %d bytes, got %d", kerrors.ErrMasterKeyRequired, primitives.KeySize, len(masterKey))
	}

	b := &Builder{masterKey: append([]byte(nil), masterKey...)}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Build creates the grant that shares target and everything below it.
// Nothing is returned unless every key could be re-encrypted.
func (b *Builder) Build(target *nodes.Node, tree *nodes.Tree) (*Grant, error) {
	if target == nil {
		return nil, fmt.Errorf("%w: no target", kerrors.ErrInvalidShareTarget)
	}

	targetKeys, ok := target.Keys()
	if !ok || !target.Type().HasKey() || len(targetKeys.FullKey) == 0 {
		return nil, fmt.Errorf("%w: %s has no key material", kerrors.ErrInvalidShareTarget, target.ID())
	}

	shareKey := targetKeys.SharedKey
	if len(shareKey) == primitives.KeySize {
		b.log.Debugf("Reusing share key of %s", target.ID())
	} else {
		var err error
		shareKey, err = primitives.NewKey(b.rand)
		if err != nil {
			return nil, fmt.Errorf("failed to create share key: %w", err)
		}
		b.log.Debugf("Created new share key for %s", target.ID())
	}

	descendants, err := Descendants(target, tree)
	if err != nil {
		return nil, err
	}

	grant := &Grant{
		RootID:   target.ID(),
		ShareKey: shareKey,
		Items:    make([]Item, 0, len(descendants)+1),
	}

	item, err := newItem(target.ID(), targetKeys.FullKey, shareKey)
	if err != nil {
		return nil, err
	}
	grant.Items = append(grant.Items, item)

	for _, n := range descendants {
		keys, ok := n.Keys()
		if !ok {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrMissingKeyMaterial, n.ID())
		}
		item, err := newItem(n.ID(), keys.FullKey, shareKey)
		if err != nil {
			return nil, err
		}
		grant.Items = append(grant.Items, item)
	}

	encryptedShareKey, err := primitives.WrapKey(shareKey, b.masterKey)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt share key: %w", err)
	}
	grant.EncryptedShareKey = primitives.EncodeBase64(encryptedShareKey)

	// Node handles are eight characters, so the doubled id fills one block.
	handleAuth, err := primitives.WrapKey([]byte(target.ID()+target.ID()), b.masterKey)
	if err != nil {
		return nil, fmt.Errorf("failed to compute handle auth for %s: %w", target.ID(), err)
	}
	grant.HandleAuth = primitives.EncodeBase64(handleAuth)

	b.log.Infof("Built share grant for %s with %d items", target.ID(), len(grant.Items))
	return grant, nil
}

func newItem(id string, fullKey, shareKey []byte) (Item, error) {
	wrapped, err := primitives.WrapKey(fullKey, shareKey)
	if err != nil {
		return Item{}, fmt.Errorf("re-encrypting key of %s: %w", id, err)
	}
	return Item{NodeID: id, Key: wrapped}, nil
}

// Descendants returns every file and folder below target, in tree order.
// A parent chain longer than the tree fails with ErrMissingKeyMaterial.
func Descendants(target *nodes.Node, tree *nodes.Tree) ([]*nodes.Node, error) {
	all := tree.Nodes()

	var found []*nodes.Node
	for _, n := range all {
		if n.Equal(target) || !n.Type().HasKey() {
			continue
		}

		below, err := isBelow(n, target.ID(), tree, len(all))
		if err != nil {
			return nil, err
		}
		if below {
			found = append(found, n)
		}
	}
	return found, nil
}

func isBelow(n *nodes.Node, ancestorID string, tree *nodes.Tree, limit int) (bool, error) {
	parentID := n.ParentID()
	for steps := 0; parentID != ""; steps++ {
		if steps > limit {
			return false, fmt.Errorf("%w: parent chain of %s does not terminate", kerrors.ErrMissingKeyMaterial, n.ID())
		}
		if parentID == ancestorID {
			return true, nil
		}
		parent, ok := tree.Get(parentID)
		if !ok {
			return false, nil
		}
		parentID = parent.ParentID()
	}
	return false, nil
}
