// Package nodes resolves the encrypted node tree returned by a list-nodes
// call.
//
// Each file and folder carries its own key, wrapped either with the account
// master key or with the key of a share that contains it. A Resolver walks
// the descriptors in server order, keeps a SharedKeyRegistry of every share
// key it has seen so far, unwraps each node key and decrypts the node's
// attributes to recover its name.
//
// Resolution is all-or-nothing for keys: a node whose key cannot be derived
// fails the whole pass. Attribute records are more forgiving; a record that
// cannot be decoded only replaces the node's name with a description of the
// failure.
//
// Resolved nodes expose two views. PublicNode is safe to print or serialize;
// KeyMaterial is only handed out by Node.Keys to code that transfers or
// shares content.
package nodes
