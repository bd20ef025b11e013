// Package share builds the requests that share a folder and create nodes
// inside shared folders.
//
// A share grant re-encrypts the key of the shared node and of every node
// below it under a single share key, which is what grantees receive instead
// of the owner's master key. The share key itself is stored wrapped with
// the master key so the owner can reopen it on the next listing.
package share
