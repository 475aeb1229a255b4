// Package nameservice reads the accounts folder and creates a name
// service lookup for the wallet addresses.
package nameservice

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/ardanlabs/cryptochain/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/crypto"
)

// KeyExtension is the file extension of a private key file.
const KeyExtension = ".ecdsa"

// NameService maintains a map of addresses for name lookup.
type NameService struct {
	accounts map[string]string
}

// New constructs a name service with accounts from the private key files
// found under the root folder.
func New(root string) (*NameService, error) {
	ns := NameService{
		accounts: make(map[string]string),
	}

	fn := func(fileName string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walkdir failure: %w", err)
		}

		if d.IsDir() || filepath.Ext(fileName) != KeyExtension {
			return nil
		}

		privateKey, err := crypto.LoadECDSA(fileName)
		if err != nil {
			return fmt.Errorf("loading %s: %w", fileName, err)
		}

		address := signature.PublicKeyToAddress(privateKey.PublicKey)
		ns.accounts[address] = strings.TrimSuffix(filepath.Base(fileName), KeyExtension)

		return nil
	}

	if err := filepath.WalkDir(root, fn); err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return &ns, nil
}

// Lookup returns the name for the specified address.
func (ns *NameService) Lookup(address string) string {
	name, exists := ns.accounts[address]
	if !exists {
		return address
	}
	return name
}

// Address returns the address registered under the specified name.
func (ns *NameService) Address(name string) (string, bool) {
	for address, n := range ns.accounts {
		if n == name {
			return address, true
		}
	}
	return "", false
}

// Copy returns a copy of the map of names and addresses.
func (ns *NameService) Copy() map[string]string {
	cpy := make(map[string]string, len(ns.accounts))
	for address, name := range ns.accounts {
		cpy[address] = name
	}
	return cpy
}
