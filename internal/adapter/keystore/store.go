package keystore

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"solana-sweeper/internal/core/domain"
	"solana-sweeper/pkg/apperror"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/afero"
)

var recordName = regexp.MustCompile(`^keypair_(\d+)\.json$`)

// record is the on-disk keypair layout: the base58 address plus the 64-byte
// keypair as a list of integers.
type record struct {
	PublicKey  string `json:"public_key"`
	PrivateKey []int  `json:"private_key"`
}

// Store implements ports.AccountStore and ports.KeyWriter over a directory of
// keypair_<index>.json files.
type Store struct {
	fs            afero.Fs
	dir           string
	addressesFile string
}

// NewStore creates a Store rooted at dir. addressesFile is relative to dir.
func NewStore(fs afero.Fs, dir, addressesFile string) *Store {
	return &Store{fs: fs, dir: dir, addressesFile: addressesFile}
}

// RecordPath returns the file holding keypair index.
func (s *Store) RecordPath(index int) string {
	return filepath.Join(s.dir, fmt.Sprintf("keypair_%d.json", index))
}

// Indices lists every keypair record, ordered numerically. A missing directory
// holds no records.
func (s *Store) Indices(_ context.Context) ([]int, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []int{}, nil
		}
		return nil, fmt.Errorf("list keystore %s: %w", s.dir, err)
	}

	indices := make([]int, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := recordName.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		index, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		indices = append(indices, index)
	}
	sort.Ints(indices)
	return indices, nil
}

// Load reads and validates keypair index. The address is derived from the secret.
func (s *Store) Load(_ context.Context, index int) (*domain.AccountIdentity, error) {
	data, err := afero.ReadFile(s.fs, s.RecordPath(index))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperror.ErrAccountNotFound(index)
		}
		return nil, fmt.Errorf("read keypair %d: %w", index, err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, apperror.ErrMalformedAccount(index, err)
	}

	secret, err := decodeSecret(rec.PrivateKey)
	if err != nil {
		return nil, apperror.ErrMalformedAccount(index, err)
	}

	address := solana.PrivateKey(secret).PublicKey().String()
	if rec.PublicKey != "" && rec.PublicKey != address {
		return nil, apperror.ErrMalformedAccount(index,
			fmt.Errorf("stored public key %s does not match secret (%s)", rec.PublicKey, address))
	}

	return &domain.AccountIdentity{Index: index, Address: address, Secret: secret}, nil
}

func decodeSecret(values []int) ([]byte, error) {
	if len(values) != domain.SecretKeySize {
		return nil, fmt.Errorf("secret is %d bytes, want %d", len(values), domain.SecretKeySize)
	}
	secret := make([]byte, len(values))
	for i, v := range values {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("secret byte %d out of range: %d", i, v)
		}
		secret[i] = byte(v)
	}

	// The second half must be the public key of the first.
	expected := ed25519.NewKeyFromSeed(secret[:ed25519.SeedSize])
	if !bytes.Equal(expected, secret) {
		return nil, errors.New("public half does not match seed")
	}
	if err := solana.PrivateKey(secret).Validate(); err != nil {
		return nil, err
	}
	return secret, nil
}

// Save writes a derived keypair in the record format Load reads.
func (s *Store) Save(_ context.Context, key *domain.DerivedKey) error {
	rec := record{PublicKey: key.Address, PrivateKey: make([]int, len(key.Secret))}
	for i, b := range key.Secret {
		rec.PrivateKey[i] = int(b)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode keypair %d: %w", key.Index, err)
	}
	if err := s.fs.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create keystore %s: %w", s.dir, err)
	}
	if err := afero.WriteFile(s.fs, s.RecordPath(key.Index), data, 0o600); err != nil {
		return fmt.Errorf("write keypair %d: %w", key.Index, err)
	}
	return nil
}

// AppendAddress adds one line to the addresses file.
func (s *Store) AppendAddress(_ context.Context, address string) error {
	path := filepath.Join(s.dir, s.addressesFile)
	f, err := s.fs.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(address + "\n"); err != nil {
		return fmt.Errorf("append %s: %w", path, err)
	}
	return nil
}
