package domain

// SecretKeySize is the length of an ed25519 keypair as stored on disk: 32-byte seed + 32-byte public key.
const SecretKeySize = 64

// AccountIdentity is one signing identity loaded from the keystore.
// Address is derived from Secret, never read from the record.
type AccountIdentity struct {
	Index   int    `json:"index"`
	Address string `json:"address"`
	Secret  []byte `json:"-"`
}

// DerivedKey is the result of deriving keypair Index from a seed phrase.
type DerivedKey struct {
	Index   int
	Address string
	Secret  []byte
}
