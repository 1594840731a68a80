package keygen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"solana-sweeper/internal/core/domain"
	"solana-sweeper/pkg/apperror"

	"github.com/creack/pty"
	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Prompts printed by `solana-keygen recover`.
const (
	promptSeedPhrase = "seed phrase:"
	promptPassphrase = "continue:"
	promptConfirm    = "(y/n):"
)

// SolanaKeygen implements ports.Deriver by driving the solana-keygen CLI through a
// pseudo-terminal, since it reads the seed phrase from a tty.
type SolanaKeygen struct {
	path    string
	fs      afero.Fs
	tmpDir  string
	timeout time.Duration
	log     zerolog.Logger
}

// NewSolanaKeygen creates a deriver using the binary at path. Temporary keypair files
// are written to tmpDir and removed after each derivation.
func NewSolanaKeygen(path string, fs afero.Fs, tmpDir string, timeout time.Duration, log zerolog.Logger) *SolanaKeygen {
	return &SolanaKeygen{path: path, fs: fs, tmpDir: tmpDir, timeout: timeout, log: log}
}

// Derive recovers keypair index at derivation path m/44'/501'/index'/0'.
func (k *SolanaKeygen) Derive(ctx context.Context, seedPhrase string, index int) (*domain.DerivedKey, error) {
	if k.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, k.timeout)
		defer cancel()
	}

	tmp := filepath.Join(k.tmpDir, fmt.Sprintf("keypair_temp_%d.json", index))
	defer func() {
		if err := k.fs.Remove(tmp); err != nil && !errors.Is(err, os.ErrNotExist) {
			k.log.Warn().Err(err).Str("file", tmp).Msg("failed to remove temporary keypair")
		}
	}()

	if err := k.recover(ctx, seedPhrase, index, tmp); err != nil {
		return nil, apperror.ErrDerivationFailed(index, err)
	}

	secret, err := k.readKeypair(tmp)
	if err != nil {
		return nil, apperror.ErrDerivationFailed(index, err)
	}

	address, err := k.pubkey(ctx, tmp)
	if err != nil {
		return nil, apperror.ErrDerivationFailed(index, err)
	}
	if derived := solana.PrivateKey(secret).PublicKey().String(); derived != address {
		return nil, apperror.ErrDerivationFailed(index,
			fmt.Errorf("pubkey %s does not match keypair (%s)", address, derived))
	}

	return &domain.DerivedKey{Index: index, Address: address, Secret: secret}, nil
}

func (k *SolanaKeygen) recover(ctx context.Context, seedPhrase string, index int, outfile string) error {
	cmd := exec.CommandContext(ctx, k.path,
		"recover", fmt.Sprintf("prompt://?key=%d/0", index),
		"--outfile", outfile,
		"--force",
	)

	tty, err := pty.Start(cmd)
	if err != nil {
		return fmt.Errorf("start %s: %w", k.path, err)
	}
	defer tty.Close()

	s := newSession(tty)

	steps := []struct {
		prompt string
		answer string
	}{
		{promptSeedPhrase, seedPhrase},
		{promptPassphrase, ""},
		{promptConfirm, "y"},
	}
	for _, step := range steps {
		if err := s.expect(ctx, step.prompt); err != nil {
			_ = cmd.Process.Kill()
			_ = cmd.Wait()
			return err
		}
		if _, err := io.WriteString(tty, step.answer+"\n"); err != nil {
			_ = cmd.Process.Kill()
			_ = cmd.Wait()
			return fmt.Errorf("answer %q: %w", step.prompt, err)
		}
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("solana-keygen recover: %w", err)
	}
	return nil
}

func (k *SolanaKeygen) readKeypair(path string) ([]byte, error) {
	data, err := afero.ReadFile(k.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read keypair: %w", err)
	}

	var values []int
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode keypair: %w", err)
	}
	if len(values) != domain.SecretKeySize {
		return nil, fmt.Errorf("invalid keypair length: %d bytes, expected %d", len(values), domain.SecretKeySize)
	}

	secret := make([]byte, len(values))
	for i, v := range values {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("keypair byte %d out of range: %d", i, v)
		}
		secret[i] = byte(v)
	}
	if err := solana.PrivateKey(secret).Validate(); err != nil {
		return nil, err
	}
	return secret, nil
}

func (k *SolanaKeygen) pubkey(ctx context.Context, path string) (string, error) {
	out, err := exec.CommandContext(ctx, k.path, "pubkey", path).Output()
	if err != nil {
		return "", fmt.Errorf("solana-keygen pubkey: %w", err)
	}
	address := strings.TrimSpace(string(out))
	if _, err := solana.PublicKeyFromBase58(address); err != nil {
		return "", fmt.Errorf("solana-keygen pubkey returned %q: %w", address, err)
	}
	return address, nil
}

// session accumulates terminal output so prompts can be matched across reads.
type session struct {
	chunks <-chan []byte
	buf    bytes.Buffer
}

func newSession(r io.Reader) *session {
	ch := make(chan []byte, 16)
	go func() {
		defer close(ch)
		p := make([]byte, 1024)
		for {
			n, err := r.Read(p)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, p[:n])
				ch <- chunk
			}
			if err != nil {
				return
			}
		}
	}()
	return &session{chunks: ch}
}

// expect waits until prompt has been printed and discards output up to it.
// Output is never included in errors: it echoes the seed phrase.
func (s *session) expect(ctx context.Context, prompt string) error {
	for {
		if i := strings.Index(s.buf.String(), prompt); i >= 0 {
			s.buf.Next(i + len(prompt))
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for prompt %q: %w", prompt, ctx.Err())
		case chunk, ok := <-s.chunks:
			if !ok {
				return fmt.Errorf("waiting for prompt %q: %w", prompt, io.ErrUnexpectedEOF)
			}
			s.buf.Write(chunk)
		}
	}
}
