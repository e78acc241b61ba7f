package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/samber/oops"
	"golang.org/x/crypto/argon2"
)

// OWASP-recommended argon2id parameters.
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024
	argon2Threads = 4
	argon2SaltLen = 16
	argon2KeyLen  = 32
)

// Argon2id implements Hasher using argon2id with PHC encoded digests.
type Argon2id struct{}

// NewArgon2id creates a new Argon2id hasher.
func NewArgon2id() *Argon2id {
	return &Argon2id{}
}

// Hash encodes the result as $argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>.
func (h *Argon2id) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", oops.Code("PASSWORD_SALT_FAILED").Wrap(err)
	}

	key := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argon2Memory,
		argon2Time,
		argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (h *Argon2id) Verify(password, digest string) (bool, error) {
	p, err := parseArgon2(digest)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey([]byte(password), p.salt, p.time, p.memory, p.threads, uint32(len(p.key)))

	return subtle.ConstantTimeCompare(computed, p.key) == 1, nil
}

// NeedsUpgrade reports digests produced with weaker parameters.
func (h *Argon2id) NeedsUpgrade(digest string) bool {
	p, err := parseArgon2(digest)
	if err != nil {
		return true
	}
	return p.time < argon2Time || p.memory < argon2Memory || len(p.key) < argon2KeyLen
}

func (h *Argon2id) owns(digest string) bool {
	return strings.HasPrefix(digest, "$argon2id$")
}

type argon2Params struct {
	memory  uint32
	time    uint32
	threads uint8
	salt    []byte
	key     []byte
}

func parseArgon2(digest string) (argon2Params, error) {
	invalid := oops.Code("PASSWORD_INVALID_HASH")

	parts := strings.Split(digest, "$")
	if len(parts) != 6 {
		return argon2Params{}, invalid.Errorf("invalid hash format")
	}
	if parts[1] != "argon2id" {
		return argon2Params{}, invalid.Errorf("unsupported hash algorithm: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return argon2Params{}, invalid.Wrap(err)
	}
	if version != argon2.Version {
		return argon2Params{}, invalid.Errorf("unsupported argon2 version %d", version)
	}

	var memory, time, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return argon2Params{}, invalid.Wrap(err)
	}
	if threads == 0 || threads > 255 {
		return argon2Params{}, invalid.Errorf("threads value %d out of range", threads)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return argon2Params{}, invalid.Wrap(err)
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return argon2Params{}, invalid.Wrap(err)
	}
	if len(key) == 0 || len(key) > 1<<10 {
		return argon2Params{}, invalid.Errorf("invalid hash key length: %d", len(key))
	}

	return argon2Params{
		memory:  memory,
		time:    time,
		threads: uint8(threads),
		salt:    salt,
		key:     key,
	}, nil
}
