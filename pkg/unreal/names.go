package unreal

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base32"
	"encoding/hex"
	"strings"
	"unicode"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
)

// UniqueNameLength is the length of names produced by UniqueName
const UniqueNameLength = 20

// ValidateProjectName checks that name can be used as a project directory
// and module name.
func ValidateProjectName(name string, maxLength int) error {
	switch {
	case name == "":
		return errors.New(errors.ErrInvalidInput, "project name must not be empty")
	case maxLength > 0 && len(name) > maxLength:
		return errors.Newf(errors.ErrInvalidInput, "project name %q exceeds %d characters", name, maxLength)
	case unicode.IsDigit(rune(name[0])):
		return errors.Newf(errors.ErrInvalidInput, "project name %q must not start with a digit", name)
	}
	for _, r := range name {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			return errors.Newf(errors.ErrInvalidInput, "project name %q may only contain letters, digits and underscores", name)
		}
	}
	return nil
}

// UniqueName derives a stable identifier from seed: the SHA-256 digest in
// base32, cut to UniqueNameLength characters, never starting with a digit.
func UniqueName(seed string) string {
	sum := sha256.Sum256([]byte(seed))
	name := base32.StdEncoding.EncodeToString(sum[:])[:UniqueNameLength]
	if name[0] >= '0' && name[0] <= '9' {
		name = "A" + name[1:]
	}
	return name
}

// NewPluginName returns a fresh content plugin name
func NewPluginName() (string, error) {
	seed := make([]byte, 16)
	if _, err := rand.Read(seed); err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "cannot generate plugin name")
	}
	return UniqueName(hex.EncodeToString(seed)), nil
}

// ValidateAPIKey checks that key is a non-empty alphanumeric string
func ValidateAPIKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New(errors.ErrInvalidInput, "API key must not be empty")
	}
	for _, r := range key {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return errors.New(errors.ErrInvalidInput, "API key must be alphanumeric")
		}
	}
	return nil
}
