package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/sethvargo/go-diceware/diceware"
)

// DefaultPasswordLength is the length of generated passwords.
const DefaultPasswordLength = 32

const (
	upperChars   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerChars   = "abcdefghijklmnopqrstuvwxyz"
	digitChars   = "0123456789"
	specialChars = "!@#$%^&*()_+-=[]{}|;:,.<>?"
	allChars     = upperChars + lowerChars + digitChars + specialChars
)

// ErrPasswordTooShort is returned when a password cannot hold one character of each class.
var ErrPasswordTooShort = errors.New("password length must be at least 4")

// GeneratePassword returns a random password of the given length containing
// at least one upper case letter, lower case letter, digit and symbol.
func GeneratePassword(length int) (string, error) {
	if length < 4 {
		return "", ErrPasswordTooShort
	}

	out := make([]byte, 0, length)
	for _, class := range []string{upperChars, lowerChars, digitChars, specialChars} {
		c, err := randomChar(class)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}
	for len(out) < length {
		c, err := randomChar(allChars)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}

	// Fisher-Yates so the class characters are not always in front.
	for i := len(out) - 1; i > 0; i-- {
		j, err := randomInt(i + 1)
		if err != nil {
			return "", err
		}
		out[i], out[j] = out[j], out[i]
	}

	return string(out), nil
}

// GeneratePassphrase returns a diceware passphrase of the given number of words.
func GeneratePassphrase(words int) (string, error) {
	if words < 1 {
		return "", fmt.Errorf("invalid word count %d", words)
	}
	list, err := diceware.Generate(words)
	if err != nil {
		return "", fmt.Errorf("failed to generate passphrase: %w", err)
	}
	return strings.Join(list, " "), nil
}

func randomChar(set string) (byte, error) {
	i, err := randomInt(len(set))
	if err != nil {
		return 0, err
	}
	return set[i], nil
}

func randomInt(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("failed to read random number: %w", err)
	}
	return int(v.Int64()), nil
}
