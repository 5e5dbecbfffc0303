// Package auth protects the API with a single shared access phrase whose
// bcrypt hash is kept in the settings store.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/evcraddock/fieldlog/internal/db"
)

// PhraseKey is the settings key holding the phrase hash.
const PhraseKey = "access_phrase_hash"

// Store is the part of the settings store used for the phrase hash.
type Store interface {
	Get(key, fallback string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// SetPhrase hashes phrase and stores it, replacing any previous phrase.
func SetPhrase(store Store, phrase string) error {
	if strings.TrimSpace(phrase) == "" {
		return fmt.Errorf("access phrase is required: %w", db.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(phrase), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing access phrase: %w", err)
	}
	if err := store.Set(PhraseKey, string(hash)); err != nil {
		return fmt.Errorf("storing access phrase: %w", err)
	}
	return nil
}

// ClearPhrase removes the phrase, leaving the API open.
func ClearPhrase(store Store) error {
	if err := store.Delete(PhraseKey); err != nil {
		return fmt.Errorf("clearing access phrase: %w", err)
	}
	return nil
}

// Enabled reports whether a phrase has been set.
func Enabled(store Store) (bool, error) {
	hash, err := store.Get(PhraseKey, "")
	if err != nil {
		return false, fmt.Errorf("reading access phrase: %w", err)
	}
	return hash != "", nil
}

// Verify reports whether phrase matches the stored hash. It returns false
// when no phrase is set.
func Verify(store Store, phrase string) (bool, error) {
	hash, err := store.Get(PhraseKey, "")
	if err != nil {
		return false, fmt.Errorf("reading access phrase: %w", err)
	}
	if hash == "" {
		return false, nil
	}

	err = bcrypt.CompareHashAndPassword([]byte(hash), []byte(phrase))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("comparing access phrase: %w", err)
	}
	return true, nil
}
