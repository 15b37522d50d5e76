// Package profile persists the hero's name and chip balance between
// sessions.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lox/holdem-trainer/internal/fileutil"
)

// DefaultName is used when the player never gave one.
const DefaultName = "Player"

// Profile is the saved player state.
type Profile struct {
	Name  string `json:"name"`
	Chips int    `json:"chips"`
}

// Store reads and writes a profile file.
type Store struct {
	path     string
	starting int
}

// NewStore creates a store at path. New profiles start with startingChips.
func NewStore(path string, startingChips int) *Store {
	return &Store{path: path, starting: startingChips}
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.path
}

// Load returns the saved profile. When no file exists a fresh profile is
// returned with found false.
func (s *Store) Load() (p Profile, found bool, err error) {
	data, ok, err := fileutil.ReadFileIfExists(s.path)
	if err != nil {
		return Profile{}, false, err
	}
	if !ok {
		return s.New(""), false, nil
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return s.New(""), true, fmt.Errorf("decode profile %s: %w", s.path, err)
	}
	if strings.TrimSpace(p.Name) == "" {
		p.Name = DefaultName
	}
	if p.Chips < 0 {
		p.Chips = 0
	}
	return p, true, nil
}

// New returns a fresh profile with the starting balance.
func (s *Store) New(name string) Profile {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}
	return Profile{Name: name, Chips: s.starting}
}

// Save writes p atomically.
func (s *Store) Save(p Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// ErrNonPositive is returned when adding zero or fewer chips.
var ErrNonPositive = errors.New("profile: chip amount must be positive")

// AddChips credits the saved profile with amount free chips and returns the
// updated profile.
func (s *Store) AddChips(amount int) (Profile, error) {
	if amount <= 0 {
		return Profile{}, ErrNonPositive
	}
	p, _, err := s.Load()
	if err != nil {
		return Profile{}, err
	}
	p.Chips += amount
	if err := s.Save(p); err != nil {
		return Profile{}, err
	}
	return p, nil
}
