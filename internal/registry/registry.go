// Package registry persists named store connection profiles in a single
// JSON file. The file is read on demand and rewritten wholesale on each
// mutation; at most one profile is flagged current.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/blackeyes972/budget-familiare/internal/database"
)

var (
	// ErrExists is returned when adding a profile whose name is taken.
	ErrExists = errors.New("profile already exists")
	// ErrNotFound is returned for operations on an unknown profile.
	ErrNotFound = errors.New("profile not found")
)

// Profile is one named store configuration.
type Profile struct {
	Name      string          `json:"-"`
	Type      string          `json:"type"`
	Params    database.Params `json:"params"`
	CreatedAt time.Time       `json:"created_at"`
	LastUsed  *time.Time      `json:"last_used"`
	IsActive  bool            `json:"is_active"`
	IsCurrent bool            `json:"-"`
}

type registryFile struct {
	Profiles       map[string]Profile `json:"profiles"`
	CurrentProfile string             `json:"current_profile"`
	LastUsed       *time.Time         `json:"last_used"`
}

// Registry reads and writes the profile file.
type Registry struct {
	path string
}

func New(path string) *Registry {
	return &Registry{path: path}
}

func (r *Registry) load() (*registryFile, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &registryFile{Profiles: map[string]Profile{}}, nil
		}
		return nil, fmt.Errorf("read registry: %w", err)
	}

	var f registryFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	if f.Profiles == nil {
		f.Profiles = map[string]Profile{}
	}
	return &f, nil
}

func (r *Registry) save(f *registryFile) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create registry dir: %w", err)
	}
	raw, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal registry: %w", err)
	}
	if err := os.WriteFile(r.path, raw, 0o600); err != nil {
		return fmt.Errorf("write registry: %w", err)
	}
	return nil
}

// Add registers a new profile. A taken name is a no-op returning
// ErrExists.
func (r *Registry) Add(name, dbType string, params database.Params) error {
	f, err := r.load()
	if err != nil {
		return err
	}
	if _, ok := f.Profiles[name]; ok {
		return ErrExists
	}
	f.Profiles[name] = Profile{
		Type:      dbType,
		Params:    params,
		CreatedAt: time.Now(),
		IsActive:  true,
	}
	return r.save(f)
}

// SetCurrent points the registry at the named profile and stamps
// last_used on both the registry and the profile.
func (r *Registry) SetCurrent(name string) error {
	f, err := r.load()
	if err != nil {
		return err
	}
	p, ok := f.Profiles[name]
	if !ok {
		return ErrNotFound
	}
	now := time.Now()
	p.LastUsed = &now
	f.Profiles[name] = p
	f.CurrentProfile = name
	f.LastUsed = &now
	return r.save(f)
}

// Remove deletes a profile. If it was current, the pointer is cleared;
// the caller must pick a store explicitly before the next data
// operation — there is no silent fallback.
func (r *Registry) Remove(name string) error {
	f, err := r.load()
	if err != nil {
		return err
	}
	if _, ok := f.Profiles[name]; !ok {
		return ErrNotFound
	}
	delete(f.Profiles, name)
	if f.CurrentProfile == name {
		f.CurrentProfile = ""
	}
	return r.save(f)
}

// Current returns the current profile, or nil when none is selected.
func (r *Registry) Current() (*Profile, error) {
	f, err := r.load()
	if err != nil {
		return nil, err
	}
	if f.CurrentProfile == "" {
		return nil, nil
	}
	p, ok := f.Profiles[f.CurrentProfile]
	if !ok {
		return nil, nil
	}
	p.Name = f.CurrentProfile
	p.IsCurrent = true
	return &p, nil
}

// List returns all profiles sorted by last_used descending; never-used
// profiles sort last, as if last used at the epoch.
func (r *Registry) List() ([]Profile, error) {
	f, err := r.load()
	if err != nil {
		return nil, err
	}

	profiles := make([]Profile, 0, len(f.Profiles))
	for name, p := range f.Profiles {
		p.Name = name
		p.IsCurrent = name == f.CurrentProfile
		profiles = append(profiles, p)
	}

	lastUsed := func(p Profile) time.Time {
		if p.LastUsed == nil {
			return time.Unix(0, 0)
		}
		return *p.LastUsed
	}
	sort.Slice(profiles, func(i, j int) bool {
		ti, tj := lastUsed(profiles[i]), lastUsed(profiles[j])
		if ti.Equal(tj) {
			return profiles[i].Name < profiles[j].Name
		}
		return ti.After(tj)
	})
	return profiles, nil
}
