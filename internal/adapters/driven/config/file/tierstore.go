package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"

	"github.com/mindpilot-labs/mindpilot/internal/core/domain"
	"github.com/mindpilot-labs/mindpilot/internal/core/ports/driven"
	"github.com/mindpilot-labs/mindpilot/internal/logger"
)

// Ensure TierPolicyStore implements the interface.
var _ driven.TierPolicyStore = (*TierPolicyStore)(nil)

// TierPolicyStore loads the quota plan table from a TOML file and
// watches it for edits, so policy changes land without a restart.
//
// File format:
//
//	[tiers.free]
//	quick_per_24h = 3
//	full_per_30d = 0
//	burst_per_15m = 2
//
//	[tiers.admin]
//	quick_per_24h = -1
//	full_per_30d = -1
//	burst_per_15m = -1
//	admin = true
//
//	[users]
//	"some-user-id" = "pro"
//
// -1 is the unbounded sentinel. Users absent from [users] and all
// anonymous callers resolve to the free tier.
type TierPolicyStore struct {
	mu      sync.RWMutex
	path    string
	policy  domain.TierPolicy
	users   map[string]domain.TierName
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// tierPolicyFile is the on-disk TOML shape.
type tierPolicyFile struct {
	Tiers map[string]tierEntry `toml:"tiers"`
	Users map[string]string    `toml:"users"`
}

// tierEntry is one plan's quota bundle on disk.
type tierEntry struct {
	QuickPer24h int  `toml:"quick_per_24h"`
	FullPer30d  int  `toml:"full_per_30d"`
	BurstPer15m int  `toml:"burst_per_15m"`
	Admin       bool `toml:"admin"`
}

// NewTierPolicyStore creates a tier policy store backed by the given
// file. If path is empty, defaults to ~/.mindpilot/tiers.toml. A
// missing file is created with the built-in plan table.
func NewTierPolicyStore(path string) (*TierPolicyStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		path = filepath.Join(home, ".mindpilot", "tiers.toml")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	s := &TierPolicyStore{
		path:  path,
		users: make(map[string]domain.TierName),
		done:  make(chan struct{}),
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.writeDefaults(); err != nil {
			return nil, err
		}
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create policy watcher: %w", err)
	}
	// Watch the directory, not the file: editors rename over the file
	// and a direct watch dies with it.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch policy directory: %w", err)
	}
	s.watcher = watcher
	go s.watch()

	return s, nil
}

// Policy returns the current plan table.
func (s *TierPolicyStore) Policy() domain.TierPolicy {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(domain.TierPolicy, len(s.policy))
	for name, tier := range s.policy {
		out[name] = tier
	}
	return out
}

// TierFor resolves the plan for an identity. Anonymous callers and
// users without an assignment map to the free tier.
func (s *TierPolicyStore) TierFor(identity domain.IdentityRef) (domain.Tier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name := domain.TierFree
	if identity.Kind == domain.IdentityUser {
		if assigned, ok := s.users[identity.Value]; ok {
			name = assigned
		}
	}
	return s.policy.Lookup(name)
}

// Path returns the policy file path.
func (s *TierPolicyStore) Path() string {
	return s.path
}

// Close stops the file watcher.
func (s *TierPolicyStore) Close() error {
	close(s.done)
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

// load parses the policy file into the in-memory tables.
func (s *TierPolicyStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("reading tier policy: %w", err)
	}

	var parsed tierPolicyFile
	if err := toml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("parsing tier policy: %w", err)
	}

	policy := make(domain.TierPolicy, len(parsed.Tiers))
	for name, entry := range parsed.Tiers {
		tierName := domain.TierName(name)
		policy[tierName] = domain.Tier{
			Name:        tierName,
			QuickPer24h: entry.QuickPer24h,
			FullPer30d:  entry.FullPer30d,
			BurstPer15m: entry.BurstPer15m,
			Admin:       entry.Admin,
		}
	}
	// The free tier is the anonymous fallback and must always resolve.
	if _, ok := policy[domain.TierFree]; !ok {
		policy[domain.TierFree] = domain.DefaultTierPolicy()[domain.TierFree]
	}

	users := make(map[string]domain.TierName, len(parsed.Users))
	for id, tier := range parsed.Users {
		users[id] = domain.TierName(tier)
	}

	s.mu.Lock()
	s.policy = policy
	s.users = users
	s.mu.Unlock()
	return nil
}

// writeDefaults seeds the policy file with the built-in plan table.
func (s *TierPolicyStore) writeDefaults() error {
	defaults := tierPolicyFile{
		Tiers: make(map[string]tierEntry),
		Users: make(map[string]string),
	}
	for name, tier := range domain.DefaultTierPolicy() {
		defaults.Tiers[string(name)] = tierEntry{
			QuickPer24h: tier.QuickPer24h,
			FullPer30d:  tier.FullPer30d,
			BurstPer15m: tier.BurstPer15m,
			Admin:       tier.Admin,
		}
	}

	data, err := toml.Marshal(defaults)
	if err != nil {
		return fmt.Errorf("encoding default tier policy: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("writing default tier policy: %w", err)
	}
	return nil
}

// watch reloads the policy when the file changes.
func (s *TierPolicyStore) watch() {
	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Name != s.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := s.load(); err != nil {
				// Keep serving the last good table on a bad edit.
				logger.Warn("Tier policy reload failed: %v", err)
				continue
			}
			logger.Debug("Tier policy reloaded from %s", s.path)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Tier policy watcher: %v", err)
		}
	}
}
