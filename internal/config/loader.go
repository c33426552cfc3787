package config

import "os"

// Load resolves the full three-tier chain for a given profile and
// (optional) repo, per §4.8. repoRoot may be empty if the session has no
// associated repo (e.g. a shell session created outside a git repo).
func Load(appRoot, profile, repoRoot string) (Config, error) {
	if err := InitGlobal(GlobalConfigPath(appRoot)); err != nil {
		return Config{}, err
	}
	global, err := LoadGlobal(GlobalConfigPath(appRoot))
	if err != nil {
		return Config{}, err
	}

	profileOverride, err := LoadOverride(ProfileConfigPath(appRoot, profile))
	if err != nil {
		return Config{}, err
	}

	var repoOverride *Override
	trusted := false
	if repoRoot != "" {
		trusted = IsRepoTrusted(repoRoot)
		repoOverride, err = LoadOverride(RepoConfigPath(repoRoot))
		if err != nil {
			return Config{}, err
		}
	}

	return Merge(global, profileOverride, repoOverride, trusted), nil
}

// IsRepoTrusted reports whether a repo's config overrides may be applied.
// Trust is recorded by the presence of a
// ".agent-of-empires/config.toml.trusted" marker file beside the repo's
// config.toml, written only by an explicit user action (never implied by
// a repo's own config.toml, which would let an untrusted repo self-trust).
func IsRepoTrusted(repoRoot string) bool {
	_, err := os.Stat(RepoConfigPath(repoRoot) + ".trusted")
	return err == nil
}

// TrustRepo writes the trust marker for repoRoot.
func TrustRepo(repoRoot string) error {
	return os.WriteFile(RepoConfigPath(repoRoot)+".trusted", []byte{}, 0o644)
}
