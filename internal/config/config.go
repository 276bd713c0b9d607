package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/99designs/keyring"
	"github.com/joho/godotenv"
)

const (
	serviceName       = "revolut-cli"
	defaultProfile    = "default"
	profilePrefix     = "profile:"
	profileIndexKey   = "profiles_index"
	currentProfileKey = "current_profile"

	envKeyringBackend  = "REVOLUT_KEYRING_BACKEND"
	envKeyringPassword = "REVOLUT_KEYRING_PASSWORD"
	envCredentialsDir  = "REVOLUT_CREDENTIALS_DIR"

	EnvProfile         = "REVOLUT_PROFILE"
	EnvSandbox         = "REVOLUT_SANDBOX"
	EnvClientAssertion = "REVOLUT_CLIENT_ASSERTION"
	EnvRefreshToken    = "REVOLUT_REFRESH_TOKEN"
	EnvSecretKey       = "REVOLUT_SECRET_KEY"

	keyringBackendAuto   = "auto"
	keyringBackendFile   = "file"
	keyringBackendSystem = "system"
)

// openKeyring is a package-level function for opening keyrings.
// It can be replaced in tests to use a mock keyring.
var openKeyring = func(cfg keyring.Config) (keyring.Keyring, error) {
	return keyring.Open(cfg)
}

var userConfigDir = os.UserConfigDir

var stdinHasTTY = func() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

// SetOpenKeyring allows replacing the keyring opener for testing.
// Returns a cleanup function that restores the original.
func SetOpenKeyring(fn func(keyring.Config) (keyring.Keyring, error)) func() {
	original := openKeyring
	openKeyring = fn
	return func() { openKeyring = original }
}

// Profile holds the credentials of one Revolut profile. A profile may carry
// Business credentials, Merchant credentials, or both.
type Profile struct {
	Sandbox  bool                 `json:"sandbox"`
	Business *BusinessCredentials `json:"business,omitempty"`
	Merchant *MerchantCredentials `json:"merchant,omitempty"`
}

// BusinessCredentials are the inputs of the refresh-token grant.
type BusinessCredentials struct {
	ClientAssertion string `json:"client_assertion"`
	RefreshToken    string `json:"refresh_token"`
}

type MerchantCredentials struct {
	SecretKey string `json:"secret_key"`
}

// Merge overlays the non-nil credential sets of other onto p.
func (p Profile) Merge(other Profile) Profile {
	p.Sandbox = other.Sandbox
	if other.Business != nil {
		business := *other.Business
		p.Business = &business
	}
	if other.Merchant != nil {
		merchant := *other.Merchant
		p.Merchant = &merchant
	}
	return p
}

// ErrNotConfigured is returned when no credentials are available
var ErrNotConfigured = errors.New("revolut not configured - run 'revolut auth login' first")

// keyringConfig returns the keyring configuration
func keyringConfig() keyring.Config {
	cfg := keyring.Config{
		ServiceName: serviceName,
	}

	backend := keyringBackendMode()
	if backend == keyringBackendSystem {
		return cfg
	}

	// Auto mode still configures the file backend so keyring.Open can fall
	// through to encrypted file storage when no native backend exists.
	configureFileBackend(&cfg)

	// Headless Linux should bypass other backends and use encrypted file storage.
	if shouldForceFileBackend(runtime.GOOS, backend, os.Getenv("DBUS_SESSION_BUS_ADDRESS")) {
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
	}

	return cfg
}

func keyringBackendMode() string {
	switch strings.ToLower(firstNonBlankEnv(envKeyringBackend)) {
	case keyringBackendFile:
		return keyringBackendFile
	case keyringBackendSystem, "os", "native":
		return keyringBackendSystem
	default:
		return keyringBackendAuto
	}
}

func shouldForceFileBackend(goos, backend, dbusAddr string) bool {
	if backend == keyringBackendFile {
		return true
	}
	if backend != keyringBackendAuto {
		return false
	}
	return goos == "linux" && strings.TrimSpace(dbusAddr) == ""
}

func configureFileBackend(cfg *keyring.Config) {
	cfg.FileDir = filepath.Join(configDir(firstNonBlankEnv(envCredentialsDir)), "keyring")
	cfg.FilePasswordFunc = keyringFilePassword
}

// configDir returns override when set, otherwise the per-user config
// directory of the CLI.
func configDir(override string) string {
	if override != "" {
		return override
	}
	if dir, err := userConfigDir(); err == nil && strings.TrimSpace(dir) != "" {
		return filepath.Join(dir, serviceName)
	}
	if home, err := os.UserHomeDir(); err == nil && strings.TrimSpace(home) != "" {
		return filepath.Join(home, ".config", serviceName)
	}
	return filepath.Join(os.TempDir(), serviceName)
}

func keyringFilePassword(prompt string) (string, error) {
	if password, ok := os.LookupEnv(envKeyringPassword); ok && strings.TrimSpace(password) != "" {
		return password, nil
	}
	if !stdinHasTTY() {
		return "", fmt.Errorf("set %s when using file keyring in non-interactive environments", envKeyringPassword)
	}
	return keyring.TerminalPrompt(prompt)
}

func firstNonBlankEnv(keys ...string) string {
	for _, key := range keys {
		if value, ok := os.LookupEnv(key); ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

func profileKey(name string) string {
	if name == "" {
		name = defaultProfile
	}
	return profilePrefix + name
}

// DefaultEnvFile is the .env file loaded when --env-file is not given.
func DefaultEnvFile() string {
	return filepath.Join(configDir(""), ".env")
}

// LoadEnvFile loads path into the process environment without overriding
// variables that are already set. An empty path loads DefaultEnvFile when it
// exists; an explicit path must exist.
func LoadEnvFile(path string) error {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultEnvFile()
		if _, err := os.Stat(path); err != nil {
			return nil
		}
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %q: %w", path, err)
	}
	return nil
}

// ProfileFromEnv builds a profile from REVOLUT_* variables. ok is false when
// no credential variable is set.
func ProfileFromEnv() (Profile, bool, error) {
	var p Profile
	assertion := strings.TrimSpace(os.Getenv(EnvClientAssertion))
	refresh := strings.TrimSpace(os.Getenv(EnvRefreshToken))
	if assertion != "" || refresh != "" {
		if assertion == "" || refresh == "" {
			return Profile{}, false, fmt.Errorf("environment variables %s and %s must both be set", EnvClientAssertion, EnvRefreshToken)
		}
		p.Business = &BusinessCredentials{ClientAssertion: assertion, RefreshToken: refresh}
	}
	if secret := strings.TrimSpace(os.Getenv(EnvSecretKey)); secret != "" {
		p.Merchant = &MerchantCredentials{SecretKey: secret}
	}
	if p.Business == nil && p.Merchant == nil {
		return Profile{}, false, nil
	}
	sandbox, err := sandboxFromEnv()
	if err != nil {
		return Profile{}, false, err
	}
	p.Sandbox = sandbox
	return p, true, nil
}

func sandboxFromEnv() (bool, error) {
	raw := strings.TrimSpace(os.Getenv(EnvSandbox))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean", EnvSandbox)
	}
	return v, nil
}

// Load resolves the credentials used by the CLI: REVOLUT_* environment
// variables first, then the named profile, then REVOLUT_PROFILE, then the
// current profile.
func Load(profile string) (Profile, error) {
	if p, ok, err := ProfileFromEnv(); err != nil || ok {
		return p, err
	}

	if profile == "" {
		profile = strings.TrimSpace(os.Getenv(EnvProfile))
	}
	if profile == "" {
		current, err := CurrentProfile()
		if err != nil {
			return Profile{}, err
		}
		profile = current
	}
	return LoadProfile(profile)
}

func loadProfileIndex(ring keyring.Keyring) ([]string, error) {
	item, err := ring.Get(profileIndexKey)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to get profile index: %w", err)
	}
	var profiles []string
	if err := json.Unmarshal(item.Data, &profiles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile index: %w", err)
	}
	return profiles, nil
}

func saveProfileIndex(ring keyring.Keyring, profiles []string) error {
	data, err := json.Marshal(profiles)
	if err != nil {
		return fmt.Errorf("failed to marshal profile index: %w", err)
	}
	return ring.Set(keyring.Item{
		Key:  profileIndexKey,
		Data: data,
	})
}

func normalizeProfiles(profiles []string) []string {
	seen := make(map[string]struct{}, len(profiles))
	var out []string
	for _, p := range profiles {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// SaveProfile stores p under name and makes it the current profile.
func SaveProfile(name string, p Profile) error {
	if name == "" {
		name = defaultProfile
	}

	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return fmt.Errorf("failed to open keyring: %w", err)
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if err := ring.Set(keyring.Item{
		Key:         profileKey(name),
		Data:        data,
		Label:       serviceName + " " + name,
		Description: "Revolut API credentials",
	}); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	profiles, err := loadProfileIndex(ring)
	if err != nil {
		return err
	}
	if err := saveProfileIndex(ring, normalizeProfiles(append(profiles, name))); err != nil {
		return err
	}

	return SetCurrentProfile(name)
}

// LoadProfile retrieves a named profile
func LoadProfile(name string) (Profile, error) {
	if name == "" {
		name = defaultProfile
	}

	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return Profile{}, fmt.Errorf("failed to open keyring: %w", err)
	}

	item, err := ring.Get(profileKey(name))
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return Profile{}, ErrNotConfigured
		}
		return Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}

	var p Profile
	if err := json.Unmarshal(item.Data, &p); err != nil {
		return Profile{}, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return p, nil
}

// DeleteProfile removes a stored profile
func DeleteProfile(name string) error {
	if name == "" {
		name = defaultProfile
	}

	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return fmt.Errorf("failed to open keyring: %w", err)
	}

	if err := ring.Remove(profileKey(name)); err != nil {
		if !errors.Is(err, keyring.ErrKeyNotFound) {
			return fmt.Errorf("failed to remove profile: %w", err)
		}
	}

	profiles, err := loadProfileIndex(ring)
	if err != nil {
		return err
	}
	var remaining []string
	for _, p := range profiles {
		if p != name {
			remaining = append(remaining, p)
		}
	}
	if err := saveProfileIndex(ring, remaining); err != nil {
		return err
	}

	current, err := CurrentProfile()
	if err == nil && current == name {
		next := defaultProfile
		if len(remaining) > 0 {
			next = remaining[0]
		}
		_ = SetCurrentProfile(next)
	}

	return nil
}

// ListProfiles returns the known profile names
func ListProfiles() ([]string, error) {
	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	return loadProfileIndex(ring)
}

// CurrentProfile returns the active profile name
func CurrentProfile() (string, error) {
	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return "", fmt.Errorf("failed to open keyring: %w", err)
	}

	item, err := ring.Get(currentProfileKey)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return defaultProfile, nil
		}
		return "", fmt.Errorf("failed to get current profile: %w", err)
	}
	return string(item.Data), nil
}

// SetCurrentProfile sets the active profile name
func SetCurrentProfile(name string) error {
	if name == "" {
		name = defaultProfile
	}

	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return fmt.Errorf("failed to open keyring: %w", err)
	}

	return ring.Set(keyring.Item{
		Key:  currentProfileKey,
		Data: []byte(name),
	})
}
