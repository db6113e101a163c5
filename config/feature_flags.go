package config

import (
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// FeatureFlags holds the behavior toggles of a transformer run.
// Defaults are set in code, then overridden from the config file and
// finally from FEATURE_* environment variables.
type FeatureFlags struct {
	mu       sync.RWMutex
	features map[string]*Feature
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool
}

// Predefined feature flag names.
const (
	// FeatureStudyOnlineMode accepts the "Internetowe" study mode.
	FeatureStudyOnlineMode = "study.online_mode"
	// FeatureExportAtomicWrite writes reports through a temp file and rename.
	FeatureExportAtomicWrite = "export.atomic_write"
)

// LoadFeatureFlags builds the flag set: defaults, then values (usually the
// config file's features section), then FEATURE_* env overrides.
func LoadFeatureFlags(values map[string]bool) (*FeatureFlags, error) {
	ff := NewFeatureFlags()
	if err := ff.Apply(values); err != nil {
		return nil, err
	}
	ff.loadFromEnvironment()
	return ff, nil
}

// NewFeatureFlags returns the flag set with default values only.
func NewFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{features: make(map[string]*Feature)}
	ff.initializeDefaults()
	return ff
}

func (ff *FeatureFlags) initializeDefaults() {
	ff.features[FeatureStudyOnlineMode] = &Feature{
		Name:        FeatureStudyOnlineMode,
		Description: "Accept the online study mode",
		Enabled:     false,
	}

	ff.features[FeatureExportAtomicWrite] = &Feature{
		Name:        FeatureExportAtomicWrite,
		Description: "Write reports via temp file and rename",
		Enabled:     true,
	}
}

// loadFromEnvironment applies FEATURE_<NAME>=true|false overrides.
// Unparsable values are ignored.
func (ff *FeatureFlags) loadFromEnvironment() {
	for name, feature := range ff.features {
		val := os.Getenv(featureNameToEnvKey(name))
		if val == "" {
			continue
		}
		if b, err := strconv.ParseBool(val); err == nil {
			feature.Enabled = b
		}
	}
}

// featureNameToEnvKey converts feature name to environment variable key.
// "study.online_mode" -> "FEATURE_STUDY_ONLINE_MODE"
func featureNameToEnvKey(name string) string {
	key := strings.ToUpper(name)
	key = strings.ReplaceAll(key, ".", "_")
	return "FEATURE_" + key
}

// IsEnabled reports whether the named feature is on. Unknown names are off.
func (ff *FeatureFlags) IsEnabled(featureName string) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return false
	}
	return feature.Enabled
}

// Set turns a feature on or off.
func (ff *FeatureFlags) Set(featureName string, enabled bool) error {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return &FeatureFlagError{Message: ErrFeatureNotFound.Message, Name: featureName}
	}
	feature.Enabled = enabled
	return nil
}

// Apply sets every flag in values, stopping at the first unknown name.
func (ff *FeatureFlags) Apply(values map[string]bool) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := ff.Set(name, values[name]); err != nil {
			return err
		}
	}
	return nil
}

// GetAllFeatures returns a copy of all feature configurations.
func (ff *FeatureFlags) GetAllFeatures() map[string]*Feature {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	result := make(map[string]*Feature, len(ff.features))
	for k, v := range ff.features {
		featureCopy := *v
		result[k] = &featureCopy
	}
	return result
}

// --- Convenience methods for common checks ---

// OnlineModeEnabled reports whether "Internetowe" is an accepted mode.
func (ff *FeatureFlags) OnlineModeEnabled() bool {
	return ff.IsEnabled(FeatureStudyOnlineMode)
}

// AtomicWriteEnabled reports whether reports are written atomically.
func (ff *FeatureFlags) AtomicWriteEnabled() bool {
	return ff.IsEnabled(FeatureExportAtomicWrite)
}

// --- Errors ---

// ErrFeatureNotFound is returned for unknown flag names.
var ErrFeatureNotFound = &FeatureFlagError{Message: "feature not found"}

// FeatureFlagError represents a feature flag error.
type FeatureFlagError struct {
	Message string
	Name    string
}

func (e *FeatureFlagError) Error() string {
	if e.Name == "" {
		return e.Message
	}
	return e.Message + ": " + e.Name
}

// Is matches any FeatureFlagError with the same message.
func (e *FeatureFlagError) Is(target error) bool {
	t, ok := target.(*FeatureFlagError)
	return ok && t.Message == e.Message
}
