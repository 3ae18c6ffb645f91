// hot-reload.go: dynamic configuration with Argus integration
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pasbp

import (
	"fmt"
	"sync"
	"time"

	"github.com/agilira/argus"
)

// HotConfig watches a configuration file and applies the runtime switches
// of a predictor (debug tracing, history policy) when it changes.
//
// Geometry cannot change on a live predictor. When the file asks for a
// different geometry the new Config is handed to OnReload so the host can
// rebuild the predictor at a pipeline drain point.
type HotConfig struct {
	predictor *Predictor
	watcher   *argus.Watcher
	logger    Logger
	mu        sync.RWMutex
	config    Config

	// OnReload is called after a valid configuration has been loaded.
	// This callback is optional and must be fast and non-blocking.
	OnReload func(oldConfig, newConfig Config)
}

// HotConfigOptions configures hot reload behavior.
type HotConfigOptions struct {
	// ConfigPath is the path to the configuration file to watch.
	// Supports JSON, YAML, TOML, HCL, INI, Properties formats.
	ConfigPath string

	// PollInterval is how often to check for configuration changes.
	// Default: 1 second. Minimum: 100ms.
	PollInterval time.Duration

	// OnReload is called after configuration is successfully reloaded.
	OnReload func(oldConfig, newConfig Config)

	// Logger for hot reload operations.
	// If nil, uses the predictor's logger.
	Logger Logger
}

// NewHotConfig creates a hot-reloadable configuration for a predictor.
// Call Start to begin watching.
//
// Example configuration file (YAML):
//
//	predictor:
//	  address_index_bits: 10
//	  history_register_bits: 12
//	  history_row_select_bits: 10
//	  address_column_select_bits: 4
//	  counter_bits: 2
//	  thread_count: 2
//	  history_policy: resolved
//	  debug: true
//
// Keys that are absent keep the predictor's current value.
func NewHotConfig(pred *Predictor, opts HotConfigOptions) (*HotConfig, error) {
	if pred == nil {
		return nil, fmt.Errorf("predictor is required")
	}
	if opts.ConfigPath == "" {
		return nil, fmt.Errorf("config_path is required")
	}

	if opts.PollInterval == 0 {
		opts.PollInterval = 1 * time.Second
	} else if opts.PollInterval < 100*time.Millisecond {
		opts.PollInterval = 100 * time.Millisecond
	}

	if opts.Logger == nil {
		opts.Logger = pred.logger
	}

	hc := &HotConfig{
		predictor: pred,
		logger:    opts.Logger,
		OnReload:  opts.OnReload,
		config:    pred.Config(),
	}

	argusConfig := argus.Config{
		PollInterval: opts.PollInterval,
	}

	watcher, err := argus.UniversalConfigWatcherWithConfig(opts.ConfigPath, hc.handleConfigChange, argusConfig)
	if err != nil {
		return nil, err
	}
	hc.watcher = watcher

	return hc, nil
}

// Start begins watching the configuration file for changes.
func (hc *HotConfig) Start() error {
	if hc.watcher.IsRunning() {
		return nil
	}
	return hc.watcher.Start()
}

// Stop stops watching the configuration file.
func (hc *HotConfig) Stop() error {
	return hc.watcher.Stop()
}

// GetConfig returns the last valid configuration (thread-safe).
func (hc *HotConfig) GetConfig() Config {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return hc.config
}

// handleConfigChange is called by Argus when configuration changes.
func (hc *HotConfig) handleConfigChange(configData map[string]interface{}) {
	hc.mu.Lock()
	oldConfig := hc.config
	newConfig, err := hc.parseConfig(oldConfig, configData)
	if err != nil {
		hc.mu.Unlock()
		hc.logger.Warn("ignoring invalid predictor configuration",
			"code", string(GetErrorCode(err)),
			"error", err.Error())
		return
	}
	hc.config = newConfig
	hc.mu.Unlock()

	hc.applyChanges(oldConfig, newConfig)

	if hc.OnReload != nil {
		hc.OnReload(oldConfig, newConfig)
	}
}

// parsePositiveInt extracts a positive integer from interface{} value.
// Supports both int and float64 types (YAML/JSON may vary).
func parsePositiveInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		if v > 0 {
			return v, true
		}
	case int64:
		if v > 0 {
			return int(v), true
		}
	case float64:
		if v > 0 && v == float64(int(v)) {
			return int(v), true
		}
	}
	return 0, false
}

// parseBool extracts a boolean, accepting the usual string spellings.
func parseBool(value interface{}) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		switch v {
		case "true", "yes", "on", "1":
			return true, true
		case "false", "no", "off", "0":
			return false, true
		}
	}
	return false, false
}

// parseConfig overlays the keys present in data onto base and validates
// the result. A present but malformed key is an error.
func (hc *HotConfig) parseConfig(base Config, data map[string]interface{}) (Config, error) {
	config := base

	section, ok := data["predictor"].(map[string]interface{})
	if !ok {
		section = data
	}

	ints := []struct {
		key   string
		field *int
	}{
		{"address_index_bits", &config.AddressIndexBits},
		{"history_register_bits", &config.HistoryRegisterBits},
		{"history_row_select_bits", &config.HistoryRowSelectBits},
		{"address_column_select_bits", &config.AddressColumnSelectBits},
		{"counter_bits", &config.CounterBits},
		{"thread_count", &config.ThreadCount},
	}
	for _, f := range ints {
		raw, present := section[f.key]
		if !present {
			continue
		}
		v, ok := parsePositiveInt(raw)
		if !ok {
			return base, NewErrInvalidConfigKey(f.key, raw)
		}
		*f.field = v
	}

	if raw, present := section["history_policy"]; present {
		s, _ := raw.(string)
		policy, err := ParseHistoryPolicy(s)
		if err != nil {
			return base, NewErrInvalidConfigKey("history_policy", raw)
		}
		config.HistoryPolicy = policy
	}

	if raw, present := section["debug"]; present {
		debug, ok := parseBool(raw)
		if !ok {
			return base, NewErrInvalidConfigKey("debug", raw)
		}
		config.Debug = debug
	}

	if err := config.Validate(); err != nil {
		return base, NewErrInvalidConfig(err)
	}
	return config, nil
}

// applyChanges pushes runtime switches into the live predictor. Geometry
// changes are only reported.
func (hc *HotConfig) applyChanges(old, new Config) {
	if old.Debug != new.Debug {
		hc.predictor.SetDebug(new.Debug)
		hc.logger.Info("debug tracing changed", "debug", new.Debug)
	}

	if old.HistoryPolicy != new.HistoryPolicy {
		// Validated by parseConfig, cannot fail.
		_ = hc.predictor.SetHistoryPolicy(new.HistoryPolicy)
		hc.logger.Info("history policy changed", "policy", new.HistoryPolicy.String())
	}

	if !old.sameGeometry(new) {
		hc.logger.Info("predictor geometry changed, rebuild required",
			"address_index_bits", new.AddressIndexBits,
			"history_register_bits", new.HistoryRegisterBits,
			"history_row_select_bits", new.HistoryRowSelectBits,
			"address_column_select_bits", new.AddressColumnSelectBits,
			"counter_bits", new.CounterBits,
			"thread_count", new.ThreadCount)
	}
}
