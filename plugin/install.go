package plugin

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/animus-ai/animus/logging"
)

// CommandRunner abstracts subprocess execution so tests can stub the package
// manager. Run blocks until the command exits and returns a non-nil error
// for any non-zero exit code.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run()
}

// InstallConfig holds the independent disable conditions for the auto
// install side effect. Any true condition (or EnvName equal to "test")
// suppresses installs entirely.
type InstallConfig struct {
	// NoAutoInstall disables all automatic installs.
	NoAutoInstall bool
	// NoPluginAutoInstall disables plugin installs specifically.
	NoPluginAutoInstall bool
	// CI indicates a CI environment.
	CI bool
	// TestMode indicates the runtime is resolving in test mode.
	TestMode bool
	// EnvName is the environment name; "test" (case-insensitive) disables installs.
	EnvName string
}

// InstallConfigFromEnv derives an InstallConfig from process environment
// variables: ANIMUS_NO_AUTO_INSTALL, ANIMUS_NO_PLUGIN_AUTO_INSTALL, CI,
// ANIMUS_TEST_MODE and ANIMUS_ENV.
func InstallConfigFromEnv() InstallConfig {
	truthy := func(key string) bool {
		v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
		return v != "" && v != "0" && v != "false"
	}
	return InstallConfig{
		NoAutoInstall:       truthy("ANIMUS_NO_AUTO_INSTALL"),
		NoPluginAutoInstall: truthy("ANIMUS_NO_PLUGIN_AUTO_INSTALL"),
		CI:                  truthy("CI"),
		TestMode:            truthy("ANIMUS_TEST_MODE"),
		EnvName:             os.Getenv("ANIMUS_ENV"),
	}
}

func (c InstallConfig) disabled() bool {
	return c.NoAutoInstall ||
		c.NoPluginAutoInstall ||
		c.CI ||
		c.TestMode ||
		strings.EqualFold(strings.TrimSpace(c.EnvName), "test")
}

// InstallerOptions configures an Installer.
type InstallerOptions struct {
	Config InstallConfig
	// PackageManager is the executable used for installs.
	PackageManager string
	Runner         CommandRunner
	Logger         logging.Logger
}

// Installer performs the optional package install side effect when a named
// plugin cannot be found in the registry. Each distinct name is attempted at
// most once per Installer lifetime regardless of how many resolution runs
// request it. Install never propagates failures; every error path converts
// to a false return plus a logged message.
type Installer struct {
	cfg    InstallConfig
	pm     string
	runner CommandRunner
	logger logging.Logger

	mu        sync.Mutex
	attempted map[string]struct{}
}

// NewInstaller constructs an Installer with optional overrides. The default
// package manager is bun and the default runner spawns real subprocesses.
func NewInstaller(optFns ...func(o *InstallerOptions)) *Installer {
	opts := InstallerOptions{
		Config:         InstallConfigFromEnv(),
		PackageManager: "bun",
		Runner:         execRunner{},
		Logger:         logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Installer{
		cfg:       opts.Config,
		pm:        opts.PackageManager,
		runner:    opts.Runner,
		logger:    opts.Logger,
		attempted: make(map[string]struct{}),
	}
}

// Install attempts to install the named plugin package, returning true only
// when the install subprocess completed successfully. The sequence is:
// gate checks, per-name idempotency, package manager availability check,
// then the install itself.
func (i *Installer) Install(ctx context.Context, name string) bool {
	if i == nil {
		return false
	}
	if i.cfg.disabled() {
		i.logger.Debug("auto install disabled, skipping install of %s", name)
		return false
	}

	i.mu.Lock()
	if _, done := i.attempted[name]; done {
		i.mu.Unlock()
		i.logger.Debug("install of %s already attempted, skipping", name)
		return false
	}
	i.attempted[name] = struct{}{}
	i.mu.Unlock()

	// Availability check short-circuits the install on failure.
	if err := i.runner.Run(ctx, i.pm, "--version"); err != nil {
		i.logger.Error("package manager %s unavailable: %v", i.pm, err)
		return false
	}

	if err := i.runner.Run(ctx, i.pm, "add", name); err != nil {
		i.logger.Error("failed to install plugin %s: %v", name, err)
		return false
	}

	i.logger.Info("installed plugin package %s", name)
	return true
}
