// Command archguard fails when a module package imports across clean
// architecture layers in the wrong direction.
package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
	"github.com/roblaszczak/go-cleanarch/cleanarch"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type config struct {
	Version         int      `yaml:"version"`
	Root            string   `yaml:"root"`
	IgnoreTests     bool     `yaml:"ignore_tests"`
	IgnorePackages  []string `yaml:"ignore_packages"`
	SharedModules   []string `yaml:"shared_modules"`
	AllowViolations []string `yaml:"allow_violations"`
	Aliases         aliases  `yaml:"aliases"`
}

type aliases struct {
	Domain         []string `yaml:"domain"`
	Application    []string `yaml:"application"`
	Interfaces     []string `yaml:"interfaces"`
	Infrastructure []string `yaml:"infrastructure"`
}

func main() {
	configPath := flag.String("config", ".gocleanarch.yml", "config file")
	debug := flag.Bool("debug", false, "print go-cleanarch debug output")
	flag.Parse()

	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	violations, err := run(*configPath, *debug)
	if err != nil {
		logger.WithError(err).Fatal("archguard failed")
	}
	for _, v := range violations {
		logger.Warn(v)
	}
	if len(violations) > 0 {
		logger.Errorf("%d layer violations", len(violations))
		os.Exit(1)
	}
	logger.Info("no layer violations")
}

func run(configPath string, debug bool) ([]string, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, errors.Wrap(err, "resolve root")
	}
	if debug {
		cleanarch.Log.SetOutput(os.Stderr)
	}

	validator := cleanarch.NewValidator(cfg.layers())
	ok, errs, err := validator.Validate(root, cfg.IgnoreTests, cfg.IgnorePackages)
	if err != nil {
		return nil, errors.Wrap(err, "validate")
	}
	if ok {
		return nil, nil
	}
	return cfg.filter(errs), nil
}

func loadConfig(path string) (*config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	cfg := &config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	if cfg.Root == "" {
		cfg.Root = "."
	}
	return cfg, nil
}

func (c *config) layers() map[string]cleanarch.Layer {
	out := map[string]cleanarch.Layer{}
	add := func(names, fallback []string, layer cleanarch.Layer) {
		if len(names) == 0 {
			names = fallback
		}
		for _, n := range names {
			if n = strings.TrimSpace(n); n != "" {
				out[n] = layer
			}
		}
	}
	add(c.Aliases.Domain, []string{"domain", "entities"}, cleanarch.LayerDomain)
	add(c.Aliases.Application, []string{"services", "application"}, cleanarch.LayerApplication)
	add(c.Aliases.Interfaces, []string{"presentation", "interfaces"}, cleanarch.LayerInterfaces)
	add(c.Aliases.Infrastructure, []string{"infrastructure"}, cleanarch.LayerInfrastructure)
	return out
}

// filter drops cross-module findings that involve a shared module and any
// finding matching an allow pattern.
func (c *config) filter(errs []cleanarch.ValidationError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		msg := e.Error()
		if c.involvesShared(msg) || c.allowed(msg) {
			continue
		}
		out = append(out, msg)
	}
	return out
}

func (c *config) involvesShared(msg string) bool {
	if !strings.Contains(msg, " modules") {
		return false
	}
	for _, m := range c.SharedModules {
		if m = strings.TrimSpace(m); m != "" && strings.Contains(msg, " "+m+" ") {
			return true
		}
	}
	return false
}

func (c *config) allowed(msg string) bool {
	for _, p := range c.AllowViolations {
		if p != "" && strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
