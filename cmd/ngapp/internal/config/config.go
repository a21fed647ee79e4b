// Package config resolves the answers a project is scaffolded from: the
// optional .ngapp.yaml answers file left by a previous run, and NGAPP_*
// environment overrides (optionally from a .env file).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/go-scaffold/ngapp/pkg/scaffold"
)

// AnswersFile is written at the project root after a successful init.
const AnswersFile = ".ngapp.yaml"

// answersVersion is the only answers file format this build reads.
const answersVersion = 1

// File is the on-disk shape of AnswersFile.
type File struct {
	Version int                    `yaml:"version"`
	Project scaffold.ProjectConfig `yaml:"project"`
}

// Env holds NGAPP_* environment overrides. Empty strings mean "not set".
type Env struct {
	AppName     string
	Markup      string
	Scripting   string
	Styling     string
	SkipInstall bool
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root string
	// Answers is the previous run's configuration, nil when no answers
	// file exists and the user has to be prompted.
	Answers *scaffold.ProjectConfig
	// DefaultAppName is the directory base name, the default answer for
	// the app name prompt.
	DefaultAppName string
	Env            Env
}

// LoadOptional reads AnswersFile from fsys if present. A missing file
// yields (nil, nil).
func LoadOptional(fsys billy.Filesystem) (*File, error) {
	f, err := load(fsys, AnswersFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return f, err
}

// LoadFile reads an answers file from an explicit path, as given to
// --answers. Unlike LoadOptional the file must exist.
func LoadFile(path string) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return load(osfs.New(filepath.Dir(abs), osfs.WithBoundOS()), filepath.Base(abs))
}

func load(fsys billy.Filesystem, name string) (*File, error) {
	data, err := util.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	if f.Version != answersVersion {
		return nil, fmt.Errorf("%s: unsupported version %d (want %d)", name, f.Version, answersVersion)
	}

	return &f, nil
}

// Save writes cfg to AnswersFile in fsys.
func Save(fsys billy.Filesystem, cfg scaffold.ProjectConfig) error {
	data, err := yaml.Marshal(File{Version: answersVersion, Project: cfg})
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", AnswersFile, err)
	}
	if err := util.WriteFile(fsys, AnswersFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", AnswersFile, err)
	}
	return nil
}

// LoadEnv loads dir/.env (without overriding variables already set) and
// reads the NGAPP_* overrides.
func LoadEnv(dir string) (Env, error) {
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Env{}, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("NGAPP")
	for _, key := range []string{"app_name", "markup", "scripting", "styling", "skip_install"} {
		if err := v.BindEnv(key); err != nil {
			return Env{}, err
		}
	}
	v.SetDefault("skip_install", false)

	return Env{
		AppName:     strings.TrimSpace(v.GetString("app_name")),
		Markup:      strings.TrimSpace(v.GetString("markup")),
		Scripting:   strings.TrimSpace(v.GetString("scripting")),
		Styling:     strings.TrimSpace(v.GetString("styling")),
		SkipInstall: v.GetBool("skip_install"),
	}, nil
}

// Apply overlays the environment onto cfg. Values are not validated here;
// scaffold.ProjectConfig.Validate reports bad ones with the field name.
func (e Env) Apply(cfg *scaffold.ProjectConfig) {
	if e.AppName != "" {
		cfg.AppName = e.AppName
	}
	if e.Markup != "" {
		cfg.Preprocessors.Markup = scaffold.MarkupPreprocessor(e.Markup)
	}
	if e.Scripting != "" {
		cfg.Preprocessors.Scripting = scaffold.ScriptPreprocessor(e.Scripting)
	}
	if e.Styling != "" {
		cfg.Preprocessors.Styling = scaffold.StylePreprocessor(e.Styling)
	}
}

// Resolve loads the answers file from fsys (rooted at dir) and the
// environment, and computes defaults.
func Resolve(dir string, fsys billy.Filesystem) (*Resolved, error) {
	f, err := LoadOptional(fsys)
	if err != nil {
		return nil, err
	}

	env, err := LoadEnv(dir)
	if err != nil {
		return nil, err
	}

	res := &Resolved{
		Root:           dir,
		DefaultAppName: DefaultAppName(dir),
		Env:            env,
	}
	if f != nil {
		answers := f.Project.Clone()
		res.Answers = &answers
	}
	return res, nil
}

var appNameReplacer = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// DefaultAppName derives the app name from the project directory base
// name, rewritten into a valid package name: runs of other characters
// become "-", leading and trailing punctuation is dropped and a leading
// digit gets an "app-" prefix.
func DefaultAppName(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	base := filepath.Base(dir)
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "ngapp"
	}

	name := strings.Trim(appNameReplacer.ReplaceAllString(base, "-"), "._-")
	if name == "" {
		return "ngapp"
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "app-" + name
	}
	return name
}
