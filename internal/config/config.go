// Package config loads the site-wide metadata shared by every page and feed.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/lepinkainen/folio/configs"
	"github.com/lepinkainen/folio/pkg/filesystem"
	"github.com/lepinkainen/folio/pkg/urlutils"
)

// Metadata is the title and description of a page.
type Metadata struct {
	Title       string `mapstructure:"title"`
	Description string `mapstructure:"description"`
}

// Pages holds the metadata of the site's top-level pages.
type Pages struct {
	Home     Metadata `mapstructure:"home"`
	Notes    Metadata `mapstructure:"notes"`
	Projects Metadata `mapstructure:"projects"`
	About    Metadata `mapstructure:"about"`
}

// Social is a link to a profile elsewhere.
type Social struct {
	Name string `mapstructure:"name"`
	Href string `mapstructure:"href"`
}

// Site is the site configuration. It is built once at startup and shared
// read-only by pointer; nothing modifies it after Load returns.
type Site struct {
	Name                  string   `mapstructure:"name"`
	Email                 string   `mapstructure:"email"`
	URL                   string   `mapstructure:"url"`
	NumNotesOnHomepage    int      `mapstructure:"num_notes_on_homepage"`
	NumProjectsOnHomepage int      `mapstructure:"num_projects_on_homepage"`
	Pages                 Pages    `mapstructure:"pages"`
	Socials               []Social `mapstructure:"socials"`
}

// Default returns the embedded site configuration.
func Default() (*Site, error) {
	return Load("")
}

// Load reads the embedded defaults and merges the file at path over them.
// A missing file is not an error; the defaults are used as-is.
func Load(path string) (*Site, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	defaults, err := configs.EmbeddedConfigs.ReadFile(configs.SiteFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded site config: %w", err)
	}
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return nil, fmt.Errorf("failed to parse embedded site config: %w", err)
	}

	if path != "" {
		if resolved, ok := resolvePath(path); ok {
			v.SetConfigFile(resolved)
			if err := v.MergeInConfig(); err != nil {
				return nil, fmt.Errorf("error reading config file %s: %w", resolved, err)
			}
			slog.Debug("Merged site config", "path", resolved)
		} else {
			slog.Debug("Site config not found, using defaults", "path", path)
		}
	}

	var site Site
	if err := v.Unmarshal(&site); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := site.Validate(); err != nil {
		return nil, err
	}

	return &site, nil
}

// resolvePath looks for a relative path in the working directory first, then next to the executable.
func resolvePath(path string) (string, bool) {
	if _, err := os.Stat(path); err == nil {
		return path, true
	}
	if filepath.IsAbs(path) {
		return "", false
	}

	execPath, err := filesystem.GetDefaultPath(path)
	if err != nil {
		return "", false
	}
	if _, err := os.Stat(execPath); err != nil {
		return "", false
	}
	return execPath, true
}

// Validate checks the fields every page and feed depends on.
func (s *Site) Validate() error {
	var errs []error

	if s.Name == "" {
		errs = append(errs, errors.New("site name is empty"))
	}
	if !urlutils.IsValidURL(s.URL) {
		errs = append(errs, fmt.Errorf("site url %q is not an absolute URL", s.URL))
	}
	if s.NumNotesOnHomepage < 0 {
		errs = append(errs, fmt.Errorf("num_notes_on_homepage must not be negative, got %d", s.NumNotesOnHomepage))
	}
	if s.NumProjectsOnHomepage < 0 {
		errs = append(errs, fmt.Errorf("num_projects_on_homepage must not be negative, got %d", s.NumProjectsOnHomepage))
	}
	for _, social := range s.Socials {
		if !urlutils.IsValidURL(social.Href) {
			errs = append(errs, fmt.Errorf("social link %q has invalid href %q", social.Name, social.Href))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid site config: %w", err)
	}
	return nil
}

// AbsoluteURL resolves a site-relative path against the site URL.
func (s *Site) AbsoluteURL(path string) (string, error) {
	return urlutils.ResolveURL(s.URL, path)
}
