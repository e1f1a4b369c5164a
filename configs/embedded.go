// Package configs provides the embedded default site configuration.
package configs

import "embed"

// SiteFile is the name of the default site configuration document.
const SiteFile = "site.yaml"

// EmbeddedConfigs exposes embedded configuration files for read-only access.
//
//go:embed *.yaml
var EmbeddedConfigs embed.FS
