package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alnah/go-mdmerge/internal/config"
)

// envPrefix marks the variables mdmerge reads.
const envPrefix = "MDMERGE_"

// envConfig holds configuration from environment variables.
// Lets scheduled jobs and CI override a shared config file without editing it.
type envConfig struct {
	ConfigPath  string // MDMERGE_CONFIG: config name or path
	Contacts    string // MDMERGE_CONTACTS: contact table
	Template    string // MDMERGE_TEMPLATE: Markdown template
	Attachments string // MDMERGE_ATTACHMENTS: attachment directory
	OutputDir   string // MDMERGE_OUTPUT_DIR: draft directory
	Format      string // MDMERGE_FORMAT: eml, html, pdf
	From        string // MDMERGE_FROM: sender address
	Timeout     string // MDMERGE_TIMEOUT: pdf page load timeout
}

// knownEnvVars lists valid MDMERGE_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MDMERGE_CONFIG":      true,
	"MDMERGE_CONTACTS":    true,
	"MDMERGE_TEMPLATE":    true,
	"MDMERGE_ATTACHMENTS": true,
	"MDMERGE_OUTPUT_DIR":  true,
	"MDMERGE_FORMAT":      true,
	"MDMERGE_FROM":        true,
	"MDMERGE_TIMEOUT":     true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	return &envConfig{
		ConfigPath:  os.Getenv("MDMERGE_CONFIG"),
		Contacts:    os.Getenv("MDMERGE_CONTACTS"),
		Template:    os.Getenv("MDMERGE_TEMPLATE"),
		Attachments: os.Getenv("MDMERGE_ATTACHMENTS"),
		OutputDir:   os.Getenv("MDMERGE_OUTPUT_DIR"),
		Format:      os.Getenv("MDMERGE_FORMAT"),
		From:        os.Getenv("MDMERGE_FROM"),
		Timeout:     os.Getenv("MDMERGE_TIMEOUT"),
	}
}

// warnUnknownEnvVars prints a warning for each unrecognized MDMERGE_* variable.
// Catches typos like MDMERGE_OUTPUT instead of MDMERGE_OUTPUT_DIR.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig overlays environment values on cfg.
// Unset variables leave cfg untouched. Values are validated later, together
// with flags, by config.Validate.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	for _, o := range []struct {
		dst *string
		val string
	}{
		{&cfg.Input.Contacts, env.Contacts},
		{&cfg.Input.Template, env.Template},
		{&cfg.Input.Attachments, env.Attachments},
		{&cfg.Output.Dir, env.OutputDir},
		{&cfg.Output.Format, env.Format},
		{&cfg.Output.From, env.From},
		{&cfg.Output.Timeout, env.Timeout},
	} {
		if v := strings.TrimSpace(o.val); v != "" {
			*o.dst = v
		}
	}
}
