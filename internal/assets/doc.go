// Package assets provides draft stylesheets and the starter project files.
//
// # Styles
//
// EmbeddedLoader provides the built-in styles: "draft" for on-screen review
// and "print" for pdf output. DirLoader reads {dir}/{name}.css from a user
// styles directory and refuses symlinks that lead out of it. StyleResolver
// tries the directory first and falls back to the built-in style of the same
// name, so a directory only needs the styles it overrides.
//
// # Starter Project
//
// WriteStarter copies an example contacts.csv, email_template.md,
// mdmerge.yaml and an Attachments folder into a directory. It never
// overwrites existing files.
package assets
