// Package file provides the file-based configuration adapter.
//
// Adapters:
//   - ConfigStore: TOML configuration at ~/.scholarstr/config.toml with
//     environment overrides (process env and an optional .env file)
//   - Watcher: reloads a ConfigStore when its file changes on disk
package file
