// Package file keeps user configuration under ~/.focuscoach: config.toml
// through ConfigStore and the scoring prompt templates through PromptStore.
package file
