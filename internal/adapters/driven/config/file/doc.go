// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - TierPolicyStore: TOML-based quota plan table with live reload
//   - PromptStore: user-editable prompt template files
package file
