// Package auth stores and resolves novem API tokens.
//
// Tokens live in the OS keyring (macOS Keychain, Windows Credential Manager,
// Linux Secret Service, or an encrypted file fallback on headless Linux) via
// github.com/99designs/keyring, one entry per config profile.
//
// Resolution order for a command:
//  1. NOVEM_TOKEN environment variable
//  2. the profile's token_source ("env:VAR" or a literal token)
//  3. the keyring entry for the profile
package auth
