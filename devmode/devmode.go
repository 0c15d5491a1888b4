// Package devmode provides shared settings for local development against the
// sqlite and memory drivers.
package devmode

// AccountEmail is the account the developer CLI signs in as when none is
// configured.
const AccountEmail = "dev@gote.local"

// TokenSecret signs session tokens for the local drivers when no secret is
// configured. It is intentionally obvious and must never be used in production.
const TokenSecret = "LOCAL_DEV_MODE_NOT_FOR_PRODUCTION"
