// Package auth implements account credentials and session lifecycle:
// registration with email confirmation, password and federated sign-in,
// dual-token issuance with refresh rotation, password reset, and
// per-request authorization.
//
// The package is transport-agnostic. HTTP handlers live in modules/authhttp;
// persistence is abstracted behind CredentialStore and RevocationStore so
// the service runs against Postgres and Redis in production and in-memory
// implementations in tests.
package auth
