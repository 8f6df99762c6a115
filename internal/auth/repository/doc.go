// Package repository provides account, API key, OTP and session persistence.
//
// Accounts and API keys live in PostgreSQL, MySQL or process memory,
// selected by DB_DRIVER. OTPs and sessions live in Redis when REDIS_URL is
// set and in process memory otherwise. All SQL implementations are
// transaction-aware through database.GetTx.
package repository
