// Package config loads, parses and validates application settings from
// defaults, an optional config file and environment variables. It also
// honours the legacy variable names of the original deployment (PORT,
// JWT_SECRET, MONGODB_URI, NODE_ENV) so existing .env setups keep working.
package config
