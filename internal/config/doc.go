// Package config handles configuration for vscs-farm.
//
// # Sources
//
// Configuration is assembled in increasing order of precedence:
//
//  1. Built-in defaults (Default)
//  2. A TOML file, /etc/vscs-farm/config.toml or --config
//  3. A dotenv file given with --env-file
//  4. Environment variables
//  5. Command-line flags (applied in cmd)
//
// # Environment
//
//	LISTEN                   listen address (127.0.0.1:3030)
//	CONTAINER_URL            redirect template (http://localhost:{port}/?tkn={token})
//	DATA_DIR                 root of per-user data directories (/opt/vscs-farm)
//	IMAGE_NAME               workspace image (gitpod/openvscode-server)
//	VSCS_RUNTIME             auto, docker or podman
//	VSCS_INTERNAL_PORT       IDE port inside the container (3000)
//	VSCS_WORKSPACE_PATH      mount point inside the container (/home/workspace)
//	VSCS_RUNTIME_TIMEOUT     timeout of each runtime call (60s)
//	VSCS_LOCK_DIR            per-user lease directory (disabled when empty)
//	VSCS_STATE_DIR           audit log directory (disabled when empty)
//	VSCS_IDENTITY_MODE       header or hmac
//	VSCS_IDENTITY_HEADER     header carrying the token (X-Forwarded-Access-Token)
//	VSCS_HMAC_SECRET         signing key for hmac mode
//	VSCS_CLEANUP_ON_FAILURE  stop containers whose launch failed half way (true)
//
// # User IDs
//
// ValidateUserID restricts user ids to [A-Za-z0-9][A-Za-z0-9_.-]{0,62}.
// UserDataDir joins a validated id under DataDir with filepath-securejoin.
package config
