// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration for the Stockdeck BFF.

Settings resolve in precedence order:

 1. CLI flags
 2. Environment variables
 3. YAML config file (-c / CONFIG_FILE)
 4. Built-in defaults

# Required Settings

  - UPSTREAM_API_URL (-u): base URL of the analytics API
  - API_SECRET_KEY (--upstream-key): service credential injected on every
    upstream call
  - SESSION_SALT (--session-salt): secret for login-key HMAC

# Optional Settings

  - PORT (-p): server port (default: 3318)
  - DATABASE_URL (-d): session store location (default: stockdeck.db)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - SESSION_TTL (--session-ttl): session lifetime (default: 720h)
  - ALLOWED_EMAILS (--allowed-emails): sign-in allowlist; empty denies all

# Config File

	server:
	  port: 3318
	upstream:
	  url: http://localhost:8000
	auth:
	  allowed_emails:
	    - me@example.com
*/
package cliparse
