// Package config loads the tapscope TOML configuration.
//
// # Configuration Discovery
//
// Load follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/tapscope/config.toml
//  3. If the file doesn't exist, use Default()
//  4. If the file exists but fields are missing or empty, use their defaults
//
// # TOML Format
//
//	adb_path = "adb"
//	serial = ""
//	tags = "ScreenCaptureService:I AutoClickAccessibilityService:I *:S"
//	save_dir = "~/.local/share/tapscope/logs"
//	save_log = "auto"            # "" disables, anything else is a file path
//	log_file = "~/.local/share/tapscope/tapscope.log"
//	log_level = "info"
//	tick_ms = 30
//	seek_batch = 4000
//	speed = 1.0                  # slow-down factor, 1..10
//	buffer_lines = 250000
//	event_ttl_ms = 12000
//	short_ttl_ms = 300
//	marker_ttl_ms = 300
//	max_events = 600
//	short_ttl_categories = [1, 2, 3, 4, 5, 6, 7]
//
// Every field is optional. Paths get tilde expansion. An explicit empty
// short_ttl_categories list gives every event the long TTL.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, TOML syntax errors ("parse config"), and out-of-range
// values such as an unknown log level or a category outside 1..7.
package config
