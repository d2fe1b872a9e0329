// Package config loads matchwatch's TOML configuration.
//
// Load reads ~/.config/matchwatch/config.toml unless another path is given.
// A missing file is not an error; every field has a default except api_url,
// which has none and must come from the file or MATCHWATCH_API_URL.
//
//	api_url = "https://matchmaking.example.com/observer"
//	log_path = "~/Documents/CnCRemastered"
//	overlay_dir = "~/.local/share/matchwatch/overlay"
//	overlay_listen = "127.0.0.1:7489"
//	poll_seconds = 10
//	hide_delay_seconds = 10
//	close_overlay_on_match_complete = true
//
// Tilde paths are expanded. MATCHWATCH_API_URL and MATCHWATCH_LOG override
// the file, and LoadDotEnv can seed both from a .env file first.
//
// SettingsFile reads close_overlay_on_match_complete from the same file on
// every lookup, so it can be toggled while the watcher runs.
package config
