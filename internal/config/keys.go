package config

import (
	"fmt"
	"os"
	"strconv"
)

type keyType int

const (
	kString keyType = iota
	kInt
)

type keySpec struct {
	key     string
	typ     keyType
	env     string
	secret  bool
	apply   func(cfg *Config, v any)
	extract func(cfg Config) any
}

var specs = []keySpec{
	{
		key: "server.port", typ: kInt, env: "CHATD_SERVER_PORT",
		apply:   func(cfg *Config, v any) { cfg.Server.Port = v.(int) },
		extract: func(cfg Config) any { return cfg.Server.Port },
	},
	{
		key: "shop.base_url", typ: kString, env: "CHATD_SHOP_BASE_URL",
		apply:   func(cfg *Config, v any) { cfg.Shop.BaseURL = v.(string) },
		extract: func(cfg Config) any { return cfg.Shop.BaseURL },
	},
	{
		key: "shop.app_key", typ: kString, env: "CHATD_SHOP_APP_KEY",
		secret:  true,
		apply:   func(cfg *Config, v any) { cfg.Shop.AppKey = v.(string) },
		extract: func(cfg Config) any { return cfg.Shop.AppKey },
	},
	{
		key: "shop.session_cookie", typ: kString, env: "CHATD_SHOP_SESSION_COOKIE",
		apply:   func(cfg *Config, v any) { cfg.Shop.SessionCookie = v.(string) },
		extract: func(cfg Config) any { return cfg.Shop.SessionCookie },
	},
	{
		key: "shop.token_cookie", typ: kString, env: "CHATD_SHOP_TOKEN_COOKIE",
		apply:   func(cfg *Config, v any) { cfg.Shop.TokenCookie = v.(string) },
		extract: func(cfg Config) any { return cfg.Shop.TokenCookie },
	},
	{
		key: "shop.cookie_domain", typ: kString, env: "CHATD_SHOP_COOKIE_DOMAIN",
		apply:   func(cfg *Config, v any) { cfg.Shop.CookieDomain = v.(string) },
		extract: func(cfg Config) any { return cfg.Shop.CookieDomain },
	},
	{
		key: "ollama.base_url", typ: kString, env: "CHATD_OLLAMA_BASE_URL",
		apply:   func(cfg *Config, v any) { cfg.Ollama.BaseURL = v.(string) },
		extract: func(cfg Config) any { return cfg.Ollama.BaseURL },
	},
	{
		key: "ollama.model", typ: kString, env: "CHATD_OLLAMA_MODEL",
		apply:   func(cfg *Config, v any) { cfg.Ollama.Model = v.(string) },
		extract: func(cfg Config) any { return cfg.Ollama.Model },
	},
	{
		key: "groq.api_key", typ: kString, env: "CHATD_GROQ_API_KEY",
		secret:  true,
		apply:   func(cfg *Config, v any) { cfg.Groq.APIKey = v.(string) },
		extract: func(cfg Config) any { return cfg.Groq.APIKey },
	},
	{
		key: "groq.model", typ: kString, env: "CHATD_GROQ_MODEL",
		apply:   func(cfg *Config, v any) { cfg.Groq.Model = v.(string) },
		extract: func(cfg Config) any { return cfg.Groq.Model },
	},
	{
		key: "storage.data_dir", typ: kString, env: "CHATD_STORAGE_DATA_DIR",
		apply:   func(cfg *Config, v any) { cfg.Storage.DataDir = v.(string) },
		extract: func(cfg Config) any { return cfg.Storage.DataDir },
	},
	{
		key: "log.level", typ: kString, env: "CHATD_LOG_LEVEL",
		apply:   func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
		extract: func(cfg Config) any { return cfg.Log.Level },
	},
}

func applyBackend(cfg *Config, b ConfigBackend) error {
	for _, s := range specs {
		if s.secret {
			continue
		}
		switch s.typ {
		case kString:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kInt:
			v, ok, err := b.GetInt(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		if s.env == "" {
			continue
		}
		raw := os.Getenv(s.env)
		if raw == "" {
			continue
		}
		switch s.typ {
		case kString:
			s.apply(cfg, raw)
		case kInt:
			if i, err := strconv.Atoi(raw); err == nil {
				s.apply(cfg, i)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse integer from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		}
	}
}
