// Package config loads env-tagged configuration structs, picking up a
// local .env file in development.
//
//	type AppConfig struct {
//	    Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg AppConfig
//	config.MustLoad(&cfg)
package config
