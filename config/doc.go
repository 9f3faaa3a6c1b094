// Package config provides configuration loading and validation for mydropbox.
//
// The package handles YAML configuration files, environment variables, a
// dotenv file and CLI flags with automatic merging and validation using
// go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. API_GATEWAY from ./.env
//  3. Configuration file (--config, ./config.yaml or ~/.mydropbox/config.yaml)
//  4. Environment variables (MYDROPBOX_ prefix, plus API_GATEWAY)
//  5. CLI flags that were explicitly set
//
// # Usage
//
//	cfg, err := config.Load("", cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx = config.WithContext(ctx, cfg)
//
// # Environment Variables
//
//   - gateway.endpoint → MYDROPBOX_GATEWAY_ENDPOINT or API_GATEWAY
//   - gateway.timeout → MYDROPBOX_GATEWAY_TIMEOUT
//   - output.format → MYDROPBOX_OUTPUT_FORMAT
//
// # Validation
//
// The gateway endpoint is required and must be a URL. Log level must be
// debug, info, warn or error; output format must be text, json or yaml.
package config
