// Package config handles loading and validating door lock configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with DOORLOCK_* environment variables
//   - Validation of required fields
//   - Default value handling
//
// Security Considerations:
//   - Broker and database credentials should be set via environment variables
//   - The lock password is never part of configuration; it is enrolled at the keypad
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Node.Role)
package config
