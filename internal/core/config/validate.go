package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"

	"github.com/colonyops/portal/internal/core/route"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration including
// route patterns, the gateway URL, and file accessibility. The configPath argument
// specifies the config file location to validate (empty string skips config file check).
// This calls Validate() first for basic structural validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		criterio.Run("gateway.url", c.Gateway.URL, validateGatewayURL),
		c.validateRoutes(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	r := route.New(c.RouteTable(), "")
	if _, err := r.Resolve(c.Otherwise); err != nil {
		warnings = append(warnings, ValidationWarning{
			Category: "Routes",
			Item:     "otherwise",
			Message:  fmt.Sprintf("fallback path %q matches no route", c.Otherwise),
		})
	}

	for i, rc := range c.Routes {
		if rc.Title == "" && rc.BodyClass == "" {
			warnings = append(warnings, ValidationWarning{
				Category: "Routes",
				Item:     fmt.Sprintf("routes[%d]", i),
				Message:  "route declares neither title nor body_class",
			})
		}
	}

	return warnings
}

// validateFileAccess checks the config file and data directory.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return errors.New("exists but is not a directory")
	}
	return nil
}

func validateGatewayURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("host is required")
	}
	return nil
}

// validateRoutes checks that every route path is a valid pattern.
func (c *Config) validateRoutes() error {
	var errs criterio.FieldErrorsBuilder
	for i, r := range c.Routes {
		if !doublestar.ValidatePattern(r.Path) {
			errs = errs.Append(fmt.Sprintf("routes[%d].path", i), fmt.Errorf("invalid pattern %q", r.Path))
		}
	}
	return errs.ToError()
}
