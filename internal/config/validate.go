// internal/config/validate.go
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// report yaml key names, not Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	// ------------------------------------------------------------
	// FIELD-LEVEL VALIDATION (struct tags)
	// ------------------------------------------------------------

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fieldErrors(verrs)
		}
		return err
	}

	// ------------------------------------------------------------
	// PROVIDER IDENTITY
	// ------------------------------------------------------------

	seen := make(map[string]int)
	for i, p := range cfg.Providers {
		if prev, exists := seen[p.ID]; exists {
			return fmt.Errorf(
				"provider id %q defined twice (providers[%d] and providers[%d])",
				p.ID,
				prev,
				i,
			)
		}
		seen[p.ID] = i
	}

	// ------------------------------------------------------------
	// KIND-SPECIFIC SHAPE
	// ------------------------------------------------------------

	for _, p := range cfg.Providers {
		if err := validateKind(p); err != nil {
			return fmt.Errorf("provider %q: %w", p.ID, err)
		}
	}

	return nil
}

func validateKind(p ProviderConfig) error {
	if p.Kind != KindComponents && (len(p.Allow) > 0 || p.ComponentLink != "") {
		return errors.New("allow and component_link are only valid for kind components")
	}
	if p.Kind != KindIndicator && len(p.Regions) > 0 {
		return errors.New("regions are only valid for kind indicator")
	}
	if p.Kind != KindPresence && len(p.Markers) > 0 {
		return errors.New("markers are only valid for kind presence")
	}
	if p.Kind != KindRSS && p.Window != "" {
		return errors.New("window is only valid for kind rss")
	}

	switch p.Kind {
	case KindIndicator:
		if p.Endpoint != "" {
			return errors.New("kind indicator takes regions, not endpoint")
		}
		if len(p.Regions) == 0 {
			return errors.New("kind indicator requires at least one region")
		}
		regions := make(map[string]struct{}, len(p.Regions))
		for _, r := range p.Regions {
			if _, dup := regions[r.ID]; dup {
				return fmt.Errorf("region %q defined twice", r.ID)
			}
			regions[r.ID] = struct{}{}
		}

	default:
		if p.Endpoint == "" {
			return fmt.Errorf("kind %s requires endpoint", p.Kind)
		}
	}

	if p.ComponentLink != "" && !strings.Contains(p.ComponentLink, "{id}") {
		return errors.New("component_link must contain the {id} placeholder")
	}
	for _, m := range p.Markers {
		if m == "" {
			return errors.New("markers must not be empty strings")
		}
	}

	return nil
}

func fieldErrors(verrs validator.ValidationErrors) error {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s", field, fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s", field, fe.Tag()))
		}
	}
	return errors.New("invalid config: " + strings.Join(msgs, "; "))
}
