package visibility

import (
	"fmt"
	"strings"

	"github.com/haukened/condvis/internal/visibility/domain"
)

const (
	// SettingEnableDomainCondition is the switch control key.
	SettingEnableDomainCondition = "enable_domain_condition"
	// SettingMatchValue is the select control key holding the expected slug.
	SettingMatchValue = "match_value"
	// SwitchOn is the value a switch control returns when enabled.
	SwitchOn = "yes"
)

// Settings is the DomainMatch configuration read off an element.
type Settings struct {
	EnableDomainCondition bool
	MatchValue            string
}

// Rule converts the settings into a domain rule. A disabled switch yields an inert rule.
func (s Settings) Rule() domain.Rule {
	if !s.EnableDomainCondition {
		return domain.NewDomainRule("")
	}
	return domain.NewDomainRule(s.MatchValue)
}

// SettingsFromMap reads Settings from a host settings map.
// The switch counts as enabled for any non-empty value other than "no", "0", 0 or false.
func SettingsFromMap(m map[string]any) Settings {
	return Settings{
		EnableDomainCondition: switchValue(m[SettingEnableDomainCondition]),
		MatchValue:            stringValue(m[SettingMatchValue]),
	}
}

func switchValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		s := strings.TrimSpace(t)
		return s != "" && !strings.EqualFold(s, "no") && s != "0"
	case float64:
		return t != 0
	case int:
		return t != 0
	default:
		return true
	}
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
