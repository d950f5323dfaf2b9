package booking

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/Roadpeak/D3-client-sub000/gateway"
	"github.com/Roadpeak/D3-client-sub000/models"
)

// asID coerces a loosely-typed upstream identifier into a string. Numeric
// ids lose any ".0" JSON float artifact.
func asID(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}

// NormalizeWorkingDays coerces the three encodings the upstream uses for
// working days (JSON array, JSON-encoded string, comma-separated string)
// into a slice of weekday names. Unparseable input yields an empty slice,
// never an error.
func NormalizeWorkingDays(v any) []string {
	switch t := v.(type) {
	case nil:
		return []string{}
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	case string:
		trimmed := strings.TrimSpace(t)
		if trimmed == "" {
			return []string{}
		}
		if strings.HasPrefix(trimmed, "[") {
			var days []string
			if err := json.Unmarshal([]byte(trimmed), &days); err == nil {
				return NormalizeWorkingDays(days)
			}
			var loose []any
			if err := json.Unmarshal([]byte(trimmed), &loose); err == nil {
				return NormalizeWorkingDays(loose)
			}
			return []string{}
		}
		parts := strings.Split(trimmed, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if day := strings.TrimSpace(p); day != "" {
				out = append(out, day)
			}
		}
		return out
	default:
		return []string{}
	}
}

// branchFromPayload converts an upstream branch record into the canonical
// model.
func branchFromPayload(p *gateway.BranchPayload) *models.Branch {
	if p == nil {
		return nil
	}
	return &models.Branch{
		ID:           asID(p.ID),
		Name:         p.Name,
		Address:      p.Address,
		Phone:        p.Phone,
		OpeningTime:  p.OpeningTime,
		ClosingTime:  p.ClosingTime,
		WorkingDays:  NormalizeWorkingDays(p.WorkingDays),
		IsMainBranch: p.IsMainBranch,
		StoreID:      asID(p.StoreID),
	}
}

// branchFromStore synthesizes a main branch from store-level data. The
// synthetic id is never valid server-side; payload building later maps it
// back to the store id.
func branchFromStore(s *models.StoreInfo) *models.Branch {
	if s == nil {
		return nil
	}
	storeID := asID(s.ID)
	name := s.Name
	if name == "" {
		name = "Main Branch"
	}
	return &models.Branch{
		ID:           models.SyntheticBranchPrefix + storeID,
		Name:         name,
		Address:      s.Location,
		Phone:        s.PhoneNumber,
		OpeningTime:  s.OpeningTime,
		ClosingTime:  s.ClosingTime,
		WorkingDays:  NormalizeWorkingDays(s.WorkingDays),
		IsMainBranch: true,
		StoreID:      storeID,
	}
}
