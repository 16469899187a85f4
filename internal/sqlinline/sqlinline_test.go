package sqlinline

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestQueriesCarryUniqueAuditMarkers(t *testing.T) {
	queries := map[string]string{
		"QCreateIntegrationTokens": QCreateIntegrationTokens,
		"QSelectIntegrationToken": QSelectIntegrationToken,
		"QUpsertIntegrationToken": QUpsertIntegrationToken,
		"QDeleteIntegrationToken": QDeleteIntegrationToken,
	}
	seen := map[uuid.UUID]string{}
	for name, q := range queries {
		first, _, _ := strings.Cut(strings.TrimSpace(q), "\n")
		raw, ok := strings.CutPrefix(strings.TrimSpace(first), "--sql ")
		if !ok {
			t.Fatalf("%s: missing --sql marker, first line %q", name, first)
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			t.Fatalf("%s: invalid marker %q: %v", name, raw, err)
		}
		if other, dup := seen[id]; dup {
			t.Fatalf("%s reuses the marker of %s", name, other)
		}
		seen[id] = name
	}
}
