package pipeline

import (
	"regexp"
	"strings"

	"github.com/shornia-blip/reino-ceramicos-dashboard/internal/types"
)

// Agent display names come structured from the upstream CRM as
// "<HEADER> - <NAME>", e.g. "R18 V - MAURICIO PUCHETA". The header encodes
// the Punto de Venta: "VD" anywhere marks the digital channel, "R<digits>"
// is a retail branch number.
var branchCodePattern = regexp.MustCompile(`^R(\d+)`)

// ParseAgentName splits a raw agent name into (branch, clean agent name).
// Total over all string inputs: anything without a " - " separator (bots,
// the no-agent sentinel, garbage) maps to ("Sin Asignar", "Sin Agente").
// Only the first " - " splits; later occurrences belong to the name.
func ParseAgentName(raw string) (branch, name string) {
	if !strings.Contains(raw, " - ") {
		return types.NoBranch, types.NoAgent
	}

	parts := strings.SplitN(raw, " - ", 2)
	header := strings.TrimSpace(parts[0])
	name = strings.TrimSpace(parts[1])

	// The VD rule wins unconditionally: "R18 VD" is digital, not Reino 18
	if strings.Contains(header, "VD") {
		return types.DigitalBranch, name
	}

	if m := branchCodePattern.FindStringSubmatch(header); m != nil {
		return "Reino " + m[1], name
	}

	return types.OtherBranch, name
}
