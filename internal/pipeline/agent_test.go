package pipeline

import "testing"

func TestParseAgentName(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantBranch string
		wantName   string
	}{
		{
			name:       "retail branch",
			raw:        "R18 V - MAURICIO PUCHETA",
			wantBranch: "Reino 18",
			wantName:   "MAURICIO PUCHETA",
		},
		{
			name:       "single digit branch",
			raw:        "R7 V - ANA LOPEZ",
			wantBranch: "Reino 7",
			wantName:   "ANA LOPEZ",
		},
		{
			name:       "digital channel",
			raw:        "VD - CARLA GOMEZ",
			wantBranch: "CANAL DIGITAL",
			wantName:   "CARLA GOMEZ",
		},
		{
			name:       "VD wins over branch code",
			raw:        "R18 VD - JUAN PEREZ",
			wantBranch: "CANAL DIGITAL",
			wantName:   "JUAN PEREZ",
		},
		{
			name:       "unrecognized header",
			raw:        "DEPOSITO - PEDRO DIAZ",
			wantBranch: "Otro",
			wantName:   "PEDRO DIAZ",
		},
		{
			name:       "R not followed by digits",
			raw:        "RX V - LUIS SOSA",
			wantBranch: "Otro",
			wantName:   "LUIS SOSA",
		},
		{
			name:       "splits on first separator only",
			raw:        "R3 V - MARIA - JOSE RIOS",
			wantBranch: "Reino 3",
			wantName:   "MARIA - JOSE RIOS",
		},
		{
			name:       "no separator",
			raw:        "Bot Atencion",
			wantBranch: "Sin Asignar",
			wantName:   "Sin Agente",
		},
		{
			name:       "dash without surrounding spaces is not a separator",
			raw:        "R18 V-MAURICIO",
			wantBranch: "Sin Asignar",
			wantName:   "Sin Agente",
		},
		{
			name:       "empty string",
			raw:        "",
			wantBranch: "Sin Asignar",
			wantName:   "Sin Agente",
		},
		{
			name:       "sentinel round trips",
			raw:        "Sin Agente",
			wantBranch: "Sin Asignar",
			wantName:   "Sin Agente",
		},
		{
			name:       "lowercase vd does not match",
			raw:        "R2 vd - SOFIA RUIZ",
			wantBranch: "Reino 2",
			wantName:   "SOFIA RUIZ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			branch, name := ParseAgentName(tt.raw)
			if branch != tt.wantBranch {
				t.Errorf("expected branch %q, got %q", tt.wantBranch, branch)
			}
			if name != tt.wantName {
				t.Errorf("expected name %q, got %q", tt.wantName, name)
			}
		})
	}
}
