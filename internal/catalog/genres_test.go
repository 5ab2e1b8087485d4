package catalog

import (
	"encoding/json"
	"testing"
)

func TestGenresUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    *string
		wantErr bool
	}{
		{"list", `{"genres":["Drama","Noir"]}`, strPtr("Drama, Noir"), false},
		{"string", `{"genres":"Drama, Noir"}`, strPtr("Drama, Noir"), false},
		{"null", `{"genres":null}`, nil, false},
		{"absent", `{}`, nil, false},
		{"empty list", `{"genres":[]}`, strPtr(""), false},
		{"number", `{"genres":7}`, nil, true},
		{"mixed list", `{"genres":["Drama",1]}`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body struct {
				Genres Genres `json:"genres"`
			}
			err := json.Unmarshal([]byte(tt.payload), &body)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s", tt.payload)
				}
				return
			}
			if err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got := body.Genres.Stored(); deref(got) != deref(tt.want) {
				t.Fatalf("Stored() = %s, want %s", deref(got), deref(tt.want))
			}
		})
	}
}
