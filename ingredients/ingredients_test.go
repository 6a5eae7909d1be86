package ingredients

import "testing"

func TestParseSeed(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    int
		wantErr bool
	}{
		{
			name: "basic",
			data: `[{"name":"абрикосовое варенье","measurement_unit":"г"},{"name":"молоко","measurement_unit":"мл"}]`,
			want: 2,
		},
		{
			name: "duplicate pair collapses",
			data: `[{"name":"соль","measurement_unit":"г"},{"name":"соль","measurement_unit":"г"}]`,
			want: 1,
		},
		{
			name: "same name different unit kept",
			data: `[{"name":"перец","measurement_unit":"г"},{"name":"перец","measurement_unit":"шт"}]`,
			want: 2,
		},
		{
			name: "blank name skipped",
			data: `[{"name":"  ","measurement_unit":"г"},{"name":"мука","measurement_unit":"г"}]`,
			want: 1,
		},
		{
			name: "empty array",
			data: `[]`,
			want: 0,
		},
		{
			name:    "malformed",
			data:    `{"name":"x"}`,
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseSeed([]byte(tc.data))
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSeed: %v", err)
			}
			if len(got) != tc.want {
				t.Errorf("got %d entries, want %d", len(got), tc.want)
			}
		})
	}
}
