package recipes

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func oid(b byte) primitive.ObjectID {
	var id primitive.ObjectID
	id[11] = b
	return id
}

func TestIntersectIDs(t *testing.T) {
	a, b, c, d := oid(1), oid(2), oid(3), oid(4)

	tests := []struct {
		name string
		sets [][]primitive.ObjectID
		want []primitive.ObjectID
	}{
		{
			name: "single set passes through",
			sets: [][]primitive.ObjectID{{a, b, c}},
			want: []primitive.ObjectID{a, b, c},
		},
		{
			name: "both filters keep only the overlap",
			sets: [][]primitive.ObjectID{{a, b, c}, {c, a, d}},
			want: []primitive.ObjectID{a, c},
		},
		{
			name: "disjoint sets match nothing",
			sets: [][]primitive.ObjectID{{a, b}, {c, d}},
			want: []primitive.ObjectID{},
		},
		{
			name: "empty second set wins",
			sets: [][]primitive.ObjectID{{a, b}, {}},
			want: []primitive.ObjectID{},
		},
		{
			name: "three sets",
			sets: [][]primitive.ObjectID{{a, b, c}, {b, c, d}, {c}},
			want: []primitive.ObjectID{c},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := intersectIDs(tc.sets...)
			if got == nil {
				t.Fatal("intersectIDs returned nil, want a non-nil slice")
			}
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("got %v, want %v", got, tc.want)
				}
			}
		})
	}
}
