package shopee

import (
	"reflect"
	"testing"
)

func TestPlanQueries(t *testing.T) {
	tests := []struct {
		name     string
		category string
		want     []string
	}{
		{
			name:     "known category",
			category: "furniture",
			want:     []string{"sofa 3 seater", "recliner armchair", "wooden dining table"},
		},
		{
			name:     "case insensitive lookup",
			category: "  SOFAS  ",
			want:     []string{"sofa 2 seater", "sofa 3 seater", "retractable sofa"},
		},
		{
			name:     "unknown category falls back to itself",
			category: "bathroom cabinets",
			want:     []string{"bathroom cabinets"},
		},
		{
			name:     "blank category yields nothing",
			category: "   ",
			want:     nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlanQueries(tt.category)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PlanQueries(%q) = %v, want %v", tt.category, got, tt.want)
			}
		})
	}
}

func TestPlanQueriesReturnsCopy(t *testing.T) {
	first := PlanQueries("chairs")
	first[0] = "mutated"

	second := PlanQueries("chairs")
	if second[0] == "mutated" {
		t.Error("PlanQueries must not expose the shared query table")
	}
}

func TestInferCategory(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Sofa Retratil 3 Lugares", "Sofas"},
		{"Comfy velvet couch", "Sofas"},
		{"Recliner Armchair Deluxe", "Armchairs"},
		{"Gaming Desk XL", "Tables"},
		{"Ergonomic Office Chair", "Chairs"},
		{"Double Bed Frame", "Beds"},
		{"Memory Foam Mattress", "Beds"},
		{"Sliding Door Wardrobe", "Wardrobes"},
		{"Walk-in Closet Kit", "Wardrobes"},
		{"Decorative Vase", "General Furniture"},
	}
	for _, tt := range tests {
		if got := InferCategory(tt.name); got != tt.want {
			t.Errorf("InferCategory(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestInferCategoryCompoundTermsWin(t *testing.T) {
	// "armchair" contains "chair"; the compound category must win.
	if got := InferCategory("Plush Armchair"); got != "Armchairs" {
		t.Errorf("InferCategory = %q, want Armchairs", got)
	}
}
