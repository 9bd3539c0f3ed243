package shared

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/lcmsadmin/internal/testutil"
)

func TestPathID(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
		ok   bool
	}{
		{"12", 12, true},
		{" 7 ", 7, true},
		{"", 0, false},
		{"abc", 0, false},
		{"0", 0, false},
		{"-3", 0, false},
		{"1.5", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			r := testutil.WithChiURLParam(httptest.NewRequest("GET", "/", nil), "id", tt.raw)
			got, ok := PathID(r, "id")
			if got != tt.want || ok != tt.ok {
				t.Errorf("PathID(%q) = %d, %v; want %d, %v", tt.raw, got, ok, tt.want, tt.ok)
			}
		})
	}
}
