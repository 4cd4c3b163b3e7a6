package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeSlot_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b TimeSlot
		want bool
	}{
		{"same window", TimeSlot{Start: "10:00", End: "11:00"}, TimeSlot{Start: "10:00", End: "11:00"}, true},
		{"partial", TimeSlot{Start: "10:00", End: "11:00"}, TimeSlot{Start: "10:30", End: "11:30"}, true},
		{"nested", TimeSlot{Start: "09:00", End: "12:00"}, TimeSlot{Start: "10:00", End: "11:00"}, true},
		{"touching", TimeSlot{Start: "10:00", End: "11:00"}, TimeSlot{Start: "11:00", End: "12:00"}, false},
		{"disjoint", TimeSlot{Start: "08:00", End: "09:00"}, TimeSlot{Start: "10:00", End: "11:00"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(&tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(&tt.a))
		})
	}
}
