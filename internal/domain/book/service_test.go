package book

import (
	"math"
	"testing"
)

func TestDiscountFactor(t *testing.T) {
	tests := []struct {
		name    string
		percent float64
		want    float64
		wantErr bool
	}{
		{"打八折", 20, 0.8, false},
		{"不打折", 0, 1.0, false},
		{"全额折扣", 100, 0, false},
		{"打95折", 5, 0.95, false},
		{"负折扣拒绝", -1, 0, true},
		{"超过100拒绝", 100.01, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DiscountFactor(tt.percent)
			if tt.wantErr {
				if err != ErrInvalidDiscount {
					t.Errorf("期望ErrInvalidDiscount, 实际为 %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("换算系数失败: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("percent=%f: 系数应该为%f, 实际为 %f", tt.percent, tt.want, got)
			}
		})
	}
}
