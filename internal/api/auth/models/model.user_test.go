package models

import "testing"

func TestTierQuotaGB(t *testing.T) {
	cases := []struct {
		tier string
		want int64
	}{
		{TierFree, 2},
		{TierPremium, 2048},
		{TierEnterprise, 8192},
		{"", 2},        // tier rỗng fallback về free
		{"platinum", 2}, // tier lạ fallback về free
	}
	for _, tc := range cases {
		if got := TierQuotaGB(tc.tier); got != tc.want {
			t.Errorf("TierQuotaGB(%q) = %d, muốn %d", tc.tier, got, tc.want)
		}
	}
}
