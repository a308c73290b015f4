package services

import "testing"

func TestBuildStatusDistribution_AllKeysPresent(t *testing.T) {
	distribution := buildStatusDistribution(nil, 0)

	for _, key := range []string{"Pending", "InProgress", "Completed", "All"} {
		if _, ok := distribution[key]; !ok {
			t.Errorf("missing key %q in empty distribution", key)
		}
	}
	if len(distribution) != 4 {
		t.Fatalf("expected exactly 4 keys, got %v", distribution)
	}
}

func TestBuildStatusDistribution_CountsAndSum(t *testing.T) {
	counts := map[string]int64{
		"Pending":     3,
		"In Progress": 2,
		"Completed":   5,
	}
	distribution := buildStatusDistribution(counts, 10)

	if distribution["Pending"] != 3 || distribution["InProgress"] != 2 || distribution["Completed"] != 5 {
		t.Fatalf("unexpected distribution: %v", distribution)
	}
	if distribution["All"] != 10 {
		t.Fatalf("All = %d, want 10", distribution["All"])
	}

	// The status buckets always sum to the scoped total.
	sum := distribution["Pending"] + distribution["InProgress"] + distribution["Completed"]
	if sum != distribution["All"] {
		t.Fatalf("status buckets sum to %d, total is %d", sum, distribution["All"])
	}
}

func TestBuildStatusDistribution_SpaceStrippedKeys(t *testing.T) {
	distribution := buildStatusDistribution(map[string]int64{"In Progress": 4}, 4)

	if _, ok := distribution["In Progress"]; ok {
		t.Fatal("keys must not contain spaces")
	}
	if distribution["InProgress"] != 4 {
		t.Fatalf("InProgress = %d, want 4", distribution["InProgress"])
	}
}

func TestBuildPriorityDistribution_ZeroFilled(t *testing.T) {
	tests := []struct {
		name   string
		counts map[string]int64
		want   map[string]int64
	}{
		{
			"no tasks",
			nil,
			map[string]int64{"Low": 0, "Medium": 0, "High": 0},
		},
		{
			"partial coverage",
			map[string]int64{"High": 7},
			map[string]int64{"Low": 0, "Medium": 0, "High": 7},
		},
		{
			"full coverage",
			map[string]int64{"Low": 1, "Medium": 2, "High": 3},
			map[string]int64{"Low": 1, "Medium": 2, "High": 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildPriorityDistribution(tt.counts)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for key, want := range tt.want {
				if got[key] != want {
					t.Errorf("%s = %d, want %d", key, got[key], want)
				}
			}
		})
	}
}
