package logging

import "testing"

func TestNewProgressSampler(t *testing.T) {
	tests := []struct {
		name       string
		bucketSize float64
		wantSize   float64
	}{
		{"default bucket size for zero", 0, 10},
		{"default bucket size for negative", -1, 10},
		{"custom bucket size", 25, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewProgressSampler(tt.bucketSize)
			if s.bucketSize != tt.wantSize {
				t.Errorf("bucketSize = %v, want %v", s.bucketSize, tt.wantSize)
			}
			if s.lastBucket != -1 {
				t.Errorf("lastBucket = %d, want -1", s.lastBucket)
			}
		})
	}
}

func TestProgressSampler_NilSampler(t *testing.T) {
	var s *ProgressSampler
	if !s.ShouldLog(50, "darken") {
		t.Error("ShouldLog on nil sampler should always return true")
	}
	s.Reset()
}

func TestProgressSampler_Buckets(t *testing.T) {
	s := NewProgressSampler(25)
	steps := []struct {
		percent float64
		want    bool
	}{
		{0, true},
		{10, false},
		{24.9, false},
		{25, true},
		{26, false},
		{49, false},
		{100, true},
		{100, false},
	}
	for _, step := range steps {
		if got := s.ShouldLog(step.percent, "darken"); got != step.want {
			t.Fatalf("ShouldLog(%v) = %v, want %v", step.percent, got, step.want)
		}
	}
}

func TestProgressSampler_LabelChangeResets(t *testing.T) {
	s := NewProgressSampler(10)
	s.ShouldLog(50, "queue")
	if !s.ShouldLog(10, "sectors") {
		t.Fatal("label change should emit")
	}
	if s.ShouldLog(15, "sectors") {
		t.Fatal("same bucket under new label should not emit")
	}
	s.Reset()
	if !s.ShouldLog(15, "sectors") {
		t.Fatal("reset should allow the next sample through")
	}
}
