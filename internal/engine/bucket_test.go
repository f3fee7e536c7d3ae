package engine

import "testing"

// Corpus of status pairs observed on the live feed. The expected buckets pin
// the classifier's priority order: reordering the checks must fail here.
func TestClassify_KnownStatusCorpus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		statusType   string
		statusDetail string
		want         StatusBucket
	}{
		{"STATUS_SCHEDULED", "Scheduled", BucketScheduled},
		{"pre", "Sat, May 17", BucketScheduled},
		{"in", "1st Half", BucketLive},
		{"in", "2nd Half", BucketLive},
		{"STATUS_IN_PROGRESS", "45'+2'", BucketLive},
		{"", "Live", BucketLive},
		{"in", "HT", BucketHalfTime},
		{"STATUS_HALFTIME", "Halftime", BucketHalfTime},
		{"post", "FT", BucketFullTime},
		{"STATUS_FULL_TIME", "Full Time", BucketFullTime},
		{"post", "FT-AET", BucketAET},
		{"post", "AET", BucketAET},
		{"post", "Postponed", BucketPostponed},
		{"STATUS_POSTPONED", "", BucketPostponed},
		{"", "", BucketOther},
		{"STATUS_ABANDONED", "Abandoned", BucketOther},
	}

	for _, tc := range cases {
		got := Classify(tc.statusType, tc.statusDetail)
		if got != tc.want {
			t.Errorf("Classify(%q, %q) = %s, want %s", tc.statusType, tc.statusDetail, got, tc.want)
		}
	}
}

// Detail matches always outrank type matches, and the terminal buckets
// outrank the live ones: "Full Time" contains no live marker but a detail of
// "2nd Half ended, FT" must still land on FT, and an AET marker beats FT.
func TestClassify_PriorityOrder(t *testing.T) {
	t.Parallel()

	if got := Classify("in", "FT"); got != BucketFullTime {
		t.Errorf(`Classify("in", "FT") = %s, want FT (detail outranks type)`, got)
	}
	if got := Classify("in", "Halftime"); got != BucketHalfTime {
		t.Errorf(`Classify("in", "Halftime") = %s, want HT`, got)
	}
	if got := Classify("post", "FT-AET"); got != BucketAET {
		t.Errorf(`Classify("post", "FT-AET") = %s, want AET (AET outranks FT)`, got)
	}
	if got := Classify("pre", "1st Half"); got != BucketLive {
		t.Errorf(`Classify("pre", "1st Half") = %s, want LIVE`, got)
	}
}

func TestClassify_Idempotent(t *testing.T) {
	t.Parallel()

	first := Classify("in", "1st Half")
	second := Classify("in", "1st Half")
	if first != second {
		t.Fatalf("classification not stable: %s then %s", first, second)
	}
}
