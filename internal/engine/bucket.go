package engine

import "strings"

// StatusBucket is the canonical coarse match state derived from the feed's
// free-text status pair. It is recomputed on every classification, never
// stored.
type StatusBucket string

const (
	BucketScheduled StatusBucket = "SCHED"
	BucketLive      StatusBucket = "LIVE"
	BucketHalfTime  StatusBucket = "HT"
	BucketFullTime  StatusBucket = "FT"
	BucketAET       StatusBucket = "AET"
	BucketPostponed StatusBucket = "POSTP"
	BucketOther     StatusBucket = "OTHER"
)

// Classify maps a (statusType, statusDetail) pair onto a bucket using
// case-insensitive substring checks.
//
// The checks are an ordered priority list and the order is load-bearing:
// "Full Time" must classify as FT before the weaker live/half checks get a
// look, and "AET" outranks FT. Event detection keys off exact bucket
// transitions, so do not reorder without re-verifying the corpus test.
func Classify(statusType, statusDetail string) StatusBucket {
	st := strings.ToLower(statusType)
	sd := strings.ToLower(statusDetail)

	switch {
	case strings.Contains(sd, "aet"):
		return BucketAET
	case strings.Contains(sd, "ft"), strings.Contains(sd, "full"):
		return BucketFullTime
	case strings.Contains(sd, "ht"), strings.Contains(sd, "half"):
		return BucketHalfTime
	case strings.Contains(st, "in"), strings.Contains(sd, "live"),
		strings.Contains(sd, "1st"), strings.Contains(sd, "2nd"):
		return BucketLive
	case strings.Contains(st, "pre"), strings.Contains(sd, "scheduled"):
		return BucketScheduled
	case strings.Contains(st, "post"), strings.Contains(sd, "postponed"):
		return BucketPostponed
	default:
		return BucketOther
	}
}
