package utils

import (
	"wotro-backend/internal/domain"
)

// Reason explains why a candidate range was refused.
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonInvalidRange Reason = "invalid_range"
	ReasonOverlap      Reason = "overlap"
)

// OverlapPolicy selects how range boundaries are compared.
type OverlapPolicy int

const (
	// OverlapInclusive treats a shared boundary day as a conflict.
	OverlapInclusive OverlapPolicy = iota
	// OverlapSameDayTurnover lets a rental start on the day another ends.
	OverlapSameDayTurnover
)

type Verdict struct {
	Valid       bool
	Reason      Reason
	Conflicting *domain.BookedRange
}

// CheckAvailability tests a candidate range against the confirmed ranges of
// one vehicle with inclusive boundaries.
func CheckAvailability(startDate, endDate string, booked []domain.BookedRange) Verdict {
	return CheckAvailabilityWithPolicy(startDate, endDate, booked, OverlapInclusive)
}

func CheckAvailabilityWithPolicy(startDate, endDate string, booked []domain.BookedRange, policy OverlapPolicy) Verdict {
	start, err := ParseDate(startDate)
	if err != nil {
		return Verdict{Reason: ReasonInvalidRange}
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return Verdict{Reason: ReasonInvalidRange}
	}
	if start.Compare(end) >= 0 {
		return Verdict{Reason: ReasonInvalidRange}
	}

	for i := range booked {
		bStart, err := ParseDate(booked[i].StartDate)
		if err != nil {
			continue
		}
		bEnd, err := ParseDate(booked[i].EndDate)
		if err != nil {
			continue
		}
		if Overlaps(start, end, bStart, bEnd, policy) {
			r := booked[i]
			return Verdict{Reason: ReasonOverlap, Conflicting: &r}
		}
	}

	return Verdict{Valid: true}
}

// Overlaps reports whether [aStart, aEnd] and [bStart, bEnd] intersect.
// The relation is symmetric.
func Overlaps(aStart, aEnd, bStart, bEnd Date, policy OverlapPolicy) bool {
	if policy == OverlapSameDayTurnover {
		return aStart.Compare(bEnd) < 0 && aEnd.Compare(bStart) > 0
	}
	return aStart.Compare(bEnd) <= 0 && aEnd.Compare(bStart) >= 0
}
