package leave

import (
	"time"

	"talent-ops/internal/calendar"
)

// Split is a paid vs loss-of-pay division of a requested day set.
type Split struct {
	PaidDays int
	LopDays  int
}

// Total returns the number of requested days the split covers.
func (s Split) Total() int {
	return s.PaidDays + s.LopDays
}

// AllocateRange splits a contiguous date range against the effective balance.
// Weekend days are excluded entirely: they are neither paid nor LOP.
func AllocateRange(from, to time.Time, effectiveBalance int) Split {
	requested := calendar.WeekdaysInRange(from, to)
	return allocate(requested, effectiveBalance)
}

// AllocateDates splits an explicit date selection. Every supplied date counts
// as a requested day, weekends included: the caller picked each date on
// purpose, so no weekend exclusion is applied in this mode. Paid days are
// assigned greedily in ascending date order.
func AllocateDates(dates []time.Time, effectiveBalance int) Split {
	return allocate(len(dates), effectiveBalance)
}

func allocate(requested, effectiveBalance int) Split {
	if effectiveBalance < 0 {
		effectiveBalance = 0
	}
	paid := requested
	if effectiveBalance < paid {
		paid = effectiveBalance
	}
	return Split{
		PaidDays: paid,
		LopDays:  requested - paid,
	}
}

// DayStatus classifies a single calendar day of a request for the approver's
// day-wise review.
type DayStatus string

const (
	DayWeekend   DayStatus = "WEEKEND"
	DayPaidLeave DayStatus = "PAID_LEAVE"
	DayLossOfPay DayStatus = "LOSS_OF_PAY"
)

type DayEntry struct {
	Date   time.Time
	Status DayStatus
}

// RangeBreakdown reconstructs the day-wise view of a range request from its
// stored split. It walks the full inclusive range ascending: weekends never
// consume balance, weekdays are paid while the counter initialized from
// durationWeekdays lasts, then loss of pay. The reconstruction always yields
// exactly durationWeekdays paid entries; it is a derived view of the stored
// split, never a second source of truth.
func RangeBreakdown(from, to time.Time, durationWeekdays int) []DayEntry {
	days := calendar.EnumerateDays(from, to)
	entries := make([]DayEntry, 0, len(days))
	paidLeft := durationWeekdays

	for _, d := range days {
		switch {
		case calendar.ClassifyDay(d) == calendar.Weekend:
			entries = append(entries, DayEntry{Date: d, Status: DayWeekend})
		case paidLeft > 0:
			entries = append(entries, DayEntry{Date: d, Status: DayPaidLeave})
			paidLeft--
		default:
			entries = append(entries, DayEntry{Date: d, Status: DayLossOfPay})
		}
	}
	return entries
}

// DatesBreakdown is the specific-date counterpart: every selected date is a
// requested day, the first paidDays of them (ascending) are paid.
func DatesBreakdown(dates []time.Time, paidDays int) []DayEntry {
	entries := make([]DayEntry, 0, len(dates))
	for i, d := range dates {
		status := DayLossOfPay
		if i < paidDays {
			status = DayPaidLeave
		}
		entries = append(entries, DayEntry{Date: d, Status: status})
	}
	return entries
}

// EffectiveBalance is the number of days available to a new allocation
// decision: the stored balance minus the paid-day totals of the employee's
// other pending requests, floored at zero.
func EffectiveBalance(balance, pendingPaid int) int {
	effective := balance - pendingPaid
	if effective < 0 {
		return 0
	}
	return effective
}
