package domain

import "time"

// BookingPricing is the per-line breakdown for a rental booking.
// All amounts are minor units of Currency. Deposit is the refundable hold and
// is never part of Total.
type BookingPricing struct {
	Currency   string
	Days       int
	DailyRate  int64
	Base       int64
	Insurance  int64
	Delivery   int64
	ServiceFee int64
	Deposit    int64
	Total      int64
}

// RentalDays counts billable days between pickup and return. Partial days round
// up and a same-day rental bills one day.
func RentalDays(pickup, ret time.Time) int {
	if !ret.After(pickup) {
		return 1
	}
	d := ret.Sub(pickup)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	if days < 1 {
		days = 1
	}
	return days
}

// ComputePricing builds a consistent breakdown from its inputs. Total is always
// recomputed server-side; client-submitted totals are ignored.
func ComputePricing(currency string, days int, dailyRate, insurance, delivery, serviceFee, deposit int64) BookingPricing {
	if days < 1 {
		days = 1
	}
	base := dailyRate * int64(days)
	return BookingPricing{
		Currency:   currency,
		Days:       days,
		DailyRate:  dailyRate,
		Base:       base,
		Insurance:  insurance,
		Delivery:   delivery,
		ServiceFee: serviceFee,
		Deposit:    deposit,
		Total:      base + insurance + delivery + serviceFee,
	}
}
