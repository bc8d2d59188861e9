package model

const (
	// MaxPreStorageLoss caps the one-time FAT-SAT loss.
	MaxPreStorageLoss = 0.10

	storageMonthDays = 30.0
)

// PreStorageLoss converts a FAT-SAT storage period into a one-time capacity
// loss (fraction).
//
// The first 30 days ramp linearly up to the band's first-month rate. Each
// further 30-day block costs a third of that rate. The result never exceeds
// MaxPreStorageLoss.
func PreStorageLoss(storageDays int, b Band) float64 {
	if storageDays <= 0 {
		return 0
	}
	month1 := PreStorageRate(b)
	days := float64(storageDays)

	var loss float64
	if days <= storageMonthDays {
		loss = month1 * (days / storageMonthDays)
	} else {
		extraMonths := (days - storageMonthDays) / storageMonthDays
		loss = month1 + extraMonths*(month1/3)
	}
	if loss > MaxPreStorageLoss {
		return MaxPreStorageLoss
	}
	return loss
}
