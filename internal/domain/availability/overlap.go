package availability

import "time"

// Overlaps testa intervalos semiabertos [aStart,aEnd) e [bStart,bEnd).
// Encostar na borda (aEnd == bStart) não é sobreposição.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
