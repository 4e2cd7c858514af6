package bonus

import (
	"github.com/shopspring/decimal"
	"github.com/warp/bonus-engine/generic"
)

// MonthsInYear is the proration denominator.
const MonthsInYear = 12

// Proration is the fraction of the evaluated year actually worked.
type Proration struct {
	Applied      bool
	HireDate     string // empty when unknown
	MonthsWorked int
	Factor       decimal.Decimal
}

// Prorate applies only when the hire date falls strictly after Jan 1 and on or
// before Dec 31 of year. The hire month counts in full whatever the day.
// Every other case, unknown hire date included, works the full year.
func Prorate(hireDate *generic.TimePoint, year int) Proration {
	p := Proration{MonthsWorked: MonthsInYear, Factor: generic.One}
	if hireDate == nil {
		return p
	}
	p.HireDate = hireDate.String()

	period := generic.CalendarYear(year)
	if !hireDate.After(period.Start) || !period.Contains(*hireDate) {
		return p
	}

	p.Applied = true
	p.MonthsWorked = MonthsInYear - hireDate.MonthIndex()
	p.Factor = decimal.NewFromInt(int64(p.MonthsWorked)).Div(decimal.NewFromInt(MonthsInYear))
	return p
}
