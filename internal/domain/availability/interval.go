package availability

import "fmt"

// IntervalConfig é um bloqueio diário (ex.: almoço) que vale para todos os
// barbeiros.
type IntervalConfig struct {
	StartTime string `json:"start_time" mapstructure:"start"`
	EndTime   string `json:"end_time" mapstructure:"end"`
}

func (iv IntervalConfig) Validate() error {
	return validateWindow("interval", iv.StartTime, iv.EndTime)
}

func (iv IntervalConfig) String() string {
	return iv.StartTime + "-" + iv.EndTime
}

func (iv IntervalConfig) rangeOn(c Calendar, date string) (TimeRange, error) {
	start, err := c.ToInstant(date, iv.StartTime)
	if err != nil {
		return TimeRange{}, err
	}
	end, err := c.ToInstant(date, iv.EndTime)
	if err != nil {
		return TimeRange{}, err
	}
	return NewTimeRange(start, end)
}

// BusinessHours é o expediente diário único da barbearia.
type BusinessHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

func (h BusinessHours) Validate() error {
	return validateWindow("business_hours", h.Open, h.Close)
}

func (h BusinessHours) String() string {
	return h.Open + "-" + h.Close
}

func validateWindow(field, start, end string) error {
	sh, sm, err := ParseClock(start)
	if err != nil {
		return &ConfigurationError{Field: field, Reason: err.Error()}
	}
	eh, em, err := ParseClock(end)
	if err != nil {
		return &ConfigurationError{Field: field, Reason: err.Error()}
	}
	if sh*60+sm >= eh*60+em {
		return &ConfigurationError{
			Field:  field,
			Reason: fmt.Sprintf("start %s must be before end %s", start, end),
		}
	}
	return nil
}
