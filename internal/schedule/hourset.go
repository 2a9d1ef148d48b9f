package schedule

// HoursPerDay bounds valid hour values: hours are integers in [0, 24).
const HoursPerDay = 24

// HourSet is a set of hours of day (0..23). The zero value is an empty,
// usable set. Out-of-range hours are ignored on insertion.
type HourSet struct {
	bits uint32
}

// NewHourSet creates a set containing the given hours.
func NewHourSet(hours ...int) HourSet {
	var s HourSet
	for _, h := range hours {
		s.Add(h)
	}
	return s
}

// Add inserts an hour into the set.
func (s *HourSet) Add(hour int) {
	if hour < 0 || hour >= HoursPerDay {
		return
	}
	s.bits |= 1 << uint(hour)
}

// Remove deletes an hour from the set.
func (s *HourSet) Remove(hour int) {
	if hour < 0 || hour >= HoursPerDay {
		return
	}
	s.bits &^= 1 << uint(hour)
}

// Toggle flips an hour's membership and reports whether it is now present.
func (s *HourSet) Toggle(hour int) bool {
	if s.Contains(hour) {
		s.Remove(hour)
		return false
	}
	s.Add(hour)
	return true
}

// Contains returns true if the hour is in the set.
func (s HourSet) Contains(hour int) bool {
	if hour < 0 || hour >= HoursPerDay {
		return false
	}
	return s.bits&(1<<uint(hour)) != 0
}

// Len returns the number of hours in the set.
func (s HourSet) Len() int {
	n := 0
	for b := s.bits; b != 0; b &= b - 1 {
		n++
	}
	return n
}

// IsEmpty returns true if no hours are set.
func (s HourSet) IsEmpty() bool {
	return s.bits == 0
}

// IsFull returns true if all 24 hours are set.
func (s HourSet) IsFull() bool {
	return s.Len() == HoursPerDay
}

// Hours returns the hours in ascending order.
func (s HourSet) Hours() []int {
	hours := make([]int, 0, s.Len())
	for h := 0; h < HoursPerDay; h++ {
		if s.Contains(h) {
			hours = append(hours, h)
		}
	}
	return hours
}

// Equal returns true if both sets contain the same hours.
func (s HourSet) Equal(other HourSet) bool {
	return s.bits == other.bits
}
