package asset

// ===============================
// Asset Status
// ===============================

type Status string

const (
	StatusAvailable   Status = "Available"
	StatusBooked      Status = "Booked"
	StatusMaintenance Status = "Maintenance"
	StatusInUse       Status = "In use"
	StatusArchived    Status = "Archived"
)

func Statuses() []Status {
	return []Status{
		StatusAvailable,
		StatusBooked,
		StatusMaintenance,
		StatusInUse,
		StatusArchived,
	}
}

func (s Status) IsValid() bool {
	for _, v := range Statuses() {
		if v == s {
			return true
		}
	}
	return false
}

// InitialStatus is the status of a freshly recorded asset.
func InitialStatus() Status {
	return StatusAvailable
}
