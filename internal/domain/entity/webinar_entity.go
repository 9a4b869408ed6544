package entity

import "time"

// Scheduling policy shared by the webinar use cases.
const (
	MinSeats         = 1
	MaxSeats         = 1000
	MinAdvanceNotice = 3 * 24 * time.Hour
)

// WebinarProps is the full property set of a webinar.
// Version is the revision counter bumped by every persisted update.
type WebinarProps struct {
	ID          string
	OrganizerID string
	Title       string
	StartDate   time.Time
	EndDate     time.Time
	Seats       int
	Version     int
}

// WebinarPatch lists the mutable fields; nil means unchanged.
type WebinarPatch struct {
	Title     *string
	StartDate *time.Time
	EndDate   *time.Time
	Seats     *int
}

// Webinar is the aggregate root for the scheduling domain.
//
// Business rules (seat bounds, monotonic seats, advance notice) live in the
// application layer because they compare against policy and prior state.
type Webinar struct {
	props WebinarProps
}

func NewWebinar(p WebinarProps) *Webinar {
	return &Webinar{props: p}
}

func (w *Webinar) ID() string           { return w.props.ID }
func (w *Webinar) OrganizerID() string  { return w.props.OrganizerID }
func (w *Webinar) Title() string        { return w.props.Title }
func (w *Webinar) StartDate() time.Time { return w.props.StartDate }
func (w *Webinar) EndDate() time.Time   { return w.props.EndDate }
func (w *Webinar) Seats() int           { return w.props.Seats }
func (w *Webinar) Version() int         { return w.props.Version }

// Props returns a copy of the current state.
func (w *Webinar) Props() WebinarProps { return w.props }

// Update merges the set fields of p into the webinar in place.
// ID and OrganizerID are not part of the patch and never change.
func (w *Webinar) Update(p WebinarPatch) {
	if p.Title != nil {
		w.props.Title = *p.Title
	}
	if p.StartDate != nil {
		w.props.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		w.props.EndDate = *p.EndDate
	}
	if p.Seats != nil {
		w.props.Seats = *p.Seats
	}
}

// SetVersion is used by repositories after a successful write.
func (w *Webinar) SetVersion(v int) { w.props.Version = v }

func (w *Webinar) IsOrganizer(u User) bool {
	return w.props.OrganizerID == u.ID
}

// Clone returns an independent copy, used by stores that hand out snapshots.
func (w *Webinar) Clone() *Webinar {
	if w == nil {
		return nil
	}
	return &Webinar{props: w.props}
}
