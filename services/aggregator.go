package services

import (
	"time"

	"facility-monitoring/be/models"
)

// UserOnlineWindow is the trailing interval within which a recorded
// login still counts as "currently online".
const UserOnlineWindow = 30 * time.Minute

// ActivityRollup summarizes buildings or rooms by status. Inactive is
// derived as total minus active so existing dashboard consumers keep
// their numbers; Maintenance is also surfaced so the distinction is
// not lost.
type ActivityRollup struct {
	Total       int64 `json:"total"`
	Active      int64 `json:"active"`
	Inactive    int64 `json:"inactive"`
	Maintenance int64 `json:"maintenance"`
}

type CameraRollup struct {
	Total       int64 `json:"total"`
	Online      int64 `json:"online"`
	Offline     int64 `json:"offline"`
	Maintenance int64 `json:"maintenance"`
}

type UserRollup struct {
	Total   int64 `json:"total"`
	Active  int64 `json:"active"`
	Online  int64 `json:"online"`
	Offline int64 `json:"offline"`
}

// FoldActivity collapses per-status counts into an ActivityRollup.
// Unrecognized statuses still count toward the total.
func FoldActivity(counts map[string]int64) ActivityRollup {
	var r ActivityRollup
	for _, n := range counts {
		r.Total += n
	}
	r.Active = counts[models.StatusActive]
	r.Maintenance = counts[models.StatusMaintenance]
	r.Inactive = clampNonNegative(r.Total - r.Active)
	return r
}

// FoldCameras collapses per-status counts into a CameraRollup. All
// three camera statuses are surfaced independently.
func FoldCameras(counts map[string]int64) CameraRollup {
	var r CameraRollup
	for _, n := range counts {
		r.Total += n
	}
	r.Online = counts[models.CameraOnline]
	r.Offline = counts[models.CameraOffline]
	r.Maintenance = counts[models.CameraMaintenance]
	return r
}

// FoldUsers combines per-status counts with an independently counted
// online figure. Offline means "active but not seen within the online
// window" and clamps at zero: online comes from a separate query and
// can transiently exceed active under concurrent writes.
func FoldUsers(counts map[string]int64, online int64) UserRollup {
	var r UserRollup
	for _, n := range counts {
		r.Total += n
	}
	r.Active = counts[models.StatusActive]
	r.Online = online
	r.Offline = clampNonNegative(r.Active - online)
	return r
}

// IsOnline reports whether a heartbeat-style timestamp falls within
// window of now. A nil timestamp is never online.
func IsOnline(t *time.Time, now time.Time, window time.Duration) bool {
	if t == nil {
		return false
	}
	return now.Sub(*t) <= window
}

func clampNonNegative(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}
