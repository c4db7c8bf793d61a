package bookmarks

import "fmt"

// UpdateReason records why a pointer moved. Stored in the bookmark update
// log for audit.
type UpdateReason string

const (
	ReasonPush       UpdateReason = "push"
	ReasonPushrebase UpdateReason = "pushrebase"
	ReasonPull       UpdateReason = "pull"
	ReasonBlobimport UpdateReason = "blobimport"
	ReasonManualMove UpdateReason = "manualmove"
	ReasonAPIRequest UpdateReason = "apirequest"
	ReasonBacksyncer UpdateReason = "backsyncer"
	ReasonTest       UpdateReason = "test"
)

var validReasons = map[UpdateReason]bool{
	ReasonPush:       true,
	ReasonPushrebase: true,
	ReasonPull:       true,
	ReasonBlobimport: true,
	ReasonManualMove: true,
	ReasonAPIRequest: true,
	ReasonBacksyncer: true,
	ReasonTest:       true,
}

// ParseReason validates a reason tag.
func ParseReason(s string) (UpdateReason, error) {
	r := UpdateReason(s)
	if !validReasons[r] {
		return "", fmt.Errorf("unknown update reason %q", s)
	}
	return r, nil
}

func (r UpdateReason) String() string { return string(r) }
