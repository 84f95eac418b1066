package models

// MaxRecentLookups bounds the per-device tracking history.
const MaxRecentLookups = 5

// PushRecent puts id at the front of list, removing an older copy and
// trimming to MaxRecentLookups. The input slice is not modified.
func PushRecent(list []string, id string) []string {
	id = NormalizeBookingID(id)
	if id == "" {
		return append([]string(nil), list...)
	}
	out := make([]string, 0, MaxRecentLookups)
	out = append(out, id)
	for _, existing := range list {
		if len(out) == MaxRecentLookups {
			break
		}
		if existing == id {
			continue
		}
		out = append(out, existing)
	}
	return out
}
