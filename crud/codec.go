package crud

import (
	json "github.com/goccy/go-json"

	"musicee/domain"
)

func decodeUser(raw []byte) (*domain.User, error) {
	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func decodeTrack(raw []byte) (*domain.Track, error) {
	var track domain.Track
	if err := json.Unmarshal(raw, &track); err != nil {
		return nil, err
	}
	return &track, nil
}

// containsString reports membership in the small string lists kept on
// user and track documents.
func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// removeString returns list without any occurrence of s.
func removeString(list []string, s string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
