package session

import "courier-dispatch/internal/pkg/securecode"

func isValidCourierID(id int64) bool {
	return id > 0
}

func isValidCode(code string) bool {
	if len(code) != securecode.Length {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
