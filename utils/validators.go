package utils

import "regexp"

// Student id format: UYYSSXXXX where SS is 10 (fall) or 20 (spring),
// e.g. U24101234.
var studentIDPattern = regexp.MustCompile(`^U\d{2}(10|20)\d{4}$`)

// Phone numbers: at least 10 characters of digits, spaces, hyphens,
// plus signs, or parentheses.
var phonePattern = regexp.MustCompile(`^[\d\s\-\+\(\)]{10,}$`)

// IsValidStudentID reports whether the university id matches the UYYSSXXXX format.
func IsValidStudentID(studentID string) bool {
	return studentIDPattern.MatchString(studentID)
}

// IsValidPhone reports whether the phone number is acceptable.
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}
