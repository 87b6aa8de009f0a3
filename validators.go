package lectures

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

func validateStringEquals(str string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return errors.New("values must match")
		}
		return nil
	}
}

func validateRole(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, ok := ParseRole(s); !ok {
		return errors.New("unknown role")
	}
	return nil
}

func validateAttendanceStatus(value any) error {
	s, _ := value.(string)
	if !AttendanceStatus(s).IsValid() {
		return errors.New("unknown attendance status")
	}
	return nil
}

func validateAfter(start time.Time) validation.RuleFunc {
	return func(value any) error {
		t, _ := value.(time.Time)
		if !t.After(start) {
			return errors.New("must be after start time")
		}
		return nil
	}
}
