package lectures_test

import (
	"testing"
	"time"

	lectures "github.com/Najite/lecture-reminder"
	"github.com/stretchr/testify/assert"
)

func TestSignInRequestValidate(t *testing.T) {
	assert.NoError(t, lectures.SignInRequest{
		Email:    "ada@example.com",
		Password: "sekret",
	}.Validate())

	assert.Error(t, lectures.SignInRequest{Password: "sekret"}.Validate())
	assert.Error(t, lectures.SignInRequest{Email: "not-an-email", Password: "sekret"}.Validate())
	assert.Error(t, lectures.SignInRequest{Email: "ada@example.com"}.Validate())
}

func TestSignUpRequestValidate(t *testing.T) {
	valid := lectures.SignUpRequest{
		Email:           "ada@example.com",
		Password:        "a long password",
		ConfirmPassword: "a long password",
		FullName:        "Ada Lovelace",
		Role:            "lecturer",
	}
	assert.NoError(t, valid.Validate())

	mismatched := valid
	mismatched.ConfirmPassword = "something else"
	assert.Error(t, mismatched.Validate())

	shortPassword := valid
	shortPassword.Password = "short"
	shortPassword.ConfirmPassword = "short"
	assert.Error(t, shortPassword.Validate())

	badRole := valid
	badRole.Role = "superuser"
	assert.Error(t, badRole.Validate())

	// role is optional; the backend defaults it
	noRole := valid
	noRole.Role = ""
	assert.NoError(t, noRole.Validate())
}

func TestCourseCreateRequestValidate(t *testing.T) {
	assert.NoError(t, lectures.CourseCreateRequest{
		Code:  "CSC301",
		Title: "Operating Systems",
	}.Validate())

	assert.Error(t, lectures.CourseCreateRequest{Title: "Operating Systems"}.Validate())
	assert.Error(t, lectures.CourseCreateRequest{
		Code:       "CSC301",
		Title:      "Operating Systems",
		LecturerID: "not-a-uuid",
	}.Validate())
}

func TestLectureCreateRequestValidate(t *testing.T) {
	starts := time.Now().Add(time.Hour)

	assert.NoError(t, lectures.LectureCreateRequest{
		Title:    "Week 3: Scheduling",
		StartsAt: starts,
		EndsAt:   starts.Add(2 * time.Hour),
	}.Validate())

	assert.Error(t, lectures.LectureCreateRequest{
		StartsAt: starts,
		EndsAt:   starts.Add(time.Hour),
	}.Validate(), "title is required")

	assert.Error(t, lectures.LectureCreateRequest{
		Title:    "Week 3: Scheduling",
		StartsAt: starts,
		EndsAt:   starts.Add(-time.Hour),
	}.Validate(), "lecture must end after it starts")
}

func TestLectureStatusRequestValidate(t *testing.T) {
	assert.NoError(t, lectures.LectureStatusRequest{Status: "ongoing"}.Validate())
	assert.NoError(t, lectures.LectureStatusRequest{Status: "cancelled"}.Validate())
	assert.Error(t, lectures.LectureStatusRequest{Status: "scheduled"}.Validate(), "lectures never move back to scheduled")
	assert.Error(t, lectures.LectureStatusRequest{}.Validate())
}

func TestAttendanceMarkRequestValidate(t *testing.T) {
	student := testProfile("", "kid@example.com", lectures.RoleStudent)

	assert.NoError(t, lectures.AttendanceMarkRequest{
		StudentID: student.ID.String(),
		Status:    "present",
	}.Validate())

	assert.Error(t, lectures.AttendanceMarkRequest{
		StudentID: student.ID.String(),
		Status:    "vanished",
	}.Validate())

	assert.Error(t, lectures.AttendanceMarkRequest{Status: "present"}.Validate())
}
