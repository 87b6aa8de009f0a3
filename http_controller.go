package lectures

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// RouteRegistrar captures the router methods used by the controller.
type RouteRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

// HTTPConfig configures the HTTP controller.
type HTTPConfig struct {
	// ErrorHandler handles errors (optional)
	ErrorHandler func(ctx router.Context, err error) error
}

// HTTPController exposes the synchronizer surface and the course,
// lecture, enrollment, and attendance operations as a JSON API.
type HTTPController struct {
	sync     *Synchronizer
	backend  *LocalBackend
	repo     RepositoryManager
	states   LectureStateMachine
	activity ActivitySink
	logger   Logger
	config   HTTPConfig
}

// NewHTTPController creates the controller. The repository manager
// must validate; the synchronizer must be started by the caller.
func NewHTTPController(sync *Synchronizer, backend *LocalBackend, repo RepositoryManager, cfg HTTPConfig) *HTTPController {
	if sync == nil {
		panic("missing synchronizer in lectures controller")
	}
	if repo == nil {
		panic("missing repository manager in lectures controller")
	}
	repo.MustValidate()

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = defaultErrorHandler
	}

	return &HTTPController{
		sync:     sync,
		backend:  backend,
		repo:     repo,
		states:   NewLectureStateMachine(repo.Lectures()),
		activity: noopActivitySink{},
		logger:   defLogger{},
		config:   cfg,
	}
}

// WithActivitySink configures the sink for enrollment and attendance
// audit events. The lecture state machine keeps its own sink.
func (c *HTTPController) WithActivitySink(sink ActivitySink) *HTTPController {
	c.activity = normalizeActivitySink(sink)
	return c
}

func (c *HTTPController) WithLogger(logger Logger) *HTTPController {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// WithStateMachine overrides the lecture lifecycle implementation.
func (c *HTTPController) WithStateMachine(states LectureStateMachine) *HTTPController {
	if states != nil {
		c.states = states
	}
	return c
}

// RegisterRoutes registers the API routes.
func (c *HTTPController) RegisterRoutes(group RouteRegistrar) {
	group.Post("/auth/sign-in", c.SignInPost)
	group.Post("/auth/sign-up", c.SignUpPost)
	group.Post("/auth/sign-out", c.SignOutPost)
	group.Get("/auth/session", c.SessionShow)

	group.Get("/courses", c.CourseList)
	group.Post("/courses", c.CourseCreate)
	group.Get("/courses/:course_id/lectures", c.LectureList)
	group.Post("/courses/:course_id/lectures", c.LectureCreate)
	group.Post("/courses/:course_id/enroll", c.EnrollPost)
	group.Post("/courses/:course_id/enrollments", c.EnrollmentCreate)
	group.Get("/courses/:course_id/enrollments", c.EnrollmentList)

	group.Post("/lectures/:lecture_id/status", c.LectureStatusPost)
	group.Post("/lectures/:lecture_id/attendance", c.AttendancePost)
	group.Get("/lectures/:lecture_id/attendance", c.AttendanceList)
}

func defaultErrorHandler(ctx router.Context, err error) error {
	return ctx.JSON(router.StatusInternalServerError, map[string]string{
		"error": err.Error(),
	})
}

// snapshotView shapes the synchronizer tuple for dependent UI.
func (c *HTTPController) snapshotView() map[string]any {
	snap := c.sync.Snapshot()
	return map[string]any{
		"principal":   snap.Principal,
		"profile":     snap.Profile,
		"session":     snap.Session,
		"loading":     snap.Loading,
		"initialized": snap.Initialized,
		"is_admin":    c.sync.IsAdmin(),
		"is_lecturer": c.sync.IsLecturer(),
		"is_student":  c.sync.IsStudent(),
	}
}

// SignInRequest payload
type SignInRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r SignInRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

func (c *HTTPController) SignInPost(ctx router.Context) error {
	payload := new(SignInRequest)

	if err := ctx.Bind(payload); err != nil {
		c.logger.Error("sign in parse payload: %v", err)
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "failed to parse body",
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	if err := c.sync.SignIn(ctx.Context(), payload.Email, payload.Password); err != nil {
		return ctx.JSON(router.StatusUnauthorized, map[string]string{
			"error": err.Error(),
		})
	}

	return ctx.JSON(router.StatusOK, c.snapshotView())
}

// SignUpRequest is the registration payload
type SignUpRequest struct {
	Email             string `form:"email" json:"email"`
	Password          string `form:"password" json:"password"`
	ConfirmPassword   string `form:"confirm_password" json:"confirm_password"`
	FullName          string `form:"full_name" json:"full_name"`
	Role              string `form:"role" json:"role"`
	Department        string `form:"department" json:"department"`
	Level             string `form:"level" json:"level"`
	NotificationEmail string `form:"notification_email" json:"notification_email"`
}

// Validate will validate the payload
func (r SignUpRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(10, 100)),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.By(validateStringEquals(r.Password)),
		),
		validation.Field(&r.FullName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Role, validation.By(validateRole)),
		validation.Field(&r.NotificationEmail, is.Email),
	)
}

func (c *HTTPController) SignUpPost(ctx router.Context) error {
	payload := new(SignUpRequest)

	if err := ctx.Bind(payload); err != nil {
		c.logger.Error("sign up parse payload: %v", err)
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "failed to parse body",
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	seed := ProfileSeed{
		FullName:          payload.FullName,
		Role:              Role(payload.Role),
		Department:        payload.Department,
		Level:             payload.Level,
		NotificationEmail: payload.NotificationEmail,
	}

	if err := c.sync.SignUp(ctx.Context(), payload.Email, payload.Password, seed); err != nil {
		return ctx.JSON(router.StatusConflict, map[string]string{
			"error": err.Error(),
		})
	}

	return ctx.JSON(router.StatusCreated, c.snapshotView())
}

func (c *HTTPController) SignOutPost(ctx router.Context) error {
	if err := c.sync.SignOut(ctx.Context()); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	return ctx.JSON(router.StatusOK, c.snapshotView())
}

// SessionShow returns the current state tuple. Dependent UI renders a
// loading indicator while initialized is false and a "role not
// recognized" view when the profile is absent.
func (c *HTTPController) SessionShow(ctx router.Context) error {
	return ctx.JSON(router.StatusOK, c.snapshotView())
}

func (c *HTTPController) requireRole(ctx router.Context, check func(Role) bool) (Role, bool) {
	role, ok := c.sync.Role()
	if !ok || !check(role) {
		return role, false
	}
	return role, true
}

func (c *HTTPController) forbidden(ctx router.Context) error {
	return ctx.JSON(router.StatusForbidden, map[string]string{
		"error": "role not permitted",
	})
}

func (c *HTTPController) CourseList(ctx router.Context) error {
	records, err := c.repo.Courses().ListByDepartmentLevel(ctx.Context(), ctx.Query("department"), ctx.Query("level"))
	if err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"courses": records,
	})
}

// CourseCreateRequest payload
type CourseCreateRequest struct {
	Code        string `form:"code" json:"code"`
	Title       string `form:"title" json:"title"`
	Description string `form:"description" json:"description"`
	LecturerID  string `form:"lecturer_id" json:"lecturer_id"`
	Department  string `form:"department" json:"department"`
	Level       string `form:"level" json:"level"`
}

// Validate will validate the payload
func (r CourseCreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required, validation.Length(2, 16)),
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.LecturerID, is.UUID),
	)
}

func (c *HTTPController) CourseCreate(ctx router.Context) error {
	if _, ok := c.requireRole(ctx, Role.CanManageCourses); !ok {
		return c.forbidden(ctx)
	}

	payload := new(CourseCreateRequest)
	if err := ctx.Bind(payload); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "failed to parse body",
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	course := &Course{
		Code:        payload.Code,
		Title:       payload.Title,
		Description: payload.Description,
		Department:  payload.Department,
		Level:       payload.Level,
	}

	if payload.LecturerID != "" {
		if id, err := uuid.Parse(payload.LecturerID); err == nil {
			course.LecturerID = &id
		}
	}

	created, err := c.repo.Courses().Create(ctx.Context(), course)
	if err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, created)
}

func (c *HTTPController) LectureList(ctx router.Context) error {
	courseID, err := uuid.Parse(ctx.Param("course_id"))
	if err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "invalid course id",
		})
	}

	records, err := c.repo.Lectures().ListByCourse(ctx.Context(), courseID)
	if err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"lectures": records,
	})
}

// LectureCreateRequest payload
type LectureCreateRequest struct {
	Title    string    `form:"title" json:"title"`
	Venue    string    `form:"venue" json:"venue"`
	StartsAt time.Time `form:"starts_at" json:"starts_at"`
	EndsAt   time.Time `form:"ends_at" json:"ends_at"`
}

// Validate will validate the payload
func (r LectureCreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.StartsAt, validation.Required),
		validation.Field(&r.EndsAt, validation.Required, validation.By(validateAfter(r.StartsAt))),
	)
}

func (c *HTTPController) LectureCreate(ctx router.Context) error {
	if _, ok := c.requireRole(ctx, Role.CanScheduleLectures); !ok {
		return c.forbidden(ctx)
	}

	courseID, err := uuid.Parse(ctx.Param("course_id"))
	if err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "invalid course id",
		})
	}

	payload := new(LectureCreateRequest)
	if err := ctx.Bind(payload); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "failed to parse body",
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	lecture := &Lecture{
		CourseID: courseID,
		Title:    payload.Title,
		Venue:    payload.Venue,
		StartsAt: payload.StartsAt,
		EndsAt:   payload.EndsAt,
		Status:   LectureStatusScheduled,
	}

	created, err := c.repo.Lectures().Create(ctx.Context(), lecture)
	if err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, created)
}

// LectureStatusRequest payload
type LectureStatusRequest struct {
	Status string `form:"status" json:"status"`
}

// Validate will validate the payload
func (r LectureStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required, validation.In(
			string(LectureStatusOngoing),
			string(LectureStatusCompleted),
			string(LectureStatusCancelled),
		)),
	)
}

func (c *HTTPController) LectureStatusPost(ctx router.Context) error {
	if _, ok := c.requireRole(ctx, Role.CanScheduleLectures); !ok {
		return c.forbidden(ctx)
	}

	lectureID, err := uuid.Parse(ctx.Param("lecture_id"))
	if err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "invalid lecture id",
		})
	}

	payload := new(LectureStatusRequest)
	if err := ctx.Bind(payload); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "failed to parse body",
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	lecture, err := c.repo.Lectures().GetByID(ctx.Context(), lectureID.String())
	if err != nil {
		if IsNotFound(err) {
			return ctx.JSON(router.StatusNotFound, map[string]string{
				"error": "lecture not found",
			})
		}
		return c.config.ErrorHandler(ctx, err)
	}

	actor := ActorRef{Type: "user"}
	if snap := c.sync.Snapshot(); snap.Principal != nil {
		actor.ID = snap.Principal.ID
	}

	updated, err := c.states.Transition(ctx.Context(), actor, lecture, LectureStatus(payload.Status))
	if err != nil {
		return ctx.JSON(router.StatusConflict, map[string]string{
			"error": err.Error(),
		})
	}

	return ctx.JSON(router.StatusOK, updated)
}

func (c *HTTPController) EnrollPost(ctx router.Context) error {
	if _, ok := c.requireRole(ctx, Role.CanEnroll); !ok {
		return c.forbidden(ctx)
	}

	courseID, err := uuid.Parse(ctx.Param("course_id"))
	if err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "invalid course id",
		})
	}

	snap := c.sync.Snapshot()
	if snap.Principal == nil {
		return ctx.JSON(router.StatusUnauthorized, map[string]string{
			"error": "authentication required",
		})
	}

	studentID, err := uuid.Parse(snap.Principal.ID)
	if err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "invalid principal id",
		})
	}

	enrolled, err := c.repo.Enrollments().IsEnrolled(ctx.Context(), courseID, studentID)
	if err != nil {
		return c.config.ErrorHandler(ctx, err)
	}
	if enrolled {
		return ctx.JSON(router.StatusConflict, map[string]string{
			"error": "already enrolled",
		})
	}

	record, err := c.repo.Enrollments().Enroll(ctx.Context(), courseID, studentID)
	if err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	c.recordActivity(ctx, ActivityEventEnrollmentCreated, snap.Principal.ID, record.ID.String(), map[string]any{
		"course_id":  courseID.String(),
		"student_id": studentID.String(),
	})

	return ctx.JSON(router.StatusCreated, record)
}

// EnrollStudentRequest payload
type EnrollStudentRequest struct {
	StudentID string `form:"student_id" json:"student_id"`
}

// Validate will validate the payload
func (r EnrollStudentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.StudentID, validation.Required, is.UUID),
	)
}

// EnrollmentCreate assigns a student to a course on their behalf.
func (c *HTTPController) EnrollmentCreate(ctx router.Context) error {
	if _, ok := c.requireRole(ctx, Role.CanManageCourses); !ok {
		return c.forbidden(ctx)
	}

	courseID, err := uuid.Parse(ctx.Param("course_id"))
	if err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "invalid course id",
		})
	}

	payload := new(EnrollStudentRequest)
	if err := ctx.Bind(payload); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "failed to parse body",
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	studentID, _ := uuid.Parse(payload.StudentID)

	enrolled, err := c.repo.Enrollments().IsEnrolled(ctx.Context(), courseID, studentID)
	if err != nil {
		return c.config.ErrorHandler(ctx, err)
	}
	if enrolled {
		return ctx.JSON(router.StatusConflict, map[string]string{
			"error": "already enrolled",
		})
	}

	record, err := c.repo.Enrollments().Enroll(ctx.Context(), courseID, studentID)
	if err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	actorID := ""
	if snap := c.sync.Snapshot(); snap.Principal != nil {
		actorID = snap.Principal.ID
	}
	c.recordActivity(ctx, ActivityEventEnrollmentCreated, actorID, record.ID.String(), map[string]any{
		"course_id":  courseID.String(),
		"student_id": studentID.String(),
		"assigned":   true,
	})

	return ctx.JSON(router.StatusCreated, record)
}

func (c *HTTPController) recordActivity(ctx router.Context, eventType ActivityEventType, actorID, subjectID string, metadata map[string]any) {
	event := ActivityEvent{
		EventType:  eventType,
		Actor:      ActorRef{ID: actorID, Type: "user"},
		SubjectID:  subjectID,
		Metadata:   metadata,
		OccurredAt: time.Now(),
	}
	if err := c.activity.Record(ctx.Context(), event); err != nil {
		c.logger.Warn("activity sink record error: %v", err)
	}
}

func (c *HTTPController) EnrollmentList(ctx router.Context) error {
	if _, ok := c.requireRole(ctx, Role.CanTakeAttendance); !ok {
		return c.forbidden(ctx)
	}

	courseID, err := uuid.Parse(ctx.Param("course_id"))
	if err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "invalid course id",
		})
	}

	records, err := c.repo.Enrollments().ListByCourse(ctx.Context(), courseID)
	if err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"enrollments": records,
	})
}

// AttendanceMarkRequest payload
type AttendanceMarkRequest struct {
	StudentID string `form:"student_id" json:"student_id"`
	Status    string `form:"status" json:"status"`
}

// Validate will validate the payload
func (r AttendanceMarkRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.StudentID, validation.Required, is.UUID),
		validation.Field(&r.Status, validation.Required, validation.By(validateAttendanceStatus)),
	)
}

func (c *HTTPController) AttendancePost(ctx router.Context) error {
	if _, ok := c.requireRole(ctx, Role.CanTakeAttendance); !ok {
		return c.forbidden(ctx)
	}

	lectureID, err := uuid.Parse(ctx.Param("lecture_id"))
	if err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "invalid lecture id",
		})
	}

	payload := new(AttendanceMarkRequest)
	if err := ctx.Bind(payload); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "failed to parse body",
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	studentID, _ := uuid.Parse(payload.StudentID)

	record := &AttendanceRecord{
		LectureID: lectureID,
		StudentID: studentID,
		Status:    AttendanceStatus(payload.Status),
	}

	if snap := c.sync.Snapshot(); snap.Principal != nil {
		if markerID, err := uuid.Parse(snap.Principal.ID); err == nil {
			record.MarkedByID = &markerID
		}
	}

	created, err := c.repo.Attendance().Mark(ctx.Context(), record)
	if err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	markerID := ""
	if record.MarkedByID != nil {
		markerID = record.MarkedByID.String()
	}
	c.recordActivity(ctx, ActivityEventAttendanceMarked, markerID, created.ID.String(), map[string]any{
		"lecture_id": lectureID.String(),
		"student_id": studentID.String(),
		"status":     string(created.Status),
	})

	return ctx.JSON(router.StatusCreated, created)
}

func (c *HTTPController) AttendanceList(ctx router.Context) error {
	if _, ok := c.requireRole(ctx, Role.CanTakeAttendance); !ok {
		return c.forbidden(ctx)
	}

	lectureID, err := uuid.Parse(ctx.Param("lecture_id"))
	if err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "invalid lecture id",
		})
	}

	records, err := c.repo.Attendance().ListByLecture(ctx.Context(), lectureID)
	if err != nil {
		return c.config.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"attendance": records,
	})
}
