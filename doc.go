// Package lectures provides the session and profile state layer for a
// role-based lecture management application, plus the persistence and
// HTTP surface the application is built from.
//
// Session synchronization:
//   - Synchronizer maintains a single consistent tuple of principal,
//     session, profile, loading flag, and initialized flag. Start runs
//     the startup session check to completion before subscribing to
//     auth events, so no event can interleave with initialization.
//   - Profile lookups are coalesced per principal and bounded by a
//     timeout. A principal with no profile row is a valid state; the
//     tuple then carries a nil profile and dependents render their
//     unrecognized-role view.
//
// Identity:
//   - LocalBackend implements the auth provider contract against the
//     local profiles table: bcrypt credentials, HS256 JWT sessions,
//     lockout after repeated failures, and an auth event stream that
//     the Synchronizer consumes.
//
// Domain:
//   - Profiles, Courses, Lectures, Enrollments, and Attendance are Bun
//     repositories managed by RepositoryManager. LectureStateMachine
//     centralizes the lecture lifecycle transition graph, and
//     ActivitySink is a best-effort audit emitter shared by the
//     backend and the state machine.
package lectures
