// Package coordinator orchestrates the engine: it receives edit intents
// from sessions, consults the version store for conflicts, invokes the
// assignment solver when an edit requires re-assignment, and broadcasts
// accepted state changes or conflict notices through the session
// registry.
package coordinator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/axelvallin-balder/schedule-builder-sub001/core/logger"
	"github.com/axelvallin-balder/schedule-builder-sub001/core/metrics"
	"github.com/axelvallin-balder/schedule-builder-sub001/core/model"
	"github.com/axelvallin-balder/schedule-builder-sub001/core/protocol"
	"github.com/axelvallin-balder/schedule-builder-sub001/core/session"
	"github.com/axelvallin-balder/schedule-builder-sub001/core/solver"
	"github.com/axelvallin-balder/schedule-builder-sub001/core/store"
	"github.com/axelvallin-balder/schedule-builder-sub001/core/version"
	"github.com/axelvallin-balder/schedule-builder-sub001/internal/eventbus"
)

// Config selects the coordinator's optional policies.
type Config struct {
	// RequireLock upgrades advisory locks to authoritative: commits
	// without a held lock are rejected. Default is advisory-only.
	RequireLock bool `json:"require_lock"`
	// AutoResolve merges conflicts whose field sets are disjoint from
	// the intervening commits without surfacing them. Default off:
	// conflicts are always surfaced.
	AutoResolve bool `json:"auto_resolve"`
	// LoadTimeout bounds the persistence loader call on first schedule
	// access.
	LoadTimeout time.Duration `json:"load_timeout"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.LoadTimeout <= 0 {
		c.LoadTimeout = 10 * time.Second
	}
}

// CommitEvent is published on the commit bus for every accepted
// mutation. The persistence bridge and metrics recorder subscribe to it.
type CommitEvent struct {
	ScheduleID string
	LessonID   string
	EditorID   string
	State      map[string]any
	Version    int64
	Reassigned bool
	Time       time.Time
}

// Coordinator owns the version store and session registry by
// composition. One instance serves all connections; there is no ambient
// state.
type Coordinator struct {
	cfg       Config
	registry  *session.Registry
	versions  version.Store
	solver    solver.Solver
	dir       store.CourseDirectory
	loader    store.ScheduleLoader
	conflicts *conflictRegistry
	commits   *eventbus.Bus[CommitEvent]
	log       logger.Logger
	sink      metrics.EngineSink

	mu    sync.Mutex
	loads map[string]*scheduleLoad
	diffs map[string][]diffEntry
}

// scheduleLoad serializes the persistence loader call per schedule. Its
// own mutex keeps the (possibly slow) LoadSchedule call off the
// coordinator-wide lock, so commits on other schedules proceed while a
// load is in flight.
type scheduleLoad struct {
	mu     sync.Mutex
	loaded bool
}

// diffEntry remembers which fields a commit changed, for disjointness
// checks during auto-resolution.
type diffEntry struct {
	version int64
	keys    map[string]struct{}
}

// diffHistory caps remembered commits per lesson.
const diffHistory = 32

// New creates a coordinator. A nil sink disables metrics; a nil loader
// means schedules must be seeded into the version store by the caller.
func New(cfg Config, reg *session.Registry, versions version.Store, sol solver.Solver, dir store.CourseDirectory, loader store.ScheduleLoader, log logger.Logger, sink metrics.EngineSink) *Coordinator {
	cfg.SetDefaults()
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Coordinator{
		cfg:       cfg,
		registry:  reg,
		versions:  versions,
		solver:    sol,
		dir:       dir,
		loader:    loader,
		conflicts: newConflictRegistry(),
		commits:   eventbus.New[CommitEvent](),
		log:       log,
		sink:      sink,
		loads:     make(map[string]*scheduleLoad),
		diffs:     make(map[string][]diffEntry),
	}
}

// Commits returns the bus accepted mutations are published on.
func (c *Coordinator) Commits() *eventbus.Bus[CommitEvent] { return c.commits }

// Registry returns the session registry the coordinator broadcasts
// through.
func (c *Coordinator) Registry() *session.Registry { return c.registry }

// OpenConflicts returns the number of unresolved conflicts.
func (c *Coordinator) OpenConflicts() int { return c.conflicts.openCount() }

// Close shuts the commit bus down.
func (c *Coordinator) Close() { c.commits.Close() }

// ensureLoaded pulls the schedule's lessons from the persistence
// boundary on first access.
func (c *Coordinator) ensureLoaded(scheduleID string) {
	if c.loader == nil {
		return
	}
	c.mu.Lock()
	ls := c.loads[scheduleID]
	if ls == nil {
		ls = &scheduleLoad{}
		c.loads[scheduleID] = ls
	}
	c.mu.Unlock()

	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.loaded {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.LoadTimeout)
	defer cancel()
	lessons, err := c.loader.LoadSchedule(ctx, scheduleID)
	if err != nil {
		c.log.Errorf("load schedule %s: %v", scheduleID, err)
		return
	}
	c.versions.Load(lessons)
	ls.loaded = true
	c.log.Infof("loaded schedule %s (%d lessons)", scheduleID, len(lessons))
}

// handleUpdate runs the edit intent pipeline:
// Received -> Checked -> {Committed | Conflicted} -> Broadcast.
func (c *Coordinator) handleUpdate(sess *session.Session, p protocol.ScheduleUpdate) error {
	if c.cfg.RequireLock && !c.registry.HoldsLock(sess, p.LessonID) {
		return ErrLockRequired
	}
	intent := model.EditIntent{
		EditorID:    sess.EditorID,
		ScheduleID:  p.ScheduleID,
		LessonID:    p.LessonID,
		Changes:     p.Changes,
		BaseVersion: p.BaseVersion,
	}

	state, _, ok := c.versions.Get(p.LessonID)
	if !ok {
		return ErrUnknownLesson
	}
	newState := mergeState(state, p.Changes)
	reassigned := false
	var applyReassign func()
	if affectsAssignment(p.Changes) {
		applyReassign = c.reassign(newState, p.Changes)
		reassigned = true
	}

	committed, ver, seq := c.versions.CommitIfCurrent(p.LessonID, p.BaseVersion, newState)
	if !committed {
		c.conflicted(sess, intent, seq)
		return nil
	}
	if applyReassign != nil {
		applyReassign()
	}

	c.recordDiff(p.LessonID, ver, p.Changes)
	sess.Send(protocol.NewEnvelope(protocol.TypeUpdateConfirmed,
		protocol.UpdateConfirmed{LessonID: p.LessonID, Version: ver}))
	c.broadcastCommit(p.ScheduleID, p.LessonID, sess.EditorID, newState, ver, reassigned, sess.ID)
	return nil
}

// conflicted materializes a conflict for a rejected commit attempt. Only
// the conflicting editor is notified; others learn of it on resolution.
func (c *Coordinator) conflicted(sess *session.Session, intent model.EditIntent, seq int64) {
	current, curVer, _ := c.versions.Get(intent.LessonID)

	if c.cfg.AutoResolve {
		if keys, known := c.interveningKeys(intent.LessonID, intent.BaseVersion, curVer); known && disjoint(intent.Changes, keys) {
			if c.autoResolve(sess, intent, current, curVer) {
				return
			}
		}
	}

	cf := model.Conflict{
		ID:             uuid.NewString(),
		ScheduleID:     intent.ScheduleID,
		LessonID:       intent.LessonID,
		Proposed:       intent,
		Current:        current,
		CurrentVersion: curVer,
		CommitOrder:    seq,
		CreatedAt:      time.Now(),
	}
	c.conflicts.add(cf)
	c.log.Warnf("conflict %s on lesson %s: editor %s based on v%d, store at v%d",
		cf.ID, cf.LessonID, intent.EditorID, intent.BaseVersion, curVer)
	sess.Send(protocol.NewEnvelope(protocol.TypeConflictDetected, protocol.ConflictDetected{
		ConflictID:   cf.ID,
		LessonID:     cf.LessonID,
		YourChanges:  intent.Changes,
		YourVersion:  intent.BaseVersion,
		TheirState:   current,
		TheirVersion: curVer,
	}))
	c.recordConflict(cf, false, "")
}

// autoResolve merges a disjoint conflict on top of the latest state.
// Returns false when the lesson advanced again mid-merge, in which case
// the caller surfaces the conflict normally.
func (c *Coordinator) autoResolve(sess *session.Session, intent model.EditIntent, current map[string]any, curVer int64) bool {
	newState := mergeState(current, intent.Changes)
	committed, ver, _ := c.versions.CommitIfCurrent(intent.LessonID, curVer, newState)
	if !committed {
		return false
	}
	id := uuid.NewString()
	c.recordDiff(intent.LessonID, ver, intent.Changes)
	c.log.Infof("auto-resolved disjoint edit %s on lesson %s for editor %s", id, intent.LessonID, intent.EditorID)
	sess.Send(protocol.NewEnvelope(protocol.TypeUpdateConfirmed,
		protocol.UpdateConfirmed{LessonID: intent.LessonID, Version: ver}))
	c.registry.BroadcastToSchedule(intent.ScheduleID, protocol.NewEnvelope(protocol.TypeConflictResolved,
		protocol.ConflictResolved{ConflictID: id, ResolvedBy: "auto", LessonID: intent.LessonID, Version: ver}), sess.ID)
	c.broadcastCommit(intent.ScheduleID, intent.LessonID, intent.EditorID, newState, ver, false, sess.ID)
	return true
}

// resolveRetries bounds how often a resolution chases the latest
// version before the conflict is re-surfaced to the resolver.
const resolveRetries = 3

// handleResolution applies a resolution strategy to an open conflict.
// The commit always runs against the latest version: the schedule may
// have advanced while the conflict was open, so a resolution can itself
// conflict and is then re-surfaced.
func (c *Coordinator) handleResolution(sess *session.Session, p protocol.ConflictResolution) error {
	strategy, err := ParseStrategy(p.Resolution)
	if err != nil {
		return err
	}
	cf, err := c.conflicts.take(p.ConflictID)
	if err != nil {
		return err
	}

	if strategy == KeepCurrent {
		_, ver, _ := c.versions.Get(cf.LessonID)
		c.announceResolved(cf, sess, ver, strategy)
		return nil
	}

	for i := 0; i < resolveRetries; i++ {
		latest, ver, ok := c.versions.Get(cf.LessonID)
		if !ok {
			return ErrUnknownLesson
		}
		newState := resolvedState(strategy, latest, cf, p.FieldChoices)
		committed, newVer, seq := c.versions.CommitIfCurrent(cf.LessonID, ver, newState)
		if !committed {
			cf.CommitOrder = seq
			continue
		}
		c.recordDiff(cf.LessonID, newVer, cf.Proposed.Changes)
		c.announceResolved(cf, sess, newVer, strategy)
		c.broadcastCommit(cf.ScheduleID, cf.LessonID, sess.EditorID, newState, newVer, false, "")
		return nil
	}

	// The lesson kept advancing; re-surface with the fresh state.
	current, curVer, _ := c.versions.Get(cf.LessonID)
	cf.Current = current
	cf.CurrentVersion = curVer
	c.conflicts.add(cf)
	sess.Send(protocol.NewEnvelope(protocol.TypeConflictDetected, protocol.ConflictDetected{
		ConflictID:   cf.ID,
		LessonID:     cf.LessonID,
		YourChanges:  cf.Proposed.Changes,
		YourVersion:  cf.Proposed.BaseVersion,
		TheirState:   current,
		TheirVersion: curVer,
	}))
	return nil
}

func (c *Coordinator) announceResolved(cf model.Conflict, sess *session.Session, ver int64, strategy Strategy) {
	c.registry.BroadcastToSchedule(cf.ScheduleID, protocol.NewEnvelope(protocol.TypeConflictResolved,
		protocol.ConflictResolved{ConflictID: cf.ID, ResolvedBy: sess.EditorID, LessonID: cf.LessonID, Version: ver}), "")
	c.recordConflict(cf, true, string(strategy))
}

// broadcastCommit fans the accepted state out to the schedule's viewers
// and publishes the commit event for the persistence bridge.
func (c *Coordinator) broadcastCommit(scheduleID, lessonID, editorID string, state map[string]any, ver int64, reassigned bool, excluding string) {
	c.registry.BroadcastToSchedule(scheduleID, protocol.NewEnvelope(protocol.TypeScheduleUpdate,
		protocol.ScheduleUpdateBroadcast{
			ScheduleID: scheduleID,
			LessonID:   lessonID,
			State:      state,
			Version:    ver,
			EditorID:   editorID,
		}), excluding)
	c.commits.Publish(CommitEvent{
		ScheduleID: scheduleID,
		LessonID:   lessonID,
		EditorID:   editorID,
		State:      state,
		Version:    ver,
		Reassigned: reassigned,
		Time:       time.Now(),
	})
	if err := c.sink.RecordCommit(metrics.CommitEvent{
		ScheduleID: scheduleID,
		LessonID:   lessonID,
		EditorID:   editorID,
		Version:    ver,
		Reassigned: reassigned,
		Time:       time.Now(),
	}); err != nil {
		c.log.Errorf("commit metrics: %v", err)
	}
}

func (c *Coordinator) recordConflict(cf model.Conflict, resolved bool, strategy string) {
	rec, ok := c.sink.(metrics.ConflictRecorder)
	if !ok {
		return
	}
	if err := rec.RecordConflict(metrics.ConflictEvent{
		ConflictID: cf.ID,
		ScheduleID: cf.ScheduleID,
		LessonID:   cf.LessonID,
		EditorID:   cf.Proposed.EditorID,
		Resolved:   resolved,
		Strategy:   strategy,
		Time:       time.Now(),
	}); err != nil {
		c.log.Errorf("conflict metrics: %v", err)
	}
}

// reassign re-runs the solver for the course affected by the edit and
// folds the outcome into the state about to be committed. The teacher
// snapshot comes from the directory, consistent for the duration of the
// pass. Only newState is mutated here; the directory writes are returned
// as a deferred apply so a rejected commit leaves the directory
// untouched.
func (c *Coordinator) reassign(newState map[string]any, changes map[string]any) func() {
	courseID, _ := newState["course_id"].(string)
	orig, ok := c.dir.Course(courseID)
	if !ok {
		return nil
	}
	course := orig
	if sid, ok := stringField(changes, "subject_id"); ok {
		course.SubjectID = sid
	}
	if tid, ok := stringField(changes, "teacher_id"); ok {
		course.TeacherID = tid
	}

	teachers := c.dir.Teachers()
	// A carried-over teacher that the edit made invalid (subject change,
	// usually) is cleared so the solver picks a qualified replacement.
	if course.TeacherID != "" && course.TeacherID == orig.TeacherID {
		for _, t := range teachers {
			if t.ID != course.TeacherID {
				continue
			}
			if v := solver.ValidateAssignment(model.Assignment{CourseID: course.ID, TeacherID: t.ID}, course, t); !v.IsValid {
				course.TeacherID = ""
			}
			break
		}
	}

	start := time.Now()
	assignments := c.solver.Assign([]model.Course{course}, teachers)
	a := assignments[0]
	course.TeacherID = a.TeacherID
	dur := time.Since(start)

	newState["teacher_id"] = a.TeacherID
	if a.TeacherID == "" {
		newState["assignment_reason"] = a.Reason
	} else {
		delete(newState, "assignment_reason")
	}

	return func() {
		c.dir.UpdateCourse(course)
		if orig.TeacherID != a.TeacherID {
			if orig.TeacherID != "" {
				c.dir.AdjustLoad(orig.TeacherID, -orig.WeeklyHours, -1)
			}
			if a.TeacherID != "" {
				c.dir.AdjustLoad(a.TeacherID, course.WeeklyHours, 1)
			}
		}
		c.recordSolverPass(1, assignments, dur)
	}
}

func (c *Coordinator) recordSolverPass(courses int, assignments []model.Assignment, dur time.Duration) {
	rec, ok := c.sink.(metrics.SolverRecorder)
	if !ok {
		return
	}
	assigned := 0
	for _, a := range assignments {
		if a.Assigned() {
			assigned++
		}
	}
	loads := solver.Loads(c.dir.Teachers(), nil, nil)
	if err := rec.RecordSolverPass(metrics.SolverEvent{
		Courses:      courses,
		Assigned:     assigned,
		Unassigned:   courses - assigned,
		BalanceScore: solver.BalanceScore(loads),
		Duration:     dur,
		Time:         time.Now(),
	}); err != nil {
		c.log.Errorf("solver metrics: %v", err)
	}
}

// recordDiff remembers which fields a commit changed.
func (c *Coordinator) recordDiff(lessonID string, ver int64, changes map[string]any) {
	keys := make(map[string]struct{}, len(changes))
	for k := range changes {
		keys[k] = struct{}{}
	}
	c.mu.Lock()
	entries := append(c.diffs[lessonID], diffEntry{version: ver, keys: keys})
	if len(entries) > diffHistory {
		entries = entries[len(entries)-diffHistory:]
	}
	c.diffs[lessonID] = entries
	c.mu.Unlock()
}

// interveningKeys unions the fields changed by commits after base up to
// and including cur. known is false when the diff history no longer
// covers the whole range, which disables auto-resolution for that
// conflict.
func (c *Coordinator) interveningKeys(lessonID string, base, cur int64) (map[string]struct{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]struct{})
	var found int64
	for _, e := range c.diffs[lessonID] {
		if e.version > base && e.version <= cur {
			found++
			for k := range e.keys {
				out[k] = struct{}{}
			}
		}
	}
	return out, found == cur-base
}

func affectsAssignment(changes map[string]any) bool {
	for _, k := range []string{"course_id", "teacher_id", "subject_id"} {
		if _, ok := changes[k]; ok {
			return true
		}
	}
	return false
}

func mergeState(state, changes map[string]any) map[string]any {
	out := make(map[string]any, len(state)+len(changes))
	for k, v := range state {
		out[k] = v
	}
	for k, v := range changes {
		out[k] = v
	}
	return out
}

func stringField(m map[string]any, key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
