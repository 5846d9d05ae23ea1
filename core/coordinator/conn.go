package coordinator

import (
	"github.com/axelvallin-balder/schedule-builder-sub001/core/model"
	"github.com/axelvallin-balder/schedule-builder-sub001/core/protocol"
	"github.com/axelvallin-balder/schedule-builder-sub001/core/session"
	"github.com/axelvallin-balder/schedule-builder-sub001/core/version"
)

// Conn is the per-connection protocol state machine. Before
// authentication replies go through the transport's direct reply
// function; afterwards everything flows through the session's outbound
// queue. A Conn is driven by a single reader goroutine and needs no
// locking of its own.
type Conn struct {
	c     *Coordinator
	reply func(protocol.Envelope)
	sess  *session.Session
}

// NewConn creates the state machine for one transport connection. reply
// delivers pre-authentication frames straight to the peer.
func (c *Coordinator) NewConn(reply func(protocol.Envelope)) *Conn {
	return &Conn{c: c, reply: reply}
}

// Session returns the session once the connection has authenticated.
func (n *Conn) Session() *session.Session { return n.sess }

// Close runs the disconnect path. Transport-level failures land here and
// nowhere else: the coordinator never tears a session down itself.
func (n *Conn) Close() {
	if n.sess != nil {
		n.c.registry.Leave(n.sess)
	}
}

// HandleRaw processes one inbound frame. Every engine error is recovered
// locally and reported to this session only; no frame ever terminates
// the connection or affects other sessions.
func (n *Conn) HandleRaw(raw []byte) {
	env, err := protocol.DecodeEnvelope(raw)
	if err != nil {
		n.sendError(err.Error())
		return
	}
	payload, err := protocol.DecodePayload(env)
	if err != nil {
		n.sendError(err.Error())
		return
	}

	if auth, ok := payload.(protocol.Authenticate); ok {
		n.handleAuthenticate(auth)
		return
	}
	if n.sess == nil {
		n.sendError(ErrNotAuthenticated.Error())
		return
	}

	switch p := payload.(type) {
	case protocol.ScheduleUpdate:
		if err := n.c.handleUpdate(n.sess, p); err != nil {
			n.sendError(err.Error())
		}
	case protocol.JoinSchedule:
		n.handleJoin(p)
	case protocol.LeaveSchedule:
		n.handleLeave(p)
	case protocol.LockLesson:
		n.handleLock(p)
	case protocol.UnlockLesson:
		n.handleUnlock(p)
	case protocol.ConflictResolution:
		if err := n.c.handleResolution(n.sess, p); err != nil {
			n.sendError(err.Error())
		}
	case protocol.RequestSnapshot:
		n.sendSnapshot(p.ScheduleID)
	case struct{}: // heartbeat
		n.c.registry.Touch(n.sess.EditorID)
		n.sess.Send(protocol.NewEnvelope(protocol.TypeHeartbeatAck, nil))
	default:
		n.sendError(ErrUnknownMessageType.Error())
	}
}

func (n *Conn) handleAuthenticate(p protocol.Authenticate) {
	if n.sess != nil {
		n.sendError("already authenticated")
		return
	}
	if p.UserID == "" {
		n.sendError("authenticate: user_id required")
		return
	}
	n.sess = n.c.registry.Join(p.UserID)
	n.reply(protocol.NewEnvelope(protocol.TypeAuthenticated, protocol.UserPresence{
		UserID: p.UserID,
		Status: string(model.StatusOnline),
	}))
	n.c.registry.BroadcastAll(protocol.NewEnvelope(protocol.TypeUserPresence, protocol.UserPresence{
		UserID: p.UserID,
		Status: string(model.StatusOnline),
	}), n.sess.ID)
}

func (n *Conn) handleJoin(p protocol.JoinSchedule) {
	n.c.ensureLoaded(p.ScheduleID)
	n.c.registry.SetPresence(n.sess.EditorID, p.ScheduleID)
	n.c.registry.BroadcastToSchedule(p.ScheduleID, protocol.NewEnvelope(protocol.TypeUserJoined,
		protocol.UserJoined{UserID: n.sess.EditorID, ScheduleID: p.ScheduleID}), n.sess.ID)
	n.sendSnapshot(p.ScheduleID)
}

func (n *Conn) handleLeave(p protocol.LeaveSchedule) {
	n.c.registry.SetPresence(n.sess.EditorID, "")
	n.c.registry.BroadcastToSchedule(p.ScheduleID, protocol.NewEnvelope(protocol.TypeUserLeft,
		protocol.UserLeft{UserID: n.sess.EditorID, ScheduleID: p.ScheduleID}), n.sess.ID)
}

func (n *Conn) handleLock(p protocol.LockLesson) {
	ok, holder := n.c.registry.Lock(n.sess, p.LessonID)
	if !ok {
		n.sess.Send(protocol.NewEnvelope(protocol.TypeLockDenied,
			protocol.LockDenied{LessonID: p.LessonID, HeldBy: holder}))
		return
	}
	env := protocol.NewEnvelope(protocol.TypeLockAcquired,
		protocol.LockAcquired{LessonID: p.LessonID, UserID: n.sess.EditorID})
	n.sess.Send(env)
	if pr, ok := n.c.registry.Presence(n.sess.EditorID); ok {
		n.c.registry.BroadcastToSchedule(pr.ScheduleID, env, n.sess.ID)
	}
}

func (n *Conn) handleUnlock(p protocol.UnlockLesson) {
	if !n.c.registry.Unlock(n.sess, p.LessonID) {
		return
	}
	env := protocol.NewEnvelope(protocol.TypeLockReleased,
		protocol.LockReleased{LessonID: p.LessonID, UserID: n.sess.EditorID})
	n.sess.Send(env)
	if pr, ok := n.c.registry.Presence(n.sess.EditorID); ok {
		n.c.registry.BroadcastToSchedule(pr.ScheduleID, env, n.sess.ID)
	}
}

func (n *Conn) sendSnapshot(scheduleID string) {
	n.c.ensureLoaded(scheduleID)
	n.sess.Send(protocol.NewEnvelope(protocol.TypeScheduleSnapshot,
		protocol.ScheduleSnapshot{ScheduleID: scheduleID, Lessons: lessonStates(n.c.versions.Snapshot(scheduleID))}))
}

// sendError reports a recovered failure to this connection only.
func (n *Conn) sendError(msg string) {
	env := protocol.NewEnvelope(protocol.TypeError, protocol.Error{Message: msg})
	if n.sess != nil {
		n.sess.Send(env)
		return
	}
	n.reply(env)
}

// lessonStates converts a store snapshot for reuse by transports.
func lessonStates(snap map[string]version.LessonState) map[string]protocol.LessonSnapshot {
	out := make(map[string]protocol.LessonSnapshot, len(snap))
	for id, ls := range snap {
		out[id] = protocol.LessonSnapshot{State: ls.State, Version: ls.Version}
	}
	return out
}
