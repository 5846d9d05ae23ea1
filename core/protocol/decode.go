package protocol

import (
	"encoding/json"
	"fmt"
)

// DecodeEnvelope parses a raw frame into an envelope. A frame that is not
// a JSON object with a string type is malformed.
func DecodeEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("malformed message: %w", err)
	}
	if env.Type == "" {
		return Envelope{}, fmt.Errorf("malformed message: missing type")
	}
	return env, nil
}

// DecodePayload unmarshals the envelope payload into the typed struct
// for its kind. The switch is the single dispatch point over inbound
// kinds; adding a kind without a case here fails the exhaustiveness test.
func DecodePayload(env Envelope) (any, error) {
	switch env.Type {
	case TypeAuthenticate:
		return decode[Authenticate](env)
	case TypeScheduleUpdate:
		return decode[ScheduleUpdate](env)
	case TypeJoinSchedule:
		return decode[JoinSchedule](env)
	case TypeLeaveSchedule:
		return decode[LeaveSchedule](env)
	case TypeLockLesson:
		return decode[LockLesson](env)
	case TypeUnlockLesson:
		return decode[UnlockLesson](env)
	case TypeConflictResolution:
		return decode[ConflictResolution](env)
	case TypeRequestSnapshot:
		return decode[RequestSnapshot](env)
	case TypeHeartbeat:
		return struct{}{}, nil
	default:
		return nil, fmt.Errorf("unknown message type %q", env.Type)
	}
}

func decode[T any](env Envelope) (T, error) {
	var v T
	if len(env.Data) == 0 {
		return v, fmt.Errorf("malformed message: %s requires a payload", env.Type)
	}
	if err := json.Unmarshal(env.Data, &v); err != nil {
		return v, fmt.Errorf("malformed message: %w", err)
	}
	return v, nil
}
