package types

import "time"

// MaxUserAgentLength bounds the stored client agent string, in characters.
const MaxUserAgentLength = 500

// Record is the persisted shape of one session. Optional fields are nil when the
// collaborator that supplies them was unavailable at write time.
type Record struct {
	ID           string    `bson:"_id" json:"id"`
	Payload      []byte    `bson:"payload" json:"payload"`
	LastActivity time.Time `bson:"last_activity" json:"last_activity"`
	Expire       time.Time `bson:"expire" json:"expire"`
	UserID       *string   `bson:"user_id,omitempty" json:"user_id,omitempty"`
	IPAddress    *string   `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
	UserAgent    *string   `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
}

// Expired reports whether the record's last activity is older than now-lifetime.
func (r *Record) Expired(now time.Time, lifetime time.Duration) bool {
	return r.LastActivity.Before(now.Add(-lifetime))
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock is the wall clock in UTC.
var SystemClock Clock = ClockFunc(func() time.Time { return time.Now().UTC() })
