// Package session keeps the in-memory set of solitaire sessions.
//
// Each session owns one engine and remembers its config and when it was
// created and last touched. IDs are case-insensitive; generated IDs are four
// hex characters from crypto/rand. Custom IDs may use letters, digits, '-'
// and '_'.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", config, engine.NewSeed())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//
//	// Drop sessions idle for an hour; returns their IDs
//	removed := manager.CleanupExpiredSessions(time.Hour)
//
// The game service calls CleanupExpiredSessions through ExpireSessions so
// that auto-solves of removed sessions are cancelled too.
//
// Sessions are not persisted; a restart starts empty.
package session
