// Package playback keeps a revealed pitch curve in step with an external
// audio clock.
//
// A Session is the state machine (Idle, Playing, Paused) plus the reveal
// cursor and visible time window. Tick is a pure step that reads a clock
// position, advances the cursor and returns a Snapshot for a renderer; any
// scheduler can drive it. Engine wraps a Session, a Source and a ticker,
// serialising ticks with load and transport calls.
package playback
