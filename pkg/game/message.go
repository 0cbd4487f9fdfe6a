package game

// EngMsg is a message from an engine to a module. The engine guarantees the
// ordering documented on each variant, so modules do not need to defend
// against out-of-order lifecycles.
type EngMsg interface {
	isEngMsg()
}

// InitEngMsg probes the module for its initial state. It is sent exactly
// once, before any other message, and must be answered with a
// ChangeStateModMsg whose join mode is open; anything else tears the game
// down before a single player is admitted.
type InitEngMsg struct{}

// PlayerJoinEngMsg reports a player admitted to the game. Only sent while
// the join mode is open.
type PlayerJoinEngMsg struct {
	PlayerID int
	Name     string
}

// PlayerLeaveEngMsg reports a player leaving the game. Not sent when the
// departing player was the last one; the engine closes the game instead.
type PlayerLeaveEngMsg struct {
	PlayerID int
}

// StartRoundEngMsg starts a round. Only sent when no round is active and the
// start mode is open. The requesting player is engine-internal context and
// deliberately not part of the contract.
type StartRoundEngMsg struct{}

// EndRoundEngMsg terminates the current round for reasons external to the
// module. The engine drops it when no round is active.
type EndRoundEngMsg struct{}

// PlayerActionEngMsg reports a player action. Only sent for actions matching
// the player's most recently advertised possibilities.
type PlayerActionEngMsg struct {
	PlayerID int
	Action   Action
}

func (InitEngMsg) isEngMsg()         {}
func (PlayerJoinEngMsg) isEngMsg()   {}
func (PlayerLeaveEngMsg) isEngMsg()  {}
func (StartRoundEngMsg) isEngMsg()   {}
func (EndRoundEngMsg) isEngMsg()     {}
func (PlayerActionEngMsg) isEngMsg() {}

// ModMsg is a module's reply to an EngMsg.
type ModMsg interface {
	isModMsg()
}

// EmptyModMsg is a no-op reply.
type EmptyModMsg struct{}

// ChangeStateModMsg installs new join and start modes.
type ChangeStateModMsg struct {
	Join  Mode
	Start Mode
}

// GractModMsg carries per-player gract lists to fan out.
type GractModMsg struct {
	Lists *GractLists
}

// EndRoundModMsg finishes the current round. The reason is broadcast to all
// players.
type EndRoundModMsg struct {
	Reason string
}

// EndGameModMsg finishes the game. The reason is broadcast to all players
// and the game is torn down.
type EndGameModMsg struct {
	Reason string
}

func (EmptyModMsg) isModMsg()       {}
func (ChangeStateModMsg) isModMsg() {}
func (GractModMsg) isModMsg()       {}
func (EndRoundModMsg) isModMsg()    {}
func (EndGameModMsg) isModMsg()     {}

// Module is a pluggable rule set for one card game, instantiated once per
// game and driven exclusively by the engine goroutine, so implementations
// need no internal locking.
type Module interface {
	// Process handles one engine message and returns the module's reply.
	// Returning nil is treated as module misbehaviour and is fatal to the
	// game.
	Process(msg EngMsg) ModMsg
}
