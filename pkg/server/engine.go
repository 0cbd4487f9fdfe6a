package server

import (
	"sort"

	"github.com/decred/slog"

	"cardroom/pkg/game"
	"cardroom/pkg/wire"
)

const (
	joinBacklog  = 16
	inboxBacklog = 64
)

// session is one connection the engine knows about, pending or admitted. The
// pointer identity ties reader events back to engine state.
type session struct {
	conn Conn
}

// player is an admitted session with a stable in-game identity.
type player struct {
	id   int
	name string
	sess *session

	// possibilities is the last advertised possible-actions set. Nil means
	// every action is invalid.
	possibilities []game.Paction
}

// engineMsg is an event delivered to the engine goroutine.
type engineMsg interface {
	isEngineMsg()
}

// connArrived carries a fresh connection off the join channel.
type connArrived struct {
	conn Conn
}

// frameReceived carries a decoded frame from a session's reader.
type frameReceived struct {
	sess  *session
	frame wire.ClientFrame
}

// sessionClosed reports that a session's reader has terminated, whatever the
// cause: peer disconnect, transport error or protocol violation.
type sessionClosed struct {
	sess *session
}

// endRoundRequested asks the engine to terminate the active round.
type endRoundRequested struct{}

func (connArrived) isEngineMsg()       {}
func (frameReceived) isEngineMsg()     {}
func (sessionClosed) isEngineMsg()     {}
func (endRoundRequested) isEngineMsg() {}

// Engine drives one game. All game state is confined to the Run goroutine;
// the only crossings are the join channel, the inbox and the done channel.
type Engine struct {
	id     int
	log    slog.Logger
	mod    game.Module
	detach func()

	join  chan Conn
	inbox chan engineMsg
	done  chan struct{}

	joinMode    game.Mode
	startMode   game.Mode
	roundActive bool

	nextPlayerID int
	players      map[int]*player
	bySession    map[*session]int
	pending      map[*session]struct{}
}

func newEngine(id int, mod game.Module, log slog.Logger, detach func()) *Engine {
	return &Engine{
		id:        id,
		log:       log,
		mod:       mod,
		detach:    detach,
		join:      make(chan Conn, joinBacklog),
		inbox:     make(chan engineMsg, inboxBacklog),
		done:      make(chan struct{}),
		players:   make(map[int]*player),
		bySession: make(map[*session]int),
		pending:   make(map[*session]struct{}),
	}
}

// Enqueue hands a connection to the engine. If the game is already over the
// connection is dropped; the peer observes the close when the transport next
// attempts I/O.
func (e *Engine) Enqueue(conn Conn) {
	select {
	case e.join <- conn:
	case <-e.done:
	}
}

// EndRound asks the engine to terminate the active round, for example from
// an operator surface. Dropped if the game is over or no round is active.
func (e *Engine) EndRound() {
	select {
	case e.inbox <- endRoundRequested{}:
	case <-e.done:
	}
}

// Run is the engine goroutine. It probes the module, then alternates between
// gathering a batch of queued events and applying it sequentially. State
// changes made by one event are visible to the rest of its batch.
func (e *Engine) Run() {
	defer e.shutdown()

	if !e.probe() {
		return
	}
	for {
		for _, msg := range e.gather() {
			if !e.apply(msg) {
				return
			}
		}
	}
}

// probe asks the module for its initial modes. The game is viable only if
// the module opens joining.
func (e *Engine) probe() bool {
	reply := e.mod.Process(game.InitEngMsg{})
	cs, ok := reply.(game.ChangeStateModMsg)
	if !ok || !cs.Join.IsOpen() {
		e.log.Errorf("game %d: module init reply %T does not open joining", e.id, reply)
		return false
	}
	e.joinMode = cs.Join
	e.startMode = cs.Start
	return true
}

// gather blocks for one event, then drains whatever else is already queued.
func (e *Engine) gather() []engineMsg {
	var batch []engineMsg
	select {
	case conn := <-e.join:
		batch = append(batch, connArrived{conn: conn})
	case msg := <-e.inbox:
		batch = append(batch, msg)
	}
	for {
		select {
		case conn := <-e.join:
			batch = append(batch, connArrived{conn: conn})
		case msg := <-e.inbox:
			batch = append(batch, msg)
		default:
			return batch
		}
	}
}

// apply handles one event. A false return stops the engine.
func (e *Engine) apply(msg engineMsg) bool {
	switch msg := msg.(type) {
	case connArrived:
		s := &session{conn: msg.conn}
		e.pending[s] = struct{}{}
		e.startReader(s)
		return true

	case frameReceived:
		return e.applyFrame(msg.sess, msg.frame)

	case sessionClosed:
		if _, ok := e.pending[msg.sess]; ok {
			delete(e.pending, msg.sess)
			return true
		}
		id, ok := e.bySession[msg.sess]
		if !ok {
			// Already rejected or removed.
			return true
		}
		return e.playerLeft(id)

	case endRoundRequested:
		if !e.roundActive {
			return true
		}
		return e.handleReply(e.mod.Process(game.EndRoundEngMsg{}))
	}
	return true
}

func (e *Engine) applyFrame(s *session, frame wire.ClientFrame) bool {
	if _, ok := e.pending[s]; ok {
		intro, ok := frame.(wire.Intro)
		if !ok {
			// The first frame must be an intro.
			delete(e.pending, s)
			s.conn.Close()
			return true
		}
		delete(e.pending, s)
		return e.admit(s, intro.PlayerName)
	}

	id, ok := e.bySession[s]
	if !ok {
		// Stale frame from a session removed earlier in this batch.
		return true
	}
	p := e.players[id]

	switch frame := frame.(type) {
	case wire.StartRound:
		return e.startRound(p)
	case wire.Action:
		return e.playerAction(p, frame.Action)
	default:
		// A repeated intro is a protocol violation. The reader surfaces
		// the close as a departure.
		p.sess.conn.Close()
		return true
	}
}

func (e *Engine) admit(s *session, name string) bool {
	if !e.joinMode.IsOpen() {
		e.send(s.conn, wire.ErrorFrame{Reason: e.joinMode.Reason()})
		s.conn.Close()
		return true
	}
	id := e.nextPlayerID
	e.nextPlayerID++
	p := &player{id: id, name: name, sess: s}
	e.players[id] = p
	e.bySession[s] = id
	e.log.Infof("game %d: player %d (%s) joined", e.id, id, name)
	e.send(s.conn, wire.ServerIntro{GameID: e.id, PlayerID: id})
	return e.handleReply(e.mod.Process(game.PlayerJoinEngMsg{PlayerID: id, Name: name}))
}

func (e *Engine) playerLeft(id int) bool {
	p := e.players[id]
	delete(e.players, id)
	delete(e.bySession, p.sess)
	e.log.Infof("game %d: player %d (%s) left", e.id, id, p.name)
	if len(e.players) == 0 {
		e.log.Infof("game %d: no players remain, closing", e.id)
		return false
	}
	return e.handleReply(e.mod.Process(game.PlayerLeaveEngMsg{PlayerID: id}))
}

func (e *Engine) startRound(p *player) bool {
	if e.roundActive {
		e.send(p.sess.conn, wire.ErrorFrame{Reason: "round already active"})
		return true
	}
	if !e.startMode.IsOpen() {
		e.send(p.sess.conn, wire.ErrorFrame{Reason: e.startMode.Reason()})
		return true
	}
	e.roundActive = true
	e.log.Debugf("game %d: round started by player %d", e.id, p.id)
	return e.handleReply(e.mod.Process(game.StartRoundEngMsg{}))
}

func (e *Engine) playerAction(p *player, act game.Action) bool {
	if !e.roundActive || !Matches(p.possibilities, act) {
		e.send(p.sess.conn, wire.ErrorFrame{Reason: "invalid action"})
		p.sess.conn.Close()
		return true
	}
	// An accepted action exhausts the set; it stays invalid until the
	// module advertises a new one.
	p.possibilities = nil
	return e.handleReply(e.mod.Process(game.PlayerActionEngMsg{PlayerID: p.id, Action: act}))
}

func (e *Engine) handleReply(reply game.ModMsg) bool {
	switch reply := reply.(type) {
	case game.EmptyModMsg:
		return true

	case game.ChangeStateModMsg:
		e.joinMode = reply.Join
		e.startMode = reply.Start
		return true

	case game.GractModMsg:
		if reply.Lists == nil {
			return true
		}
		reply.Lists.Each(func(playerID int, gracts []game.Gract) {
			p, ok := e.players[playerID]
			if !ok {
				// The module addressed a player the engine no longer
				// has; drop the list.
				return
			}
			for _, g := range gracts {
				if pa, ok := g.(game.PossibleActionsGract); ok {
					// Later sets within one list replace earlier ones.
					p.possibilities = pa.Pactions
				}
			}
			e.send(p.sess.conn, wire.GractList{Gracts: gracts})
		})
		return true

	case game.EndRoundModMsg:
		e.roundActive = false
		e.log.Debugf("game %d: round ended: %s", e.id, reply.Reason)
		e.broadcast(wire.EndRound{Reason: reply.Reason})
		return true

	case game.EndGameModMsg:
		e.log.Infof("game %d: ended: %s", e.id, reply.Reason)
		e.broadcast(wire.EndGame{Reason: reply.Reason})
		for _, p := range e.players {
			p.sess.conn.Close()
		}
		return false

	default:
		// nil or a foreign implementation of ModMsg: the module broke
		// its contract and the game cannot continue.
		e.log.Errorf("game %d: module returned unexpected reply %T", e.id, reply)
		for _, p := range e.players {
			p.sess.conn.Close()
		}
		return false
	}
}

// send encodes and writes one frame. Write failures are swallowed: delivery
// is best-effort and a dead peer is observed by its reader instead.
func (e *Engine) send(conn Conn, frame wire.ServerFrame) {
	data, err := wire.MarshalServer(frame)
	if err != nil {
		e.log.Errorf("game %d: encoding %T: %v", e.id, frame, err)
		return
	}
	_ = conn.WriteText(string(data))
}

func (e *Engine) broadcast(frame wire.ServerFrame) {
	ids := make([]int, 0, len(e.players))
	for id := range e.players {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		e.send(e.players[id].sess.conn, frame)
	}
}

// startReader owns the receive half of a session. It feeds decoded frames
// into the inbox and exits on the first read or decode failure.
func (e *Engine) startReader(s *session) {
	go func() {
		for {
			text, err := s.conn.ReadText()
			if err != nil {
				e.post(sessionClosed{sess: s})
				return
			}
			frame, err := wire.UnmarshalClient([]byte(text))
			if err != nil {
				// Undecodable frames are a protocol violation: close
				// silently.
				s.conn.Close()
				e.post(sessionClosed{sess: s})
				return
			}
			e.post(frameReceived{sess: s, frame: frame})
		}
	}()
}

func (e *Engine) post(msg engineMsg) {
	select {
	case e.inbox <- msg:
	case <-e.done:
	}
}

// shutdown releases readers and enqueuers, closes admitted connections and
// detaches the engine from its manager. Pending connections are left to the
// transport to close.
func (e *Engine) shutdown() {
	close(e.done)
	for _, p := range e.players {
		p.sess.conn.Close()
	}
	e.detach()
}
