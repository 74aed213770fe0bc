package review

// Loop names one of the two polling loops.
type Loop int

const (
	LoopProgress Loop = iota
	LoopObject
	loopCount
)

func (l Loop) String() string {
	switch l {
	case LoopProgress:
		return "progress"
	case LoopObject:
		return "current_object"
	default:
		return "unknown"
	}
}

// Ticket is attached to every fetch so its response can be matched against
// the poller state when it arrives.
type Ticket struct {
	Loop  Loop
	Epoch uint64
	Seq   uint64
}

// Poller is the bookkeeping for the two polling loops. Timers themselves live
// with the caller; a tick or response carrying a stale epoch is dropped.
type Poller struct {
	running bool
	epoch   uint64
	issued  [loopCount]uint64
	applied [loopCount]uint64
}

func (p *Poller) Running() bool { return p.running }

func (p *Poller) Epoch() uint64 { return p.epoch }

// Start begins a new epoch. It returns false when the loops are already
// running, in which case no new timers must be scheduled.
func (p *Poller) Start() (uint64, bool) {
	if p.running {
		return p.epoch, false
	}
	p.epoch++
	p.running = true
	p.issued = [loopCount]uint64{}
	p.applied = [loopCount]uint64{}
	return p.epoch, true
}

// Stop ends the current epoch. Pending ticks and in-flight fetches from it
// are ignored from now on.
func (p *Poller) Stop() bool {
	if !p.running {
		return false
	}
	p.running = false
	p.epoch++
	return true
}

// Live reports whether a tick scheduled in epoch should still fire.
func (p *Poller) Live(epoch uint64) bool {
	return p.running && epoch == p.epoch
}

// Issue hands out the ticket for the next fetch of loop.
func (p *Poller) Issue(loop Loop) (Ticket, bool) {
	if !p.running || loop < 0 || loop >= loopCount {
		return Ticket{}, false
	}
	p.issued[loop]++
	return Ticket{Loop: loop, Epoch: p.epoch, Seq: p.issued[loop]}, true
}

// Accept reports whether a successful response for t may be applied and, if
// so, records it. Responses older than the last applied one for the same loop
// are rejected so a slow fetch cannot overwrite fresher data.
func (p *Poller) Accept(t Ticket) bool {
	if !p.Live(t.Epoch) || t.Loop < 0 || t.Loop >= loopCount {
		return false
	}
	if t.Seq <= p.applied[t.Loop] {
		return false
	}
	p.applied[t.Loop] = t.Seq
	return true
}
