package control

// Queue is a Controller fed from another goroutine, such as a UI event loop.
type Queue struct {
	ch chan Command
}

// NewQueue returns a queue holding at most size pending commands.
func NewQueue(size int) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{ch: make(chan Command, size)}
}

// Push enqueues cmd. It reports false and drops the command when the queue is full.
func (q *Queue) Push(cmd Command) bool {
	if cmd == None {
		return false
	}
	select {
	case q.ch <- cmd:
		return true
	default:
		return false
	}
}

// Poll returns the oldest pending command, or None.
func (q *Queue) Poll() Command {
	select {
	case cmd := <-q.ch:
		return cmd
	default:
		return None
	}
}
