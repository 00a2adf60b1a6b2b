package zkvm

import (
	"errors"
	"fmt"
)

// ErrGuestFault reports an aborted guest: malformed input channel or a panic inside the routine
var ErrGuestFault = errors.New("guest fault")

type guestFault struct {
	err error
}

// Env is the guest-side view of the machine. Reads that cannot be
// satisfied abort the guest; there is no recovery inside the routine.
type Env struct {
	in      *Reader
	out     *PublicValues
	commits int
}

func (e *Env) abort(err error) {
	panic(guestFault{err: err})
}

func (e *Env) ReadU32() uint32 {
	v, err := e.in.ReadU32()
	if err != nil {
		e.abort(err)
	}
	return v
}

func (e *Env) ReadU64() uint64 {
	v, err := e.in.ReadU64()
	if err != nil {
		e.abort(err)
	}
	return v
}

func (e *Env) ReadBytes() []byte {
	v, err := e.in.ReadBytes()
	if err != nil {
		e.abort(err)
	}
	return v
}

func (e *Env) CommitU32(v uint32) {
	e.out.CommitU32(v)
	e.commits++
}

func (e *Env) CommitU64(v uint64) {
	e.out.CommitU64(v)
	e.commits++
}

func (e *Env) CommitBytes(b []byte) {
	e.out.CommitBytes(b)
	e.commits++
}

// Execution is the outcome of one native guest run
type Execution struct {
	PublicValues *PublicValues
	Reads        int
	Commits      int
}

// Run executes the program's entry routine against a fresh cursor over stdin.
// Guest aborts and panics are returned as errors wrapping ErrGuestFault.
func Run(p *Program, stdin *Stdin) (exec *Execution, err error) {
	if p.Entry == nil {
		return nil, fmt.Errorf("program %s has no entry routine", p.ID())
	}
	if stdin == nil {
		stdin = NewStdin()
	}

	env := &Env{in: stdin.Reader(), out: &PublicValues{}}
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		exec = nil
		if f, ok := r.(guestFault); ok {
			err = fmt.Errorf("%w: %s: %w", ErrGuestFault, p.ID(), f.err)
			return
		}
		err = fmt.Errorf("%w: %s: panic: %v", ErrGuestFault, p.ID(), r)
	}()

	p.Entry(env)

	return &Execution{
		PublicValues: env.out,
		Reads:        env.in.Consumed(),
		Commits:      env.commits,
	}, nil
}
