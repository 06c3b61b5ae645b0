// stack.go holds the codegen register-bookkeeping pool.
//
// The teacher's RPN compiler used this package as a plain string stack for
// its expression evaluation model. This language's codegen is
// memory-backed rather than RPN (spec.md §4.5), so the stack becomes the
// fixed pool of 8 scratch-register name slots spec.md §5 requires codegen
// to acquire and free as it emits each instruction.

package stack

import (
	"errors"
	"sync"
)

// names is the fixed pool codegen may draw scratch registers from. rax and
// rdx are listed first because idiv/cqo/setcc hard-wire the dividend,
// remainder and flag byte to those two on x86-64; codegen always acquires
// them in this order for instructions that need two registers at once.
var names = []string{"rax", "rdx", "rcx", "rbx", "rsi", "rdi", "r8", "r9"}

// Pool holds which of the 8 slots are currently acquired, protected by a
// mutex.
type Pool struct {
	lock  sync.Mutex
	inUse map[string]bool
}

// New returns a pool with all 8 slots free.
func New() *Pool {
	return &Pool{inUse: make(map[string]bool)}
}

// Acquire returns the first free register name, in canonical order.
func (p *Pool) Acquire() (string, error) {
	p.lock.Lock()
	defer p.lock.Unlock()

	for _, n := range names {
		if !p.inUse[n] {
			p.inUse[n] = true
			return n, nil
		}
	}
	return "", errors.New("no free scratch registers")
}

// Release returns name to the pool. Releasing a name that isn't currently
// acquired is a no-op.
func (p *Pool) Release(name string) {
	p.lock.Lock()
	defer p.lock.Unlock()

	delete(p.inUse, name)
}

// Empty reports whether every slot is currently acquired.
func (p *Pool) Empty() bool {
	p.lock.Lock()
	defer p.lock.Unlock()

	return len(p.inUse) == len(names)
}
