// Package render gives memo slots a stable call-site identity across evaluation passes.
//
// An Instance stands for one mounted element of a rendering runtime. Each pass
// calls hooks such as UseMemo in the same order; the position of a call is its
// identity, and the slot at that position is reused on the next pass.
package render

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/google/uuid"

	"github.com/on-the-ground/memo_ive_go/pure"
)

var (
	ErrHookOrderChanged = errors.New("hooks called in a different order than during the previous pass")
	ErrReentrantRender  = errors.New("render called while a pass is in progress")
	ErrUnmounted        = errors.New("instance is unmounted")
)

// Instance owns the hook slots of one element. It is not safe for concurrent use.
type Instance struct {
	ID   string
	Name string

	hooks     []hook
	passes    int
	rendering bool
	unmounted bool
	opts      []pure.SlotOption
}

type hook struct {
	slot *pure.MemoSlot[any]
	// type of the value first stored at this position
	typ reflect.Type
}

// NewInstance mounts an element. opts apply to every memo slot it creates.
func NewInstance(name string, opts ...pure.SlotOption) *Instance {
	return &Instance{
		ID:   uuid.New().String(),
		Name: name,
		opts: opts,
	}
}

// Pass is the handle hooks receive during one evaluation pass.
type Pass struct {
	inst   *Instance
	cursor int
}

// Render runs one evaluation pass.
//
// The first completed pass fixes the number and kinds of hooks. Any later pass
// that calls a different number of hooks, or hooks of other types, fails with
// ErrHookOrderChanged. Slots created by a failed first pass are discarded.
func (in *Instance) Render(fn func(*Pass) error) (err error) {
	if in.unmounted {
		return fmt.Errorf("%w: %s", ErrUnmounted, in.Name)
	}
	if in.rendering {
		return fmt.Errorf("%w: %s", ErrReentrantRender, in.Name)
	}
	in.rendering = true
	defer func() {
		in.rendering = false
		if in.passes == 0 {
			// nothing is mounted until a first pass completes
			in.hooks = nil
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			if rErr, ok := r.(error); ok && errors.Is(rErr, ErrHookOrderChanged) {
				err = rErr
				return
			}
			panic(r) // re-raise the panic if it's not a hook order violation
		}
	}()

	p := &Pass{inst: in}
	if err := fn(p); err != nil {
		return err
	}

	if in.passes > 0 && p.cursor != len(in.hooks) {
		return fmt.Errorf("%w: %s rendered %d hooks, previously %d", ErrHookOrderChanged, in.Name, p.cursor, len(in.hooks))
	}
	in.passes++
	return nil
}

// Passes returns the number of completed passes.
func (in *Instance) Passes() int { return in.passes }

// Unmount releases every slot. Further renders fail with ErrUnmounted.
func (in *Instance) Unmount() {
	for _, h := range in.hooks {
		h.slot.Reset()
	}
	in.hooks = nil
	in.unmounted = true
}

// next returns the slot for the current hook position, creating it on the first pass.
func (p *Pass) next(typ reflect.Type) *pure.MemoSlot[any] {
	in := p.inst
	idx := p.cursor
	p.cursor++

	if idx < len(in.hooks) {
		h := in.hooks[idx]
		if h.typ != typ {
			panic(fmt.Errorf("%w: %s hook #%d was %v, now %v", ErrHookOrderChanged, in.Name, idx, h.typ, typ))
		}
		return h.slot
	}
	if in.passes > 0 {
		panic(fmt.Errorf("%w: %s rendered more hooks than during the previous pass", ErrHookOrderChanged, in.Name))
	}
	h := hook{slot: pure.NewMemoSlot[any](in.opts...), typ: typ}
	in.hooks = append(in.hooks, h)
	return h.slot
}
