package avl

// inlineStackSize covers the height of any AVL tree with fewer than
// roughly 3.5 million nodes, so ordinary paths never touch the heap.
const inlineStackSize = 32

// stack is a LIFO of tree frames. Frames live in an inline array while the
// stack is short; once it outgrows the array they are moved to a slice.
type stack[E any] struct {
	// a holds aLen frames while the stack fits. aLen is -1 once the
	// frames have spilled into s.
	a    [inlineStackSize]E
	aLen int
	s    []E
}

func (st *stack[E]) push(e E) {
	switch {
	case st.aLen == -1:
		st.s = append(st.s, e)
	case st.aLen == len(st.a):
		st.s = make([]E, st.aLen+1, 2*st.aLen)
		copy(st.s, st.a[:])
		st.s[st.aLen] = e
		st.aLen = -1
	default:
		st.a[st.aLen] = e
		st.aLen++
	}
}

// pop removes and returns the top frame. The stack must not be empty.
func (st *stack[E]) pop() E {
	var zero E

	if st.aLen == -1 {
		top := st.s[len(st.s)-1]
		st.s[len(st.s)-1] = zero
		st.s = st.s[:len(st.s)-1]

		return top
	}

	st.aLen--
	top := st.a[st.aLen]
	st.a[st.aLen] = zero

	return top
}

// peek returns the top frame without removing it. The stack must not be empty.
func (st *stack[E]) peek() E {
	if st.aLen == -1 {
		return st.s[len(st.s)-1]
	}

	return st.a[st.aLen-1]
}

func (st *stack[E]) len() int {
	if st.aLen == -1 {
		return len(st.s)
	}

	return st.aLen
}
