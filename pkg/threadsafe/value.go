package threadsafe

import "sync"

type Value[T any] struct {
	value T
	set   bool
	mux   *sync.Mutex
}

func NewValue[T any]() *Value[T] {
	return &Value[T]{
		mux: &sync.Mutex{},
	}
}

func (v *Value[T]) Get() (T, bool) {
	v.mux.Lock()
	defer v.mux.Unlock()
	return v.value, v.set
}

func (v *Value[T]) Set(value T) {
	v.mux.Lock()
	defer v.mux.Unlock()
	v.value = value
	v.set = true
}
