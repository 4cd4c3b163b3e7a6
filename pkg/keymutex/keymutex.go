package keymutex

import "sync"

// KeyMutex набор мьютексов по ключу
// Записи удаляются, когда ключ никем не удерживается, поэтому память не растёт
// с количеством уникальных ключей
type KeyMutex struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func New() *KeyMutex {
	return &KeyMutex{locks: make(map[string]*entry)}
}

// Lock захватывает мьютекс ключа и возвращает функцию освобождения
func (k *KeyMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

// WithLock выполняет fn под мьютексом ключа
// Мьютекс освобождается при выходе из fn, в том числе при панике
func (k *KeyMutex) WithLock(key string, fn func() error) error {
	unlock := k.Lock(key)
	defer unlock()
	return fn()
}

// Len количество ключей, которые сейчас удерживаются или ожидаются
func (k *KeyMutex) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
